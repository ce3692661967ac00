package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/playnotes/internal/paths"
	"github.com/mesh-intelligence/playnotes/pkg/types"
)

func newInitCmd() *cobra.Command {
	var (
		users  []string
		listen string
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize playnotes configuration and storage",
		Long: "Write config.yaml when it does not exist yet, then create the data\n" +
			"directory and the workbook of every configured user.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, users, listen)
		},
	}
	cmd.Flags().StringSliceVar(&users, "user", nil, "user to serve, as name=workbook (repeatable)")
	cmd.Flags().StringVar(&listen, "listen", types.DefaultListen, "HTTP listen address written to config.yaml")
	return cmd
}

func runInit(cmd *cobra.Command, userSpecs []string, listen string) error {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return &sysError{fmt.Errorf("resolve config dir: %w", err)}
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return &sysError{fmt.Errorf("create config directory: %w", err)}
	}

	users, err := parseUsers(userSpecs)
	if err != nil {
		return err
	}
	written, err := writeConfigIfMissing(paths.ConfigFile(configDir), types.Config{
		Backend:   types.BackendSQLite,
		DataDir:   flags.dataDir,
		Listen:    listen,
		SheetName: types.DefaultSheetName,
		Timezone:  types.DefaultTimezone,
		LogLevel:  types.DefaultLogLevel,
		Users:     users,
	})
	if err != nil {
		return &sysError{fmt.Errorf("write config: %w", err)}
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	backend, err := openBackend(cfg)
	if err != nil {
		return err
	}
	if err := backend.Detach(); err != nil {
		return &sysError{fmt.Errorf("finalize storage: %w", err)}
	}

	out := cmd.OutOrStdout()
	if written {
		fmt.Fprintf(out, "wrote %s\n", paths.ConfigFile(configDir))
	}
	fmt.Fprintf(out, "playnotes initialized in %s (%d users)\n", cfg.DataDir, len(cfg.Users))
	return nil
}

// parseUsers parses name=workbook pairs.
func parseUsers(specs []string) ([]types.UserConfig, error) {
	users := make([]types.UserConfig, 0, len(specs))
	for _, spec := range specs {
		name, workbook, ok := strings.Cut(spec, "=")
		name, workbook = strings.TrimSpace(name), strings.TrimSpace(workbook)
		if !ok || name == "" || workbook == "" {
			return nil, fmt.Errorf("invalid --user %q: want name=workbook", spec)
		}
		users = append(users, types.UserConfig{Name: name, Workbook: workbook})
	}
	return users, nil
}

// writeConfigIfMissing creates config.yaml from cfg if the file does not
// exist and reports whether it wrote the file.
func writeConfigIfMissing(path string, cfg types.Config) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}
