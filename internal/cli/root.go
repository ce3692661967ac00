// Package cli implements the playnotes command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/playnotes/internal/config"
	"github.com/mesh-intelligence/playnotes/internal/paths"
	"github.com/mesh-intelligence/playnotes/internal/sqlite"
	"github.com/mesh-intelligence/playnotes/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
}

var flags rootFlags

// NewRootCmd creates the top-level "playnotes" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "playnotes",
		Short: "A note store with deduplicated playlist cells",
		Long: "playnotes keeps one sheet of notes per user and serves a single JSON\n" +
			"endpoint to create notes, check them, and append tracks to their playlists.",
		Version: Version,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: platform config dir, or $"+paths.EnvConfigDir+")")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/"+paths.DefaultDataDirName+")")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newCallCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newImportCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
	os.Exit(exitSuccess)
}

// sysError marks failures of the environment (storage, network) as opposed
// to bad input.
type sysError struct{ err error }

func (e *sysError) Error() string { return e.err.Error() }
func (e *sysError) Unwrap() error { return e.err }

func exitCode(err error) int {
	var se *sysError
	if errors.As(err, &se) {
		return exitSysError
	}
	return exitUserError
}

// loadConfig resolves the config directory and loads a validated Config.
func loadConfig() (types.Config, error) {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return types.Config{}, &sysError{fmt.Errorf("resolve config dir: %w", err)}
	}
	cfg, err := config.Load(configDir, flags.dataDir)
	if err != nil {
		return types.Config{}, &sysError{err}
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// openBackend attaches the store described by cfg and creates the
// workbooks of configured users.
func openBackend(cfg types.Config) (*sqlite.Backend, error) {
	backend := sqlite.NewBackend()
	if err := backend.Attach(cfg); err != nil {
		return nil, &sysError{fmt.Errorf("attach store: %w", err)}
	}
	if _, err := backend.SeedWorkbooks(cfg.Users); err != nil {
		backend.Detach()
		return nil, &sysError{err}
	}
	return backend, nil
}

// userWorkbook returns the workbook configured for user.
func userWorkbook(cfg types.Config, user string) (string, error) {
	if user == "" {
		return "", errors.New("--user is required")
	}
	wb, ok := cfg.UserWorkbooks()[user]
	if !ok {
		return "", fmt.Errorf("unknown user %q", user)
	}
	return wb, nil
}
