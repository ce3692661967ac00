package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var user, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a user's note sheet to JSONL",
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return errors.New("--out is required")
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			workbook, err := userWorkbook(cfg, user)
			if err != nil {
				return err
			}
			backend, err := openBackend(cfg)
			if err != nil {
				return err
			}
			defer backend.Detach()

			n, err := backend.ExportSheet(workbook, cfg.SheetName, out)
			if err != nil {
				return fmt.Errorf("export %s: %w", user, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d rows to %s\n", n, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "user whose sheet to export")
	cmd.Flags().StringVar(&out, "out", "", "output JSONL file")
	return cmd
}

func newImportCmd() *cobra.Command {
	var user, in string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace a user's note sheet with a JSONL export",
		RunE: func(cmd *cobra.Command, args []string) error {
			if in == "" {
				return errors.New("--in is required")
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			workbook, err := userWorkbook(cfg, user)
			if err != nil {
				return err
			}
			backend, err := openBackend(cfg)
			if err != nil {
				return err
			}
			defer backend.Detach()

			n, err := backend.ImportSheet(workbook, cfg.SheetName, in)
			if err != nil {
				return fmt.Errorf("import %s: %w", user, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d rows from %s\n", n, in)
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "user whose sheet to replace")
	cmd.Flags().StringVar(&in, "in", "", "input JSONL file")
	return cmd
}
