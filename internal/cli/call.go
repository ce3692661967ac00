package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/playnotes/internal/dispatch"
)

func newCallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "call [json|-]",
		Short: "Run one request against the local store",
		Long: "Dispatch a single JSON request, as it would be posted to the endpoint,\n" +
			"and print the response envelope. The request is read from stdin when\n" +
			"the argument is \"-\" or missing.",
		Args: cobra.MaximumNArgs(1),
		RunE: runCall,
	}
}

func runCall(cmd *cobra.Command, args []string) error {
	var body []byte
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read request: %w", err)
		}
		body = data
	} else {
		body = []byte(args[0])
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg.LogLevel, false)

	backend, err := openBackend(cfg)
	if err != nil {
		return err
	}
	defer backend.Detach()

	d, err := dispatch.New(backend, cfg, dispatch.WithLogger(logger))
	if err != nil {
		return err
	}

	resp := d.DispatchJSON(body)
	out, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))

	if !resp.OK {
		return fmt.Errorf("request failed: %s", resp.Error)
	}
	return nil
}
