package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rulectx/rulectx/pkg/engine"
	"github.com/rulectx/rulectx/pkg/mcp"
)

// NewMCPCmd serves the selection pipeline over the Model Context Protocol.
func NewMCPCmd(ra *RootArgs) *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve rule selection over the Model Context Protocol",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(ra)
			if err != nil {
				return err
			}

			eng, holder, err := engine.FromConfig(cfg)
			if err != nil {
				return fmt.Errorf("initialize engine: %w", err)
			}

			if cfg.Rules.Watch {
				err = holder.Watch(cmd.Context())
				if err != nil {
					return fmt.Errorf("watch rule index: %w", err)
				}
			}

			detector, err := engine.DetectorFromConfig(cfg)
			if err != nil {
				return err
			}

			server := mcp.NewServer(address, eng, detector)

			return server.Serve(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "Serve MCP over HTTP at this address instead of stdio")

	bindEnvVars(cmd)

	return cmd
}
