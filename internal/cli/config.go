package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rulectx/rulectx/pkg/config"
)

// NewConfigCmd groups configuration maintenance commands.
func NewConfigCmd(ra *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or initialize the configuration",
	}

	cmd.AddCommand(newConfigShowCmd(ra))
	cmd.AddCommand(newConfigInitCmd(ra))

	return cmd
}

func newConfigShowCmd(ra *RootArgs) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the active configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(ra)
			if err != nil {
				return err
			}

			data, err := cfg.MarshalYAML()
			if err != nil {
				return fmt.Errorf("marshal config yaml: %w", err)
			}

			mustN(fmt.Fprint(cmd.OutOrStdout(), string(data)))

			return nil
		},
	}
}

func newConfigInitCmd(ra *RootArgs) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration files",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			configPath := ra.ConfigPath
			if configPath == "" {
				configPath = config.GetPath()
			}

			return config.WriteDefaultConfig(configPath, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Back up and replace an existing configuration")

	return cmd
}
