package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rulectx/rulectx/pkg/config"
	"github.com/rulectx/rulectx/pkg/engine"
)

const cmdExamples = `  # Select rules for a prompt against the current directory:
  rulectx run . "Implement a new API endpoint for user signup"

  # Shorthand, prompt only:
  rulectx "Fix the authentication bug in auth.py"

  # Metadata as JSON instead of injectable text:
  rulectx run . "Add caching to the session store" --json

  # Bypass the document cache:
  rulectx run . "Review this pull request" --no-cache

  # Serve the selection pipeline over MCP:
  rulectx mcp`

type RunArgs struct {
	*RootArgs

	Dir     string
	Prompt  string
	JSON    bool
	NoCache bool
}

func NewRunArgs(rootArgs *RootArgs) *RunArgs {
	return &RunArgs{
		RootArgs: rootArgs,
	}
}

func (ra *RunArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&ra.JSON, "json", false, "Print the full result as JSON")
	cmd.Flags().BoolVar(&ra.NoCache, "no-cache", false, "Bypass the rule document cache")
}

func NewRunCmd(ra *RunArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "run [dir] [prompt...]",
		Short:   "Select and print the rules relevant to a prompt",
		Example: cmdExamples,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// A leading directory argument is optional; everything else
			// is the prompt.
			dir := "."
			promptArgs := args

			if len(args) > 1 {
				if info, err := os.Stat(args[0]); err == nil && info.IsDir() {
					dir = args[0]
					promptArgs = args[1:]
				}
			}

			ra.Dir = dir
			ra.Prompt = strings.Join(promptArgs, " ")

			return run(cmd, ra)
		},
	}
	ra.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

func run(cmd *cobra.Command, ra *RunArgs) error {
	cfg, err := loadConfig(ra.RootArgs)
	if err != nil {
		return err
	}

	if ra.NoCache {
		disabled := false
		cfg.Cache.Enabled = &disabled
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

	res := eng.Run(cmd.Context(), ra.Prompt, ra.Dir)

	if ra.JSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")

		err := enc.Encode(res)
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}

		return nil
	}

	if res.Injected != "" {
		mustN(fmt.Fprintln(cmd.OutOrStdout(), res.Injected))
	}

	printSummary(cmd, res)

	return nil
}

// printSummary writes a one-line selection summary to stderr, styled only
// when stderr is a terminal.
func printSummary(cmd *cobra.Command, res *engine.Result) {
	summary := fmt.Sprintf("%s | %d rules | ~%s tokens",
		res.Metadata.Category,
		res.Metadata.RulesLoaded,
		humanize.Comma(int64(res.Metadata.TotalTokens)),
	)

	if res.Metadata.Reason != "" {
		summary += " | " + res.Metadata.Reason
	}

	if term.IsTerminal(int(os.Stderr.Fd())) {
		out := termenv.NewOutput(os.Stderr)
		summary = out.String(summary).Faint().String()
	}

	mustN(fmt.Fprintln(cmd.ErrOrStderr(), summary))
}

// loadConfig resolves the config path, seeds the default files on first
// use, and loads the active configuration. A missing or unreadable file
// falls back to defaults; an invalid one is fatal.
func loadConfig(ra *RootArgs) (*config.Config, error) {
	configPath := ra.ConfigPath
	if configPath == "" {
		configPath = config.GetPath()
	}

	err := config.WriteDefaultConfig(configPath, false)
	if err != nil {
		slog.Debug("write default config", slog.Any("error", err))
	}

	cl, err := config.NewConfigLoaderFromFile(configPath)
	if err != nil {
		slog.Warn("could not read config, using defaults", slog.Any("error", err))

		return config.NewConfig(), nil
	}

	err = cl.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", configPath, err)
	}

	cfg, err := cl.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", configPath, err)
	}

	return cfg, nil
}
