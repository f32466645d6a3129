package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rulectx/rulectx/pkg/log"
	"github.com/rulectx/rulectx/pkg/tracing"
)

const (
	cmdName = "rulectx"
	cmdDesc = `Context-aware rule selection for AI assistant prompts.`
)

type RootArgs struct {
	LogLevel      string
	LogFormat     string
	ConfigPath    string
	TraceEndpoint string

	traceShutdown func() error
}

func NewRootArgs() *RootArgs {
	return &RootArgs{}
}

func (ra *RootArgs) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVar(&ra.LogLevel, "log-level", "info", fmt.Sprintf("Log level, one of: %s", log.AllLevels))
	cmd.PersistentFlags().
		StringVar(&ra.LogFormat, "log-format", "text", fmt.Sprintf("Log format, one of: %s", log.AllFormats))
	cmd.PersistentFlags().
		StringVar(&ra.ConfigPath, "config", "", "Path to the rulectx configuration file")
	cmd.PersistentFlags().
		StringVar(&ra.TraceEndpoint, "otlp-endpoint", "", "OTLP gRPC endpoint for trace export")

	var err error

	err = cmd.RegisterFlagCompletionFunc("log-format",
		cobra.FixedCompletions(log.AllFormats, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	err = cmd.RegisterFlagCompletionFunc("log-level",
		cobra.FixedCompletions(log.AllLevels, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	err = cmd.MarkPersistentFlagFilename("config", "yaml", "yml")
	if err != nil {
		panic(fmt.Errorf("mark config flag: %w", err))
	}
}

func NewRootCmd() *cobra.Command {
	args := NewRootArgs()
	runArgs := NewRunArgs(args)

	runCmd := NewRunCmd(runArgs)
	cmd := &cobra.Command{
		Use:                cmdName,
		Short:              cmdDesc,
		Example:            cmdExamples,
		PersistentPreRunE:  setup(args),
		PersistentPostRunE: teardown(args),
		Args:               runCmd.Args,
		RunE:               runCmd.RunE,
	}

	args.AddFlags(cmd)
	runArgs.AddFlags(cmd)
	cmd.AddCommand(runCmd)
	cmd.AddCommand(NewMCPCmd(args))
	cmd.AddCommand(NewConfigCmd(args))

	bindEnvVars(cmd)

	return cmd
}

func setup(ra *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		logHandler, err := log.CreateHandlerWithStrings(cmd.ErrOrStderr(), ra.LogLevel, ra.LogFormat)
		if err != nil {
			return fmt.Errorf("create log handler: %w", err)
		}

		slog.SetDefault(slog.New(logHandler))

		shutdown, err := tracing.Setup(cmd.Context(), ra.TraceEndpoint)
		if err != nil {
			return fmt.Errorf("set up tracing: %w", err)
		}

		ctx := cmd.Context()
		ra.traceShutdown = func() error { return shutdown(ctx) }

		return nil
	}
}

func teardown(ra *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(_ *cobra.Command, _ []string) error {
		if ra.traceShutdown == nil {
			return nil
		}

		err := ra.traceShutdown()
		if err != nil {
			slog.Warn("flush traces", slog.Any("error", err))
		}

		return nil
	}
}
