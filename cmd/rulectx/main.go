package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/rulectx/rulectx/internal/cli"
	"github.com/rulectx/rulectx/pkg/version"
)

func main() {
	err := fang.Execute(context.Background(), cli.NewRootCmd(),
		fang.WithErrorHandler(cli.ErrorHandler),
		fang.WithVersion(version.GetVersion()),
		fang.WithNotifySignal(os.Interrupt),
	)
	if err != nil {
		os.Exit(1)
	}
}
