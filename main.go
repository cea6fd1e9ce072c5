package main

import (
	"os"

	"github.com/leengari/datatable/internal/demo"
	"github.com/leengari/datatable/internal/engine"
	"github.com/leengari/datatable/internal/logging"
	"github.com/leengari/datatable/internal/render"
)

func main() {
	logger, closeFn := logging.SetupLogger(logging.OptionsFromEnv())
	defer closeFn()

	logger.Info("Starting datatable sample...")

	err := demo.Run(os.Stdout, render.NewTextFormatter(os.Stdout), logger,
		engine.Configure(engine.WithLogger(logger), engine.WithAutoIndex(true)))
	if err != nil {
		logger.Error("sample failed", "error", err)
		closeFn()
		os.Exit(1)
	}
}
