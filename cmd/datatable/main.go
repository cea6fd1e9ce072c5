package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/leengari/datatable/internal/demo"
	"github.com/leengari/datatable/internal/domain/schema"
	"github.com/leengari/datatable/internal/engine"
	"github.com/leengari/datatable/internal/ingest"
	"github.com/leengari/datatable/internal/logging"
	"github.com/leengari/datatable/internal/query/operations"
	"github.com/leengari/datatable/internal/render"
)

func main() {
	input := flag.String("input", "", "Parquet file or glob to load (built-in sample when empty)")
	by := flag.String("by", "", "Comma-separated columns to count rows by")
	head := flag.Int("head", 10, "Rows of the loaded table to print")
	format := flag.String("format", "text", "Output format: text or json")
	flag.Parse()

	logOpts := logging.OptionsFromEnv()
	logger, closeFn := logging.SetupLogger(logOpts)
	defer closeFn()
	slog.SetDefault(logger)

	cfg, err := engine.ConfigFromEnv()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		closeFn()
		os.Exit(1)
	}
	cfg.Logger = logger

	var formatter render.Formatter
	switch *format {
	case "text":
		formatter = render.NewTextFormatter(os.Stdout)
	case "json":
		formatter = render.NewJSONFormatter(os.Stdout)
	default:
		logger.Error("unknown output format", "format", *format)
		closeFn()
		os.Exit(2)
	}

	opts := []engine.TableOption{engine.Configure(engine.WithConfig(cfg))}

	if *input == "" {
		if err := demo.Run(os.Stdout, formatter, logger, opts...); err != nil {
			logger.Error("demo failed", "error", err)
			closeFn()
			os.Exit(1)
		}
		return
	}

	if err := runFile(*input, *by, *head, formatter, logger, opts); err != nil {
		logger.Error("run failed", "input", *input, "error", err)
		closeFn()
		os.Exit(1)
	}
}

func runFile(input, by string, head int, f render.Formatter, logger *slog.Logger, opts []engine.TableOption) error {
	records, columns, err := ingest.Load(input, logger)
	if err != nil {
		return err
	}

	declared := make([]schema.Column, len(columns))
	for i, name := range columns {
		declared[i] = schema.Column{Name: name}
	}
	opts = append(opts, engine.Named("input"), engine.WithSchema(declared...),
		engine.WithObservers(engine.NewLoggingObserver(logger)))

	t, err := engine.FromRows(records, opts...)
	if err != nil {
		return err
	}
	fmt.Printf("Loaded %d rows x %d columns\n", t.NumRows(), t.NumCols())

	preview, err := t.Query(operations.Head(head))
	if err != nil {
		return err
	}
	if err := demo.Print(f, preview); err != nil {
		return err
	}

	if by != "" {
		counts, err := t.Query(
			operations.KeyBy(strings.Split(by, ",")...),
			operations.Count("n"),
		)
		if err != nil {
			return err
		}
		fmt.Printf("\nRows by %s\n", by)
		if err := demo.Print(f, counts); err != nil {
			return err
		}
	}

	return nil
}
