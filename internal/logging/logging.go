package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	slogseq "github.com/sokkalf/slog-seq"
)

// multiHandler forwards log records to multiple handlers
type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	// Enable if any handler is enabled for this level
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if err := h.Handle(ctx, r.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: handlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: handlers}
}

// Options selects the log level and sinks
type Options struct {
	Level     slog.Level
	SeqURL    string // empty disables the Seq sink
	AddSource bool
	Output    io.Writer // console sink, os.Stderr when nil
}

// OptionsFromEnv reads DATATABLE_LOG_LEVEL (debug, info, warn, error) and
// DATATABLE_SEQ_URL.
func OptionsFromEnv() Options {
	opts := Options{Level: slog.LevelInfo, SeqURL: os.Getenv("DATATABLE_SEQ_URL")}
	if lvl := os.Getenv("DATATABLE_LOG_LEVEL"); lvl != "" {
		if err := opts.Level.UnmarshalText([]byte(lvl)); err != nil {
			opts.Level = slog.LevelInfo
		}
	}
	return opts
}

// SetupLogger builds the console logger, fanned out to Seq when a URL is
// configured, and returns a cleanup function that flushes Seq.
func SetupLogger(opts Options) (*slog.Logger, func()) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	handlerOpts := &slog.HandlerOptions{
		Level:     opts.Level,
		AddSource: opts.AddSource,
	}

	consoleHandler := slog.NewTextHandler(out, handlerOpts)
	if opts.SeqURL == "" {
		return slog.New(consoleHandler), func() {}
	}

	_, seqHandler := slogseq.NewLogger(
		opts.SeqURL,
		slogseq.WithBatchSize(1),
		slogseq.WithFlushInterval(500*time.Millisecond),
		slogseq.WithHandlerOptions(handlerOpts),
	)

	// If Seq is not available, use console only
	if seqHandler == nil {
		return slog.New(consoleHandler), func() {}
	}

	multi := &multiHandler{
		handlers: []slog.Handler{consoleHandler, seqHandler},
	}

	return slog.New(multi), func() { seqHandler.Close() }
}
