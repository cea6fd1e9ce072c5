// Package demo holds the sample tables and the walkthrough shared by the
// root binary and cmd/datatable.
package demo

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/leengari/datatable/internal/domain/data"
	"github.com/leengari/datatable/internal/engine"
	"github.com/leengari/datatable/internal/query/operations"
	"github.com/leengari/datatable/internal/query/operations/join"
	"github.com/leengari/datatable/internal/render"
)

// Trades returns a small trade tape keyed by nothing
func Trades(opts ...engine.TableOption) (*engine.Table, error) {
	opts = append([]engine.TableOption{engine.Named("trades")}, opts...)
	return engine.FromColumns([]engine.Column{
		engine.Col("sym", []string{"AAPL", "MSFT", "AAPL", "MSFT", "AAPL", "GOOG"}),
		engine.Col("ts", []int{3, 4, 6, 9, 11, 12}),
		engine.Col("qty", []int{100, 250, 40, 500, 300, 75}),
	}, opts...)
}

// Quotes returns bid quotes for the trade tape
func Quotes(opts ...engine.TableOption) (*engine.Table, error) {
	opts = append([]engine.TableOption{engine.Named("quotes")}, opts...)
	return engine.FromColumns([]engine.Column{
		engine.Col("sym", []string{"AAPL", "AAPL", "AAPL", "MSFT", "MSFT"}),
		engine.Col("ts", []int{1, 5, 10, 2, 8}),
		engine.Col("bid", []float64{189.5, 190.1, 189.9, 410.0, 412.3}),
	}, opts...)
}

// Print writes t through f
func Print(f render.Formatter, t *engine.Table) error {
	names := t.Columns()
	rows := make([][]any, 0, t.NumRows())
	for _, rec := range t.Records() {
		row := make([]any, len(names))
		for i, name := range names {
			row[i] = rec[name]
		}
		rows = append(rows, row)
	}
	return f.Format(names, rows)
}

// Run builds the sample tables and prints a filter, a grouped aggregation
// and a rolling join.
func Run(w io.Writer, f render.Formatter, logger *slog.Logger, opts ...engine.TableOption) error {
	opts = append(opts, engine.WithObservers(engine.NewLoggingObserver(logger)))

	trades, err := Trades(opts...)
	if err != nil {
		return fmt.Errorf("failed to build trades: %w", err)
	}
	quotes, err := Quotes(opts...)
	if err != nil {
		return fmt.Errorf("failed to build quotes: %w", err)
	}
	if err := quotes.SetKey("sym", "ts"); err != nil {
		return err
	}

	large, err := trades.Query(
		operations.Where(func(r data.Row) bool { return r.Float("qty") >= 100 }),
		operations.OrderBy("-qty"),
	)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "Trades with qty >= 100")
	if err := Print(f, large); err != nil {
		return err
	}

	bySym, err := trades.Query(
		operations.KeyBy("sym"),
		operations.Count("n"),
		operations.Assign("total_qty", func(g *operations.GroupContext) any { return g.Sum("qty") }),
		operations.Assign("last_ts", func(g *operations.GroupContext) any { return g.Last("ts") }),
	)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "\nVolume by symbol")
	if err := Print(f, bySym); err != nil {
		return err
	}

	asOf, err := trades.RollingJoin(quotes, join.RollSpec{
		On:        []string{"sym", "ts"},
		Direction: join.Backward,
		Type:      join.JoinTypeLeft,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "\nTrades with prevailing bid")
	return Print(f, asOf)
}
