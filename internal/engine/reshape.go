package engine

import (
	"github.com/leengari/datatable/internal/domain/transaction"
	"github.com/leengari/datatable/internal/query/operations/reshape"
	"github.com/leengari/datatable/internal/storage/columnstore"
)

func (t *Table) runReshape(kind string, exec func() (*columnstore.Store, error)) (*Table, error) {
	tx := transaction.NewTransaction(kind)
	defer tx.Close()
	t.notify(Event{Type: EventReshapeStart, OpID: tx.ID, Data: kind})

	store, err := exec()
	if err != nil {
		t.notify(Event{Type: EventReshapeEnd, OpID: tx.ID, Data: err})
		return nil, err
	}
	t.notify(Event{Type: EventReshapeEnd, OpID: tx.ID, Data: map[string]any{
		"reshape":       kind,
		"rows_returned": store.NumRows(),
	}})
	return t.derive(store), nil
}

// Melt converts measure columns into variable/value rows
func (t *Table) Melt(ids, measures []string, opts reshape.MeltOptions) (*Table, error) {
	return t.runReshape("melt", func() (*columnstore.Store, error) {
		return reshape.Melt(t.store, ids, measures, opts)
	})
}

// Dcast spreads the variable column into one column per distinct value
func (t *Table) Dcast(ids []string, variable, value string, opts reshape.DcastOptions) (*Table, error) {
	return t.runReshape("dcast", func() (*columnstore.Store, error) {
		return reshape.Dcast(t.store, ids, variable, value, opts)
	})
}
