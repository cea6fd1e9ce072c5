package operations

import (
	"log/slog"

	"github.com/leengari/datatable/internal/query/indexing"
	"github.com/leengari/datatable/internal/storage/columnstore"
)

// Env is everything an evaluation needs from its table
type Env struct {
	Store             *columnstore.Store
	Indexes           *indexing.Manager
	AutoIndex         bool
	Workers           int
	ParallelThreshold int
	Logger            *slog.Logger
}

func (e Env) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

func (e Env) indexes() *indexing.Manager {
	if e.Indexes == nil {
		return indexing.NewManager(e.logger())
	}
	return e.Indexes
}
