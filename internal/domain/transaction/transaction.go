package transaction

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// seqCounter is an atomic counter ordering operations within a process
var seqCounter uint64

// ChangeType represents the kind of modification an operation made
type ChangeType string

const (
	ChangeTypeAdd       ChangeType = "ADD"       // new column
	ChangeTypeOverwrite ChangeType = "OVERWRITE" // existing column rewritten
	ChangeTypeRemove    ChangeType = "REMOVE"    // column dropped
	ChangeTypeReorder   ChangeType = "REORDER"   // rows physically reordered
	ChangeTypeAppend    ChangeType = "APPEND"    // rows appended
)

// Change represents a single modification within an operation
type Change struct {
	Type   ChangeType
	Table  string
	Column string // empty for row-level changes
	Rows   int    // rows affected, for appends
}

// Transaction is the trace context of one table operation (query, set,
// join, reshape, ...). It carries a unique ID for correlating lifecycle
// events and records the changes a mutating operation made.
type Transaction struct {
	ID        string    // Unique operation identifier (UUID)
	Seq       uint64    // Process-local sequence number
	Op        string    // Operation name, e.g. "query", "set"
	Active    bool      // Whether the operation is still running
	StartTime time.Time // When the operation began
	Duration  time.Duration
	Changes   []Change // Modifications made
}

// NewTransaction creates a new operation context with a unique ID
func NewTransaction(op string) *Transaction {
	return &Transaction{
		ID:        uuid.New().String(),
		Seq:       atomic.AddUint64(&seqCounter, 1),
		Op:        op,
		Active:    true,
		StartTime: time.Now(),
		Changes:   make([]Change, 0),
	}
}

// Record appends a change
func (tx *Transaction) Record(change Change) {
	tx.Changes = append(tx.Changes, change)
}

// Close marks the operation as finished and stores its duration
func (tx *Transaction) Close() {
	if !tx.Active {
		return
	}
	tx.Active = false
	tx.Duration = time.Since(tx.StartTime)
}
