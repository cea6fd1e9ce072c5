package engine

import "time"

// EventType represents different lifecycle phases of a table operation
type EventType string

const (
	EventQueryStart   EventType = "query_start"
	EventQueryEnd     EventType = "query_end"
	EventSetStart     EventType = "set_start"
	EventSetEnd       EventType = "set_end"
	EventJoinStart    EventType = "join_start"
	EventJoinEnd      EventType = "join_end"
	EventReshapeStart EventType = "reshape_start"
	EventReshapeEnd   EventType = "reshape_end"
	EventIndexBuilt   EventType = "index_built"
	EventRowsAppended EventType = "rows_appended"
)

// Event represents a lifecycle event of a table operation
type Event struct {
	Type      EventType // Type of event
	OpID      string    // Operation ID for tracing
	TableID   string    // ID of the table the operation ran on
	Timestamp time.Time // When the event occurred
	Data      any       // Phase-specific data (row counts, columns, error)
}

// Observer interface for event subscribers
// Observers receive events at the start and end of every operation
type Observer interface {
	OnEvent(event Event)
}
