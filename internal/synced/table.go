// Package synced mirrors a remote table into an in-memory ordered snapshot:
// initial bulk load with a one-time seed, change-feed driven reconciliation,
// and write-through mutations that reflect locally only after the remote
// write succeeds.
package synced

import "context"

// EventKind is the kind of row-level change a table reports.
type EventKind string

const (
	EventInsert EventKind = "insert"
	EventUpdate EventKind = "update"
	EventDelete EventKind = "delete"
)

// Event is one change-feed notification. The payload identifies what changed
// for logging only; a Collection treats any event purely as an invalidation
// signal and re-fetches the authoritative ordered set.
type Event struct {
	Table string
	Kind  EventKind
	ID    string
}

// Record is the constraint a mirrored record type satisfies. Records are
// pointer types; Clone returns an independent copy so snapshot entries are
// never aliased by callers.
type Record[T any] interface {
	RecordID() string
	SetRecordID(id string)
	Validate() error
	Clone() T
}

// Table is the remote-table surface a Collection consumes: ordered select,
// insert, update-by-id, delete-by-id, and a change-feed subscription. The
// store package provides SQLite-backed implementations.
type Table[T Record[T]] interface {
	// Name identifies the backing table for logs and events.
	Name() string

	// SelectAll returns the full table in its natural order.
	SelectAll(ctx context.Context) ([]T, error)

	// Insert writes one record.
	Insert(ctx context.Context, rec T) error

	// BulkInsert writes the records in one batch. Used for the seed set.
	BulkInsert(ctx context.Context, recs []T) error

	// Update replaces the row matching rec's identifier with rec's fields.
	Update(ctx context.Context, rec T) error

	// Delete removes the row with the given identifier.
	Delete(ctx context.Context, id string) error

	// Subscribe opens a change feed for all event kinds on this table.
	// The returned cancel releases the feed and closes the channel; it is
	// safe to call more than once.
	Subscribe() (<-chan Event, func())
}
