// Package store is the persistence/notification service backing the synced
// collections: three SQLite tables (tools, requests, waitlist) with ordered
// selects, id-keyed writes, and an in-process change feed that broadcasts
// row-level events to every subscriber of a table.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"snapai/internal/logging"
	"snapai/internal/synced"
)

// Store owns the SQLite database and the change-feed hub.
type Store struct {
	db     *sql.DB
	dbPath string
	feed   *hub
}

// NewStore initializes the SQLite database at the given path. ":memory:" is
// accepted for tests.
func NewStore(path string) (*Store, error) {
	timer := logging.StartTimer(logging.CategoryStore, "NewStore")
	defer timer.Stop()

	logging.Store("Initializing store at path: %s", path)

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.StoreDebug("Failed to set sqlite busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite journal_mode=WAL: %v", err)
	}

	s := &Store{db: db, dbPath: path, feed: newHub()}
	if err := s.initialize(); err != nil {
		logging.StoreError("Failed to initialize schema: %v", err)
		db.Close()
		return nil, err
	}
	logging.StoreDebug("Database schema initialized successfully")

	return s, nil
}

// initialize creates the required tables. The legacy button_name/button_link
// columns are kept so rows written by the old single-button admin form still
// load; they are normalized into the buttons JSON at scan time.
func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS tools (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		icon TEXT NOT NULL DEFAULT '',
		launch_days TEXT NOT NULL DEFAULT '',
		buttons TEXT NOT NULL DEFAULT '[]',
		button_name TEXT NOT NULL DEFAULT '',
		button_link TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_tools_created ON tools(created_at);

	CREATE TABLE IF NOT EXISTS requests (
		id TEXT PRIMARY KEY,
		tool_name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL,
		email TEXT NOT NULL,
		submitted_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_requests_submitted ON requests(submitted_at);

	CREATE TABLE IF NOT EXISTS waitlist (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		joined_at TEXT NOT NULL
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_waitlist_email ON waitlist(lower(email));
	CREATE INDEX IF NOT EXISTS idx_waitlist_joined ON waitlist(joined_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database. Open feed subscriptions are shut down first so
// no subscriber blocks on a dead store.
func (s *Store) Close() error {
	s.feed.closeAll()
	return s.db.Close()
}

// Tools returns the tools table surface.
func (s *Store) Tools() *ToolsTable { return &ToolsTable{s: s} }

// Requests returns the requests table surface.
func (s *Store) Requests() *RequestsTable { return &RequestsTable{s: s} }

// Waitlist returns the waitlist table surface.
func (s *Store) Waitlist() *WaitlistTable { return &WaitlistTable{s: s} }

// =============================================================================
// CHANGE FEED HUB
// =============================================================================

// hub fans change events out to per-table subscribers. Each subscriber gets
// a capacity-1 channel written with a non-blocking send: a pending event
// already coalesces every later change (the feed is invalidation-only, and
// the subscriber's re-fetch runs after it receives), so writers never block
// on slow subscribers.
type hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]chan synced.Event
	closed bool
}

func newHub() *hub {
	return &hub{subs: make(map[string]map[int]chan synced.Event)}
}

func (h *hub) subscribe(table string) (<-chan synced.Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan synced.Event, 1)
	if h.closed {
		close(ch)
		return ch, func() {}
	}

	id := h.nextID
	h.nextID++
	if h.subs[table] == nil {
		h.subs[table] = make(map[int]chan synced.Event)
	}
	h.subs[table][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if subs, ok := h.subs[table]; ok {
				if _, live := subs[id]; live {
					delete(subs, id)
					close(ch)
				}
			}
		})
	}
	return ch, cancel
}

func (h *hub) publish(ev synced.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs[ev.Table] {
		select {
		case ch <- ev:
		default:
			// A pending event already invalidates this subscriber.
		}
	}
	logging.StoreDebug("published %s event for table %s id=%s", ev.Kind, ev.Table, ev.ID)
}

func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for _, subs := range h.subs {
		for id, ch := range subs {
			delete(subs, id)
			close(ch)
		}
	}
}
