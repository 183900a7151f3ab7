package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"snapai/internal/site"
	"snapai/internal/synced"
)

// Timestamps are stored as RFC 3339 strings so the natural-key ORDER BY is a
// plain lexicographic sort.
const timeLayout = time.RFC3339Nano

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// =============================================================================
// TOOLS
// =============================================================================

// ToolsTable implements synced.Table for the tools table. Natural order is
// oldest first (launch order). Ties on created_at fall back to id so the
// order is stable across re-fetches.
type ToolsTable struct {
	s *Store
}

func (t *ToolsTable) Name() string { return "tools" }

func (t *ToolsTable) SelectAll(ctx context.Context) ([]*site.Tool, error) {
	rows, err := t.s.db.QueryContext(ctx, `
		SELECT id, name, description, status, icon, launch_days, buttons, button_name, button_link, created_at
		FROM tools ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to select tools: %w", err)
	}
	defer rows.Close()

	var out []*site.Tool
	for rows.Next() {
		var (
			tool                     site.Tool
			status, buttons, created string
			legacyName, legacyLink   string
		)
		if err := rows.Scan(&tool.ID, &tool.Name, &tool.Description, &status, &tool.Icon,
			&tool.LaunchDays, &buttons, &legacyName, &legacyLink, &created); err != nil {
			return nil, fmt.Errorf("failed to scan tool row: %w", err)
		}
		tool.Status = site.ToolStatus(status)
		tool.CreatedAt = parseTime(created)
		if buttons != "" && buttons != "[]" {
			if err := json.Unmarshal([]byte(buttons), &tool.Buttons); err != nil {
				return nil, fmt.Errorf("failed to decode buttons for tool %s: %w", tool.ID, err)
			}
		}
		// Legacy single-button rows become the canonical shape here, so
		// nothing downstream ever sees the old columns.
		tool.NormalizeButtons(legacyName, legacyLink)
		out = append(out, &tool)
	}
	return out, rows.Err()
}

func (t *ToolsTable) Insert(ctx context.Context, rec *site.Tool) error {
	if err := t.exec(ctx, rec, `
		INSERT INTO tools (id, name, description, status, icon, launch_days, buttons, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`); err != nil {
		return err
	}
	t.s.feed.publish(synced.Event{Table: t.Name(), Kind: synced.EventInsert, ID: rec.ID})
	return nil
}

func (t *ToolsTable) BulkInsert(ctx context.Context, recs []*site.Tool) error {
	tx, err := t.s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin bulk insert: %w", err)
	}
	for _, rec := range recs {
		buttons, err := json.Marshal(rec.Buttons)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to encode buttons: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO tools (id, name, description, status, icon, launch_days, buttons, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, rec.Name, rec.Description, string(rec.Status), rec.Icon,
			rec.LaunchDays, string(buttons), rec.CreatedAt.UTC().Format(timeLayout)); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to bulk insert tool %s: %w", rec.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bulk insert: %w", err)
	}
	t.s.feed.publish(synced.Event{Table: t.Name(), Kind: synced.EventInsert})
	return nil
}

func (t *ToolsTable) Update(ctx context.Context, rec *site.Tool) error {
	buttons, err := json.Marshal(rec.Buttons)
	if err != nil {
		return fmt.Errorf("failed to encode buttons: %w", err)
	}
	// Whole-field replacement; the legacy columns are cleared so the
	// canonical shape wins on the next load.
	_, err = t.s.db.ExecContext(ctx, `
		UPDATE tools SET name = ?, description = ?, status = ?, icon = ?,
			launch_days = ?, buttons = ?, button_name = '', button_link = ''
		WHERE id = ?`,
		rec.Name, rec.Description, string(rec.Status), rec.Icon,
		rec.LaunchDays, string(buttons), rec.ID)
	if err != nil {
		return fmt.Errorf("failed to update tool %s: %w", rec.ID, err)
	}
	t.s.feed.publish(synced.Event{Table: t.Name(), Kind: synced.EventUpdate, ID: rec.ID})
	return nil
}

func (t *ToolsTable) Delete(ctx context.Context, id string) error {
	if _, err := t.s.db.ExecContext(ctx, `DELETE FROM tools WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete tool %s: %w", id, err)
	}
	t.s.feed.publish(synced.Event{Table: t.Name(), Kind: synced.EventDelete, ID: id})
	return nil
}

func (t *ToolsTable) Subscribe() (<-chan synced.Event, func()) {
	return t.s.feed.subscribe(t.Name())
}

func (t *ToolsTable) exec(ctx context.Context, rec *site.Tool, query string) error {
	buttons, err := json.Marshal(rec.Buttons)
	if err != nil {
		return fmt.Errorf("failed to encode buttons: %w", err)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err = t.s.db.ExecContext(ctx, query,
		rec.ID, rec.Name, rec.Description, string(rec.Status), rec.Icon,
		rec.LaunchDays, string(buttons), rec.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("failed to insert tool %s: %w", rec.ID, err)
	}
	return nil
}

// =============================================================================
// REQUESTS
// =============================================================================

// RequestsTable implements synced.Table for the requests table. Natural
// order is most recent first.
type RequestsTable struct {
	s *Store
}

func (t *RequestsTable) Name() string { return "requests" }

func (t *RequestsTable) SelectAll(ctx context.Context) ([]*site.ToolRequest, error) {
	rows, err := t.s.db.QueryContext(ctx, `
		SELECT id, tool_name, description, category, email, submitted_at
		FROM requests ORDER BY submitted_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to select requests: %w", err)
	}
	defer rows.Close()

	var out []*site.ToolRequest
	for rows.Next() {
		var (
			req                 site.ToolRequest
			category, submitted string
		)
		if err := rows.Scan(&req.ID, &req.ToolName, &req.Description, &category, &req.Email, &submitted); err != nil {
			return nil, fmt.Errorf("failed to scan request row: %w", err)
		}
		req.Category = site.RequestCategory(category)
		req.SubmittedAt = parseTime(submitted)
		out = append(out, &req)
	}
	return out, rows.Err()
}

func (t *RequestsTable) Insert(ctx context.Context, rec *site.ToolRequest) error {
	if rec.SubmittedAt.IsZero() {
		rec.SubmittedAt = time.Now().UTC()
	}
	_, err := t.s.db.ExecContext(ctx, `
		INSERT INTO requests (id, tool_name, description, category, email, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.ToolName, rec.Description, string(rec.Category), rec.Email,
		rec.SubmittedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("failed to insert request %s: %w", rec.ID, err)
	}
	t.s.feed.publish(synced.Event{Table: t.Name(), Kind: synced.EventInsert, ID: rec.ID})
	return nil
}

func (t *RequestsTable) BulkInsert(ctx context.Context, recs []*site.ToolRequest) error {
	for _, rec := range recs {
		if err := t.Insert(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

// Update exists to satisfy the table surface; requests are immutable after
// creation except for deletion.
func (t *RequestsTable) Update(ctx context.Context, rec *site.ToolRequest) error {
	return fmt.Errorf("requests are immutable")
}

func (t *RequestsTable) Delete(ctx context.Context, id string) error {
	if _, err := t.s.db.ExecContext(ctx, `DELETE FROM requests WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete request %s: %w", id, err)
	}
	t.s.feed.publish(synced.Event{Table: t.Name(), Kind: synced.EventDelete, ID: id})
	return nil
}

func (t *RequestsTable) Subscribe() (<-chan synced.Event, func()) {
	return t.s.feed.subscribe(t.Name())
}

// =============================================================================
// WAITLIST
// =============================================================================

// WaitlistTable implements synced.Table for the waitlist table. Natural
// order is most recent first. The unique index on lower(email) makes a
// racing duplicate join a silent no-op rather than an error.
type WaitlistTable struct {
	s *Store
}

func (t *WaitlistTable) Name() string { return "waitlist" }

func (t *WaitlistTable) SelectAll(ctx context.Context) ([]*site.WaitlistEntry, error) {
	rows, err := t.s.db.QueryContext(ctx, `
		SELECT id, email, joined_at
		FROM waitlist ORDER BY joined_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to select waitlist: %w", err)
	}
	defer rows.Close()

	var out []*site.WaitlistEntry
	for rows.Next() {
		var (
			entry  site.WaitlistEntry
			joined string
		)
		if err := rows.Scan(&entry.ID, &entry.Email, &joined); err != nil {
			return nil, fmt.Errorf("failed to scan waitlist row: %w", err)
		}
		entry.JoinedAt = parseTime(joined)
		out = append(out, &entry)
	}
	return out, rows.Err()
}

func (t *WaitlistTable) Insert(ctx context.Context, rec *site.WaitlistEntry) error {
	if rec.JoinedAt.IsZero() {
		rec.JoinedAt = time.Now().UTC()
	}
	_, err := t.s.db.ExecContext(ctx, `
		INSERT INTO waitlist (id, email, joined_at) VALUES (?, ?, ?)
		ON CONFLICT DO NOTHING`,
		rec.ID, rec.Email, rec.JoinedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("failed to insert waitlist entry %s: %w", rec.ID, err)
	}
	t.s.feed.publish(synced.Event{Table: t.Name(), Kind: synced.EventInsert, ID: rec.ID})
	return nil
}

func (t *WaitlistTable) BulkInsert(ctx context.Context, recs []*site.WaitlistEntry) error {
	for _, rec := range recs {
		if err := t.Insert(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

// Update exists to satisfy the table surface; waitlist entries are immutable
// after creation except for deletion.
func (t *WaitlistTable) Update(ctx context.Context, rec *site.WaitlistEntry) error {
	return fmt.Errorf("waitlist entries are immutable")
}

func (t *WaitlistTable) Delete(ctx context.Context, id string) error {
	if _, err := t.s.db.ExecContext(ctx, `DELETE FROM waitlist WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete waitlist entry %s: %w", id, err)
	}
	t.s.feed.publish(synced.Event{Table: t.Name(), Kind: synced.EventDelete, ID: id})
	return nil
}

func (t *WaitlistTable) Subscribe() (<-chan synced.Event, func()) {
	return t.s.feed.subscribe(t.Name())
}

// ContainsEmail reports whether an email is already on the waitlist,
// case-insensitively.
func (t *WaitlistTable) ContainsEmail(ctx context.Context, email string) (bool, error) {
	var id string
	err := t.s.db.QueryRowContext(ctx,
		`SELECT id FROM waitlist WHERE lower(email) = lower(?)`, email).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check waitlist email: %w", err)
	}
	return true, nil
}
