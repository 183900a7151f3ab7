// Package admin is the service layer over the three synced collections: the
// operations the admin console and the public forms invoke, plus the
// credential gate and the waitlist export.
package admin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"snapai/internal/config"
	"snapai/internal/logging"
	"snapai/internal/site"
	"snapai/internal/store"
	"snapai/internal/synced"
)

// Console owns the live mirrors of the tools, requests, and waitlist tables.
// LoadAll must run before anything else; Teardown releases the change-feed
// subscriptions when the consuming view goes away.
type Console struct {
	store *store.Store
	gate  *site.Gate
	creds config.AdminConfig

	tools    *synced.Collection[*site.Tool]
	requests *synced.Collection[*site.ToolRequest]
	waitlist *synced.Collection[*site.WaitlistEntry]
}

// NewConsole wires the collections onto the store. The tools collection
// carries the default seed set, written once if the table is empty.
func NewConsole(st *store.Store, gate *site.Gate, creds config.AdminConfig) *Console {
	return &Console{
		store:    st,
		gate:     gate,
		creds:    creds,
		tools:    synced.NewCollection(st.Tools(), site.SeedTools()).OrderBy(site.ToolsOldestFirst),
		requests: synced.NewCollection[*site.ToolRequest](st.Requests(), nil).OrderBy(site.RequestsNewestFirst),
		waitlist: synced.NewCollection[*site.WaitlistEntry](st.Waitlist(), nil).OrderBy(site.WaitlistNewestFirst),
	}
}

// Login checks the configured credentials. This mirrors the original panel's
// hardcoded check; it gates the console UI, nothing more.
func (c *Console) Login(username, password string) bool {
	ok := username == c.creds.Username && password == c.creds.Password
	if !ok {
		logging.AdminWarn("Failed login attempt for user %q", username)
	}
	return ok
}

// LoadAll initializes the three collections in parallel. Any failure aborts
// the whole load; the caller should not proceed with a partial mirror.
func (c *Console) LoadAll(ctx context.Context) error {
	timer := logging.StartTimer(logging.CategoryAdmin, "LoadAll")
	defer timer.Stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.tools.Initialize(ctx) })
	g.Go(func() error { return c.requests.Initialize(ctx) })
	g.Go(func() error { return c.waitlist.Initialize(ctx) })
	if err := g.Wait(); err != nil {
		return fmt.Errorf("console load failed: %w", err)
	}
	logging.Admin("Console loaded: %d tools, %d requests, %d waitlist entries",
		c.tools.Len(), c.requests.Len(), c.waitlist.Len())
	return nil
}

// Subscribe opens the change feeds. onChange fires (from a feed goroutine)
// after any collection replaces its snapshot.
func (c *Console) Subscribe(onChange func()) error {
	if err := c.tools.Subscribe(func([]*site.Tool) { onChange() }); err != nil {
		return err
	}
	if err := c.requests.Subscribe(func([]*site.ToolRequest) { onChange() }); err != nil {
		return err
	}
	return c.waitlist.Subscribe(func([]*site.WaitlistEntry) { onChange() })
}

// Teardown releases all three change-feed subscriptions. Idempotent.
func (c *Console) Teardown() {
	c.tools.Teardown()
	c.requests.Teardown()
	c.waitlist.Teardown()
}

// Tools returns the current tools snapshot, oldest first.
func (c *Console) Tools() []*site.Tool { return c.tools.Snapshot() }

// Requests returns the current requests snapshot, newest first.
func (c *Console) Requests() []*site.ToolRequest { return c.requests.Snapshot() }

// Waitlist returns the current waitlist snapshot, newest first.
func (c *Console) Waitlist() []*site.WaitlistEntry { return c.waitlist.Snapshot() }

// Rating returns the displayed site rating derived from the waitlist size.
func (c *Console) Rating() float64 { return site.Rating(c.waitlist.Len()) }

// AddTool creates a tool. A zero CreatedAt is stamped with the current time;
// the button list is clamped to the allowed range before validation.
func (c *Console) AddTool(ctx context.Context, t *site.Tool) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	t.Buttons = ResizeButtons(t.Buttons, len(t.Buttons))
	return c.tools.Create(ctx, t)
}

// UpdateTool edits a tool in place via fn.
func (c *Console) UpdateTool(ctx context.Context, id string, fn func(*site.Tool)) error {
	return c.tools.Update(ctx, id, fn)
}

// DeleteTool removes a tool.
func (c *Console) DeleteTool(ctx context.Context, id string) error {
	return c.tools.Delete(ctx, id)
}

// SubmitRequest records a visitor's tool request. A zero SubmittedAt is
// stamped with the current time.
func (c *Console) SubmitRequest(ctx context.Context, r *site.ToolRequest) error {
	if r.SubmittedAt.IsZero() {
		r.SubmittedAt = time.Now().UTC()
	}
	return c.requests.Create(ctx, r)
}

// DeleteRequest removes a request.
func (c *Console) DeleteRequest(ctx context.Context, id string) error {
	return c.requests.Delete(ctx, id)
}

// JoinWaitlist records an email on the waitlist. Joining with an email that
// is already present (case-insensitively) is a silent no-op, so the form can
// always report success. The store enforces the same uniqueness underneath
// for writers that race past this check.
func (c *Console) JoinWaitlist(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if !site.ValidEmail(email) {
		return fmt.Errorf("%w: invalid email %q", synced.ErrValidation, email)
	}
	for _, entry := range c.waitlist.Snapshot() {
		if strings.EqualFold(entry.Email, email) {
			logging.Admin("Waitlist join for %s skipped: already a member", email)
			return nil
		}
	}
	return c.waitlist.Create(ctx, &site.WaitlistEntry{
		Email:    email,
		JoinedAt: time.Now().UTC(),
	})
}

// DeleteWaitlistEntry removes a waitlist entry.
func (c *Console) DeleteWaitlistEntry(ctx context.Context, id string) error {
	return c.waitlist.Delete(ctx, id)
}

// GateActive reads the waitlist gate flag.
func (c *Console) GateActive() bool { return c.gate.Active() }

// SetGate toggles the waitlist gate flag.
func (c *Console) SetGate(active bool) error { return c.gate.Set(active) }

// ExportWaitlist writes the waitlist snapshot to a CSV file and returns the
// number of exported entries.
func (c *Console) ExportWaitlist(path string) (int, error) {
	entries := c.waitlist.Snapshot()
	if err := site.ExportWaitlistCSV(path, entries, time.Local); err != nil {
		return 0, err
	}
	logging.Export("Exported %d waitlist entries to %s", len(entries), path)
	return len(entries), nil
}

// ResizeButtons grows or shrinks a tool's button list to n, clamped to the
// allowed range. Existing entries are preserved; added slots are blank.
func ResizeButtons(buttons []site.ToolButton, n int) []site.ToolButton {
	if n < 1 {
		n = 1
	}
	if n > site.MaxToolButtons {
		n = site.MaxToolButtons
	}
	out := make([]site.ToolButton, n)
	copy(out, buttons)
	return out
}
