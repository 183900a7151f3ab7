package admin

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snapai/internal/config"
	"snapai/internal/site"
	"snapai/internal/store"
	"snapai/internal/synced"
)

func newTestConsole(t *testing.T) *Console {
	t.Helper()
	st, err := store.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	gate := site.NewGate(filepath.Join(t.TempDir(), "gate"))
	creds := config.AdminConfig{Username: "snapadmin", Password: "0105"}

	c := NewConsole(st, gate, creds)
	t.Cleanup(c.Teardown)
	require.NoError(t, c.LoadAll(context.Background()))
	return c
}

func TestLogin(t *testing.T) {
	c := newTestConsole(t)

	assert.True(t, c.Login("snapadmin", "0105"))
	assert.False(t, c.Login("snapadmin", "wrong"))
	assert.False(t, c.Login("", ""))
}

func TestLoadAllSeedsToolsOnce(t *testing.T) {
	c := newTestConsole(t)

	tools := c.Tools()
	require.Len(t, tools, 3)
	assert.Equal(t, "AI Resume Builder", tools[0].Name)

	assert.Empty(t, c.Requests())
	assert.Empty(t, c.Waitlist())
}

func TestToolLifecycle(t *testing.T) {
	c := newTestConsole(t)
	ctx := context.Background()

	tool := &site.Tool{
		Name:    "AI Pitch Deck Maker",
		Status:  site.StatusComingSoon,
		Icon:    "📊",
		Buttons: []site.ToolButton{{Name: "Notify Me"}},
	}
	require.NoError(t, c.AddTool(ctx, tool))
	require.NotEmpty(t, tool.ID)
	assert.Len(t, c.Tools(), 4)

	require.NoError(t, c.UpdateTool(ctx, tool.ID, func(edit *site.Tool) {
		edit.Status = site.StatusLive
		edit.Buttons = []site.ToolButton{{Name: "Try Now", Link: "https://example.com"}}
	}))

	updated := findTool(t, c, tool.ID)
	assert.Equal(t, site.StatusLive, updated.Status)

	require.NoError(t, c.DeleteTool(ctx, tool.ID))
	assert.Len(t, c.Tools(), 3)
}

func findTool(t *testing.T, c *Console, id string) *site.Tool {
	t.Helper()
	for _, tool := range c.Tools() {
		if tool.ID == id {
			return tool
		}
	}
	t.Fatalf("tool %s not found", id)
	return nil
}

func TestSubmitAndDeleteRequest(t *testing.T) {
	c := newTestConsole(t)
	ctx := context.Background()

	req := &site.ToolRequest{
		ToolName: "AI Meal Planner",
		Category: site.CategoryProductivity,
		Email:    "hungry@example.com",
	}
	require.NoError(t, c.SubmitRequest(ctx, req))
	require.NotEmpty(t, req.ID)
	assert.False(t, req.SubmittedAt.IsZero())

	reqs := c.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "AI Meal Planner", reqs[0].ToolName)

	require.NoError(t, c.DeleteRequest(ctx, req.ID))
	assert.Empty(t, c.Requests())
}

func TestJoinWaitlist(t *testing.T) {
	c := newTestConsole(t)
	ctx := context.Background()

	require.NoError(t, c.JoinWaitlist(ctx, "dev@example.com"))
	require.Len(t, c.Waitlist(), 1)

	t.Run("duplicate join is a silent no-op", func(t *testing.T) {
		require.NoError(t, c.JoinWaitlist(ctx, "DEV@example.com"))
		assert.Len(t, c.Waitlist(), 1)
	})

	t.Run("whitespace is trimmed", func(t *testing.T) {
		require.NoError(t, c.JoinWaitlist(ctx, "  dev@example.com  "))
		assert.Len(t, c.Waitlist(), 1)
	})

	t.Run("invalid email is rejected", func(t *testing.T) {
		err := c.JoinWaitlist(ctx, "not-an-email")
		assert.ErrorIs(t, err, synced.ErrValidation)
	})

	t.Run("entries can be removed", func(t *testing.T) {
		entries := c.Waitlist()
		require.NoError(t, c.DeleteWaitlistEntry(ctx, entries[0].ID))
		assert.Empty(t, c.Waitlist())
	})
}

func TestSnapshotsMatchStoreOrderAfterCreate(t *testing.T) {
	c := newTestConsole(t)
	ctx := context.Background()

	// No subscription is running: the snapshot order after a create must
	// already be the store order, with no feed re-fetch to repair it.
	base := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	older := &site.ToolRequest{ToolName: "Older", Category: site.CategoryCreative, Email: "a@b.co", SubmittedAt: base}
	newer := &site.ToolRequest{ToolName: "Newer", Category: site.CategoryCreative, Email: "c@d.co", SubmittedAt: base.Add(time.Hour)}
	require.NoError(t, c.SubmitRequest(ctx, older))
	require.NoError(t, c.SubmitRequest(ctx, newer))

	reqs := c.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "Newer", reqs[0].ToolName)
	assert.Equal(t, "Older", reqs[1].ToolName)

	require.NoError(t, c.JoinWaitlist(ctx, "first@example.com"))
	require.NoError(t, c.JoinWaitlist(ctx, "second@example.com"))

	entries := c.Waitlist()
	require.Len(t, entries, 2)
	assert.Equal(t, "second@example.com", entries[0].Email)
	assert.Equal(t, "first@example.com", entries[1].Email)
}

func TestRatingTracksWaitlist(t *testing.T) {
	c := newTestConsole(t)
	assert.InDelta(t, 4.7, c.Rating(), 1e-9)
}

func TestGateToggle(t *testing.T) {
	c := newTestConsole(t)

	assert.False(t, c.GateActive())
	require.NoError(t, c.SetGate(true))
	assert.True(t, c.GateActive())
	require.NoError(t, c.SetGate(false))
	assert.False(t, c.GateActive())
}

func TestExportWaitlist(t *testing.T) {
	c := newTestConsole(t)
	ctx := context.Background()

	require.NoError(t, c.JoinWaitlist(ctx, "a@example.com"))
	require.NoError(t, c.JoinWaitlist(ctx, "b@example.com"))

	path := filepath.Join(t.TempDir(), "waitlist_emails.csv")
	n, err := c.ExportWaitlist(path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Email,Joined Date", lines[0])
	// Newest first, matching the snapshot order.
	assert.True(t, strings.HasPrefix(lines[1], "b@example.com,"))
	assert.True(t, strings.HasPrefix(lines[2], "a@example.com,"))
}

func TestSubscribeNotifiesOnExternalWrites(t *testing.T) {
	st, err := store.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	gate := site.NewGate(filepath.Join(t.TempDir(), "gate"))
	c := NewConsole(st, gate, config.AdminConfig{Username: "u", Password: "p"})
	t.Cleanup(c.Teardown)
	require.NoError(t, c.LoadAll(context.Background()))

	changed := make(chan struct{}, 8)
	require.NoError(t, c.Subscribe(func() { changed <- struct{}{} }))

	// A write through the bare table, as another process would do.
	require.NoError(t, st.Waitlist().Insert(context.Background(),
		&site.WaitlistEntry{ID: "w1", Email: "outside@example.com"}))

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("subscription never fired")
	}

	deadline := time.Now().Add(2 * time.Second)
	for len(c.Waitlist()) != 1 {
		if time.Now().After(deadline) {
			t.Fatal("waitlist snapshot never reconciled")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestResizeButtons(t *testing.T) {
	base := []site.ToolButton{{Name: "A", Link: "#a"}, {Name: "B", Link: "#b"}}

	t.Run("grows with blank slots", func(t *testing.T) {
		out := ResizeButtons(base, 4)
		require.Len(t, out, 4)
		assert.Equal(t, "A", out[0].Name)
		assert.Equal(t, "B", out[1].Name)
		assert.Empty(t, out[2].Name)
	})

	t.Run("shrinks from the tail", func(t *testing.T) {
		out := ResizeButtons(base, 1)
		require.Len(t, out, 1)
		assert.Equal(t, "A", out[0].Name)
	})

	t.Run("clamps to the allowed range", func(t *testing.T) {
		assert.Len(t, ResizeButtons(base, 0), 1)
		assert.Len(t, ResizeButtons(base, 99), site.MaxToolButtons)
	})
}
