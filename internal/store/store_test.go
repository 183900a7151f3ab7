package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snapai/internal/site"
	"snapai/internal/synced"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func liveTool(id, name string, created time.Time) *site.Tool {
	return &site.Tool{
		ID:        id,
		Name:      name,
		Status:    site.StatusLive,
		Buttons:   []site.ToolButton{{Name: "Try Now", Link: "https://example.com"}},
		CreatedAt: created,
	}
}

func TestToolsCRUD(t *testing.T) {
	s := newTestStore(t)
	tools := s.Tools()
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, tools.Insert(ctx, liveTool("b", "Second", base.Add(time.Hour))))
	require.NoError(t, tools.Insert(ctx, liveTool("a", "First", base)))

	t.Run("select orders oldest first", func(t *testing.T) {
		got, err := tools.SelectAll(ctx)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "First", got[0].Name)
		assert.Equal(t, "Second", got[1].Name)
		assert.True(t, got[0].CreatedAt.Equal(base))
	})

	t.Run("update replaces every field", func(t *testing.T) {
		tool := liveTool("a", "First, renamed", base)
		tool.Status = site.StatusComingSoon
		tool.LaunchDays = "15 Days"
		tool.Buttons = []site.ToolButton{{Name: "Notify Me"}}
		require.NoError(t, tools.Update(ctx, tool))

		got, err := tools.SelectAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, "First, renamed", got[0].Name)
		assert.Equal(t, site.StatusComingSoon, got[0].Status)
		assert.Equal(t, "15 Days", got[0].LaunchDays)
		require.Len(t, got[0].Buttons, 1)
		assert.Equal(t, "Notify Me", got[0].Buttons[0].Name)
	})

	t.Run("delete removes the row", func(t *testing.T) {
		require.NoError(t, tools.Delete(ctx, "a"))
		got, err := tools.SelectAll(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "b", got[0].ID)
	})
}

func TestToolsCreatedAtTieBreaksOnID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.Tools().Insert(ctx, liveTool("2", "Two", created)))
	require.NoError(t, s.Tools().Insert(ctx, liveTool("1", "One", created)))

	got, err := s.Tools().SelectAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "2", got[1].ID)
}

func TestToolsLegacyButtonColumns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// A row written by the old single-button admin form.
	_, err := s.db.Exec(`
		INSERT INTO tools (id, name, status, button_name, button_link, created_at)
		VALUES ('old', 'Legacy Tool', 'LIVE', 'WhatsApp', 'https://wa.me/x', ?)`,
		time.Now().UTC().Format(timeLayout))
	require.NoError(t, err)

	got, err := s.Tools().SelectAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Len(t, got[0].Buttons, 1)
	assert.Equal(t, site.ToolButton{Name: "WhatsApp", Link: "https://wa.me/x"}, got[0].Buttons[0])

	t.Run("update clears the legacy columns", func(t *testing.T) {
		tool := got[0]
		tool.Buttons = []site.ToolButton{
			{Name: "WhatsApp", Link: "https://wa.me/x"},
			{Name: "Telegram", Link: "https://t.me/x"},
		}
		require.NoError(t, s.Tools().Update(ctx, tool))

		var legacyName string
		require.NoError(t, s.db.QueryRow(`SELECT button_name FROM tools WHERE id = 'old'`).Scan(&legacyName))
		assert.Empty(t, legacyName)

		reloaded, err := s.Tools().SelectAll(ctx)
		require.NoError(t, err)
		assert.Len(t, reloaded[0].Buttons, 2)
	})
}

func TestToolsBulkInsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	events, cancel := s.Tools().Subscribe()
	defer cancel()

	require.NoError(t, s.Tools().BulkInsert(ctx, site.SeedTools()))

	got, err := s.Tools().SelectAll(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	// One event for the whole batch.
	ev := <-events
	assert.Equal(t, synced.EventInsert, ev.Kind)
	select {
	case ev := <-events:
		t.Fatalf("unexpected extra event: %+v", ev)
	default:
	}
}

func TestRequestsOrderAndImmutability(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	older := &site.ToolRequest{ID: "r1", ToolName: "Old", Category: site.CategoryBusiness, Email: "a@b.co", SubmittedAt: base}
	newer := &site.ToolRequest{ID: "r2", ToolName: "New", Category: site.CategoryCreative, Email: "c@d.co", SubmittedAt: base.Add(time.Hour)}
	require.NoError(t, s.Requests().Insert(ctx, older))
	require.NoError(t, s.Requests().Insert(ctx, newer))

	got, err := s.Requests().SelectAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "New", got[0].ToolName)
	assert.Equal(t, "Old", got[1].ToolName)

	assert.Error(t, s.Requests().Update(ctx, older))

	require.NoError(t, s.Requests().Delete(ctx, "r2"))
	got, err = s.Requests().SelectAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "r1", got[0].ID)
}

func TestWaitlistDuplicateEmailIsNoOp(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := &site.WaitlistEntry{ID: "w1", Email: "Dev@Example.com"}
	require.NoError(t, s.Waitlist().Insert(ctx, first))

	// Same email, different case and id: swallowed by the unique index.
	dup := &site.WaitlistEntry{ID: "w2", Email: "dev@example.com"}
	require.NoError(t, s.Waitlist().Insert(ctx, dup))

	got, err := s.Waitlist().SelectAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "w1", got[0].ID)
}

func TestWaitlistContainsEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Waitlist().Insert(ctx, &site.WaitlistEntry{ID: "w1", Email: "dev@example.com"}))

	ok, err := s.Waitlist().ContainsEmail(ctx, "DEV@EXAMPLE.COM")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Waitlist().ContainsEmail(ctx, "other@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWaitlistOrderNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.Waitlist().Insert(ctx, &site.WaitlistEntry{ID: "w1", Email: "a@b.co", JoinedAt: base}))
	require.NoError(t, s.Waitlist().Insert(ctx, &site.WaitlistEntry{ID: "w2", Email: "c@d.co", JoinedAt: base.Add(time.Minute)}))

	got, err := s.Waitlist().SelectAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "w2", got[0].ID)
	assert.Equal(t, "w1", got[1].ID)
}

func TestFeedDeliversPerTable(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	toolEvents, cancelTools := s.Tools().Subscribe()
	defer cancelTools()
	waitEvents, cancelWait := s.Waitlist().Subscribe()
	defer cancelWait()

	require.NoError(t, s.Waitlist().Insert(ctx, &site.WaitlistEntry{ID: "w1", Email: "a@b.co"}))

	ev := <-waitEvents
	assert.Equal(t, "waitlist", ev.Table)
	assert.Equal(t, synced.EventInsert, ev.Kind)
	assert.Equal(t, "w1", ev.ID)

	// The tools subscriber sees nothing.
	select {
	case ev := <-toolEvents:
		t.Fatalf("tools subscriber got a waitlist event: %+v", ev)
	default:
	}
}

func TestFeedCoalescesWhenSubscriberLags(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	events, cancel := s.Waitlist().Subscribe()
	defer cancel()

	// Nobody draining: later publishes must not block the writer.
	for i := 0; i < 10; i++ {
		entry := &site.WaitlistEntry{ID: string(rune('a' + i)), Email: string(rune('a'+i)) + "@x.co"}
		require.NoError(t, s.Waitlist().Insert(ctx, entry))
	}

	// Exactly one pending event survives.
	<-events
	select {
	case <-events:
		t.Fatal("expected the lagging subscriber to hold a single coalesced event")
	default:
	}
}

func TestFeedCancelIdempotent(t *testing.T) {
	s := newTestStore(t)

	events, cancel := s.Tools().Subscribe()
	cancel()
	cancel()

	_, open := <-events
	assert.False(t, open)
}

func TestCloseShutsDownSubscribers(t *testing.T) {
	s, err := NewStore(":memory:")
	require.NoError(t, err)

	events, _ := s.Tools().Subscribe()
	require.NoError(t, s.Close())

	_, open := <-events
	assert.False(t, open)
}
