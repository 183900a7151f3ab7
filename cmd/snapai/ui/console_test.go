package ui

import (
	"context"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snapai/internal/admin"
	"snapai/internal/config"
	"snapai/internal/site"
	"snapai/internal/store"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	st, err := store.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	gate := site.NewGate(filepath.Join(t.TempDir(), "gate"))
	console := admin.NewConsole(st, gate, config.AdminConfig{Username: "snapadmin", Password: "0105"})
	t.Cleanup(console.Teardown)
	require.NoError(t, console.LoadAll(context.Background()))

	return New(console)
}

func send(m Model, msg tea.Msg) Model {
	updated, _ := m.Update(msg)
	return updated.(Model)
}

func typeKeys(m Model, s string) Model {
	return send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func TestLoginFlow(t *testing.T) {
	m := newTestModel(t)
	assert.Contains(t, m.View(), "SnapAI Admin Console")

	m = typeKeys(m, "snapadmin")
	m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeKeys(m, "0105")
	m = send(m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.True(t, m.authed)
	assert.Contains(t, m.View(), "Tools")
}

func TestLoginRejectsBadPassword(t *testing.T) {
	m := newTestModel(t)

	m = typeKeys(m, "snapadmin")
	m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeKeys(m, "wrong")
	m = send(m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, m.authed)
	assert.True(t, m.statusErr)
	// The password field is cleared for the next attempt.
	assert.Empty(t, m.pass.Value())
}

func TestTabCycling(t *testing.T) {
	m := newTestModel(t)
	m.authed = true

	m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, tabRequests, m.tab)
	m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, tabWaitlist, m.tab)
	m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, tabTools, m.tab)

	m = send(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, tabWaitlist, m.tab)
}

func TestCursorClampsToShrinkingSnapshot(t *testing.T) {
	m := newTestModel(t)
	m.authed = true

	// Three seeded tools; a cursor past the end snaps to the last row.
	m.cursor[tabTools] = 10
	m.clampCursors()
	assert.Equal(t, 2, m.cursor[tabTools])

	// Empty tables pin the cursor at zero.
	m.cursor[tabWaitlist] = 5
	m.clampCursors()
	assert.Equal(t, 0, m.cursor[tabWaitlist])

	// A refresh after an external shrink re-clamps.
	m.cursor[tabTools] = 2
	require.NoError(t, m.console.DeleteTool(context.Background(), m.console.Tools()[2].ID))
	m = send(m, RefreshMsg{})
	assert.Equal(t, 1, m.cursor[tabTools])
}

func TestDeleteSelectedRow(t *testing.T) {
	m := newTestModel(t)
	m.authed = true

	require.Len(t, m.console.Tools(), 3)
	m.cursor[tabTools] = 2

	m = typeKeys(m, "d")

	assert.Len(t, m.console.Tools(), 2)
	assert.Equal(t, 1, m.cursor[tabTools])
	assert.Contains(t, m.status, "Deleted tool")
}

func TestGateKeyToggles(t *testing.T) {
	m := newTestModel(t)
	m.authed = true

	assert.False(t, m.console.GateActive())
	m = typeKeys(m, "g")
	assert.True(t, m.console.GateActive())
	m = typeKeys(m, "g")
	assert.False(t, m.console.GateActive())
}

func TestMainViewShowsCounts(t *testing.T) {
	m := newTestModel(t)
	m.authed = true

	require.NoError(t, m.console.JoinWaitlist(context.Background(), "dev@example.com"))

	out := m.View()
	assert.Contains(t, out, "Tools (3)")
	assert.Contains(t, out, "Waitlist (1)")
	assert.Contains(t, out, "4.7★")
}
