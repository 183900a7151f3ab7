package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"snapai/internal/admin"
	"snapai/internal/site"
)

// RefreshMsg tells the console a collection snapshot was replaced. The model
// re-reads the snapshots on render, so the message carries no payload.
type RefreshMsg struct{}

const (
	tabTools = iota
	tabRequests
	tabWaitlist
	tabCount
)

var tabNames = [tabCount]string{"Tools", "Requests", "Waitlist"}

const opTimeout = 5 * time.Second

// Model is the bubbletea model for the admin console.
type Model struct {
	console *admin.Console
	styles  Styles

	authed    bool
	user      textinput.Model
	pass      textinput.Model
	focusPass bool

	tab    int
	cursor [tabCount]int

	status    string
	statusErr bool
	width     int
}

// New creates the console model in the login state.
func New(console *admin.Console) Model {
	user := textinput.New()
	user.Placeholder = "username"
	user.Focus()
	user.CharLimit = 64

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.EchoMode = textinput.EchoPassword
	pass.CharLimit = 64

	return Model{
		console: console,
		styles:  DefaultStyles(),
		user:    user,
		pass:    pass,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case RefreshMsg:
		m.clampCursors()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if !m.authed {
			return m.updateLogin(msg)
		}
		return m.updateMain(msg)
	}
	return m, nil
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "tab":
		m.toggleLoginFocus()
		return m, nil
	case "enter":
		if !m.focusPass {
			m.toggleLoginFocus()
			return m, nil
		}
		if m.console.Login(m.user.Value(), m.pass.Value()) {
			m.authed = true
			m.setStatus("Logged in", false)
		} else {
			m.pass.SetValue("")
			m.setStatus("Invalid credentials", true)
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.focusPass {
		m.pass, cmd = m.pass.Update(msg)
	} else {
		m.user, cmd = m.user.Update(msg)
	}
	return m, cmd
}

func (m *Model) toggleLoginFocus() {
	m.focusPass = !m.focusPass
	if m.focusPass {
		m.user.Blur()
		m.pass.Focus()
	} else {
		m.pass.Blur()
		m.user.Focus()
	}
}

func (m Model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "tab", "right":
		m.tab = (m.tab + 1) % tabCount
	case "shift+tab", "left":
		m.tab = (m.tab + tabCount - 1) % tabCount
	case "up", "k":
		if m.cursor[m.tab] > 0 {
			m.cursor[m.tab]--
		}
	case "down", "j":
		if m.cursor[m.tab] < m.tabLen(m.tab)-1 {
			m.cursor[m.tab]++
		}
	case "d":
		m.deleteSelected()
	case "g":
		active := !m.console.GateActive()
		if err := m.console.SetGate(active); err != nil {
			m.setStatus(err.Error(), true)
		} else if active {
			m.setStatus("Waitlist gate enabled", false)
		} else {
			m.setStatus("Waitlist gate disabled", false)
		}
	case "x":
		path := "waitlist_emails.csv"
		n, err := m.console.ExportWaitlist(path)
		if err != nil {
			m.setStatus(err.Error(), true)
		} else {
			m.setStatus(fmt.Sprintf("Exported %d entries to %s", n, path), false)
		}
	}
	m.clampCursors()
	return m, nil
}

func (m *Model) deleteSelected() {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var err error
	switch m.tab {
	case tabTools:
		tools := m.console.Tools()
		if m.cursor[m.tab] >= len(tools) {
			return
		}
		t := tools[m.cursor[m.tab]]
		if err = m.console.DeleteTool(ctx, t.ID); err == nil {
			m.setStatus(fmt.Sprintf("Deleted tool %q", t.Name), false)
		}
	case tabRequests:
		reqs := m.console.Requests()
		if m.cursor[m.tab] >= len(reqs) {
			return
		}
		r := reqs[m.cursor[m.tab]]
		if err = m.console.DeleteRequest(ctx, r.ID); err == nil {
			m.setStatus(fmt.Sprintf("Deleted request %q", r.ToolName), false)
		}
	case tabWaitlist:
		entries := m.console.Waitlist()
		if m.cursor[m.tab] >= len(entries) {
			return
		}
		w := entries[m.cursor[m.tab]]
		if err = m.console.DeleteWaitlistEntry(ctx, w.ID); err == nil {
			m.setStatus(fmt.Sprintf("Removed %s from waitlist", w.Email), false)
		}
	}
	if err != nil {
		m.setStatus(err.Error(), true)
	}
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

func (m *Model) tabLen(tab int) int {
	switch tab {
	case tabTools:
		return len(m.console.Tools())
	case tabRequests:
		return len(m.console.Requests())
	default:
		return len(m.console.Waitlist())
	}
}

// clampCursors keeps every cursor inside its shrinking table.
func (m *Model) clampCursors() {
	for tab := 0; tab < tabCount; tab++ {
		if n := m.tabLen(tab); m.cursor[tab] >= n {
			m.cursor[tab] = n - 1
		}
		if m.cursor[tab] < 0 {
			m.cursor[tab] = 0
		}
	}
}

func (m Model) View() string {
	if !m.authed {
		return m.loginView()
	}
	return m.mainView()
}

func (m Model) loginView() string {
	s := m.styles
	var status string
	if m.status != "" {
		style := s.Success
		if m.statusErr {
			style = s.Error
		}
		status = style.Render(m.status)
	}
	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("SnapAI Admin Console"),
		"",
		s.Muted.Render("Username")+"  "+m.user.View(),
		s.Muted.Render("Password")+"  "+m.pass.View(),
		"",
		status,
		s.Help.Render("tab: switch field · enter: login · esc: quit"),
	)
	return s.Panel.Render(form) + "\n"
}

func (m Model) mainView() string {
	s := m.styles

	gate := s.Error.Render("OFF")
	if m.console.GateActive() {
		gate = s.Success.Render("ON")
	}
	header := s.Title.Render("SnapAI Admin Console") + "  " +
		s.Muted.Render(fmt.Sprintf("rating %s · gate ", site.FormatRating(m.console.Rating()))) + gate

	tabs := ""
	for i, name := range tabNames {
		label := fmt.Sprintf("%s (%d)", name, m.tabLen(i))
		if i == m.tab {
			tabs += s.ActiveTab.Render(label)
		} else {
			tabs += s.Tab.Render(label)
		}
	}

	var status string
	if m.status != "" {
		style := s.Success
		if m.statusErr {
			style = s.Error
		}
		status = style.Render(m.status)
	}

	help := s.Help.Render("←/→: tab · ↑/↓: select · d: delete · g: gate · x: export · q: quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		tabs,
		"",
		m.tableView(),
		status,
		help,
	) + "\n"
}

func (m Model) tableView() string {
	switch m.tab {
	case tabTools:
		t := NewDataTable("Name", "Status", "Launch", "Buttons", "Created")
		for _, tool := range m.console.Tools() {
			launch := "-"
			if tool.Status == site.StatusComingSoon {
				launch = tool.LaunchDays
			}
			t.AddRow(tool.Name, string(tool.Status), launch,
				fmt.Sprintf("%d", len(tool.Buttons)),
				tool.CreatedAt.Local().Format("Jan 2, 2006"))
		}
		t.Cursor = m.cursor[tabTools]
		return t.View(m.styles)

	case tabRequests:
		t := NewDataTable("Tool", "Category", "Email", "Submitted")
		for _, r := range m.console.Requests() {
			t.AddRow(r.ToolName, string(r.Category), r.Email,
				r.SubmittedAt.Local().Format("Jan 2, 2006 15:04"))
		}
		t.Cursor = m.cursor[tabRequests]
		return t.View(m.styles)

	default:
		t := NewDataTable("Email", "Joined")
		for _, w := range m.console.Waitlist() {
			t.AddRow(w.Email, w.JoinedAt.Local().Format("Jan 2, 2006 15:04"))
		}
		t.Cursor = m.cursor[tabWaitlist]
		return t.View(m.styles)
	}
}
