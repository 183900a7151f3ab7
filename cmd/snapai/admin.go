package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"snapai/cmd/snapai/ui"
	"snapai/internal/admin"
	"snapai/internal/site"
	"snapai/internal/store"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Open the interactive admin console",
	Long: `Opens the terminal admin console: tools, tool requests, and the
waitlist in live-updating tabs, plus the gate toggle and CSV export.`,
	RunE: runAdmin,
}

func runAdmin(cmd *cobra.Command, args []string) error {
	st, err := store.NewStore(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	gate := site.NewGate(cfg.GatePath)
	console := admin.NewConsole(st, gate, cfg.Admin)
	defer console.Teardown()

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	err = console.LoadAll(ctx)
	cancel()
	if err != nil {
		return err
	}

	p := tea.NewProgram(ui.New(console), tea.WithAltScreen())

	if err := console.Subscribe(func() {
		p.Send(ui.RefreshMsg{})
	}); err != nil {
		return err
	}

	// Ctrl+C inside the program quits it; this covers signals sent from
	// outside the terminal.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		p.Quit()
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("console failed: %w", err)
	}
	return nil
}
