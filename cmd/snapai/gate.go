package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"snapai/internal/site"
)

var gateCmd = &cobra.Command{
	Use:   "gate on|off|status",
	Short: "Toggle or inspect the waitlist gate",
	Long: `The gate decides whether visitors land on the waiting-list page or
the full site. It is a persisted flag read at startup; running pages
pick up changes live.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off", "status"},
	RunE:      runGate,
}

func runGate(cmd *cobra.Command, args []string) error {
	gate := site.NewGate(cfg.GatePath)

	switch args[0] {
	case "on":
		if err := gate.Set(true); err != nil {
			return err
		}
		fmt.Println("Waitlist gate enabled")
	case "off":
		if err := gate.Set(false); err != nil {
			return err
		}
		fmt.Println("Waitlist gate disabled")
	case "status":
		if gate.Active() {
			fmt.Println("Waitlist gate is ON")
		} else {
			fmt.Println("Waitlist gate is OFF")
		}
	default:
		return fmt.Errorf("unknown gate action %q (want on, off, or status)", args[0])
	}
	return nil
}
