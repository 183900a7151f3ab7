package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"snapai/internal/site"
	"snapai/internal/store"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the waitlist to a CSV file",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "waitlist_emails.csv", "Output CSV path")
}

func runExport(cmd *cobra.Command, args []string) error {
	st, err := store.NewStore(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	entries, err := st.Waitlist().SelectAll(cmd.Context())
	if err != nil {
		return err
	}
	if err := site.ExportWaitlistCSV(exportOut, entries, time.Local); err != nil {
		return err
	}
	fmt.Printf("Exported %d waitlist entries to %s\n", len(entries), exportOut)
	return nil
}
