package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"snapai/internal/site"
	"snapai/internal/store"
	"snapai/internal/synced"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the default tools if the tools table is empty",
	RunE:  runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	st, err := store.NewStore(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	tools := synced.NewCollection(st.Tools(), site.SeedTools())
	if err := tools.Initialize(cmd.Context()); err != nil {
		return err
	}

	fmt.Printf("Tools table has %d records\n", tools.Len())
	return nil
}
