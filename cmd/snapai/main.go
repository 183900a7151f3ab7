// snapai is the SnapAI Labs site backend CLI: the admin console, the chat
// assistant, the waitlist export, and the gate toggle.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"snapai/internal/config"
	"snapai/internal/logging"
)

var (
	// Global flags
	verbose   bool
	workspace string

	// Loaded in PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "snapai",
	Short: "SnapAI Labs site backend",
	Long: `snapai runs the backend for the SnapAI Labs site: mirrored tools,
requests, and waitlist collections over SQLite, the Gemini-backed
assistant, and the admin console.

Run 'snapai admin' to open the interactive console.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if workspace == "" {
			workspace, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to resolve workspace: %w", err)
			}
		}
		if err := logging.Initialize(workspace); err != nil {
			logger.Warn("file logging disabled", zap.Error(err))
		}

		cfg, err = config.Load(workspace)
		if err != nil {
			return err
		}
		logging.Boot("snapai starting, workspace=%s db=%s", workspace, cfg.Database.Path)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAll()
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: cwd)")

	rootCmd.AddCommand(adminCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(gateCmd)
	rootCmd.AddCommand(seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
