package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"snapai/internal/chat"
)

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Ask the SnapAI assistant a one-shot question",
	Long: `Sends one message to the SnapAI assistant and prints the reply.
Rate-limited calls are retried automatically with a short wait.

Requires a Gemini API key (GEMINI_API_KEY or chat.api_key in config).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	message := strings.Join(args, " ")

	transport, err := chat.NewGeminiTransport(cmd.Context(), cfg.Chat.APIKey, cfg.Chat.Model)
	if err != nil {
		return err
	}
	caller := chat.NewResilientCaller(transport).WithMaxAttempts(cfg.Chat.MaxAttempts)

	reply, err := caller.Call(cmd.Context(), message)
	if err != nil {
		// Same friendly failure copy the site chat widget shows.
		var callErr *chat.CallError
		if errors.As(err, &callErr) {
			switch callErr.Kind {
			case chat.AuthFailure:
				return fmt.Errorf("API key issue. Please check your Gemini API key")
			case chat.RateLimited:
				return fmt.Errorf("API quota exceeded. Please try again later")
			case chat.ContentBlocked:
				return fmt.Errorf("response was blocked by safety filters. Try rephrasing")
			}
		}
		return fmt.Errorf("connection error: %w", err)
	}

	fmt.Println(reply)
	return nil
}
