// Package chat wraps the hosted chat completion service: a Gemini-backed
// transport plus a bounded-retry caller that classifies failures.
package chat

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"snapai/internal/logging"
)

// DefaultModel is the completion model the site assistant uses.
const DefaultModel = "gemini-2.0-flash"

// systemInstruction is the assistant persona shown on the landing page.
const systemInstruction = `You are SnapAI Assistant, the helpful AI chatbot for SnapAI Labs — an AI tools company that builds on-demand AI tools every 15 days.

Current tools:
- AI Resume Builder (LIVE) — Builds professional resumes in 10 minutes via WhatsApp/Telegram chat
- AI Logo Maker (Coming Soon — 15 days)
- AI Email Writer (Coming Soon — 30 days)

Key facts about SnapAI Labs:
- We build AI tools based on user requests
- New tool every 15 days
- 50+ requests fulfilled
- 4.9★ rating
- Users can request custom AI tools

Keep responses concise (2-3 sentences max), friendly, and helpful. Use emojis occasionally.`

// Transport is the single request/response surface the caller retries over.
// Each call is independent; no conversation state is kept.
type Transport interface {
	Generate(ctx context.Context, text string) (string, error)
}

// GeminiTransport generates completions using Google's Gemini API.
type GeminiTransport struct {
	client *genai.Client
	model  string
}

// NewGeminiTransport creates a Gemini-backed transport.
func NewGeminiTransport(ctx context.Context, apiKey, model string) (*GeminiTransport, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiTransport{client: client, model: model}, nil
}

// Generate sends one user message and returns the completion text.
func (t *GeminiTransport) Generate(ctx context.Context, text string) (string, error) {
	logging.ChatDebug("[Gemini] Generate: model=%s input_len=%d", t.model, len(text))

	contents := []*genai.Content{
		genai.NewContentFromText(text, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
	}

	resp, err := t.client.Models.GenerateContent(ctx, t.model, contents, config)
	if err != nil {
		logging.ChatError("[Gemini] Generate failed: %v", err)
		return "", fmt.Errorf("Gemini generate failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no completion returned")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	out := strings.TrimSpace(b.String())
	logging.Chat("[Gemini] Generate: response_len=%d", len(out))
	return out, nil
}
