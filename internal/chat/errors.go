package chat

import (
	"fmt"
	"strings"
)

// Kind classifies a failed chat completion call.
type Kind string

const (
	// RateLimited means the provider rejected the call for quota/rate
	// reasons. The only kind that is retried automatically.
	RateLimited Kind = "rate_limited"

	// AuthFailure means the credential/key was rejected.
	AuthFailure Kind = "auth_failure"

	// ContentBlocked means a safety/content filter rejected the request
	// or the response.
	ContentBlocked Kind = "content_blocked"

	// Unknown covers everything else (transport failures included).
	Unknown Kind = "unknown"
)

// CallError is the terminal failure of a chat call, carrying the classified
// kind and the underlying provider error.
type CallError struct {
	Kind Kind
	Err  error
}

func (e *CallError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("chat call failed (%s)", e.Kind)
	}
	return fmt.Sprintf("chat call failed (%s): %v", e.Kind, e.Err)
}

func (e *CallError) Unwrap() error { return e.Err }

// Indicator sets matched against the provider's failure detail. The Gemini
// API reports these inconsistently across transports, so matching is
// substring-based on the error text, same as the web client did.
var (
	rateLimitIndicators = []string{
		"429",
		"quota",
		"Resource has been exhausted",
		"RESOURCE_EXHAUSTED",
		"rate limit",
	}
	authIndicators = []string{
		"API_KEY",
		"API key",
		"PERMISSION_DENIED",
		"UNAUTHENTICATED",
		"401",
	}
	blockedIndicators = []string{
		"blocked",
		"SAFETY",
		"PROHIBITED_CONTENT",
	}
)

// Classify maps a provider failure to its Kind.
func Classify(err error) Kind {
	if err == nil {
		return Unknown
	}
	detail := err.Error()
	if matchesAny(detail, rateLimitIndicators) {
		return RateLimited
	}
	if matchesAny(detail, authIndicators) {
		return AuthFailure
	}
	if matchesAny(detail, blockedIndicators) {
		return ContentBlocked
	}
	return Unknown
}

func matchesAny(detail string, indicators []string) bool {
	for _, ind := range indicators {
		if strings.Contains(detail, ind) {
			return true
		}
	}
	return false
}
