package chat

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil error", nil, Unknown},
		{"http 429", errors.New("googleapi: Error 429: too many requests"), RateLimited},
		{"quota message", errors.New("quota exceeded for this project"), RateLimited},
		{"exhausted message", errors.New("Resource has been exhausted (e.g. check quota)"), RateLimited},
		{"grpc status", errors.New("rpc error: code = ResourceExhausted desc = RESOURCE_EXHAUSTED"), RateLimited},
		{"bad key", errors.New("API_KEY_INVALID"), AuthFailure},
		{"key phrase", errors.New("please pass a valid API key"), AuthFailure},
		{"permission denied", errors.New("rpc error: code = PermissionDenied desc = PERMISSION_DENIED"), AuthFailure},
		{"http 401", errors.New("server responded with 401"), AuthFailure},
		{"safety filter", errors.New("candidate blocked due to SAFETY"), ContentBlocked},
		{"prohibited content", errors.New("PROHIBITED_CONTENT"), ContentBlocked},
		{"plain failure", errors.New("dial tcp: connection refused"), Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestCallErrorUnwrap(t *testing.T) {
	inner := errors.New("quota exceeded")
	err := &CallError{Kind: RateLimited, Err: inner}

	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "rate_limited")
	assert.Contains(t, err.Error(), "quota exceeded")

	bare := &CallError{Kind: Unknown}
	assert.Equal(t, "chat call failed (unknown)", bare.Error())

	wrapped := fmt.Errorf("assistant: %w", err)
	var callErr *CallError
	assert.True(t, errors.As(wrapped, &callErr))
	assert.Equal(t, RateLimited, callErr.Kind)
}
