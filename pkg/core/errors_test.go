package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorType_String(t *testing.T) {
	tests := []struct {
		name      string
		errorType ErrorType
		want      string
	}{
		{"unknown", ErrorTypeUnknown, "UNKNOWN"},
		{"network", ErrorTypeNetwork, "NETWORK"},
		{"timeout", ErrorTypeTimeout, "TIMEOUT"},
		{"rate_limit", ErrorTypeRateLimit, "RATE_LIMIT"},
		{"authentication", ErrorTypeAuthentication, "AUTHENTICATION"},
		{"bad_request", ErrorTypeBadRequest, "BAD_REQUEST"},
		{"not_found", ErrorTypeNotFound, "NOT_FOUND"},
		{"server_error", ErrorTypeServerError, "SERVER_ERROR"},
		{"insufficient_funds", ErrorTypeInsufficientFunds, "INSUFFICIENT_FUNDS"},
		{"invalid_order", ErrorTypeInvalidOrder, "INVALID_ORDER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.errorType.String())
		})
	}
}

func TestExchangeError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ExchangeError
		want string
	}{
		{
			name: "without_code",
			err: &ExchangeError{
				Exchange:   "kraken",
				Type:       ErrorTypeServerError,
				StatusCode: 502,
				Message:    "502 Bad Gateway",
			},
			want: "[kraken] SERVER_ERROR (502): 502 Bad Gateway",
		},
		{
			name: "with_code",
			err: &ExchangeError{
				Exchange:   "kraken",
				Type:       ErrorTypeAuthentication,
				StatusCode: 200,
				Code:       "EAPI",
				Message:    "EAPI:Invalid nonce",
			},
			want: "[kraken] AUTHENTICATION (200/EAPI): EAPI:Invalid nonce",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestNewExchangeError(t *testing.T) {
	err := NewExchangeError("kraken", ErrorTypeNetwork, 0, "connection refused")

	assert.NotNil(t, err)
	assert.Equal(t, "kraken", err.Exchange)
	assert.Equal(t, ErrorTypeNetwork, err.Type)
	assert.Equal(t, 0, err.StatusCode)
	assert.Equal(t, "connection refused", err.Message)
	assert.False(t, err.Timestamp.IsZero())
}

func TestNewExchangeErrorWithCode(t *testing.T) {
	err := NewExchangeErrorWithCode("kraken", ErrorTypeInsufficientFunds, 200, "EOrder", "EOrder:Insufficient funds")

	assert.Equal(t, "kraken", err.Exchange)
	assert.Equal(t, ErrorTypeInsufficientFunds, err.Type)
	assert.Equal(t, 200, err.StatusCode)
	assert.Equal(t, "EOrder", err.Code)
	assert.Equal(t, "EOrder:Insufficient funds", err.Message)
}

func TestExchangeError_Unwrap(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := NewExchangeError("kraken", ErrorTypeNetwork, 0, cause.Error()).
		WithCode(ErrCodeNetwork).
		WithCause(cause)

	wrapped := fmt.Errorf("http request: %w", err)

	assert.True(t, errors.Is(wrapped, cause))
	assert.True(t, IsErrorCode(wrapped, ErrCodeNetwork))
	assert.False(t, IsErrorCode(wrapped, ErrCodeTimeout))
	assert.False(t, IsErrorCode(cause, ErrCodeNetwork))
}

func TestErrorPredicates(t *testing.T) {
	networkErr := NewExchangeError("test", ErrorTypeNetwork, 0, "network error")
	timeoutErr := NewExchangeError("test", ErrorTypeTimeout, 0, "timeout")
	rateLimitErr := NewExchangeError("test", ErrorTypeRateLimit, 429, "rate limited")
	authErr := NewExchangeError("test", ErrorTypeAuthentication, 200, "invalid nonce")

	assert.True(t, IsNetworkError(networkErr))
	assert.False(t, IsNetworkError(authErr))
	assert.False(t, IsNetworkError(nil))

	assert.True(t, IsTimeoutError(timeoutErr))
	assert.False(t, IsTimeoutError(networkErr))

	assert.True(t, IsRateLimitError(rateLimitErr))
	assert.False(t, IsRateLimitError(networkErr))

	assert.True(t, IsAuthenticationError(authErr))
	assert.True(t, IsAuthenticationError(fmt.Errorf("parse response: %w", authErr)))
	assert.False(t, IsAuthenticationError(errors.New("plain")))
}

func TestIsTerminalError(t *testing.T) {
	tests := []struct {
		name     string
		errType  ErrorType
		terminal bool
	}{
		{"insufficient_funds", ErrorTypeInsufficientFunds, true},
		{"invalid_order", ErrorTypeInvalidOrder, true},
		{"not_found", ErrorTypeNotFound, true},
		{"network", ErrorTypeNetwork, false},
		{"timeout", ErrorTypeTimeout, false},
		{"rate_limit", ErrorTypeRateLimit, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewExchangeError("test", tt.errType, 200, "message")
			assert.Equal(t, tt.terminal, IsTerminalError(err))
		})
	}

	assert.False(t, IsTerminalError(nil))
}
