package core

import (
	"context"
	"time"

	"resty.dev/v3"
)

// RateLimitConfig describes an exchange's published request budget:
// Requests may be spent within each Period.
type RateLimitConfig struct {
	Requests int           `json:"requests"`
	Period   time.Duration `json:"period"`
}

// Protocol defines the interface for exchange-specific protocol implementations.
// Each exchange must implement this interface to handle request building,
// response parsing, authentication, and rate limiting.
type Protocol interface {
	// Name returns the exchange identifier (e.g., "kraken").
	Name() string

	// Version returns the API version being used.
	Version() string

	// BaseURL returns the production API base URL.
	BaseURL() string

	// BuildRequest constructs an HTTP request for the specified operation.
	// The params map contains operation-specific parameters.
	BuildRequest(ctx context.Context, op Operation, params Params) (*Request, error)

	// ParseResponse deserializes a 2xx HTTP response and normalizes it.
	// The op parameter specifies which operation was performed.
	ParseResponse(op Operation, resp *resty.Response) (any, error)

	// SignRequest adds authentication headers computed over the request
	// exactly as it will be transmitted.
	SignRequest(req *Request, creds Credentials) error

	// SupportedOperations returns the list of operations this protocol supports.
	SupportedOperations() []Operation

	// RateLimits returns the rate limiting configuration for this exchange.
	RateLimits() RateLimitConfig
}
