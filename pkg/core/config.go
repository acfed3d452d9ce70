package core

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// DefaultBaseURL is the production endpoint of the Kraken REST API.
const DefaultBaseURL = "https://api.kraken.com"

// Credentials holds API authentication credentials for an exchange.
// Values are never mutated after construction and are shared by copy.
type Credentials struct {
	// APIKey is the public API key identifier, sent verbatim with every private call.
	APIKey string `json:"api_key"`
	// SecretKey is the base64-encoded private key used for signing requests.
	// It is never transmitted.
	SecretKey string `json:"secret_key"`
}

// Validate checks that both parts are present and that the secret is valid base64.
func (c Credentials) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("%w: api key is empty", ErrInvalidCredentials)
	}
	if c.SecretKey == "" {
		return fmt.Errorf("%w: api secret is empty", ErrInvalidCredentials)
	}
	if _, err := base64.StdEncoding.DecodeString(c.SecretKey); err != nil {
		return fmt.Errorf("%w: api secret is not valid base64: %v", ErrInvalidCredentials, err)
	}
	return nil
}

// String masks both the key and the secret.
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{APIKey:%s, SecretKey:%s}", maskKey(c.APIKey), maskKey(c.SecretKey))
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****" + key[len(key)-4:]
}

// Config contains all configuration options for a sweep run.
// It covers authentication, networking, client-side pacing, the circuit breaker,
// and the asset/pair being liquidated.
type Config struct {
	Exchange    string       `json:"exchange" validate:"required"`
	BaseURL     string       `json:"base_url" validate:"omitempty,url"`
	Credentials *Credentials `json:"credentials,omitempty"`

	// Timeout is the maximum duration for a single HTTP request.
	Timeout time.Duration `json:"timeout" validate:"min=1ms"`

	// RateLimitRequests of zero falls back to the protocol's published limits.
	RateLimitRequests int           `json:"rate_limit_requests" validate:"min=0"`
	RateLimitPeriod   time.Duration `json:"rate_limit_period" validate:"min=0"`

	CircuitBreakerEnabled          bool          `json:"circuit_breaker_enabled"`
	CircuitBreakerFailThreshold    int           `json:"circuit_breaker_fail_threshold"`
	CircuitBreakerSuccessThreshold int           `json:"circuit_breaker_success_threshold"`
	CircuitBreakerTimeout          time.Duration `json:"circuit_breaker_timeout"`

	// Asset is the balance key to liquidate (e.g. "USDC").
	Asset string `json:"asset" validate:"required,alphanum"`
	// Pair is the exchange trading pair the asset is sold on (e.g. "USDCUSD").
	Pair string `json:"pair" validate:"required,alphanum"`
	// ValidateOnly asks the exchange to validate orders without placing them.
	ValidateOnly bool `json:"validate_only"`

	LogLevel string `json:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// DefaultConfig returns a Config initialized with defaults for the specified exchange.
// Default values: production base URL, 30s timeout, 15 req/45s pacing,
// circuit breaker with 5 failures/2 successes/30s timeout, USDC sold on USDCUSD.
func DefaultConfig(exchange string) *Config {
	return &Config{
		Exchange: exchange,
		BaseURL:  DefaultBaseURL,
		Timeout:  30 * time.Second,

		RateLimitRequests: 15,
		RateLimitPeriod:   45 * time.Second,

		CircuitBreakerEnabled:          true,
		CircuitBreakerFailThreshold:    5,
		CircuitBreakerSuccessThreshold: 2,
		CircuitBreakerTimeout:          30 * time.Second,

		Asset: "USDC",
		Pair:  "USDCUSD",

		LogLevel: "info",
	}
}

var validate = validator.New()

// Validate checks struct constraints, the circuit breaker settings and,
// when present, the credentials. A malformed secret fails here so that no
// request is ever sent with it.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.RateLimitRequests > 0 && c.RateLimitPeriod <= 0 {
		return errors.New("RateLimitPeriod must be positive when RateLimitRequests is set")
	}
	if c.CircuitBreakerEnabled {
		if c.CircuitBreakerFailThreshold <= 0 {
			return errors.New("CircuitBreakerFailThreshold must be positive when enabled")
		}
		if c.CircuitBreakerSuccessThreshold <= 0 {
			return errors.New("CircuitBreakerSuccessThreshold must be positive when enabled")
		}
		if c.CircuitBreakerTimeout <= 0 {
			return errors.New("CircuitBreakerTimeout must be positive when enabled")
		}
	}
	if c.Credentials != nil {
		if err := c.Credentials.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// WithCredentials sets the API credentials and returns the config for chaining.
func (c *Config) WithCredentials(creds *Credentials) *Config {
	c.Credentials = creds
	return c
}

// WithBaseURL overrides the API base URL and returns the config for chaining.
func (c *Config) WithBaseURL(url string) *Config {
	c.BaseURL = url
	return c
}

// WithTimeout sets the request timeout and returns the config for chaining.
func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.Timeout = timeout
	return c
}

// WithRateLimit sets the pacing parameters and returns the config for chaining.
func (c *Config) WithRateLimit(requests int, period time.Duration) *Config {
	c.RateLimitRequests = requests
	c.RateLimitPeriod = period
	return c
}

// WithPair sets the asset to liquidate and the pair it is sold on.
func (c *Config) WithPair(asset, pair string) *Config {
	c.Asset = asset
	c.Pair = pair
	return c
}

// WithValidateOnly toggles exchange-side order validation without execution.
func (c *Config) WithValidateOnly(v bool) *Config {
	c.ValidateOnly = v
	return c
}
