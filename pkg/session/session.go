package session

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"resty.dev/v3"

	"krakensweep/internal/circuitbreaker"
	httpclient "krakensweep/internal/http"
	"krakensweep/internal/ratelimit"
	"krakensweep/pkg/core"
)

// State represents the lifecycle state of a Session.
type State int

const (
	// StateNew indicates a newly created session that has not yet been activated.
	StateNew State = iota
	// StateActive indicates a session that is ready to process requests.
	StateActive
	// StateClosed indicates a session that has been shut down and can no longer be used.
	StateClosed
)

// String returns the string representation of the State.
func (s State) String() string {
	return [...]string{"NEW", "ACTIVE", "CLOSED"}[s]
}

// Session is the request pipeline for one exchange account. Every call goes
// through build, breaker check, pacing, signing, send, classification and parse.
// Sessions are safe for concurrent use. They never retry.
type Session struct {
	mu             sync.RWMutex
	config         *core.Config
	protocol       core.Protocol
	credentials    *core.Credentials
	client         *httpclient.Client
	rateLimiter    *ratelimit.RateLimiter
	circuitBreaker *circuitbreaker.Breaker
	logger         zerolog.Logger
	state          State
	createdAt      time.Time
	lastUsed       time.Time
}

type Option func(*Session)

// WithLogger sets the logger used by the session and its HTTP client.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// New creates a new Session with the provided configuration.
// The configuration is validated before the session is created, so a
// malformed secret is rejected before any request exists.
func New(config *core.Config, opts ...Option) (*Session, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	var circuitBreaker *circuitbreaker.Breaker
	if config.CircuitBreakerEnabled {
		circuitBreaker = circuitbreaker.New(circuitbreaker.Config{
			FailThreshold:    config.CircuitBreakerFailThreshold,
			SuccessThreshold: config.CircuitBreakerSuccessThreshold,
			Timeout:          config.CircuitBreakerTimeout,
		})
	}

	var rateLimiter *ratelimit.RateLimiter
	if config.RateLimitRequests > 0 {
		rateLimiter = ratelimit.New(config.RateLimitRequests, config.RateLimitPeriod)
	}

	now := time.Now()
	session := &Session{
		config:         config,
		credentials:    config.Credentials,
		rateLimiter:    rateLimiter,
		circuitBreaker: circuitBreaker,
		logger:         zerolog.Nop(),
		state:          StateNew,
		createdAt:      now,
		lastUsed:       now,
	}

	for _, opt := range opts {
		opt(session)
	}

	return session, nil
}

// SetProtocol assigns the exchange protocol to the session and opens the
// HTTP client against the configured base URL, falling back to the
// protocol's own. The session state transitions to Active if currently New.
func (s *Session) SetProtocol(protocol core.Protocol) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if protocol == nil {
		return fmt.Errorf("protocol is required")
	}
	if s.state == StateClosed {
		return core.ErrClientClosed
	}

	baseURL := s.config.BaseURL
	if baseURL == "" {
		baseURL = protocol.BaseURL()
	}

	client, err := httpclient.NewClient(&httpclient.Config{
		BaseURL: baseURL,
		Timeout: s.config.Timeout,
	}, s.logger)
	if err != nil {
		return fmt.Errorf("create http client: %w", err)
	}

	if s.client != nil {
		_ = s.client.Close()
	}
	s.client = client
	s.protocol = protocol

	if s.rateLimiter == nil {
		limits := protocol.RateLimits()
		if limits.Requests > 0 && limits.Period > 0 {
			s.rateLimiter = ratelimit.New(limits.Requests, limits.Period)
		}
	}

	if s.state == StateNew {
		s.state = StateActive
	}

	s.lastUsed = time.Now()

	return nil
}

// Do executes an operation against the exchange and returns the protocol's
// parsed result.
func (s *Session) Do(ctx context.Context, op core.Operation, params core.Params) (any, error) {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return nil, core.NewExchangeError(s.config.Exchange, core.ErrorTypeUnknown, 0, "session is closed").
			WithCode(core.ErrCodeClientClosed).
			WithCause(core.ErrClientClosed)
	}
	if s.protocol == nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("protocol not set")
	}
	protocol := s.protocol
	client := s.client
	creds := s.credentials
	s.lastUsed = time.Now()
	s.mu.Unlock()

	req, err := protocol.BuildRequest(ctx, op, params)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	if s.circuitBreaker != nil {
		if !s.circuitBreaker.Allow() {
			return nil, core.NewExchangeError(
				s.config.Exchange,
				core.ErrorTypeServerError,
				http.StatusServiceUnavailable,
				"circuit breaker is open",
			).WithCode(core.ErrCodeCircuitBreaker).WithCause(core.ErrCircuitBreakerOpen)
		}
	}

	if s.rateLimiter != nil {
		if err := s.rateLimiter.WaitN(ctx, req.Weight); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	if req.RequireAuth {
		if creds == nil {
			return nil, core.NewExchangeError(s.config.Exchange, core.ErrorTypeAuthentication, 0, "no credentials configured").
				WithCode(core.ErrCodeNoCredentials).
				WithCause(core.ErrNoCredentials)
		}
		if err := protocol.SignRequest(req, *creds); err != nil {
			return nil, fmt.Errorf("sign request: %w", err)
		}
	}

	resp, err := s.send(ctx, client, req)

	success := err == nil && resp != nil && resp.IsSuccess()
	if s.circuitBreaker != nil {
		s.circuitBreaker.Record(success)
	}

	if err != nil {
		classified := s.classifyTransportError(err)
		s.logger.Error().
			Err(classified).
			Str("op", op.String()).
			Str("path", req.Path).
			Str("breaker", s.BreakerState().String()).
			Msg("request failed")
		return nil, classified
	}

	if !resp.IsSuccess() {
		excErr := core.NewExchangeError(
			s.config.Exchange,
			mapStatusCode(resp.StatusCode()),
			resp.StatusCode(),
			string(resp.Bytes()),
		).WithCode(core.ErrCodeHTTPStatus)
		s.logger.Error().
			Int("status", resp.StatusCode()).
			Str("op", op.String()).
			Str("breaker", s.BreakerState().String()).
			Msg("exchange returned error status")
		return nil, excErr
	}

	result, err := protocol.ParseResponse(op, resp)
	if err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	return result, nil
}

func (s *Session) send(ctx context.Context, client *httpclient.Client, req *core.Request) (*resty.Response, error) {
	switch req.Method {
	case http.MethodPost:
		return client.Post(ctx, req.Path, req.Body, httpclient.WithHeaders(req.Headers))
	case http.MethodGet:
		return client.Get(ctx, req.Path, httpclient.WithHeaders(req.Headers))
	default:
		return nil, fmt.Errorf("unsupported method: %s", req.Method)
	}
}

func (s *Session) classifyTransportError(err error) error {
	if errors.Is(err, core.ErrClientClosed) {
		return core.NewExchangeError(s.config.Exchange, core.ErrorTypeUnknown, 0, err.Error()).
			WithCode(core.ErrCodeClientClosed).
			WithCause(err)
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return core.NewExchangeError(s.config.Exchange, core.ErrorTypeTimeout, 0, err.Error()).
			WithCode(core.ErrCodeTimeout).
			WithCause(err)
	}

	return core.NewExchangeError(s.config.Exchange, core.ErrorTypeNetwork, 0, err.Error()).
		WithCode(core.ErrCodeNetwork).
		WithCause(err)
}

func mapStatusCode(statusCode int) core.ErrorType {
	switch {
	case statusCode >= 500:
		return core.ErrorTypeServerError
	case statusCode == 429:
		return core.ErrorTypeRateLimit
	case statusCode == 401 || statusCode == 403:
		return core.ErrorTypeAuthentication
	case statusCode == 400:
		return core.ErrorTypeBadRequest
	case statusCode == 404:
		return core.ErrorTypeNotFound
	default:
		return core.ErrorTypeUnknown
	}
}

// Close shuts down the session and its HTTP client.
// After closing, every call fails with ErrClientClosed.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return nil
	}
	s.state = StateClosed

	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// State returns the current lifecycle state of the session.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) Protocol() core.Protocol {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.protocol
}

func (s *Session) Config() *core.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

func (s *Session) CreatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.createdAt
}

func (s *Session) LastUsed() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUsed
}

// SetCredentials updates the API credentials used for authenticated requests.
func (s *Session) SetCredentials(creds *core.Credentials) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credentials = creds
}

// BreakerState reports the circuit breaker state, or CLOSED when disabled.
func (s *Session) BreakerState() circuitbreaker.State {
	if s.circuitBreaker == nil {
		return circuitbreaker.StateClosed
	}
	return s.circuitBreaker.State()
}

// GetBalance fetches the raw balance map, asset code to decimal string.
// Requires authenticated session with valid API credentials.
func (s *Session) GetBalance(ctx context.Context) (map[string]string, error) {
	result, err := s.Do(ctx, core.OpGetBalance, nil)
	if err != nil {
		return nil, err
	}
	balances, ok := result.(map[string]string)
	if !ok {
		return nil, fmt.Errorf("unexpected response type: %T", result)
	}
	return balances, nil
}

// PlaceOrder submits a new order to the exchange.
// Requires authenticated session with valid API credentials.
func (s *Session) PlaceOrder(ctx context.Context, params core.Params) (*core.Order, error) {
	result, err := s.Do(ctx, core.OpPlaceOrder, params)
	if err != nil {
		return nil, err
	}

	placedOrder, ok := result.(*core.Order)
	if !ok {
		return nil, fmt.Errorf("unexpected response type: %T", result)
	}

	return placedOrder, nil
}
