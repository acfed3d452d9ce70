package kraken

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"krakensweep/internal/nonce"
	"krakensweep/pkg/core"
	"krakensweep/pkg/exchange"
	"krakensweep/pkg/session"
)

// KrakenExchange implements exchange.Exchange for a Kraken spot account.
// Pacing, the circuit breaker and signing are handled by its session.
type KrakenExchange struct {
	config     *core.Config
	session    *session.Session
	protocol   *Protocol
	normalizer *Normalizer
	logger     zerolog.Logger
}

// Option is a functional option for configuring the KrakenExchange.
type Option func(*Options)

// Options holds configuration options for the KrakenExchange.
type Options struct {
	Logger zerolog.Logger
	Nonce  NonceFunc
}

// WithLogger returns an option that sets the logger for the exchange.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithNonceFunc replaces the process-wide nonce source. Tests use it to pin nonces.
func WithNonceFunc(fn NonceFunc) Option {
	return func(o *Options) {
		o.Nonce = fn
	}
}

// New validates config and opens a session against Kraken. A malformed
// secret fails here, before any request is built.
func New(config *core.Config, opts ...Option) (*KrakenExchange, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	options := &Options{
		Logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(options)
	}

	if options.Nonce == nil {
		var key string
		if config.Credentials != nil {
			key = config.Credentials.APIKey
		}
		options.Nonce = func() int64 { return nonce.Default.Next(key) }
	}

	logger := options.Logger.With().Str("exchange", exchangeName).Logger()

	sess, err := session.New(config, session.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	protocol := NewProtocol(options.Nonce)
	if err := sess.SetProtocol(protocol); err != nil {
		return nil, fmt.Errorf("set protocol: %w", err)
	}

	return &KrakenExchange{
		config:     config,
		session:    sess,
		protocol:   protocol,
		normalizer: NewNormalizer(),
		logger:     logger,
	}, nil
}

// Register creates a KrakenExchange and adds it to the container under its
// name. The new client is closed again if the name is already taken.
func Register(c *exchange.Container, config *core.Config, opts ...Option) (*KrakenExchange, error) {
	ex, err := New(config, opts...)
	if err != nil {
		return nil, err
	}
	if err := c.Register(ex.Name(), ex); err != nil {
		_ = ex.Close()
		return nil, err
	}
	return ex, nil
}

func (e *KrakenExchange) Name() string {
	return exchangeName
}

func (e *KrakenExchange) Version() string {
	return e.protocol.Version()
}

// FetchBalance returns the account balances as reported, asset code to
// decimal string. An envelope error is returned as a *core.ExchangeError
// carrying every message; an empty result is ErrNoBalance.
func (e *KrakenExchange) FetchBalance(ctx context.Context) (map[string]string, error) {
	balances, err := e.session.GetBalance(ctx)
	if err != nil {
		e.logger.Warn().Err(err).Msg("balance request failed")
		return nil, err
	}
	e.logger.Debug().Int("assets", len(balances)).Msg("balance received")
	return balances, nil
}

// GetBalance fetches balances and parses them into decimals.
func (e *KrakenExchange) GetBalance(ctx context.Context) ([]core.Balance, error) {
	raw, err := e.FetchBalance(ctx)
	if err != nil {
		return nil, err
	}
	return e.normalizer.NormalizeBalances(raw)
}

// PlaceOrder submits a market sell. Other sides and types are rejected
// before anything is signed. Nothing is retried.
func (e *KrakenExchange) PlaceOrder(ctx context.Context, req *exchange.OrderRequest, opts ...exchange.Option) (*core.Order, error) {
	if req == nil {
		return nil, fmt.Errorf("order request is required")
	}
	if req.Side != core.SideSell || req.Type != core.TypeMarket {
		return nil, core.NewExchangeError(exchangeName, core.ErrorTypeBadRequest, 0,
			fmt.Sprintf("only market sell orders are supported, got %s %s", req.Type, req.Side)).
			WithCode(core.ErrCodeUnsupported).
			WithCause(core.ErrUnsupported)
	}

	quantity, err := ParseAmount(req.Volume)
	if err != nil {
		return nil, core.NewExchangeError(exchangeName, core.ErrorTypeBadRequest, 0, err.Error()).
			WithCause(err)
	}

	options := exchange.ApplyOptions(opts...)

	order, err := e.session.PlaceOrder(ctx, core.Params{
		"pair":     req.Symbol,
		"side":     req.Side.String(),
		"type":     req.Type.String(),
		"volume":   req.Volume,
		"validate": options.ValidateOnly,
	})
	if err != nil {
		e.logger.Warn().Err(err).Str("pair", req.Symbol).Str("volume", req.Volume).Msg("order rejected")
		return nil, err
	}

	if options.ValidateOnly {
		order.Status = core.StatusValidated
	}
	order.Symbol = req.Symbol
	order.Side = req.Side
	order.Type = req.Type
	order.Quantity = *quantity
	order.CreatedAt = time.Now()

	e.logger.Info().
		Str("pair", order.Symbol).
		Str("volume", req.Volume).
		Strs("txid", order.TxIDs).
		Str("status", order.Status.String()).
		Msg("order submitted")

	return order, nil
}

func (e *KrakenExchange) Close() error {
	return e.session.Close()
}
