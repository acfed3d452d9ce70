// Package sweep sells the whole free balance of one asset with a single
// market order. Each run is one balance read followed by at most one order.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"krakensweep/pkg/core"
	"krakensweep/pkg/exchange"
	"krakensweep/pkg/order"
)

type Status string

const (
	StatusSold           Status = "sold"
	StatusValidated      Status = "validated"
	StatusNothingToSell  Status = "nothing_to_sell"
	StatusAssetMissing   Status = "asset_missing"
	StatusInvalidBalance Status = "invalid_balance"
	StatusNoBalance      Status = "no_balance"
	StatusOrderFailed    Status = "order_failed"
)

// Outcome is the result of one run. Err holds the cause for the failure
// statuses; Error is its text for serialisation.
type Outcome struct {
	Status     Status      `json:"status"`
	Asset      string      `json:"asset"`
	Pair       string      `json:"pair"`
	Balance    string      `json:"balance,omitempty"`
	Order      *core.Order `json:"order,omitempty"`
	Error      string      `json:"error,omitempty"`
	Err        error       `json:"-"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt time.Time   `json:"finished_at"`
}

func (o *Outcome) fail(status Status, err error) {
	o.Status = status
	o.Err = err
	if err != nil {
		o.Error = err.Error()
	}
}

type Sweeper struct {
	exchange     exchange.Exchange
	asset        string
	pair         string
	validateOnly bool
	logger       zerolog.Logger
}

type Option func(*Sweeper)

// WithAsset sets the balance key to liquidate. Defaults to USDC.
func WithAsset(asset string) Option {
	return func(s *Sweeper) {
		s.asset = asset
	}
}

// WithPair sets the pair the asset is sold on. Defaults to USDCUSD.
func WithPair(pair string) Option {
	return func(s *Sweeper) {
		s.pair = pair
	}
}

func WithValidateOnly(v bool) Option {
	return func(s *Sweeper) {
		s.validateOnly = v
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Sweeper) {
		s.logger = logger
	}
}

func New(ex exchange.Exchange, opts ...Option) (*Sweeper, error) {
	if ex == nil {
		return nil, fmt.Errorf("exchange is required")
	}

	s := &Sweeper{
		exchange: ex,
		asset:    "USDC",
		pair:     "USDCUSD",
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.asset == "" || s.pair == "" {
		return nil, fmt.Errorf("asset and pair are required")
	}
	return s, nil
}

// Run reads the balance and, when the asset holds a positive amount, sells
// all of it. Exchange and parse failures are reported in the Outcome; the
// returned error is set only for bad credentials or a cancelled context.
func (s *Sweeper) Run(ctx context.Context) (*Outcome, error) {
	out := &Outcome{
		Asset:     s.asset,
		Pair:      s.pair,
		StartedAt: time.Now(),
	}
	defer func() { out.FinishedAt = time.Now() }()

	log := s.logger.With().Str("asset", s.asset).Str("pair", s.pair).Logger()

	balances, err := await(ctx, s.exchange.FetchBalance)
	if err != nil {
		out.fail(StatusNoBalance, err)
		if fatal(ctx, err) {
			return out, err
		}
		log.Error().Err(err).Msg("no balance available, skipping order")
		return out, nil
	}

	raw, ok := balances[s.asset]
	if !ok {
		out.fail(StatusAssetMissing, nil)
		log.Info().Int("assets", len(balances)).Msg("asset not in balance, nothing to do")
		return out, nil
	}
	out.Balance = raw

	amount, _, err := apd.NewFromString(raw)
	if err == nil && amount.Form != apd.Finite {
		err = errors.New("not a finite number")
	}
	if err != nil {
		out.fail(StatusInvalidBalance, fmt.Errorf("parse balance %q: %w", raw, err))
		log.Error().Err(out.Err).Msg("balance is not a decimal")
		return out, nil
	}

	if amount.Sign() <= 0 {
		out.Status = StatusNothingToSell
		log.Info().Str("balance", raw).Msg("balance is not positive, nothing to sell")
		return out, nil
	}

	req, err := order.NewOrderBuilder(s.pair).Sell().Market().Volume(raw).Build()
	if err != nil {
		out.fail(StatusOrderFailed, fmt.Errorf("build order: %w", err))
		log.Error().Err(out.Err).Msg("order not built")
		return out, nil
	}

	log.Info().Str("balance", raw).Bool("validate_only", s.validateOnly).Msg("selling balance")

	placed, err := await(ctx, func(ctx context.Context) (*core.Order, error) {
		return s.exchange.PlaceOrder(ctx, req, exchange.WithValidateOnly(s.validateOnly))
	})
	if err != nil {
		out.fail(StatusOrderFailed, err)
		if fatal(ctx, err) {
			return out, err
		}
		log.Error().Err(err).Str("volume", raw).Msg("order failed")
		return out, nil
	}

	out.Order = placed
	out.Status = StatusSold
	if placed.Status == core.StatusValidated {
		out.Status = StatusValidated
	}

	log.Info().
		Str("volume", raw).
		Strs("txid", placed.TxIDs).
		Str("status", string(out.Status)).
		Msg("sweep complete")

	return out, nil
}

// await runs fn as its own task and joins on it. The order step is only
// started after the balance task has finished.
func await[T any](ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	var result T
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		result, err = fn(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

// fatal reports errors that no later run could get past without a config
// change. Credentials the exchange rejects (EAPI:Invalid key) stay in the
// Outcome: the keys may simply have been revoked for this run.
func fatal(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	if errors.Is(err, core.ErrInvalidCredentials) {
		return true
	}
	return core.IsAuthenticationError(err) && core.IsErrorCode(err, core.ErrCodeNoCredentials)
}
