// Package order builds exchange order requests and checks them before they
// are signed.
package order

import (
	"fmt"

	"github.com/cockroachdb/apd/v3"

	"krakensweep/pkg/core"
	"krakensweep/pkg/exchange"
)

// OrderBuilder provides a fluent interface for constructing orders.
// It accumulates the first validation error and reports it on Build.
//
// Example:
//
//	req, err := order.NewOrderBuilder("USDCUSD").
//	    Sell().
//	    Market().
//	    Volume("3.2").
//	    Build()
type OrderBuilder struct {
	req      *exchange.OrderRequest
	quantity apd.Decimal
	err      error
}

// NewOrderBuilder creates a new order builder for the given trading pair.
func NewOrderBuilder(pair string) *OrderBuilder {
	return &OrderBuilder{
		req: &exchange.OrderRequest{
			Symbol: pair,
			Side:   core.SideSell,
			Type:   core.TypeMarket,
		},
	}
}

// Side sets the order side.
func (b *OrderBuilder) Side(side core.OrderSide) *OrderBuilder {
	if b.err != nil {
		return b
	}
	b.req.Side = side
	return b
}

func (b *OrderBuilder) Sell() *OrderBuilder {
	return b.Side(core.SideSell)
}

// Type sets the order type.
func (b *OrderBuilder) Type(orderType core.OrderType) *OrderBuilder {
	if b.err != nil {
		return b
	}
	b.req.Type = orderType
	return b
}

func (b *OrderBuilder) Market() *OrderBuilder {
	return b.Type(core.TypeMarket)
}

// Volume sets the order volume. The string is kept as given and is what
// the exchange receives; it is only parsed to be checked.
func (b *OrderBuilder) Volume(volume string) *OrderBuilder {
	if b.err != nil {
		return b
	}
	if _, _, err := b.quantity.SetString(volume); err != nil {
		b.err = fmt.Errorf("parse volume: %w", err)
		return b
	}
	b.req.Volume = volume
	return b
}

// Build validates and returns the order request.
func (b *OrderBuilder) Build() (*exchange.OrderRequest, error) {
	if b.err != nil {
		return nil, b.err
	}

	if err := b.validate(); err != nil {
		return nil, err
	}

	return b.req, nil
}

func (b *OrderBuilder) validate() error {
	if b.req.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}

	if b.req.Volume == "" {
		return fmt.Errorf("volume is required")
	}

	if b.quantity.Form != apd.Finite {
		return fmt.Errorf("volume must be a finite number")
	}

	if b.quantity.IsZero() || b.quantity.Negative {
		return fmt.Errorf("volume must be positive")
	}

	if b.req.Side != core.SideSell || b.req.Type != core.TypeMarket {
		return fmt.Errorf("%w: %s %s", core.ErrUnsupported, b.req.Type, b.req.Side)
	}

	return nil
}
