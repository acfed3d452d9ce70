package exchange

import (
	"context"

	"krakensweep/pkg/core"
)

// Exchange is the account surface a sweep needs: read balances and submit
// a single order. Implementations are safe for concurrent use.
type Exchange interface {
	Name() string
	Version() string

	// FetchBalance returns balances exactly as the exchange reported them,
	// asset code to decimal string.
	FetchBalance(ctx context.Context) (map[string]string, error)
	GetBalance(ctx context.Context) ([]core.Balance, error)

	PlaceOrder(ctx context.Context, req *OrderRequest, opts ...Option) (*core.Order, error)

	Close() error
}

// OrderRequest contains the parameters required to place a new order on an exchange.
// Volume is a decimal string and is transmitted verbatim.
type OrderRequest struct {
	Symbol string
	Side   core.OrderSide
	Type   core.OrderType
	Volume string
}
