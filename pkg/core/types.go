package core

import (
	"time"

	"github.com/cockroachdb/apd/v3"
)

// OrderSide represents the direction of an order (buy or sell).
type OrderSide int

// Order side constants define the direction of a trade.
const (
	// SideBuy indicates an order to purchase an asset.
	SideBuy OrderSide = iota
	// SideSell indicates an order to sell an asset.
	SideSell
)

// String returns the string representation of the order side ("BUY" or "SELL").
func (s OrderSide) String() string {
	return [...]string{"BUY", "SELL"}[s]
}

// MarshalJSON implements json.Marshaler for OrderSide.
func (s OrderSide) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// OrderType represents the type of order to place on an exchange.
type OrderType int

// Order type constants define how an order is executed.
const (
	// TypeMarket executes immediately at the best available price.
	TypeMarket OrderType = iota
	// TypeLimit executes at a specified price or better.
	TypeLimit
)

// String returns the string representation of the order type.
func (t OrderType) String() string {
	return [...]string{"MARKET", "LIMIT"}[t]
}

// MarshalJSON implements json.Marshaler for OrderType.
func (t OrderType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// OrderStatus represents the state of an order as known to this client.
type OrderStatus int

// Order status constants. The client only observes the submission result.
const (
	// StatusNew indicates the order has been accepted by the exchange.
	StatusNew OrderStatus = iota
	// StatusValidated indicates the exchange checked the order without placing it.
	StatusValidated
	// StatusRejected indicates the order was rejected by the exchange.
	StatusRejected
)

// String returns the string representation of the order status.
func (s OrderStatus) String() string {
	return [...]string{"NEW", "VALIDATED", "REJECTED"}[s]
}

// MarshalJSON implements json.Marshaler for OrderStatus.
func (s OrderStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// Balance represents account balance for a single asset.
type Balance struct {
	// Asset is the exchange's asset code (e.g., "USDC", "XXBT").
	Asset string `json:"asset"`
	// Raw is the balance exactly as the exchange reported it.
	Raw string `json:"raw"`
	// Free is the parsed balance.
	Free apd.Decimal `json:"free"`
}

// Order represents a submitted exchange order.
type Order struct {
	// ID is the first exchange-assigned transaction identifier.
	ID string `json:"id"`
	// TxIDs holds every transaction identifier the exchange returned.
	TxIDs []string `json:"txids,omitempty"`
	// Symbol is the trading pair for this order.
	Symbol string `json:"symbol"`
	// Side indicates whether this is a buy or sell order.
	Side OrderSide `json:"side"`
	// Type defines how the order executes.
	Type OrderType `json:"type"`
	// Quantity is the order volume in base currency.
	Quantity apd.Decimal `json:"quantity"`
	// Description is the exchange's human-readable summary of the order.
	Description string `json:"description"`
	// Status is the submission result.
	Status OrderStatus `json:"status"`
	// CreatedAt is when the order was submitted.
	CreatedAt time.Time `json:"created_at"`
}
