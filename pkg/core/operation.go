package core

// Operation represents a type of action that can be performed on an exchange.
type Operation int

// Operation constants define all supported exchange operations.
const (
	// OpGetBalance retrieves account balance information.
	OpGetBalance Operation = iota
	// OpPlaceOrder submits a new order to the exchange.
	OpPlaceOrder
)

// String returns the string representation of the operation.
func (o Operation) String() string {
	return [...]string{
		"GET_BALANCE",
		"PLACE_ORDER",
	}[o]
}
