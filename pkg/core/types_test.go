package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderSide_String(t *testing.T) {
	tests := []struct {
		name string
		side OrderSide
		want string
	}{
		{"buy", SideBuy, "BUY"},
		{"sell", SideSell, "SELL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.side.String())
		})
	}
}

func TestOrderType_String(t *testing.T) {
	assert.Equal(t, "MARKET", TypeMarket.String())
	assert.Equal(t, "LIMIT", TypeLimit.String())
}

func TestOrderStatus_String(t *testing.T) {
	tests := []struct {
		name   string
		status OrderStatus
		want   string
	}{
		{"new", StatusNew, "NEW"},
		{"validated", StatusValidated, "VALIDATED"},
		{"rejected", StatusRejected, "REJECTED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.String())
		})
	}
}

func TestEnums_MarshalJSON(t *testing.T) {
	b, err := SideSell.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"SELL"`, string(b))

	b, err = TypeMarket.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"MARKET"`, string(b))

	b, err = StatusValidated.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"VALIDATED"`, string(b))
}
