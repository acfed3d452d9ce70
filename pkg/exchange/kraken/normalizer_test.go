package kraken

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"krakensweep/pkg/core"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "3.2", want: "3.2"},
		{in: "0.0", want: "0.0"},
		{in: "12.50000000", want: "12.50000000"},
		{in: "-1", want: "-1"},
		{in: "", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "NaN", wantErr: true},
		{in: "Infinity", wantErr: true},
		{in: "1,5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestNormalizer_NormalizeBalances(t *testing.T) {
	n := NewNormalizer()

	balances, err := n.NormalizeBalances(map[string]string{
		"ZUSD": "100.0000",
		"USDC": "12.5",
		"XXBT": "0.0000000000",
	})
	require.NoError(t, err)
	require.Len(t, balances, 3)

	assert.Equal(t, "USDC", balances[0].Asset)
	assert.Equal(t, "12.5", balances[0].Raw)
	assert.Equal(t, "12.5", balances[0].Free.String())
	assert.Equal(t, "XXBT", balances[1].Asset)
	assert.True(t, balances[1].Free.IsZero())
	assert.Equal(t, "ZUSD", balances[2].Asset)
}

func TestNormalizer_NormalizeBalances_Invalid(t *testing.T) {
	_, err := NewNormalizer().NormalizeBalances(map[string]string{"USDC": "lots"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "USDC")
}

func TestNormalizer_NormalizeOrder_Nil(t *testing.T) {
	order := NewNormalizer().NormalizeOrder(nil)

	assert.Empty(t, order.ID)
	assert.Empty(t, order.TxIDs)
	assert.Equal(t, core.StatusNew, order.Status)
}

func TestNormalizer_NormalizeOrder(t *testing.T) {
	order := NewNormalizer().NormalizeOrder(&addOrderResult{
		Description: "sell 3.2 USDCUSD @ market",
		TxIDs:       []string{"OABC-123", "OABC-456"},
	})

	assert.Equal(t, "OABC-123", order.ID)
	assert.Equal(t, []string{"OABC-123", "OABC-456"}, order.TxIDs)
	assert.Equal(t, "sell 3.2 USDCUSD @ market", order.Description)
	assert.Equal(t, core.StatusNew, order.Status)
	assert.Equal(t, core.SideSell, order.Side)
}
