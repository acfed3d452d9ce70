package kraken

import (
	"fmt"
	"sort"

	"github.com/cockroachdb/apd/v3"

	"krakensweep/pkg/core"
)

// Normalizer converts Kraken payloads into canonical core types.
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// ParseAmount parses an exchange decimal string. NaN and infinities are
// rejected.
func ParseAmount(s string) (*apd.Decimal, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", s, err)
	}
	if d.Form != apd.Finite {
		return nil, fmt.Errorf("parse amount %q: not a finite number", s)
	}
	return d, nil
}

// NormalizeBalances returns one Balance per asset, sorted by asset code.
func (n *Normalizer) NormalizeBalances(raw map[string]string) ([]core.Balance, error) {
	assets := make([]string, 0, len(raw))
	for asset := range raw {
		assets = append(assets, asset)
	}
	sort.Strings(assets)

	balances := make([]core.Balance, 0, len(assets))
	for _, asset := range assets {
		free, err := ParseAmount(raw[asset])
		if err != nil {
			return nil, fmt.Errorf("balance %s: %w", asset, err)
		}
		balances = append(balances, core.Balance{
			Asset: asset,
			Raw:   raw[asset],
			Free:  *free,
		})
	}
	return balances, nil
}

// NormalizeOrder maps an AddOrder result. An empty error list means the
// exchange accepted the order, so the status is always StatusNew here; the
// caller marks validate-only submissions.
func (n *Normalizer) NormalizeOrder(res *addOrderResult) *core.Order {
	order := &core.Order{
		Side:   core.SideSell,
		Type:   core.TypeMarket,
		Status: core.StatusNew,
	}
	if res == nil {
		return order
	}

	order.Description = res.Description
	if len(res.TxIDs) > 0 {
		order.ID = res.TxIDs[0]
		order.TxIDs = res.TxIDs
	}
	return order
}
