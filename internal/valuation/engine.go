package valuation

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"marketScope/internal/amount"
	"marketScope/internal/market"
	"marketScope/internal/model"
	"marketScope/internal/pricing"
)

// Valued is the outcome of valuing one market.
type Valued struct {
	TVLUSD float64
	// Underlying is set for wrapped-asset markets.
	Underlying common.Address
}

// Engine values markets from raw snapshots using one cycle's decimals and
// resolved prices.
type Engine struct {
	Decimals map[common.Address]uint8
	Prices   pricing.Table
}

// Value computes the USD TVL of a market. Unknown decimals or prices value
// the market at zero without error; a snapshot that does not match the
// market's method is an error.
func (e Engine) Value(entry market.Entry, snap model.Snapshot) (Valued, error) {
	switch m := entry.Method.(type) {
	case market.WrappedAssetTotalSupply:
		s, ok := snap.(model.WrappedSupplySnapshot)
		if !ok {
			return Valued{}, mismatch(entry, snap)
		}
		tvl, _ := e.usd(s.Underlying, s.TotalSupply)
		return Valued{TVLUSD: tvl, Underlying: s.Underlying}, nil

	case market.TokenBalances:
		s, ok := snap.(model.BalancesSnapshot)
		if !ok {
			return Valued{}, mismatch(entry, snap)
		}
		var total float64
		for _, token := range m.Tokens {
			usd, ok := e.usd(token, s.Balances[token])
			if !ok {
				return Valued{}, nil
			}
			total += usd
		}
		return Valued{TVLUSD: total}, nil

	case market.PoolReserves:
		s, ok := snap.(model.ReservesSnapshot)
		if !ok {
			return Valued{}, mismatch(entry, snap)
		}
		reserves := [2]*big.Int{s.Reserve0, s.Reserve1}
		var total float64
		for _, token := range m.Tokens {
			slot, ok := pricing.ReserveSlot(s.Token0, s.Token1, token)
			if !ok {
				return Valued{}, nil
			}
			usd, ok := e.usd(token, reserves[slot])
			if !ok {
				return Valued{}, nil
			}
			total += usd
		}
		return Valued{TVLUSD: total}, nil

	case market.VaultTotalSupply:
		s, ok := snap.(model.SupplySnapshot)
		if !ok {
			return Valued{}, mismatch(entry, snap)
		}
		tvl, _ := e.usd(m.Asset, s.TotalSupply)
		return Valued{TVLUSD: tvl}, nil

	default:
		return Valued{}, fmt.Errorf("market %s: unsupported valuation method %T", entry.ID, entry.Method)
	}
}

// usd converts a raw amount of token into USD. It reports false when the
// token's decimals or price are unknown.
func (e Engine) usd(token common.Address, raw *big.Int) (float64, bool) {
	dec, ok := e.Decimals[token]
	if !ok {
		return 0, false
	}
	price, ok := e.Prices.Price(token)
	if !ok {
		return 0, false
	}
	return amount.ToFloat(raw, dec) * price, true
}

func mismatch(entry market.Entry, snap model.Snapshot) error {
	return fmt.Errorf("market %s: snapshot %T does not match method %s", entry.ID, snap, entry.Method.Kind())
}
