package valuation

import (
	"math"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"marketScope/internal/amount"
	"marketScope/internal/market"
	"marketScope/internal/model"
	"marketScope/internal/pricing"
)

func testEngine() Engine {
	return Engine{
		Decimals: map[common.Address]uint8{
			market.USDC: 6,
			market.USDT: 6,
			market.WETH: 18,
			market.WBTC: 8,
			market.REX:  18,
		},
		Prices: pricing.Table{
			market.USDC: 1,
			market.USDT: 1,
			market.WETH: 2500,
			market.REX:  0.5,
		},
	}
}

func entry(t *testing.T, id string) market.Entry {
	t.Helper()
	e, ok := market.Linea().Entry(id)
	if !ok {
		t.Fatalf("missing market %s", id)
	}
	return e
}

func approx(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Abs(b))
}

func TestValueTokenBalances(t *testing.T) {
	v, err := testEngine().Value(entry(t, "usdc-eth"), model.BalancesSnapshot{Balances: map[common.Address]*big.Int{
		market.USDC: amount.FromUnits(5000, 6),
		market.WETH: amount.FromUnits(2, 18),
	}})
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if !approx(v.TVLUSD, 10000) {
		t.Fatalf("tvl = %v, want 10000", v.TVLUSD)
	}
}

func TestValueTokenBalancesUnresolvedConstituent(t *testing.T) {
	// wbtc has no price in the test table
	v, err := testEngine().Value(entry(t, "wbtc-eth"), model.BalancesSnapshot{Balances: map[common.Address]*big.Int{
		market.WBTC: amount.FromUnits(1, 8),
		market.WETH: amount.FromUnits(40, 18),
	}})
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if v.TVLUSD != 0 {
		t.Fatalf("tvl = %v, want 0", v.TVLUSD)
	}
}

func TestValuePoolReservesEitherSlotOrder(t *testing.T) {
	e := entry(t, "rex-eth")
	rex := amount.FromUnits(1000, 18)
	weth := amount.FromUnits(1, 18)

	forward, err := testEngine().Value(e, model.ReservesSnapshot{
		Token0: market.REX, Token1: market.WETH, Reserve0: rex, Reserve1: weth,
	})
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	swapped, err := testEngine().Value(e, model.ReservesSnapshot{
		Token0: market.WETH, Token1: market.REX, Reserve0: weth, Reserve1: rex,
	})
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if !approx(forward.TVLUSD, 3000) || forward.TVLUSD != swapped.TVLUSD {
		t.Fatalf("tvl forward=%v swapped=%v, want 3000", forward.TVLUSD, swapped.TVLUSD)
	}
}

func TestValueVaultTotalSupply(t *testing.T) {
	v, err := testEngine().Value(entry(t, "re7-weth"), model.SupplySnapshot{TotalSupply: amount.FromUnits(3, 18)})
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if !approx(v.TVLUSD, 7500) {
		t.Fatalf("tvl = %v, want 7500", v.TVLUSD)
	}
}

func TestValueWrappedAssetTotalSupply(t *testing.T) {
	var wrapped market.Entry
	for _, e := range market.Linea().Entries {
		if e.Method.Kind() == market.KindWrappedAssetTotalSupply {
			wrapped = e
			break
		}
	}

	v, err := testEngine().Value(wrapped, model.WrappedSupplySnapshot{
		TotalSupply: amount.FromUnits(250, 6),
		Underlying:  market.USDT,
	})
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if !approx(v.TVLUSD, 250) || v.Underlying != market.USDT {
		t.Fatalf("unexpected valuation: %+v", v)
	}

	unknown := common.HexToAddress("0x4444444444444444444444444444444444444444")
	v, err = testEngine().Value(wrapped, model.WrappedSupplySnapshot{
		TotalSupply: amount.FromUnits(250, 6),
		Underlying:  unknown,
	})
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if v.TVLUSD != 0 || v.Underlying != unknown {
		t.Fatalf("unknown underlying must value to zero: %+v", v)
	}
}

func TestValueSnapshotMismatch(t *testing.T) {
	_, err := testEngine().Value(entry(t, "re7-weth"), model.BalancesSnapshot{})
	if err == nil {
		t.Fatalf("expected mismatch error")
	}
	_, err = testEngine().Value(entry(t, "usdc-usdt"), nil)
	if err == nil {
		t.Fatalf("expected error for missing snapshot")
	}
}
