package market

import (
	"reflect"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestLineaRegistryValid(t *testing.T) {
	reg := Linea()
	if err := reg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(reg.Entries) != 17 {
		t.Fatalf("market count mismatch: %d", len(reg.Entries))
	}
}

func TestRegistryTokensFirstSeenOrder(t *testing.T) {
	got := Linea().Tokens()
	want := []common.Address{USDC, USDT, WETH, WBTC, REX}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("tokens mismatch: %v != %v", got, want)
	}
}

func TestRegistryEntryLookup(t *testing.T) {
	reg := Linea()
	entry, ok := reg.Entry("rex-eth")
	if !ok {
		t.Fatalf("rex-eth not found")
	}
	if entry.Method.Kind() != KindPoolReserves {
		t.Fatalf("method mismatch: %s", entry.Method.Kind())
	}
	if _, ok := reg.Entry("missing"); ok {
		t.Fatalf("unexpected entry for missing id")
	}
}

func TestValidateRejectsBadRegistries(t *testing.T) {
	other := common.HexToAddress("0x9999999999999999999999999999999999999999")

	cases := []struct {
		name   string
		mutate func(r *Registry)
		errSub string
	}{
		{
			name: "duplicate id",
			mutate: func(r *Registry) {
				r.Entries = append(r.Entries, r.Entries[0])
			},
			errSub: "duplicate market id",
		},
		{
			name: "too many balance tokens",
			mutate: func(r *Registry) {
				r.Entries[0].Method = TokenBalances{Tokens: []common.Address{USDC, USDT, WETH}}
			},
			errSub: "1 or 2 tokens",
		},
		{
			name: "bootstrap market missing",
			mutate: func(r *Registry) {
				r.Bootstraps[0].Market = "nope"
			},
			errSub: "bootstrap market not found",
		},
		{
			name: "bootstrap without reference",
			mutate: func(r *Registry) {
				r.Bootstraps[0].Market = "usdc-usdt"
			},
			errSub: "does not pair",
		},
		{
			name: "unpriced token",
			mutate: func(r *Registry) {
				r.Entries = append(r.Entries, Entry{ID: "x", Method: VaultTotalSupply{Asset: other}})
			},
			errSub: "no pricing route",
		},
		{
			name: "nil method",
			mutate: func(r *Registry) {
				r.Entries[0].Method = nil
			},
			errSub: "valuation method is required",
		},
	}

	for _, tc := range cases {
		reg := Linea()
		tc.mutate(reg)
		err := reg.Validate()
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if !strings.Contains(err.Error(), tc.errSub) {
			t.Fatalf("%s: error %q does not contain %q", tc.name, err, tc.errSub)
		}
	}
}

func TestSymbolFallsBackToHex(t *testing.T) {
	reg := Linea()
	if got := reg.Symbol(WBTC); got != "WBTC" {
		t.Fatalf("symbol mismatch: %s", got)
	}
	other := common.HexToAddress("0x9999999999999999999999999999999999999999")
	if got := reg.Symbol(other); got != other.Hex() {
		t.Fatalf("fallback mismatch: %s", got)
	}
}
