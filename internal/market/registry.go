package market

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Category groups markets for display.
type Category string

const (
	CategoryLiquidity   Category = "Liquidity"
	CategoryLending     Category = "Lending"
	CategoryMoneyMarket Category = "MoneyMarket"
)

// Token is a statically known asset.
type Token struct {
	Symbol  string
	Address common.Address
}

// Entry is one tracked market.
type Entry struct {
	ID       string
	Name     string
	Protocol string
	Category Category
	Address  common.Address
	Image    string
	Method   Method
}

// Bootstrap prices Token from the amounts held in Market, one hop through
// the registry's reference asset.
type Bootstrap struct {
	Token  common.Address
	Market string
}

// Registry enumerates every tracked market and the pricing routes for the
// tokens they reference.
type Registry struct {
	Entries    []Entry
	Stables    []common.Address
	Reference  common.Address
	Feed       common.Address
	Bootstraps []Bootstrap
	Symbols    map[common.Address]string
}

// Entry returns the market with the given id.
func (r *Registry) Entry(id string) (Entry, bool) {
	for _, entry := range r.Entries {
		if entry.ID == id {
			return entry, true
		}
	}
	return Entry{}, false
}

// Tokens returns every distinct statically configured token, in the order
// markets first reference them.
func (r *Registry) Tokens() []common.Address {
	seen := make(map[common.Address]struct{})
	out := make([]common.Address, 0, 8)
	for _, entry := range r.Entries {
		for _, token := range entry.Method.Assets() {
			if _, ok := seen[token]; ok {
				continue
			}
			seen[token] = struct{}{}
			out = append(out, token)
		}
	}
	return out
}

// Symbol returns the configured symbol for a token, or its hex address.
func (r *Registry) Symbol(token common.Address) string {
	if sym, ok := r.Symbols[token]; ok {
		return sym
	}
	return token.Hex()
}

// Validate checks the registry for configuration errors.
func (r *Registry) Validate() error {
	if len(r.Entries) == 0 {
		return fmt.Errorf("registry has no markets")
	}
	if r.Reference == (common.Address{}) {
		return fmt.Errorf("reference token is required")
	}
	if r.Feed == (common.Address{}) {
		return fmt.Errorf("reference price feed is required")
	}

	ids := make(map[string]struct{}, len(r.Entries))
	for _, entry := range r.Entries {
		if entry.ID == "" {
			return fmt.Errorf("market with empty id")
		}
		if _, ok := ids[entry.ID]; ok {
			return fmt.Errorf("duplicate market id: %s", entry.ID)
		}
		ids[entry.ID] = struct{}{}
		if err := validateMethod(entry); err != nil {
			return err
		}
	}

	priced := make(map[common.Address]struct{})
	priced[r.Reference] = struct{}{}
	for _, stable := range r.Stables {
		priced[stable] = struct{}{}
	}

	for _, b := range r.Bootstraps {
		entry, ok := r.Entry(b.Market)
		if !ok {
			return fmt.Errorf("bootstrap market not found: %s", b.Market)
		}
		if !pairs(entry.Method, b.Token, r.Reference) {
			return fmt.Errorf("bootstrap market %s does not pair %s with the reference token", b.Market, b.Token.Hex())
		}
		priced[b.Token] = struct{}{}
	}

	for _, token := range r.Tokens() {
		if _, ok := priced[token]; !ok {
			return fmt.Errorf("token %s has no pricing route", token.Hex())
		}
	}
	return nil
}

func validateMethod(entry Entry) error {
	switch m := entry.Method.(type) {
	case TokenBalances:
		if len(m.Tokens) < 1 || len(m.Tokens) > 2 {
			return fmt.Errorf("market %s: token-balances needs 1 or 2 tokens, got %d", entry.ID, len(m.Tokens))
		}
	case PoolReserves:
		if m.Tokens[0] == m.Tokens[1] {
			return fmt.Errorf("market %s: pool-reserves tokens must differ", entry.ID)
		}
	case VaultTotalSupply:
		if m.Asset == (common.Address{}) {
			return fmt.Errorf("market %s: vault-total-supply needs an asset", entry.ID)
		}
	case WrappedAssetTotalSupply:
	case nil:
		return fmt.Errorf("market %s: valuation method is required", entry.ID)
	default:
		return fmt.Errorf("market %s: unsupported valuation method %T", entry.ID, m)
	}
	return nil
}

func pairs(method Method, token, reference common.Address) bool {
	switch method.(type) {
	case TokenBalances, PoolReserves:
	default:
		return false
	}
	var hasToken, hasRef bool
	for _, asset := range method.Assets() {
		if asset == token {
			hasToken = true
		}
		if asset == reference {
			hasRef = true
		}
	}
	return hasToken && hasRef && token != reference
}
