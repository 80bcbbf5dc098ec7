package market

import "github.com/ethereum/go-ethereum/common"

// MethodKind names a valuation method.
type MethodKind string

const (
	KindTokenBalances           MethodKind = "token-balances"
	KindPoolReserves            MethodKind = "pool-reserves"
	KindVaultTotalSupply        MethodKind = "vault-total-supply"
	KindWrappedAssetTotalSupply MethodKind = "wrapped-asset-total-supply"
)

// Method is the valuation method of a market. It is a closed set: only the
// types in this file implement it.
type Method interface {
	Kind() MethodKind
	// Assets lists the statically configured tokens the method prices.
	Assets() []common.Address
	sealed()
}

// TokenBalances values a pool by the balances its contract holds of each asset.
type TokenBalances struct {
	Tokens []common.Address
}

// PoolReserves values a two-asset pool by its own reserve accounting.
type PoolReserves struct {
	Tokens [2]common.Address
}

// VaultTotalSupply values a single-asset vault by its total supply.
type VaultTotalSupply struct {
	Asset common.Address
}

// WrappedAssetTotalSupply values a wrapping token by its total supply priced
// as the underlying asset reported on-chain.
type WrappedAssetTotalSupply struct{}

func (TokenBalances) Kind() MethodKind           { return KindTokenBalances }
func (PoolReserves) Kind() MethodKind            { return KindPoolReserves }
func (VaultTotalSupply) Kind() MethodKind        { return KindVaultTotalSupply }
func (WrappedAssetTotalSupply) Kind() MethodKind { return KindWrappedAssetTotalSupply }

func (m TokenBalances) Assets() []common.Address {
	out := make([]common.Address, len(m.Tokens))
	copy(out, m.Tokens)
	return out
}

func (m PoolReserves) Assets() []common.Address {
	return []common.Address{m.Tokens[0], m.Tokens[1]}
}

func (m VaultTotalSupply) Assets() []common.Address {
	return []common.Address{m.Asset}
}

func (WrappedAssetTotalSupply) Assets() []common.Address { return nil }

func (TokenBalances) sealed()           {}
func (PoolReserves) sealed()            {}
func (VaultTotalSupply) sealed()        {}
func (WrappedAssetTotalSupply) sealed() {}
