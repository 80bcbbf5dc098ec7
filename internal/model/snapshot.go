package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Snapshot is the as-fetched on-chain state of one market for one refresh
// cycle. The concrete type depends on the market's valuation method.
type Snapshot interface {
	snapshot()
}

// BalancesSnapshot holds balanceOf(market) for each configured asset.
type BalancesSnapshot struct {
	Balances map[common.Address]*big.Int
}

// ReservesSnapshot holds a two-asset pool's own reserve accounting.
// Slot order is whatever the pool reports.
type ReservesSnapshot struct {
	Token0   common.Address
	Token1   common.Address
	Reserve0 *big.Int
	Reserve1 *big.Int
}

// SupplySnapshot holds a vault's totalSupply.
type SupplySnapshot struct {
	TotalSupply *big.Int
}

// WrappedSupplySnapshot holds a wrapping token's totalSupply and the
// underlying asset it reports.
type WrappedSupplySnapshot struct {
	TotalSupply *big.Int
	Underlying  common.Address
}

func (BalancesSnapshot) snapshot()      {}
func (ReservesSnapshot) snapshot()      {}
func (SupplySnapshot) snapshot()        {}
func (WrappedSupplySnapshot) snapshot() {}
