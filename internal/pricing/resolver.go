package pricing

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"marketScope/internal/amount"
	"marketScope/internal/market"
	"marketScope/internal/model"
)

// FeedReading is the reference feed's answer as read on-chain.
type FeedReading struct {
	Answer   *big.Int
	Decimals uint8
}

// Inputs is everything one refresh cycle read that price resolution needs.
type Inputs struct {
	Feed      FeedReading
	Decimals  map[common.Address]uint8
	Snapshots map[string]model.Snapshot
}

// Table maps token address to resolved USD price. Tokens without a price
// are absent.
type Table map[common.Address]float64

// Price returns the USD price of token and whether it resolved.
func (t Table) Price(token common.Address) (float64, bool) {
	price, ok := t[token]
	return price, ok
}

// Resolve derives a USD price for every token the registry can price:
// stables pinned to 1, the reference asset from its feed, and each
// bootstrapped token from its market's amounts through the reference asset.
func Resolve(reg *market.Registry, in Inputs) Table {
	table := make(Table, len(reg.Stables)+1+len(reg.Bootstraps))

	for _, stable := range reg.Stables {
		table[stable] = 1.0
	}

	if in.Feed.Answer == nil || in.Feed.Answer.Sign() <= 0 {
		return table
	}
	refPrice := amount.FeedPrice(in.Feed.Answer, in.Feed.Decimals)
	table[reg.Reference] = refPrice

	for _, b := range reg.Bootstraps {
		price, ok := bootstrap(reg.Reference, refPrice, b, in)
		if ok {
			table[b.Token] = price
		}
	}
	return table
}

func bootstrap(reference common.Address, refPrice float64, b market.Bootstrap, in Inputs) (float64, bool) {
	tokenDec, ok := in.Decimals[b.Token]
	if !ok {
		return 0, false
	}
	refDec, ok := in.Decimals[reference]
	if !ok {
		return 0, false
	}

	tokenRaw, refRaw, ok := pairAmounts(in.Snapshots[b.Market], b.Token, reference)
	if !ok {
		return 0, false
	}

	tokenAmount := amount.ToFloat(tokenRaw, tokenDec)
	refAmount := amount.ToFloat(refRaw, refDec)
	if tokenAmount <= 0 || refAmount <= 0 {
		return 0, false
	}
	return refAmount / tokenAmount * refPrice, true
}

// pairAmounts extracts the raw amounts of token and reference held by a
// bootstrap market.
func pairAmounts(snap model.Snapshot, token, reference common.Address) (*big.Int, *big.Int, bool) {
	switch s := snap.(type) {
	case model.BalancesSnapshot:
		tokenRaw, ok := s.Balances[token]
		if !ok {
			return nil, nil, false
		}
		refRaw, ok := s.Balances[reference]
		if !ok {
			return nil, nil, false
		}
		return tokenRaw, refRaw, true
	case model.ReservesSnapshot:
		tokenSlot, ok := ReserveSlot(s.Token0, s.Token1, token)
		if !ok {
			return nil, nil, false
		}
		refSlot, ok := ReserveSlot(s.Token0, s.Token1, reference)
		if !ok || refSlot == tokenSlot {
			return nil, nil, false
		}
		reserves := [2]*big.Int{s.Reserve0, s.Reserve1}
		return reserves[tokenSlot], reserves[refSlot], true
	default:
		return nil, nil, false
	}
}

// ReserveSlot reports which reserve slot (0 or 1) of a pool holds want.
// Addresses compare by value, so hex casing never matters.
func ReserveSlot(token0, token1, want common.Address) (int, bool) {
	switch want {
	case token0:
		return 0, true
	case token1:
		return 1, true
	default:
		return 0, false
	}
}
