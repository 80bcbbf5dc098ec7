package pipeline

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"marketScope/internal/chain"
	"marketScope/internal/dex"
	"marketScope/internal/market"
	"marketScope/internal/model"
	"marketScope/internal/pricing"
)

// Plan is the ordered list of reads for one refresh cycle and the layout
// needed to decode their results.
type Plan struct {
	Calls []chain.Call

	registry *market.Registry
	tokens   []common.Address
}

// BuildPlan lays out every read in a fixed order: the reference feed answer
// and decimals, decimals per distinct token, then each market's reads in
// registry order.
func BuildPlan(reg *market.Registry) (*Plan, error) {
	feedABI, err := dex.PriceFeedABI()
	if err != nil {
		return nil, fmt.Errorf("parse price feed abi: %w", err)
	}
	erc20ABI, err := dex.ERC20ABI()
	if err != nil {
		return nil, fmt.Errorf("parse erc20 abi: %w", err)
	}
	pairABI, err := dex.PairABI()
	if err != nil {
		return nil, fmt.Errorf("parse pair abi: %w", err)
	}
	vaultABI, err := dex.VaultABI()
	if err != nil {
		return nil, fmt.Errorf("parse vault abi: %w", err)
	}
	aTokenABI, err := dex.ATokenABI()
	if err != nil {
		return nil, fmt.Errorf("parse atoken abi: %w", err)
	}

	tokens := reg.Tokens()
	calls := make([]chain.Call, 0, 2+len(tokens)+3*len(reg.Entries))
	calls = append(calls,
		chain.Call{Target: reg.Feed, ABI: feedABI, Method: "latestAnswer"},
		chain.Call{Target: reg.Feed, ABI: feedABI, Method: "decimals"},
	)
	for _, token := range tokens {
		calls = append(calls, chain.Call{Target: token, ABI: erc20ABI, Method: "decimals"})
	}

	for _, entry := range reg.Entries {
		switch m := entry.Method.(type) {
		case market.TokenBalances:
			for _, token := range m.Tokens {
				calls = append(calls, chain.Call{Target: token, ABI: erc20ABI, Method: "balanceOf", Args: []interface{}{entry.Address}})
			}
		case market.PoolReserves:
			calls = append(calls,
				chain.Call{Target: entry.Address, ABI: pairABI, Method: "token0"},
				chain.Call{Target: entry.Address, ABI: pairABI, Method: "token1"},
				chain.Call{Target: entry.Address, ABI: pairABI, Method: "getReserves"},
			)
		case market.VaultTotalSupply:
			calls = append(calls, chain.Call{Target: entry.Address, ABI: vaultABI, Method: "totalSupply"})
		case market.WrappedAssetTotalSupply:
			calls = append(calls,
				chain.Call{Target: entry.Address, ABI: aTokenABI, Method: "totalSupply"},
				chain.Call{Target: entry.Address, ABI: aTokenABI, Method: "UNDERLYING_ASSET_ADDRESS"},
			)
		default:
			return nil, fmt.Errorf("market %s: unsupported valuation method %T", entry.ID, entry.Method)
		}
	}

	return &Plan{Calls: calls, registry: reg, tokens: tokens}, nil
}

// Decoded is a batch's results mapped back onto feed, decimals and
// per-market snapshots.
type Decoded struct {
	BlockNumber uint64
	Inputs      pricing.Inputs
}

// Decode consumes a batch positionally. Any shape mismatch fails the whole
// cycle.
func (p *Plan) Decode(batch chain.Batch) (Decoded, error) {
	if len(batch.Values) != len(p.Calls) {
		return Decoded{}, fmt.Errorf("batch returned %d results for %d calls", len(batch.Values), len(p.Calls))
	}

	c := &cursor{values: batch.Values}
	out := Decoded{
		BlockNumber: batch.BlockNumber,
		Inputs: pricing.Inputs{
			Decimals:  make(map[common.Address]uint8, len(p.tokens)),
			Snapshots: make(map[string]model.Snapshot, len(p.registry.Entries)),
		},
	}

	answer, err := c.readBigInt("feed latestAnswer")
	if err != nil {
		return Decoded{}, err
	}
	feedDecimals, err := c.readUint8("feed decimals")
	if err != nil {
		return Decoded{}, err
	}
	out.Inputs.Feed = pricing.FeedReading{Answer: answer, Decimals: feedDecimals}

	for _, token := range p.tokens {
		dec, err := c.readUint8("decimals " + token.Hex())
		if err != nil {
			return Decoded{}, err
		}
		out.Inputs.Decimals[token] = dec
	}

	for _, entry := range p.registry.Entries {
		snap, err := decodeMarket(c, entry)
		if err != nil {
			return Decoded{}, fmt.Errorf("market %s: %w", entry.ID, err)
		}
		out.Inputs.Snapshots[entry.ID] = snap
	}
	return out, nil
}

func decodeMarket(c *cursor, entry market.Entry) (model.Snapshot, error) {
	switch m := entry.Method.(type) {
	case market.TokenBalances:
		balances := make(map[common.Address]*big.Int, len(m.Tokens))
		for _, token := range m.Tokens {
			bal, err := c.readBigInt("balanceOf " + token.Hex())
			if err != nil {
				return nil, err
			}
			balances[token] = bal
		}
		return model.BalancesSnapshot{Balances: balances}, nil

	case market.PoolReserves:
		token0, err := c.readAddress("token0")
		if err != nil {
			return nil, err
		}
		token1, err := c.readAddress("token1")
		if err != nil {
			return nil, err
		}
		values, err := c.next("getReserves", 2)
		if err != nil {
			return nil, err
		}
		reserve0, err := dex.AsBigInt(values[0])
		if err != nil {
			return nil, fmt.Errorf("reserve0: %w", err)
		}
		reserve1, err := dex.AsBigInt(values[1])
		if err != nil {
			return nil, fmt.Errorf("reserve1: %w", err)
		}
		return model.ReservesSnapshot{Token0: token0, Token1: token1, Reserve0: reserve0, Reserve1: reserve1}, nil

	case market.VaultTotalSupply:
		supply, err := c.readBigInt("totalSupply")
		if err != nil {
			return nil, err
		}
		return model.SupplySnapshot{TotalSupply: supply}, nil

	case market.WrappedAssetTotalSupply:
		supply, err := c.readBigInt("totalSupply")
		if err != nil {
			return nil, err
		}
		underlying, err := c.readAddress("UNDERLYING_ASSET_ADDRESS")
		if err != nil {
			return nil, err
		}
		return model.WrappedSupplySnapshot{TotalSupply: supply, Underlying: underlying}, nil

	default:
		return nil, fmt.Errorf("unsupported valuation method %T", entry.Method)
	}
}

// cursor walks batch results in call order.
type cursor struct {
	values [][]interface{}
	pos    int
}

func (c *cursor) next(label string, want int) ([]interface{}, error) {
	if c.pos >= len(c.values) {
		return nil, fmt.Errorf("%s: batch exhausted at %d", label, c.pos)
	}
	values := c.values[c.pos]
	c.pos++
	if len(values) < want {
		return nil, fmt.Errorf("%s: expected %d outputs, got %d", label, want, len(values))
	}
	return values, nil
}

func (c *cursor) readBigInt(label string) (*big.Int, error) {
	values, err := c.next(label, 1)
	if err != nil {
		return nil, err
	}
	v, err := dex.AsBigInt(values[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}
	return v, nil
}

func (c *cursor) readUint8(label string) (uint8, error) {
	values, err := c.next(label, 1)
	if err != nil {
		return 0, err
	}
	v, err := dex.AsUint8(values[0])
	if err != nil {
		return 0, fmt.Errorf("%s: %w", label, err)
	}
	return v, nil
}

func (c *cursor) readAddress(label string) (common.Address, error) {
	values, err := c.next(label, 1)
	if err != nil {
		return common.Address{}, err
	}
	v, err := dex.AsAddress(values[0])
	if err != nil {
		return common.Address{}, fmt.Errorf("%s: %w", label, err)
	}
	return v, nil
}
