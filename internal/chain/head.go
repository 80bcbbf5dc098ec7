package chain

import (
	"context"
	"fmt"
	"math/big"
)

// HeadReader reports the network an RPC endpoint serves.
type HeadReader interface {
	GetChainID(ctx context.Context) (*big.Int, error)
	LatestBlockNumber(ctx context.Context) (uint64, error)
}

// Head is the chain id and latest block seen at startup.
type Head struct {
	ChainID     uint64
	BlockNumber uint64
}

// VerifyHead reads the endpoint's chain id and latest block and rejects an
// endpoint serving a different chain.
func VerifyHead(ctx context.Context, r HeadReader, wantChainID uint64) (Head, error) {
	chainID, err := r.GetChainID(ctx)
	if err != nil {
		return Head{}, fmt.Errorf("get chain id: %w", err)
	}
	if !chainID.IsUint64() || chainID.Uint64() != wantChainID {
		return Head{}, fmt.Errorf("rpc serves chain %s, want %d", chainID, wantChainID)
	}
	block, err := r.LatestBlockNumber(ctx)
	if err != nil {
		return Head{}, fmt.Errorf("get latest block: %w", err)
	}
	return Head{ChainID: wantChainID, BlockNumber: block}, nil
}
