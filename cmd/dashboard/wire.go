package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"marketScope/internal/cache"
	"marketScope/internal/chain"
	"marketScope/internal/config"
	"marketScope/internal/market"
	"marketScope/internal/metrics"
	"marketScope/internal/pipeline"
	"marketScope/internal/rewards"
	"marketScope/internal/storage/postgres"
)

// newPipeline connects to the chain and builds the refresh pipeline for the
// Linea registry. The returned func closes the RPC connection.
func newPipeline(ctx context.Context, cfg config.ChainConfig, logger *zap.Logger) (*pipeline.Pipeline, func(), error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect rpc: %w", err)
	}
	head, err := chain.VerifyHead(ctx, chainClient, market.LineaChainID)
	if err != nil {
		chainClient.Close()
		return nil, nil, err
	}
	logger.Info("rpc connected", zap.Uint64("chain_id", head.ChainID), zap.Uint64("block", head.BlockNumber))

	reader := &chain.RetryingReader{
		Reader:       chain.NewMulticall(chainClient, cfg.MulticallAddress(), logger),
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
		Logger:       logger,
	}

	rewardClient := rewards.NewClient(cfg.RewardsURL, cfg.HTTPTimeout, logger)
	rewardClient.OnFailure = metrics.RewardFeedFailures.Inc

	p, err := pipeline.New(market.Linea(), reader, rewardClient, logger)
	if err != nil {
		chainClient.Close()
		return nil, nil, err
	}
	return p, chainClient.Close, nil
}

// openStore opens the configured cache backend. The returned func releases
// its connections.
func openStore(ctx context.Context, cfg config.CacheConfig, logger *zap.Logger) (cache.Store, func(), error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	noop := func() {}
	switch cfg.Backend {
	case config.CacheNone:
		return cache.NopStore{}, noop, nil
	case config.CacheFile:
		return &cache.FileStore{Path: cfg.Path}, noop, nil
	case config.CacheRedis:
		store, err := cache.NewRedisStore(ctx, cfg.RedisURL, cfg.Key, 0)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				logger.Warn("close redis", zap.Error(err))
			}
		}, nil
	case config.CachePostgres:
		pg, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pg.Ping(ctx); err != nil {
			pg.Close()
			return nil, nil, fmt.Errorf("ping postgres: %w", err)
		}
		if err := pg.Migrate(ctx); err != nil {
			pg.Close()
			return nil, nil, fmt.Errorf("migrate postgres: %w", err)
		}
		return &cache.DBStore{Store: pg, Name: cfg.Key}, pg.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

func cachePolicy(cfg config.CacheConfig) cache.Policy {
	return cache.Policy{FreshFor: cfg.FreshFor, ExpireAfter: cfg.ExpireAfter}
}
