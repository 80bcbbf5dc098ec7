package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"marketScope/internal/chain"
	"marketScope/internal/market"
	"marketScope/internal/model"
	"marketScope/internal/pricing"
	"marketScope/internal/rewards"
	"marketScope/internal/valuation"
)

// Cycle is the outcome of one refresh.
type Cycle struct {
	BlockNumber uint64
	Prices      pricing.Table
	Records     []model.ResultRecord
	CompletedAt time.Time
}

// Pipeline runs refresh cycles over a fixed registry.
type Pipeline struct {
	registry *market.Registry
	plan     *Plan
	reader   chain.BatchReader
	rewards  rewards.Source
	logger   *zap.Logger
	now      func() time.Time
}

// New validates the registry and prepares the read plan.
func New(reg *market.Registry, reader chain.BatchReader, source rewards.Source, logger *zap.Logger) (*Pipeline, error) {
	if reg == nil {
		return nil, fmt.Errorf("registry is nil")
	}
	if reader == nil {
		return nil, fmt.Errorf("batch reader is nil")
	}
	if source == nil {
		return nil, fmt.Errorf("reward source is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := reg.Validate(); err != nil {
		return nil, fmt.Errorf("validate registry: %w", err)
	}
	plan, err := BuildPlan(reg)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		registry: reg,
		plan:     plan,
		reader:   reader,
		rewards:  source,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Registry returns the registry the pipeline values.
func (p *Pipeline) Registry() *market.Registry {
	return p.registry
}

// Run performs one refresh: the batched chain read and the reward fetch run
// concurrently, then prices are resolved and every market is valued. A
// failed chain read fails the cycle; a failed reward fetch only zeroes
// rewards.
func (p *Pipeline) Run(ctx context.Context) (Cycle, error) {
	var (
		batch chain.Batch
		feed  rewards.Feed
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		batch, err = p.reader.ReadBatch(gctx, p.plan.Calls)
		if err != nil {
			return fmt.Errorf("batch read: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		feed = p.rewards.Fetch(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return Cycle{}, err
	}

	decoded, err := p.plan.Decode(batch)
	if err != nil {
		return Cycle{}, fmt.Errorf("decode batch: %w", err)
	}

	prices := pricing.Resolve(p.registry, decoded.Inputs)
	for _, token := range p.registry.Tokens() {
		if _, ok := prices.Price(token); !ok {
			p.logger.Warn("token price unresolved", zap.String("token", p.registry.Symbol(token)))
		}
	}

	engine := valuation.Engine{Decimals: decoded.Inputs.Decimals, Prices: prices}
	records := make([]model.ResultRecord, 0, len(p.registry.Entries))
	for _, entry := range p.registry.Entries {
		valued, err := engine.Value(entry, decoded.Inputs.Snapshots[entry.ID])
		if err != nil {
			p.logger.Error("market valuation failed", zap.String("market", entry.ID), zap.Error(err))
			valued = valuation.Valued{}
		}
		records = append(records, Assemble(entry, valued, feed))
	}

	p.logger.Info("refresh cycle complete",
		zap.Uint64("block", decoded.BlockNumber),
		zap.Int("markets", len(records)),
		zap.Int("rewards", len(feed)),
	)

	return Cycle{
		BlockNumber: decoded.BlockNumber,
		Prices:      prices,
		Records:     records,
		CompletedAt: p.now(),
	}, nil
}
