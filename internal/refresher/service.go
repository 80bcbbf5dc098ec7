package refresher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"marketScope/internal/cache"
	"marketScope/internal/metrics"
	"marketScope/internal/pipeline"
)

// Runner performs one refresh cycle.
type Runner interface {
	Run(ctx context.Context) (pipeline.Cycle, error)
}

// Service keeps the latest market records current according to a cache
// freshness policy.
type Service struct {
	runner Runner
	store  cache.Store
	policy cache.Policy
	logger *zap.Logger
	now    func() time.Time

	mu      sync.RWMutex
	current cache.Entry
	has     bool

	background   sync.WaitGroup
	bgInProgress atomic.Bool
}

// New creates a refresh service. A nil store keeps entries in memory only.
func New(runner Runner, store cache.Store, policy cache.Policy, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if store == nil {
		store = cache.NopStore{}
	}
	return &Service{
		runner: runner,
		store:  store,
		policy: policy,
		logger: logger,
		now:    time.Now,
	}
}

// Current returns the latest entry and whether one is available.
func (s *Service) Current() (cache.Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.has
}

// Check applies the freshness policy: a missing, unreadable or expired entry
// is refreshed before returning; a stale entry is served while a background
// refresh runs; a fresh entry is served as is.
func (s *Service) Check(ctx context.Context) (cache.Entry, error) {
	entry, ok := s.load(ctx)
	if !ok {
		metrics.CacheDecisions.WithLabelValues("miss").Inc()
		return s.refreshAndGet(ctx)
	}

	freshness := s.policy.Classify(entry, s.now())
	metrics.CacheDecisions.WithLabelValues(freshness.String()).Inc()

	switch freshness {
	case cache.Expired:
		s.logger.Info("cache expired, refreshing", zap.Duration("age", entry.Age(s.now())))
		return s.refreshAndGet(ctx)
	case cache.Stale:
		s.adopt(entry)
		s.refreshInBackground(ctx)
		return entry, nil
	default:
		s.adopt(entry)
		return entry, nil
	}
}

// load prefers the persisted entry and falls back to the in-memory one.
func (s *Service) load(ctx context.Context) (cache.Entry, bool) {
	entry, ok, err := s.store.Load(ctx)
	if err != nil {
		if errors.Is(err, cache.ErrCorrupt) {
			s.logger.Warn("cached entry unreadable", zap.Error(err))
		} else {
			s.logger.Warn("cache load failed", zap.Error(err))
		}
	}
	if ok {
		if mem, has := s.Current(); has && mem.Timestamp > entry.Timestamp {
			return mem, true
		}
		return entry, true
	}
	return s.Current()
}

func (s *Service) adopt(entry cache.Entry) {
	s.mu.Lock()
	if !s.has || entry.Timestamp >= s.current.Timestamp {
		s.current = entry
		s.has = true
	}
	s.mu.Unlock()
}

func (s *Service) refreshAndGet(ctx context.Context) (cache.Entry, error) {
	if err := s.Refresh(ctx); err != nil {
		if entry, ok := s.Current(); ok {
			return entry, nil
		}
		return cache.Entry{}, err
	}
	entry, _ := s.Current()
	return entry, nil
}

// refreshInBackground starts at most one detached refresh at a time.
func (s *Service) refreshInBackground(ctx context.Context) {
	if !s.bgInProgress.CompareAndSwap(false, true) {
		return
	}
	s.background.Add(1)
	go func() {
		defer s.background.Done()
		defer s.bgInProgress.Store(false)
		_ = s.Refresh(context.WithoutCancel(ctx))
	}()
}

// Wait blocks until background refreshes finish.
func (s *Service) Wait() {
	s.background.Wait()
}

// Refresh runs one cycle. Success replaces the current records wholesale
// and persists them; failure keeps the previous records. Concurrent
// refreshes are last-write-wins.
func (s *Service) Refresh(ctx context.Context) error {
	start := time.Now()
	cycle, err := s.runner.Run(ctx)
	metrics.RefreshDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RefreshTotal.WithLabelValues("error").Inc()
		s.logger.Error("refresh failed", zap.Error(err))
		return fmt.Errorf("refresh: %w", err)
	}
	metrics.RefreshTotal.WithLabelValues("success").Inc()

	completed := cycle.CompletedAt
	if completed.IsZero() {
		completed = s.now()
	}
	entry := cache.NewEntry(completed, cycle.Records)

	s.mu.Lock()
	s.current = entry
	s.has = true
	s.mu.Unlock()

	metrics.RefreshLastSuccess.Set(float64(completed.Unix()))
	for _, rec := range cycle.Records {
		metrics.MarketTVL.WithLabelValues(rec.ID).Set(rec.TVLRaw)
		metrics.MarketReward.WithLabelValues(rec.ID).Set(rec.RewardLastPeriodRaw)
	}
	for token, price := range cycle.Prices {
		metrics.TokenPrice.WithLabelValues(token.Hex()).Set(price)
	}

	if err := s.store.Save(ctx, entry); err != nil {
		s.logger.Warn("cache save failed", zap.Error(err))
	}
	return nil
}

// Run checks immediately and then on every interval until ctx is done.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = cache.DefaultFreshFor
	}
	if _, err := s.Check(ctx); err != nil {
		s.logger.Warn("initial refresh failed", zap.Error(err))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Check(ctx); err != nil {
				s.logger.Warn("scheduled refresh failed", zap.Error(err))
			}
		}
	}
}
