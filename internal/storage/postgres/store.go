package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"marketScope/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS dashboard_cache (
	name        TEXT PRIMARY KEY,
	fetched_at  BIGINT NOT NULL,
	payload     JSONB NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS market_latest (
	market_id        TEXT PRIMARY KEY,
	name             TEXT NOT NULL,
	protocol         TEXT NOT NULL,
	category         TEXT NOT NULL,
	address          TEXT NOT NULL,
	tvl_usd          DOUBLE PRECISION NOT NULL,
	reward_last      DOUBLE PRECISION NOT NULL,
	fetched_at       BIGINT NOT NULL,
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Store provides Postgres persistence for the dashboard cache.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate creates the cache tables when missing.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// LoadEntry returns the cached payload and its fetch time (epoch millis).
func (s *Store) LoadEntry(ctx context.Context, name string) ([]byte, int64, bool, error) {
	if name == "" {
		return nil, 0, false, fmt.Errorf("cache name required")
	}
	var (
		payload   []byte
		fetchedAt int64
	)
	row := s.pool.QueryRow(ctx, `SELECT payload, fetched_at FROM dashboard_cache WHERE name=$1`, name)
	if err := row.Scan(&payload, &fetchedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, 0, false, nil
		}
		return nil, 0, false, err
	}
	return payload, fetchedAt, true, nil
}

// SaveEntry overwrites the cached payload for a name.
func (s *Store) SaveEntry(ctx context.Context, name string, fetchedAt int64, payload []byte) error {
	if name == "" {
		return fmt.Errorf("cache name required")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO dashboard_cache (name, fetched_at, payload, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (name) DO UPDATE
		SET fetched_at = EXCLUDED.fetched_at, payload = EXCLUDED.payload, updated_at = now()
	`, name, fetchedAt, payload)
	return err
}

// UpsertMarkets overwrites the latest per-market row for every record.
func (s *Store) UpsertMarkets(ctx context.Context, fetchedAt time.Time, records []model.ResultRecord) error {
	if len(records) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(`
			INSERT INTO market_latest (
				market_id, name, protocol, category, address, tvl_usd, reward_last, fetched_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
			ON CONFLICT (market_id)
			DO UPDATE SET
				name = EXCLUDED.name,
				protocol = EXCLUDED.protocol,
				category = EXCLUDED.category,
				address = EXCLUDED.address,
				tvl_usd = EXCLUDED.tvl_usd,
				reward_last = EXCLUDED.reward_last,
				fetched_at = EXCLUDED.fetched_at,
				updated_at = now()
		`,
			rec.ID,
			rec.Name,
			rec.Protocol,
			rec.Category,
			rec.Address,
			rec.TVLRaw,
			rec.RewardLastPeriodRaw,
			fetchedAt.UnixMilli(),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range records {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}
