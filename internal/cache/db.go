package cache

import (
	"context"

	"marketScope/internal/storage/postgres"
)

// DBStore stores the entry in the dashboard_cache table and mirrors the
// latest per-market figures into market_latest.
type DBStore struct {
	Store *postgres.Store
	Name  string
}

func (s *DBStore) Load(ctx context.Context) (Entry, bool, error) {
	if s == nil || s.Store == nil {
		return Entry{}, false, nil
	}
	payload, _, ok, err := s.Store.LoadEntry(ctx, s.Name)
	if err != nil || !ok {
		return Entry{}, false, err
	}
	entry, err := decode(payload)
	if err != nil {
		return Entry{}, false, err
	}
	return entry, true, nil
}

func (s *DBStore) Save(ctx context.Context, entry Entry) error {
	if s == nil || s.Store == nil {
		return nil
	}
	data, err := encode(entry)
	if err != nil {
		return err
	}
	if err := s.Store.SaveEntry(ctx, s.Name, entry.Timestamp, data); err != nil {
		return err
	}
	return s.Store.UpsertMarkets(ctx, entry.FetchedAt(), entry.Data)
}
