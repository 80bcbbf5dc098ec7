package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrCorrupt marks a persisted entry that exists but cannot be parsed.
var ErrCorrupt = errors.New("cache entry corrupt")

// Store persists the latest cache entry.
type Store interface {
	Load(ctx context.Context) (Entry, bool, error)
	Save(ctx context.Context, entry Entry) error
}

// NopStore never persists anything.
type NopStore struct{}

func (NopStore) Load(context.Context) (Entry, bool, error) { return Entry{}, false, nil }
func (NopStore) Save(context.Context, Entry) error         { return nil }

func encode(entry Entry) ([]byte, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("marshal cache entry: %w", err)
	}
	return data, nil
}

func decode(data []byte) (Entry, error) {
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return Entry{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return entry, nil
}
