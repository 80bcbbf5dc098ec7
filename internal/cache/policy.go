package cache

import (
	"time"

	"marketScope/internal/model"
)

// Entry is the persisted result of the most recent successful refresh.
type Entry struct {
	// Timestamp is the fetch time in epoch milliseconds.
	Timestamp int64                `json:"timestamp"`
	Data      []model.ResultRecord `json:"data"`
}

// NewEntry stamps records with their fetch time.
func NewEntry(fetchedAt time.Time, records []model.ResultRecord) Entry {
	return Entry{Timestamp: fetchedAt.UnixMilli(), Data: records}
}

// FetchedAt returns the entry's fetch time.
func (e Entry) FetchedAt() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// Age returns how long ago the entry was fetched.
func (e Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.FetchedAt())
}

// Freshness classifies a cached entry.
type Freshness int

const (
	Fresh Freshness = iota
	Stale
	Expired
)

func (f Freshness) String() string {
	switch f {
	case Fresh:
		return "fresh"
	case Stale:
		return "stale"
	case Expired:
		return "expired"
	default:
		return "unknown"
	}
}

const (
	DefaultFreshFor    = 10 * time.Minute
	DefaultExpireAfter = 60 * time.Minute
)

// Policy decides whether a cached entry can be served as is, served while
// refreshing in the background, or must be refreshed first.
type Policy struct {
	FreshFor    time.Duration
	ExpireAfter time.Duration
}

// DefaultPolicy serves entries up to 10 minutes old as fresh and expires
// them after an hour.
func DefaultPolicy() Policy {
	return Policy{FreshFor: DefaultFreshFor, ExpireAfter: DefaultExpireAfter}
}

// Classify returns the freshness of entry at now. Both bounds are
// inclusive of the younger class.
func (p Policy) Classify(entry Entry, now time.Time) Freshness {
	age := entry.Age(now)
	switch {
	case age > p.ExpireAfter:
		return Expired
	case age > p.FreshFor:
		return Stale
	default:
		return Fresh
	}
}
