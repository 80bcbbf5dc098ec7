package dashboard

import (
	"fmt"
	"sort"
)

// SortKey names a sortable column.
type SortKey string

const (
	SortNone        SortKey = ""
	SortTVL         SortKey = "tvl"
	SortReward      SortKey = "reward"
	SortAPR         SortKey = "apr"
	SortUserRewards SortKey = "user_rewards"
	SortUserProfit  SortKey = "user_profit"
)

// Direction is the sort order of a column.
type Direction string

const (
	Unsorted   Direction = ""
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// SortState is the active sort column and direction.
type SortState struct {
	Key SortKey
	Dir Direction
}

// ParseSort validates a sort key and direction from user input. An empty
// key or direction means unsorted.
func ParseSort(key, dir string) (SortState, error) {
	k := SortKey(key)
	switch k {
	case SortNone:
		return SortState{}, nil
	case SortTVL, SortReward, SortAPR, SortUserRewards, SortUserProfit:
	default:
		return SortState{}, fmt.Errorf("unknown sort key %q", key)
	}

	d := Direction(dir)
	switch d {
	case Unsorted:
		return SortState{}, nil
	case Ascending, Descending:
	default:
		return SortState{}, fmt.Errorf("unknown sort direction %q", dir)
	}
	return SortState{Key: k, Dir: d}, nil
}

// Toggle cycles the same column through ascending, descending and
// unsorted. Selecting a different column starts at ascending.
func (s SortState) Toggle(key SortKey) SortState {
	if key == SortNone {
		return SortState{}
	}
	if s.Key != key {
		return SortState{Key: key, Dir: Ascending}
	}
	switch s.Dir {
	case Unsorted:
		return SortState{Key: key, Dir: Ascending}
	case Ascending:
		return SortState{Key: key, Dir: Descending}
	default:
		return SortState{}
	}
}

// Active reports whether the state sorts at all.
func (s SortState) Active() bool {
	return s.Key != SortNone && s.Dir != Unsorted
}

// Apply returns rows ordered by the state. Equal values keep their input
// order, and an inactive state returns the input order unchanged.
func (s SortState) Apply(rows []Row) []Row {
	out := make([]Row, len(rows))
	copy(out, rows)
	if !s.Active() {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := s.Key.value(out[i]), s.Key.value(out[j])
		if s.Dir == Ascending {
			return a < b
		}
		return a > b
	})
	return out
}

func (k SortKey) value(row Row) float64 {
	switch k {
	case SortTVL:
		return row.TVLRaw
	case SortReward:
		return row.RewardLastPeriodRaw
	case SortAPR:
		return row.APR
	case SortUserRewards:
		return row.UserRewards
	case SortUserProfit:
		return row.UserProfit
	default:
		return 0
	}
}
