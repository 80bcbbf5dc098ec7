package dashboard

import "marketScope/internal/model"

// PriceSource tells where the reward token price used for profit came from.
type PriceSource string

const (
	PriceManual PriceSource = "manual"
	PriceFeed   PriceSource = "feed"
	PriceNone   PriceSource = "none"
)

// State is one viewer's presentation settings.
type State struct {
	Sort    SortState
	Deposit float64
	// ManualPrice overrides the feed price when set.
	ManualPrice *float64
}

// Price picks the manual override, then the feed price, then nothing.
func (s State) Price(feed float64, feedOK bool) (float64, PriceSource) {
	if s.ManualPrice != nil && *s.ManualPrice > 0 {
		return *s.ManualPrice, PriceManual
	}
	if feedOK && feed > 0 {
		return feed, PriceFeed
	}
	return 0, PriceNone
}

// View is the computed table for one state.
type View struct {
	Rows        []Row       `json:"rows"`
	Deposit     float64     `json:"deposit"`
	Price       float64     `json:"price"`
	PriceSource PriceSource `json:"price_source"`
	SortKey     SortKey     `json:"sort,omitempty"`
	SortDir     Direction   `json:"dir,omitempty"`
}

// Render calculates and sorts records for this state.
func (s State) Render(records []model.ResultRecord, feed float64, feedOK bool) View {
	price, source := s.Price(feed, feedOK)
	rows := s.Sort.Apply(Calculate(records, s.Deposit, price))
	return View{
		Rows:        rows,
		Deposit:     s.Deposit,
		Price:       price,
		PriceSource: source,
		SortKey:     s.Sort.Key,
		SortDir:     s.Sort.Dir,
	}
}
