package dashboard

import "marketScope/internal/market"

const billion = 1_000_000_000

// FDVLadder returns the simulated fully diluted valuations: $1B to $20B in
// $1B steps, then $25B to $100B in $5B steps.
func FDVLadder() []float64 {
	ladder := make([]float64, 0, 36)
	for b := 1; b <= 20; b++ {
		ladder = append(ladder, float64(b)*billion)
	}
	for b := 25; b <= 100; b += 5 {
		ladder = append(ladder, float64(b)*billion)
	}
	return ladder
}

// TokenPriceAt is the reward token price implied by a fully diluted
// valuation.
func TokenPriceAt(fdv float64) float64 {
	return fdv / market.LineaTotalSupply
}

// FDVPoint is one simulated valuation and the user's weekly profit at it.
type FDVPoint struct {
	FDV    float64 `json:"fdv"`
	Price  float64 `json:"price"`
	Profit float64 `json:"profit"`
}

// Simulate projects a market row's weekly profit across the FDV ladder.
func Simulate(row Row, ladder []float64) []FDVPoint {
	points := make([]FDVPoint, 0, len(ladder))
	for _, fdv := range ladder {
		price := TokenPriceAt(fdv)
		var profit float64
		if row.UserRewards > 0 {
			profit = row.UserRewards * price
		}
		points = append(points, FDVPoint{FDV: fdv, Price: price, Profit: profit})
	}
	return points
}

// GridRow is one FDV level across every market, in row order.
type GridRow struct {
	FDV     float64   `json:"fdv"`
	Price   float64   `json:"price"`
	Profits []float64 `json:"profits"`
}

// Grid is the all-markets FDV simulation.
type Grid struct {
	Markets []string  `json:"markets"`
	Rows    []GridRow `json:"rows"`
}

// SimulateAll projects every row across the FDV ladder.
func SimulateAll(rows []Row, ladder []float64) Grid {
	grid := Grid{
		Markets: make([]string, 0, len(rows)),
		Rows:    make([]GridRow, 0, len(ladder)),
	}
	for _, row := range rows {
		grid.Markets = append(grid.Markets, row.ID)
	}
	for _, fdv := range ladder {
		price := TokenPriceAt(fdv)
		profits := make([]float64, 0, len(rows))
		for _, row := range rows {
			var profit float64
			if row.UserRewards > 0 {
				profit = row.UserRewards * price
			}
			profits = append(profits, profit)
		}
		grid.Rows = append(grid.Rows, GridRow{FDV: fdv, Price: price, Profits: profits})
	}
	return grid
}
