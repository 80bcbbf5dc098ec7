package dashboard

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"marketScope/internal/model"
)

func sampleRecords() []model.ResultRecord {
	return []model.ResultRecord{
		{ID: "a", TVLRaw: 1_000_000, RewardLastPeriodRaw: 10_000},
		{ID: "b", TVLRaw: 500_000, RewardLastPeriodRaw: 10_000},
		{ID: "c", TVLRaw: 0, RewardLastPeriodRaw: 5_000},
		{ID: "d", TVLRaw: 2_000_000, RewardLastPeriodRaw: 0},
	}
}

func TestCalculate(t *testing.T) {
	rows := Calculate(sampleRecords(), 1000, 0.02)
	require.Len(t, rows, 4)

	require.InDelta(t, 52.0, rows[0].APR, 1e-9)
	require.InDelta(t, 10.0, rows[0].UserRewards, 1e-9)
	require.InDelta(t, 0.2, rows[0].UserProfit, 1e-12)

	require.InDelta(t, 104.0, rows[1].APR, 1e-9)
	require.InDelta(t, 20.0, rows[1].UserRewards, 1e-9)

	require.Zero(t, rows[2].APR, "zero tvl")
	require.Zero(t, rows[2].UserRewards)
	require.Zero(t, rows[3].APR, "zero reward")
	require.Zero(t, rows[3].UserProfit)
}

func TestCalculateWithoutDepositOrPrice(t *testing.T) {
	rows := Calculate(sampleRecords(), 0, 0.02)
	require.Zero(t, rows[0].UserRewards)
	require.Zero(t, rows[0].UserProfit)
	require.InDelta(t, 52.0, rows[0].APR, 1e-9)

	rows = Calculate(sampleRecords(), 1000, 0)
	require.InDelta(t, 10.0, rows[0].UserRewards, 1e-9)
	require.Zero(t, rows[0].UserProfit)
}

func TestSortToggleCycle(t *testing.T) {
	var s SortState
	s = s.Toggle(SortTVL)
	require.Equal(t, SortState{Key: SortTVL, Dir: Ascending}, s)
	s = s.Toggle(SortTVL)
	require.Equal(t, SortState{Key: SortTVL, Dir: Descending}, s)
	s = s.Toggle(SortTVL)
	require.False(t, s.Active())

	s = SortState{Key: SortTVL, Dir: Descending}.Toggle(SortAPR)
	require.Equal(t, SortState{Key: SortAPR, Dir: Ascending}, s)
}

func TestSortApplyStableAndRestores(t *testing.T) {
	records := []model.ResultRecord{
		{ID: "x", TVLRaw: 10},
		{ID: "y", TVLRaw: 5},
		{ID: "z", TVLRaw: 10},
		{ID: "w", TVLRaw: 1},
	}
	rows := Calculate(records, 0, 0)

	ids := func(rows []Row) []string {
		out := make([]string, 0, len(rows))
		for _, r := range rows {
			out = append(out, r.ID)
		}
		return out
	}

	asc := SortState{Key: SortTVL, Dir: Ascending}.Apply(rows)
	require.Equal(t, []string{"w", "y", "x", "z"}, ids(asc))

	desc := SortState{Key: SortTVL, Dir: Descending}.Apply(rows)
	require.Equal(t, []string{"x", "z", "y", "w"}, ids(desc))

	require.Equal(t, []string{"x", "y", "z", "w"}, ids(SortState{}.Apply(rows)))
	require.Equal(t, []string{"x", "y", "z", "w"}, ids(rows), "input must not be reordered")
}

func TestParseSort(t *testing.T) {
	s, err := ParseSort("apr", "desc")
	require.NoError(t, err)
	require.Equal(t, SortState{Key: SortAPR, Dir: Descending}, s)

	s, err = ParseSort("", "asc")
	require.NoError(t, err)
	require.False(t, s.Active())

	_, err = ParseSort("name", "asc")
	require.Error(t, err)
	_, err = ParseSort("tvl", "sideways")
	require.Error(t, err)
}

func TestFDVLadder(t *testing.T) {
	ladder := FDVLadder()
	require.Len(t, ladder, 36)
	require.Equal(t, 1e9, ladder[0])
	require.Equal(t, 20e9, ladder[19])
	require.Equal(t, 25e9, ladder[20])
	require.Equal(t, 100e9, ladder[len(ladder)-1])
}

func TestSimulate(t *testing.T) {
	row := Row{ResultRecord: model.ResultRecord{ID: "a"}, UserRewards: 1000}
	points := Simulate(row, []float64{72_009_990_000, 1e9})
	require.InDelta(t, 1.0, points[0].Price, 1e-12)
	require.InDelta(t, 1000.0, points[0].Profit, 1e-9)
	require.InDelta(t, 1000*1e9/72_009_990_000, points[1].Profit, 1e-9)

	zero := Simulate(Row{}, FDVLadder())
	for _, p := range zero {
		require.Zero(t, p.Profit)
	}
}

func TestSimulateAll(t *testing.T) {
	rows := []Row{
		{ResultRecord: model.ResultRecord{ID: "a"}, UserRewards: 10},
		{ResultRecord: model.ResultRecord{ID: "b"}, UserRewards: 0},
	}
	grid := SimulateAll(rows, FDVLadder())
	require.Equal(t, []string{"a", "b"}, grid.Markets)
	require.Len(t, grid.Rows, 36)
	last := grid.Rows[len(grid.Rows)-1]
	require.InDelta(t, 10*100e9/72_009_990_000, last.Profits[0], 1e-9)
	require.Zero(t, last.Profits[1])
	require.False(t, math.IsNaN(last.Price))
}

func TestMarketURL(t *testing.T) {
	cases := []struct {
		rec  model.ResultRecord
		want string
	}{
		{
			rec:  model.ResultRecord{Protocol: "AAVE", Category: "MoneyMarket", Address: "0xA", UnderlyingAsset: "0x176211869cA2b568f2A7D4EE941E073a821EE1ff"},
			want: "https://app.aave.com/reserve-overview/?underlyingAsset=0x176211869cA2b568f2A7D4EE941E073a821EE1ff&marketName=proto_linea_v3",
		},
		{
			rec:  model.ResultRecord{Protocol: "AAVE", Category: "MoneyMarket", Address: "0xA"},
			want: "https://lineascan.build/address/0xA",
		},
		{
			rec:  model.ResultRecord{Protocol: "Etherex", Category: "Liquidity", Address: "0xB"},
			want: "https://www.etherex.finance/liquidity/0xB",
		},
		{
			rec:  model.ResultRecord{Protocol: "Euler", Category: "Lending", Address: "0xC"},
			want: "https://app.euler.finance/vault/0xC?network=lineamainnet",
		},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, MarketURL(tc.rec))
	}
}

func TestStateRender(t *testing.T) {
	manual := 0.05
	state := State{Sort: SortState{Key: SortUserRewards, Dir: Descending}, Deposit: 1000, ManualPrice: &manual}

	view := state.Render(sampleRecords(), 0.02, true)
	require.Equal(t, PriceManual, view.PriceSource)
	require.Equal(t, 0.05, view.Price)
	require.Equal(t, "b", view.Rows[0].ID)
	require.InDelta(t, 1.0, view.Rows[0].UserProfit, 1e-9)

	state.ManualPrice = nil
	view = state.Render(sampleRecords(), 0.02, true)
	require.Equal(t, PriceFeed, view.PriceSource)

	view = state.Render(sampleRecords(), 0, false)
	require.Equal(t, PriceNone, view.PriceSource)
	for _, row := range view.Rows {
		require.Zero(t, row.UserProfit)
	}
}
