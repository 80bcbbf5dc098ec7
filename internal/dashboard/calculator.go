package dashboard

import "marketScope/internal/model"

// WeeksPerYear annualises a weekly reward.
const WeeksPerYear = 52

// Row is a market record with the user-specific figures derived from it.
type Row struct {
	model.ResultRecord
	APR         float64 `json:"apr"`
	UserRewards float64 `json:"user_rewards"`
	UserProfit  float64 `json:"user_profit"`
}

// Calculate derives APR, the user's share of last period's rewards and its
// USD value for every record. Non-positive inputs yield zeros.
func Calculate(records []model.ResultRecord, deposit, price float64) []Row {
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		row := Row{ResultRecord: rec}
		tvl := rec.TVLRaw
		reward := rec.RewardLastPeriodRaw

		if tvl > 0 && reward > 0 {
			row.APR = reward / tvl * WeeksPerYear * 100
		}
		if tvl > 0 && deposit > 0 && reward > 0 {
			row.UserRewards = deposit / tvl * reward
		}
		if row.UserRewards > 0 && price > 0 {
			row.UserProfit = row.UserRewards * price
		}
		rows = append(rows, row)
	}
	return rows
}
