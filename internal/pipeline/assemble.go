package pipeline

import (
	"marketScope/internal/amount"
	"marketScope/internal/market"
	"marketScope/internal/model"
	"marketScope/internal/rewards"
	"marketScope/internal/valuation"
)

// Assemble builds the output record for one market.
func Assemble(entry market.Entry, valued valuation.Valued, feed rewards.Feed) model.ResultRecord {
	rewardRaw, rewardText := feed.Lookup(entry.ID)

	record := model.ResultRecord{
		ID:                        entry.ID,
		Name:                      entry.Name,
		Protocol:                  entry.Protocol,
		Category:                  string(entry.Category),
		Method:                    string(entry.Method.Kind()),
		Address:                   entry.Address.Hex(),
		Image:                     entry.Image,
		TVLRaw:                    valued.TVLUSD,
		TVLFormatted:              amount.FormatUSD(valued.TVLUSD),
		RewardLastPeriodRaw:       rewardRaw,
		RewardLastPeriodFormatted: rewardText,
		Type:                      string(entry.Category),
	}
	if entry.Method.Kind() == market.KindWrappedAssetTotalSupply {
		record.UnderlyingAsset = valued.Underlying.Hex()
	}
	return record
}
