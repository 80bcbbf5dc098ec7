package model

// ResultRecord is the per-market output of a refresh cycle.
type ResultRecord struct {
	ID                        string  `json:"id"`
	Name                      string  `json:"name"`
	Protocol                  string  `json:"protocol"`
	Category                  string  `json:"category"`
	Method                    string  `json:"method"`
	Address                   string  `json:"address"`
	Image                     string  `json:"img,omitempty"`
	UnderlyingAsset           string  `json:"underlying_asset,omitempty"`
	TVLRaw                    float64 `json:"tvl_raw"`
	TVLFormatted              string  `json:"tvl_formatted"`
	RewardLastPeriodRaw       float64 `json:"reward_last_period_raw"`
	RewardLastPeriodFormatted string  `json:"reward_last_period_formatted"`
	Type                      string  `json:"type"`
}
