package dashboard

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"marketScope/internal/market"
	"marketScope/internal/model"
)

// MarketURL returns the page where a user can deposit into a market.
func MarketURL(rec model.ResultRecord) string {
	switch {
	case rec.Protocol == "AAVE":
		if rec.UnderlyingAsset != "" && common.HexToAddress(rec.UnderlyingAsset) != (common.Address{}) {
			return fmt.Sprintf("https://app.aave.com/reserve-overview/?underlyingAsset=%s&marketName=proto_linea_v3", rec.UnderlyingAsset)
		}
		return explorerURL(rec.Address)
	case rec.Category == string(market.CategoryLiquidity):
		return fmt.Sprintf("https://www.etherex.finance/liquidity/%s", rec.Address)
	case rec.Category == string(market.CategoryLending):
		return fmt.Sprintf("https://app.euler.finance/vault/%s?network=lineamainnet", rec.Address)
	default:
		return explorerURL(rec.Address)
	}
}

func explorerURL(address string) string {
	return fmt.Sprintf("https://lineascan.build/address/%s", address)
}
