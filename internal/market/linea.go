package market

import "github.com/ethereum/go-ethereum/common"

// Linea mainnet token addresses.
var (
	REX  = common.HexToAddress("0xEfD81eeC32B9A8222D1842ec3d99c7532C31e348")
	WETH = common.HexToAddress("0xe5D7C2a44FfDDf6b295A15c148167daaAf5Cf34f")
	USDC = common.HexToAddress("0x176211869cA2b568f2A7D4EE941E073a821EE1ff")
	USDT = common.HexToAddress("0xA219439258ca9da29E9Cc4cE5596924745e12B93")
	WBTC = common.HexToAddress("0x3aAB2285ddcDdaD8edf438C1bAB47e1a9D05a9b4")
)

// LineaETHUSDFeed is the Chainlink-compatible ETH/USD feed used by Aave on Linea.
var LineaETHUSDFeed = common.HexToAddress("0x3c6cd9cc7c7a4c2cf5a82734cd249d7d593354da")

// LineaChainID is the Linea mainnet chain id.
const LineaChainID = 59144

// LineaTotalSupply is the LINEA token supply used for FDV simulation.
const LineaTotalSupply = 72_009_990_000

func etherexPool(id, name, addr string, method Method) Entry {
	return Entry{
		ID:       id,
		Name:     name,
		Protocol: "Etherex",
		Category: CategoryLiquidity,
		Address:  common.HexToAddress(addr),
		Image:    "/etherex.png",
		Method:   method,
	}
}

func eulerVault(id, name, addr string, asset common.Address) Entry {
	return Entry{
		ID:       id,
		Name:     name,
		Protocol: "Euler",
		Category: CategoryLending,
		Address:  common.HexToAddress(addr),
		Image:    "/euler.svg",
		Method:   VaultTotalSupply{Asset: asset},
	}
}

func aaveMarket(id, name, addr string) Entry {
	return Entry{
		ID:       id,
		Name:     name,
		Protocol: "AAVE",
		Category: CategoryMoneyMarket,
		Address:  common.HexToAddress(addr),
		Image:    "/aave.png",
		Method:   WrappedAssetTotalSupply{},
	}
}

// Linea returns the production market registry for Linea mainnet.
func Linea() *Registry {
	return &Registry{
		Entries: []Entry{
			etherexPool("usdc-usdt", "Etherex USDC/USDT", "0x35521ec62d91375ac9510d1feefe254b4b582ea0", TokenBalances{Tokens: []common.Address{USDC, USDT}}),
			etherexPool("usdc-eth", "Etherex USDC/ETH", "0x90E8a5b881D211f418d77Ba8978788b62544914B", TokenBalances{Tokens: []common.Address{USDC, WETH}}),
			etherexPool("wbtc-eth", "Etherex WBTC/ETH", "0xc0cd56e070e25913d631876218609f2191da1c2a", TokenBalances{Tokens: []common.Address{WBTC, WETH}}),
			etherexPool("rex-eth", "Etherex REX/ETH", "0x5C1Bf4B7563C460282617a0304E3cDE133200f70", PoolReserves{Tokens: [2]common.Address{REX, WETH}}),

			eulerVault("re7-usdc", "Euler USDC (Re7 Labs)", "0xfB6448B96637d90FcF2E4Ad2c622A487d0496e6f", USDC),
			eulerVault("zerolend-usdc", "Euler USDC (ZeroLend)", "0x14EfcC1Ae56e2fF75204Ef2Fb0DE43378d0beaDA", USDC),
			eulerVault("re7-usdt", "Euler USDT (Re7 Labs)", "0xCBeF9be95738290188B25ca9A6Dd2bEc417a578c", USDT),
			eulerVault("zerolend-usdt", "Euler USDT (ZeroLend)", "0x085f80Df643307e04f23281F6fdbfAA13865E852", USDT),
			eulerVault("re7-weth", "Euler WETH (Re7 Labs)", "0xb135dcF653DAFB5ddAa93F926D7000Aa3222EFEE", WETH),
			eulerVault("zerolend-weth", "Euler WETH (ZeroLend)", "0x9aC2F0A564B7396A8692E1558d23a12d5a2aBb1F", WETH),
			eulerVault("ezeth-cluster", "Euler WETH (ezETH)", "0x8bf8EdC911Ab3f0ea4a27c51Cb88b57ccE5356f1", WETH),
			eulerVault("weeth-cluster", "Euler WETH (weETH)", "0xF4712fC5E6483DE9e1Ff661D95DD686664327086", WETH),
			eulerVault("wrseth-cluster", "Euler WETH (wrsETH)", "0x179DfD3eCDC6f5B8F8788584F3289D10c6F1afb8", WETH),
			eulerVault("wsteth-cluster", "Euler WETH (wstETH)", "0xa8A02E6a894a490D04B6cd480857A19477854968", WETH),

			aaveMarket("aave-usdc", "AAVE USDC", "0x374D7860c4f2f604De0191298dD393703Cce84f3"),
			aaveMarket("aave-usdt", "AAVE USDT", "0x88231dfEC71D4FF5c1e466D08C321944A7adC673"),
			aaveMarket("aave-eth", "AAVE ETH", "0x787897dF92703BB3Fc4d9Ee98e15C0b8130Bf163"),
		},
		Stables:   []common.Address{USDC, USDT},
		Reference: WETH,
		Feed:      LineaETHUSDFeed,
		Bootstraps: []Bootstrap{
			{Token: WBTC, Market: "wbtc-eth"},
			{Token: REX, Market: "rex-eth"},
		},
		Symbols: map[common.Address]string{
			REX:  "REX",
			WETH: "WETH",
			USDC: "USDC",
			USDT: "USDT",
			WBTC: "WBTC",
		},
	}
}
