package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// ServeConfig holds configuration for the serve command.
type ServeConfig struct {
	Chain          ChainConfig
	Cache          CacheConfig
	SpotPrice      SpotPriceConfig
	Listen         string
	PollInterval   time.Duration
	FrontendOrigin string
	LogLevel       string
}

// LoadServe merges config file, environment variables, and flags into ServeConfig.
func LoadServe(cfgFile string, flags *pflag.FlagSet) (ServeConfig, error) {
	v, err := newViper(cfgFile, flags, merge(chainDefaults(), cacheDefaults(), map[string]interface{}{
		"listen":          ":8080",
		"poll-interval":   10 * time.Minute,
		"frontend-origin": "*",
		"spot-price-id":   "linea",
	}))
	if err != nil {
		return ServeConfig{}, err
	}

	cfg := ServeConfig{
		Chain: readChain(v),
		Cache: readCache(v),
		SpotPrice: SpotPriceConfig{
			URL: v.GetString("spot-price-url"),
			ID:  v.GetString("spot-price-id"),
		},
		Listen:         v.GetString("listen"),
		PollInterval:   v.GetDuration("poll-interval"),
		FrontendOrigin: v.GetString("frontend-origin"),
		LogLevel:       v.GetString("log-level"),
	}
	if cfg.PollInterval <= 0 {
		return ServeConfig{}, fmt.Errorf("poll interval must be positive")
	}
	return cfg, nil
}

// RefreshConfig holds configuration for the refresh command.
type RefreshConfig struct {
	Chain    ChainConfig
	Cache    CacheConfig
	Out      string
	LogLevel string
}

// LoadRefresh merges config file, environment variables, and flags into RefreshConfig.
func LoadRefresh(cfgFile string, flags *pflag.FlagSet) (RefreshConfig, error) {
	v, err := newViper(cfgFile, flags, merge(chainDefaults(), cacheDefaults()))
	if err != nil {
		return RefreshConfig{}, err
	}
	return RefreshConfig{
		Chain:    readChain(v),
		Cache:    readCache(v),
		Out:      v.GetString("out"),
		LogLevel: v.GetString("log-level"),
	}, nil
}

// SimulateConfig holds configuration for the simulate command.
type SimulateConfig struct {
	Chain     ChainConfig
	Cache     CacheConfig
	SpotPrice SpotPriceConfig
	Deposit   float64
	Price     float64
	Markets   []string
	Sort      string
	Dir       string
	LogLevel  string
}

// LoadSimulate merges config file, environment variables, and flags into SimulateConfig.
func LoadSimulate(cfgFile string, flags *pflag.FlagSet) (SimulateConfig, error) {
	v, err := newViper(cfgFile, flags, merge(chainDefaults(), cacheDefaults(), map[string]interface{}{
		"spot-price-id": "linea",
	}))
	if err != nil {
		return SimulateConfig{}, err
	}

	cfg := SimulateConfig{
		Chain: readChain(v),
		Cache: readCache(v),
		SpotPrice: SpotPriceConfig{
			URL: v.GetString("spot-price-url"),
			ID:  v.GetString("spot-price-id"),
		},
		Deposit:  v.GetFloat64("deposit"),
		Price:    v.GetFloat64("price"),
		Markets:  getStringSlice(v, "market"),
		Sort:     v.GetString("sort"),
		Dir:      v.GetString("dir"),
		LogLevel: v.GetString("log-level"),
	}
	if cfg.Deposit < 0 {
		return SimulateConfig{}, fmt.Errorf("deposit must not be negative")
	}
	if cfg.Price < 0 {
		return SimulateConfig{}, fmt.Errorf("price must not be negative")
	}
	return cfg, nil
}

// TokensConfig holds configuration for the tokens command.
type TokensConfig struct {
	RPCURL    string
	Addresses []string
	LogLevel  string
}

// LoadTokens merges config file, environment variables, and flags into TokensConfig.
func LoadTokens(cfgFile string, flags *pflag.FlagSet) (TokensConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"log-level": "info",
	})
	if err != nil {
		return TokensConfig{}, err
	}
	return TokensConfig{
		RPCURL:    v.GetString("rpc"),
		Addresses: getStringSlice(v, "address"),
		LogLevel:  v.GetString("log-level"),
	}, nil
}
