package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "DASHBOARD"

// Cache backends.
const (
	CacheFile     = "file"
	CacheRedis    = "redis"
	CachePostgres = "postgres"
	CacheNone     = "none"
)

// ChainConfig holds the settings needed to run a refresh cycle.
type ChainConfig struct {
	RPCURL       string
	Multicall    string
	RewardsURL   string
	HTTPTimeout  time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
}

// CacheConfig selects and configures the persisted cache.
type CacheConfig struct {
	Backend     string
	Path        string
	Key         string
	RedisURL    string
	PGDSN       string
	FreshFor    time.Duration
	ExpireAfter time.Duration
}

// SpotPriceConfig configures the reward token spot price feed.
type SpotPriceConfig struct {
	URL string
	ID  string
}

// LoadEnvFile loads variables from a .env file into the process
// environment. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// newViper merges config file, environment variables, and flags.
func newViper(cfgFile string, flags *pflag.FlagSet, defaults map[string]interface{}) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}
	return v, nil
}

func chainDefaults() map[string]interface{} {
	return map[string]interface{}{
		"multicall":     "",
		"http-timeout":  30 * time.Second,
		"max-retries":   0,
		"retry-backoff": 500 * time.Millisecond,
		"log-level":     "info",
	}
}

func cacheDefaults() map[string]interface{} {
	return map[string]interface{}{
		"cache-backend": CacheFile,
		"cache-path":    "./data/markets_cache.json",
		"cache-key":     "lineaMarketsCache",
		"fresh-for":     10 * time.Minute,
		"expire-after":  60 * time.Minute,
	}
}

func merge(maps ...map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{})
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

func readChain(v *viper.Viper) ChainConfig {
	return ChainConfig{
		RPCURL:       v.GetString("rpc"),
		Multicall:    v.GetString("multicall"),
		RewardsURL:   v.GetString("rewards-url"),
		HTTPTimeout:  v.GetDuration("http-timeout"),
		MaxRetries:   v.GetInt("max-retries"),
		RetryBackoff: v.GetDuration("retry-backoff"),
	}
}

func readCache(v *viper.Viper) CacheConfig {
	return CacheConfig{
		Backend:     strings.ToLower(v.GetString("cache-backend")),
		Path:        v.GetString("cache-path"),
		Key:         v.GetString("cache-key"),
		RedisURL:    v.GetString("redis-url"),
		PGDSN:       v.GetString("pg-dsn"),
		FreshFor:    v.GetDuration("fresh-for"),
		ExpireAfter: v.GetDuration("expire-after"),
	}
}

// Validate checks the chain settings.
func (c ChainConfig) Validate() error {
	if c.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}
	if c.Multicall != "" && !common.IsHexAddress(c.Multicall) {
		return fmt.Errorf("invalid multicall address: %s", c.Multicall)
	}
	return nil
}

// MulticallAddress returns the configured Multicall3 address, or the zero
// address to select the canonical deployment.
func (c ChainConfig) MulticallAddress() common.Address {
	if c.Multicall == "" {
		return common.Address{}
	}
	return common.HexToAddress(c.Multicall)
}

// Validate checks the cache settings.
func (c CacheConfig) Validate() error {
	switch c.Backend {
	case CacheNone:
	case CacheFile:
		if c.Path == "" {
			return fmt.Errorf("cache path is required for the file backend")
		}
	case CacheRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("redis url is required for the redis backend")
		}
	case CachePostgres:
		if c.PGDSN == "" {
			return fmt.Errorf("pg dsn is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown cache backend %q", c.Backend)
	}
	if c.FreshFor <= 0 || c.ExpireAfter <= 0 {
		return fmt.Errorf("cache durations must be positive")
	}
	if c.FreshFor > c.ExpireAfter {
		return fmt.Errorf("fresh-for (%s) must not exceed expire-after (%s)", c.FreshFor, c.ExpireAfter)
	}
	return nil
}

func getStringSlice(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case []string:
		return cleanStrings(typed)
	case string:
		return splitAndClean(typed)
	case []interface{}:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			items = append(items, fmt.Sprintf("%v", item))
		}
		return cleanStrings(items)
	default:
		return nil
	}
}

func splitAndClean(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	return cleanStrings(parts)
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}

// ParseAddresses converts string addresses into common.Address.
func ParseAddresses(inputs []string) ([]common.Address, error) {
	addresses := make([]common.Address, 0, len(inputs))
	for _, input := range inputs {
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if !common.IsHexAddress(input) {
			return nil, fmt.Errorf("invalid address: %s", input)
		}
		addresses = append(addresses, common.HexToAddress(input))
	}
	return addresses, nil
}
