package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"marketScope/internal/config"
)

func main() {
	root := &cobra.Command{
		Use:          "dashboard",
		Short:        "Linea market TVL and reward dashboard",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			envFile, _ := cmd.Flags().GetString("env-file")
			return config.LoadEnvFile(envFile)
		},
	}

	root.PersistentFlags().String("config", "", "config file path")
	root.PersistentFlags().String("env-file", ".env", "optional dotenv file")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard API and keep market data fresh",
		RunE:  runServe,
	}

	addChainFlags(serveCmd)
	addCacheFlags(serveCmd)
	serveCmd.Flags().String("listen", ":8080", "HTTP listen address")
	serveCmd.Flags().Duration("poll-interval", 10*time.Minute, "how often to check cache freshness")
	serveCmd.Flags().String("frontend-origin", "*", "allowed CORS origin")
	serveCmd.Flags().String("spot-price-url", "", "CoinGecko-compatible API base URL")
	serveCmd.Flags().String("spot-price-id", "linea", "reward token id on the price API")
	serveCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(serveCmd)

	refreshCmd := &cobra.Command{
		Use:   "refresh",
		Short: "Run one refresh cycle and print the market records",
		RunE:  runRefresh,
	}

	addChainFlags(refreshCmd)
	addCacheFlags(refreshCmd)
	refreshCmd.Flags().String("out", "", "append records to a JSONL file instead of printing")
	refreshCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(refreshCmd)

	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "Print the rewards table and FDV simulation for a deposit",
		RunE:  runSimulate,
	}

	addChainFlags(simulateCmd)
	addCacheFlags(simulateCmd)
	simulateCmd.Flags().Float64("deposit", 0, "deposit amount in USD")
	simulateCmd.Flags().Float64("price", 0, "manual reward token price in USD (0 uses the spot price)")
	simulateCmd.Flags().StringSlice("market", nil, "market ids to include (comma-separated)")
	simulateCmd.Flags().String("sort", "", "sort column (tvl, reward, apr, user_rewards, user_profit)")
	simulateCmd.Flags().String("dir", "", "sort direction (asc, desc)")
	simulateCmd.Flags().Bool("fdv", false, "also print the FDV simulation grid")
	simulateCmd.Flags().String("spot-price-url", "", "CoinGecko-compatible API base URL")
	simulateCmd.Flags().String("spot-price-id", "linea", "reward token id on the price API")
	simulateCmd.Flags().String("log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(simulateCmd)

	tokensCmd := &cobra.Command{
		Use:   "tokens",
		Short: "Fetch on-chain metadata for the registry tokens",
		RunE:  runTokens,
	}

	tokensCmd.Flags().String("rpc", "", "Linea RPC URL")
	tokensCmd.Flags().StringSlice("address", nil, "extra token addresses (comma-separated)")
	tokensCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(tokensCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addChainFlags(cmd *cobra.Command) {
	cmd.Flags().String("rpc", "", "Linea RPC URL")
	cmd.Flags().String("multicall", "", "Multicall3 address (empty uses the canonical deployment)")
	cmd.Flags().String("rewards-url", "", "reward feed URL")
	cmd.Flags().Duration("http-timeout", 30*time.Second, "timeout for outbound HTTP requests")
	cmd.Flags().Int("max-retries", 0, "retry attempts for a failed batch read (0 waits for the next poll)")
	cmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
}

func addCacheFlags(cmd *cobra.Command) {
	cmd.Flags().String("cache-backend", config.CacheFile, "cache backend (file, redis, postgres, none)")
	cmd.Flags().String("cache-path", "./data/markets_cache.json", "cache file path")
	cmd.Flags().String("cache-key", "lineaMarketsCache", "cache key or row name")
	cmd.Flags().String("redis-url", "", "Redis URL for the redis backend")
	cmd.Flags().String("pg-dsn", "", "Postgres DSN for the postgres backend")
	cmd.Flags().Duration("fresh-for", 10*time.Minute, "age below which the cache is served as is")
	cmd.Flags().Duration("expire-after", 60*time.Minute, "age above which the cache is refreshed before serving")
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
