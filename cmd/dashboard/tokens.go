package main

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"marketScope/internal/amount"
	"marketScope/internal/chain"
	"marketScope/internal/config"
	"marketScope/internal/dex"
	"marketScope/internal/market"
)

func runTokens(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadTokens(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}

	extra, err := config.ParseAddresses(cfg.Addresses)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	head, err := chain.VerifyHead(ctx, chainClient, market.LineaChainID)
	if err != nil {
		return err
	}
	logger.Info("rpc connected", zap.Uint64("chain_id", head.ChainID), zap.Uint64("block", head.BlockNumber))

	tokens := append(market.Linea().Tokens(), extra...)
	metas := dex.FetchTokenMetas(ctx, chainClient, tokens, dex.NewTokenMetaCache(), logger)
	logger.Info("token metadata fetched", zap.Int("requested", len(tokens)), zap.Int("resolved", len(metas)))

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ADDRESS\tSYMBOL\tNAME\tDECIMALS\tTOTAL SUPPLY")
	for _, meta := range metas {
		supply, err := dex.FetchTotalSupply(ctx, chainClient, common.HexToAddress(meta.Address))
		if err != nil {
			logger.Warn("total supply fetch failed", zap.String("token", meta.Address), zap.Error(err))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", meta.Address, meta.Symbol, meta.Name, meta.Decimals, formatSupply(supply, meta.Decimals))
	}
	return tw.Flush()
}

// formatSupply renders a raw supply in whole units, or "-" when unknown.
func formatSupply(supply *big.Int, decimals uint8) string {
	if supply == nil {
		return "-"
	}
	return amount.Format(supply, decimals)
}
