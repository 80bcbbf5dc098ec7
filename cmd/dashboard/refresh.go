package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"marketScope/internal/config"
	"marketScope/internal/refresher"
	"marketScope/internal/storage"
)

func runRefresh(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadRefresh(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, closeChain, err := newPipeline(ctx, cfg.Chain, logger)
	if err != nil {
		return err
	}
	defer closeChain()

	store, closeStore, err := openStore(ctx, cfg.Cache, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	svc := refresher.New(p, store, cachePolicy(cfg.Cache), logger)
	if err := svc.Refresh(ctx); err != nil {
		return err
	}
	entry, _ := svc.Current()

	if cfg.Out != "" {
		sink := storage.NewJsonlStorage(cfg.Out)
		if err := sink.PutRecords(entry.Data); err != nil {
			return err
		}
		logger.Info("records written", zap.String("out", cfg.Out), zap.Int("markets", len(entry.Data)))
		return nil
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(entry)
}
