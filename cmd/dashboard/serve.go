package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"marketScope/internal/config"
	"marketScope/internal/refresher"
	"marketScope/internal/server"
	"marketScope/internal/spotprice"
)

func runServe(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadServe(cfgFile, cmd.Flags())
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
	go svc.Run(ctx, cfg.PollInterval)

	spot := spotprice.NewClient(cfg.SpotPrice.URL, cfg.SpotPrice.ID, 5*time.Minute, cfg.Chain.HTTPTimeout, logger)

	srv := &http.Server{
		Addr: cfg.Listen,
		Handler: server.NewRouter(server.Deps{
			Markets:        svc,
			PriceFeed:      spot,
			FrontendOrigin: cfg.FrontendOrigin,
		}, logger),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	logger.Info("dashboard start",
		zap.String("listen", cfg.Listen),
		zap.String("rpc", cfg.Chain.RPCURL),
		zap.String("cache_backend", cfg.Cache.Backend),
		zap.Duration("poll_interval", cfg.PollInterval),
		zap.Duration("fresh_for", cfg.Cache.FreshFor),
		zap.Duration("expire_after", cfg.Cache.ExpireAfter),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	}

	logger.Info("dashboard shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	svc.Wait()
	return nil
}
