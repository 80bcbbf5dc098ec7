package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"marketScope/internal/amount"
	"marketScope/internal/config"
	"marketScope/internal/dashboard"
	"marketScope/internal/model"
	"marketScope/internal/refresher"
	"marketScope/internal/spotprice"
)

func runSimulate(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadSimulate(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	showFDV, _ := cmd.Flags().GetBool("fdv")

	sortState, err := dashboard.ParseSort(cfg.Sort, cfg.Dir)
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
	entry, err := svc.Check(ctx)
	if err != nil {
		return err
	}
	// A stale entry is served immediately; let its refresh land in the cache.
	defer svc.Wait()

	records, err := filterMarkets(entry.Data, cfg.Markets)
	if err != nil {
		return err
	}

	state := dashboard.State{Sort: sortState, Deposit: cfg.Deposit}
	if cfg.Price > 0 {
		price := cfg.Price
		state.ManualPrice = &price
	}

	var feed float64
	feedOK := false
	if state.ManualPrice == nil {
		spot := spotprice.NewClient(cfg.SpotPrice.URL, cfg.SpotPrice.ID, time.Minute, cfg.Chain.HTTPTimeout, logger)
		if feed, err = spot.Price(ctx); err != nil {
			logger.Warn("spot price unavailable", zap.Error(err))
		} else {
			feedOK = true
		}
	}

	view := state.Render(records, feed, feedOK)
	out := os.Stdout
	fmt.Fprintf(out, "Data updated %s\n", entry.FetchedAt().UTC().Format(time.RFC3339))
	if view.PriceSource != dashboard.PriceNone {
		fmt.Fprintf(out, "Reward token price %s (%s)\n\n", amount.FormatUSD(view.Price), view.PriceSource)
	} else {
		fmt.Fprintln(out, "Reward token price unavailable")
		fmt.Fprintln(out)
	}

	if err := writeTable(out, view); err != nil {
		return err
	}
	if showFDV {
		fmt.Fprintln(out)
		return writeFDVGrid(out, dashboard.SimulateAll(view.Rows, dashboard.FDVLadder()))
	}
	return nil
}

func filterMarkets(records []model.ResultRecord, ids []string) ([]model.ResultRecord, error) {
	if len(ids) == 0 {
		return records, nil
	}
	byID := make(map[string]model.ResultRecord, len(records))
	for _, rec := range records {
		byID[rec.ID] = rec
	}
	out := make([]model.ResultRecord, 0, len(ids))
	for _, id := range ids {
		rec, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("unknown market %q", id)
		}
		out = append(out, rec)
	}
	return out, nil
}

func writeTable(w io.Writer, view dashboard.View) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "MARKET\tPROTOCOL\tTVL\tREWARD\tAPR\tYOUR REWARDS\tYOUR PROFIT\t")
	for _, row := range view.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s%%\t%s\t%s\t\n",
			row.Name,
			row.Protocol,
			row.TVLFormatted,
			row.RewardLastPeriodFormatted,
			amount.FormatNumber(row.APR),
			amount.FormatNumber(row.UserRewards),
			amount.FormatUSDCents(row.UserProfit),
		)
	}
	return tw.Flush()
}

func writeFDVGrid(w io.Writer, grid dashboard.Grid) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	header := append([]string{"FDV", "PRICE"}, grid.Markets...)
	fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")
	for _, row := range grid.Rows {
		cells := make([]string, 0, len(row.Profits)+2)
		cells = append(cells, amount.FormatUSDWhole(row.FDV), amount.FormatUSD(row.Price))
		for _, profit := range row.Profits {
			cells = append(cells, amount.FormatUSDCents(profit))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t")+"\t")
	}
	return tw.Flush()
}
