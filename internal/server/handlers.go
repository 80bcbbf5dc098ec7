package server

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"marketScope/internal/cache"
	"marketScope/internal/dashboard"
)

// Markets is the source of the latest market records.
type Markets interface {
	Current() (cache.Entry, bool)
	Refresh(ctx context.Context) error
}

// PriceFeed supplies the reward token's spot price.
type PriceFeed interface {
	Price(ctx context.Context) (float64, error)
}

func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// Ready reports ready once market records are available.
func Ready(markets Markets) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if _, ok := markets.Current(); !ok {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

type marketRow struct {
	dashboard.Row
	URL string `json:"url"`
}

type marketsResponse struct {
	Rows        []marketRow           `json:"rows"`
	Deposit     float64               `json:"deposit"`
	Price       float64               `json:"price"`
	PriceSource dashboard.PriceSource `json:"price_source"`
	Sort        dashboard.SortKey     `json:"sort,omitempty"`
	Dir         dashboard.Direction   `json:"dir,omitempty"`
	UpdatedAt   string                `json:"updated_at"`
}

// ListMarkets returns every market with the viewer's calculated figures.
func ListMarkets(markets Markets, feed PriceFeed) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := parseState(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		entry, ok := markets.Current()
		if !ok {
			writeError(w, http.StatusServiceUnavailable, "no data available yet")
			return
		}

		price, priceOK := feedPrice(r.Context(), state, feed)
		view := state.Render(entry.Data, price, priceOK)

		rows := make([]marketRow, 0, len(view.Rows))
		for _, row := range view.Rows {
			rows = append(rows, marketRow{Row: row, URL: dashboard.MarketURL(row.ResultRecord)})
		}
		writeJSON(w, http.StatusOK, marketsResponse{
			Rows:        rows,
			Deposit:     view.Deposit,
			Price:       view.Price,
			PriceSource: view.PriceSource,
			Sort:        view.SortKey,
			Dir:         view.SortDir,
			UpdatedAt:   entry.FetchedAt().UTC().Format(time.RFC3339),
		})
	}
}

type marketFDVResponse struct {
	Market      string               `json:"market"`
	Name        string               `json:"name"`
	UserRewards float64              `json:"user_rewards"`
	Points      []dashboard.FDVPoint `json:"points"`
}

// MarketFDV simulates one market's weekly profit across the FDV ladder.
func MarketFDV(markets Markets) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := parseState(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		entry, ok := markets.Current()
		if !ok {
			writeError(w, http.StatusServiceUnavailable, "no data available yet")
			return
		}

		id := chi.URLParam(r, "id")
		for _, row := range dashboard.Calculate(entry.Data, state.Deposit, 0) {
			if row.ID != id {
				continue
			}
			writeJSON(w, http.StatusOK, marketFDVResponse{
				Market:      row.ID,
				Name:        row.Name,
				UserRewards: row.UserRewards,
				Points:      dashboard.Simulate(row, dashboard.FDVLadder()),
			})
			return
		}
		writeError(w, http.StatusNotFound, fmt.Sprintf("market %q not found", id))
	}
}

// FDVGrid simulates every market across the FDV ladder, in the viewer's
// sort order.
func FDVGrid(markets Markets) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := parseState(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		entry, ok := markets.Current()
		if !ok {
			writeError(w, http.StatusServiceUnavailable, "no data available yet")
			return
		}
		rows := state.Sort.Apply(dashboard.Calculate(entry.Data, state.Deposit, 0))
		writeJSON(w, http.StatusOK, dashboard.SimulateAll(rows, dashboard.FDVLadder()))
	}
}

// Refresh runs a refresh cycle on demand. The cycle runs to completion even
// if the client goes away.
func Refresh(markets Markets) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := markets.Refresh(context.WithoutCancel(r.Context())); err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		entry, _ := markets.Current()
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"markets":    len(entry.Data),
			"updated_at": entry.FetchedAt().UTC().Format(time.RFC3339),
		})
	}
}

func parseState(r *http.Request) (dashboard.State, error) {
	q := r.URL.Query()
	var state dashboard.State

	deposit, err := parseAmount(q.Get("deposit"))
	if err != nil {
		return state, fmt.Errorf("invalid deposit: %w", err)
	}
	state.Deposit = deposit

	if raw := q.Get("price"); raw != "" {
		price, err := parseAmount(raw)
		if err != nil {
			return state, fmt.Errorf("invalid price: %w", err)
		}
		state.ManualPrice = &price
	}

	state.Sort, err = dashboard.ParseSort(q.Get("sort"), q.Get("dir"))
	if err != nil {
		return state, err
	}
	return state, nil
}

func parseAmount(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("must be a non-negative number")
	}
	return v, nil
}

func feedPrice(ctx context.Context, state dashboard.State, feed PriceFeed) (float64, bool) {
	if state.ManualPrice != nil && *state.ManualPrice > 0 {
		return 0, false
	}
	if feed == nil {
		return 0, false
	}
	price, err := feed.Price(ctx)
	if err != nil {
		return 0, false
	}
	return price, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
