package spotprice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://api.coingecko.com/api/v3"
	DefaultID      = "linea"
)

// Client reads a token's USD spot price from a CoinGecko-style
// simple/price endpoint and caches it for a TTL.
type Client struct {
	client  *http.Client
	baseURL string
	id      string
	ttl     time.Duration
	logger  *zap.Logger
	now     func() time.Time

	mu        sync.Mutex
	price     float64
	err       error
	fetchedAt time.Time
}

// NewClient creates a spot price client.
func NewClient(baseURL, id string, ttl, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if id == "" {
		id = DefaultID
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		id:      id,
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
	}
}

// Price returns the cached price while it is younger than the TTL and
// fetches a new one otherwise. A failed fetch is also remembered for the
// TTL, so an unavailable API is not hit on every call. The lock is not held
// during the request.
func (c *Client) Price(ctx context.Context) (float64, error) {
	c.mu.Lock()
	now := c.now()
	if !c.fetchedAt.IsZero() && now.Sub(c.fetchedAt) < c.ttl {
		price, err := c.price, c.err
		c.mu.Unlock()
		return price, err
	}
	c.mu.Unlock()

	price, err := c.fetch(ctx)
	if err != nil {
		c.logger.Warn("spot price unavailable", zap.String("id", c.id), zap.Error(err))
		price = 0
	}

	c.mu.Lock()
	c.price = price
	c.err = err
	c.fetchedAt = c.now()
	c.mu.Unlock()
	return price, err
}

func (c *Client) fetch(ctx context.Context) (float64, error) {
	endpoint := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd", c.baseURL, url.QueryEscape(c.id))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("spot price API error %d: %s", resp.StatusCode, string(body))
	}

	// Response shape: {"linea": {"usd": 0.0123}}
	var raw map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return 0, fmt.Errorf("parse spot price: %w", err)
	}
	price, ok := raw[c.id]["usd"]
	if !ok || price <= 0 {
		return 0, fmt.Errorf("no usd price for %s", c.id)
	}
	return price, nil
}
