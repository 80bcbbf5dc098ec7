package spotprice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClientPriceCached(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		require.Equal(t, "/simple/price", r.URL.Path)
		require.Equal(t, "linea", r.URL.Query().Get("ids"))
		require.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		_, _ = w.Write([]byte(`{"linea": {"usd": 0.025}}`))
	}))
	defer srv.Close()

	now := time.Unix(1_700_000_000, 0)
	client := NewClient(srv.URL, "", 10*time.Minute, time.Second, nil)
	client.now = func() time.Time { return now }

	price, err := client.Price(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0.025, price)

	now = now.Add(5 * time.Minute)
	_, err = client.Price(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 1, atomic.LoadInt32(&hits))

	now = now.Add(6 * time.Minute)
	_, err = client.Price(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 2, atomic.LoadInt32(&hits))
}

func TestClientPriceErrors(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"status": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		},
		"missing id": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"bitcoin": {"usd": 97000}}`))
		},
		"malformed": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[`))
		},
	}

	for name, handler := range cases {
		srv := httptest.NewServer(handler)
		_, err := NewClient(srv.URL, "linea", time.Minute, time.Second, nil).Price(context.Background())
		srv.Close()
		require.Error(t, err, name)
	}
}

func TestClientPriceFailureCached(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"linea": {"usd": 0.03}}`))
	}))
	defer srv.Close()

	now := time.Unix(1_700_000_000, 0)
	client := NewClient(srv.URL, "linea", time.Minute, time.Second, nil)
	client.now = func() time.Time { return now }

	_, err := client.Price(context.Background())
	require.Error(t, err)

	now = now.Add(30 * time.Second)
	_, err = client.Price(context.Background())
	require.Error(t, err)
	require.EqualValues(t, 1, atomic.LoadInt32(&hits))

	now = now.Add(31 * time.Second)
	price, err := client.Price(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0.03, price)
	require.EqualValues(t, 2, atomic.LoadInt32(&hits))
}

func TestClientPriceFetchesWithoutHoldingLock(t *testing.T) {
	release := make(chan struct{})
	var inFlight int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.StoreInt32(&inFlight, 1)
		<-release
		_, _ = w.Write([]byte(`{"linea": {"usd": 0.03}}`))
	}))
	defer srv.Close()
	defer close(release)

	client := NewClient(srv.URL, "linea", time.Minute, 5*time.Second, nil)
	go func() { _, _ = client.Price(context.Background()) }()

	require.Eventually(t, func() bool { return atomic.LoadInt32(&inFlight) == 1 }, time.Second, 5*time.Millisecond)
	require.True(t, client.mu.TryLock(), "cache lock held during fetch")
	client.mu.Unlock()
}
