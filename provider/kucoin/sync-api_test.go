package kucoin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spooky-finn/cryptoquote/domain"
)

func TestGetOrderBookSnapshot(t *testing.T) {
	var gotPath, gotSymbol string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSymbol = r.URL.Query().Get("symbol")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":"200000","data":{
			"sequence":"3262786978",
			"time":1550653727731,
			"bids":[["6500.12","0.45054140"],["6500.11","0.45054140"]],
			"asks":[["6500.16","0.57753524"],["6500.15","0.57753524"]]
		}}`))
	}))
	defer srv.Close()

	api := NewKucoinSyncAPI(srv.URL)
	symbol, _ := domain.NewMarketSymbol("ETH", "BTC")

	snapshot, err := api.OrderBookSnapshot(context.Background(), symbol, 2)
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/market/orderbook/level2_100", gotPath)
	assert.Equal(t, "ETH-BTC", gotSymbol)

	assert.Equal(t, ProviderName, snapshot.Provider)
	assert.Equal(t, int64(3262786978), snapshot.Sequence)
	assert.Len(t, snapshot.Bids, 2)
	assert.Len(t, snapshot.Asks, 2)
	assert.Equal(t, []string{"6500.16", "0.57753524"}, snapshot.Asks[0])
}

func TestGetOrderBookSnapshot_ApiError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":"400100","msg":"symbol not exists"}`))
	}))
	defer srv.Close()

	api := NewKucoinSyncAPI(srv.URL)
	symbol, _ := domain.NewMarketSymbol("LTC", "BTC")

	_, err := api.OrderBookSnapshot(context.Background(), symbol, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "symbol not exists")
}

func TestGetOrderBookSnapshot_ContextDone(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	api := NewKucoinSyncAPI(srv.URL)
	symbol, _ := domain.NewMarketSymbol("ETH", "BTC")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := api.OrderBookSnapshot(ctx, symbol, 2)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDepthFor(t *testing.T) {
	assert.Equal(t, int64(20), depthFor(1))
	assert.Equal(t, int64(100), depthFor(2))
	assert.Equal(t, int64(100), depthFor(3))
}

func TestGetOrderBookSnapshot_FiatProductNotListed(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	api := NewKucoinSyncAPI(srv.URL)

	for _, p := range []string{"BTC-USD", "BTC-GBP", "BTC-EUR", "ETH-USD", "ETH-EUR", "LTC-USD"} {
		symbol, err := domain.NewMarketSymbolFromString(p)
		require.NoError(t, err)

		snapshot, err := api.OrderBookSnapshot(context.Background(), symbol, 2)
		assert.Nil(t, snapshot, p)
		assert.ErrorIs(t, err, domain.ErrUnsupportedPair, p)
		assert.Contains(t, err.Error(), "kucoin does not list "+p)
	}
	assert.Equal(t, 0, calls)
}

func TestLists(t *testing.T) {
	for _, p := range domain.SupportedProducts() {
		p := p
		want := p.QuoteAsset == domain.BTC
		assert.Equal(t, want, Lists(&p), p.String())
	}
}
