package coinbase

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

const bookBody = `{
	"bids": [["8990.00", "3.1", 4], ["8980.50", "0.25", 1]],
	"asks": [["9000.00", "0.5", 2], ["9010.00", "1", 1]],
	"sequence": 3262786978,
	"auction_mode": false,
	"auction": null
}`

func newTestAPI(t *testing.T, handler http.HandlerFunc) *SyncAPI {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewSyncAPI(Config{
		BaseURL:   srv.URL + "/",
		UserAgent: "cryptoquote-test",
	})
}

func TestOrderBookSnapshot(t *testing.T) {
	var gotPath, gotLevel, gotAgent string
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotLevel = r.URL.Query().Get("level")
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(bookBody))
	})

	symbol, err := domain.NewMarketSymbol("BTC", "USD")
	require.NoError(t, err)

	snapshot, err := api.OrderBookSnapshot(context.Background(), symbol, 2)
	require.NoError(t, err)

	assert.Equal(t, "/products/BTC-USD/book", gotPath)
	assert.Equal(t, "2", gotLevel)
	assert.Equal(t, "cryptoquote-test", gotAgent)

	assert.Equal(t, ProviderName, snapshot.Provider)
	assert.Equal(t, "BTC-USD", snapshot.Product)
	assert.Equal(t, int64(3262786978), snapshot.Sequence)
	assert.Equal(t, [][]string{{"8990.00", "3.1", "4"}, {"8980.50", "0.25", "1"}}, snapshot.Bids)
	assert.Equal(t, [][]string{{"9000.00", "0.5", "2"}, {"9010.00", "1", "1"}}, snapshot.Asks)

	book, err := domain.NewOrderBook(snapshot)
	require.NoError(t, err)
	assert.Equal(t, 4, book.Bids[0].OrderCount)
}

func TestOrderBookSnapshot_ExchangeError(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"NotFound"}`))
	})

	symbol, err := domain.NewMarketSymbol("LTC", "EUR")
	require.NoError(t, err)

	_, err = api.OrderBookSnapshot(context.Background(), symbol, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "NotFound")
}

func TestOrderBookSnapshot_BadBody(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>maintenance</html>`))
	})

	symbol, _ := domain.NewMarketSymbol("BTC", "USD")
	_, err := api.OrderBookSnapshot(context.Background(), symbol, 2)
	assert.Error(t, err)
}

func TestOrderBookSnapshot_ContextCancelled(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	symbol, _ := domain.NewMarketSymbol("BTC", "USD")
	_, err := api.OrderBookSnapshot(ctx, symbol, 2)
	assert.Error(t, err)
}

func TestStringifyLevels(t *testing.T) {
	result, err := stringifyLevels([][]interface{}{{"1.5", "2", float64(3)}})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1.5", "2", "3"}}, result)

	_, err = stringifyLevels([][]interface{}{{"1.5", true}})
	assert.ErrorIs(t, err, domain.ErrMalformedLevel)
}
