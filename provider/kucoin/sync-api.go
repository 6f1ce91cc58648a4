package kucoin

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Kucoin/kucoin-go-sdk"
	"github.com/rs/zerolog/log"

	"github.com/spooky-finn/cryptoquote/domain"
)

const ProviderName = "kucoin"

var logger = log.With().Str("component", "kucoin").Logger()

// listedProducts are the quotable products KuCoin trades. It runs no fiat
// books, so BTC-USD and the other fiat-quoted products are not served.
var listedProducts = map[string]bool{
	"ETH-BTC": true,
	"LTC-BTC": true,
}

// Lists reports whether KuCoin has a book for product.
func Lists(product *domain.MarketSymbol) bool {
	return listedProducts[product.String()]
}

type KucoinSyncAPI struct {
	apiService *kucoin.ApiService
}

func NewKucoinSyncAPI(baseURL string) *KucoinSyncAPI {
	opts := []kucoin.ApiServiceOption{}
	if baseURL != "" {
		opts = append(opts, kucoin.ApiBaseURIOption(baseURL))
	}

	return &KucoinSyncAPI{
		apiService: kucoin.NewApiService(opts...),
	}
}

type OrderBookSnapshot struct {
	Sequence string     `json:"sequence"`
	Time     int64      `json:"time"`
	Bids     [][]string `json:"bids"`
	Asks     [][]string `json:"asks"`
}

type snapshotResult struct {
	snapshot *domain.OrderBookSnapshot
	err      error
}

// depthFor maps an aggregation level onto the partial book sizes KuCoin
// publishes without authentication.
func depthFor(level int) int64 {
	if level <= 1 {
		return 20
	}
	return 100
}

func (api *KucoinSyncAPI) OrderBookSnapshot(ctx context.Context, product *domain.MarketSymbol, level int) (*domain.OrderBookSnapshot, error) {
	if !Lists(product) {
		return nil, fmt.Errorf("%w: kucoin does not list %s", domain.ErrUnsupportedPair, product)
	}

	// The SDK calls are not context aware, so the call runs aside and the
	// caller stops waiting once ctx is done.
	out := make(chan snapshotResult, 1)
	go func() {
		snapshot, err := api.fetch(product, depthFor(level))
		out <- snapshotResult{snapshot: snapshot, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("kucoin order book for %s: %w", product, ctx.Err())
	case res := <-out:
		return res.snapshot, res.err
	}
}

func (api *KucoinSyncAPI) fetch(product *domain.MarketSymbol, depth int64) (*domain.OrderBookSnapshot, error) {
	s := product.String()
	resp, err := api.apiService.AggregatedPartOrderBook(s, depth)
	if err != nil {
		return nil, fmt.Errorf("failed to get order book snapshot: %w", err)
	}
	if !resp.ApiSuccessful() {
		return nil, fmt.Errorf("kucoin returned code %s for %s: %s", resp.Code, s, resp.Message)
	}

	data := &OrderBookSnapshot{}
	if err = json.Unmarshal(resp.RawData, data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response body: %w, response: %s", err, resp.RawData)
	}

	sequence, err := strconv.ParseInt(data.Sequence, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to convert sequence to int: %w, response: %s", err, resp.RawData)
	}

	logger.Debug().
		Str("product", s).
		Int64("sequence", sequence).
		Int("bids", len(data.Bids)).
		Int("asks", len(data.Asks)).
		Msg("got order book snapshot")

	return &domain.OrderBookSnapshot{
		Source:   domain.OrderBookSource_Provider,
		Provider: ProviderName,
		Product:  s,
		Sequence: sequence,
		Bids:     data.Bids,
		Asks:     data.Asks,
	}, nil
}
