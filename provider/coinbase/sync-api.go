package coinbase

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/spooky-finn/cryptoquote/domain"
)

const ProviderName = "coinbase"

var logger = log.With().Str("component", "coinbase").Logger()

type Config struct {
	BaseURL           string
	UserAgent         string
	RequestsPerSecond float64
	Burst             int
	HTTPClient        *http.Client
}

// SyncAPI reads level 1/2 order books from the Coinbase Exchange public REST API.
type SyncAPI struct {
	endpoint  string
	userAgent string
	client    *http.Client
	limiter   *rate.Limiter
}

func NewSyncAPI(cfg Config) *SyncAPI {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &SyncAPI{
		endpoint:  strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		client:    client,
		limiter:   rate.NewLimiter(limit, burst),
	}
}

// bookResponse is the body of GET /products/{id}/book. Levels are
// ["price", "size", num_orders] with num_orders a JSON number.
type bookResponse struct {
	Sequence int64           `json:"sequence"`
	Bids     [][]interface{} `json:"bids"`
	Asks     [][]interface{} `json:"asks"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func (api *SyncAPI) OrderBookSnapshot(ctx context.Context, product *domain.MarketSymbol, level int) (*domain.OrderBookSnapshot, error) {
	if err := api.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	u := fmt.Sprintf("%s/products/%s/book?level=%d", api.endpoint, url.PathEscape(product.String()), level)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build order book request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if api.userAgent != "" {
		req.Header.Set("User-Agent", api.userAgent)
	}

	res, err := api.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get order book snapshot: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		apiErr := &errorResponse{}
		if json.Unmarshal(body, apiErr) == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("coinbase returned %d for %s: %s", res.StatusCode, product, apiErr.Message)
		}
		return nil, fmt.Errorf("coinbase returned %d for %s", res.StatusCode, product)
	}

	data := &bookResponse{}
	if err = json.Unmarshal(body, data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response body: %w, data: %s", err, body)
	}

	bids, err := stringifyLevels(data.Bids)
	if err != nil {
		return nil, fmt.Errorf("bids: %w", err)
	}
	asks, err := stringifyLevels(data.Asks)
	if err != nil {
		return nil, fmt.Errorf("asks: %w", err)
	}

	logger.Debug().
		Str("product", product.String()).
		Int64("sequence", data.Sequence).
		Int("bids", len(bids)).
		Int("asks", len(asks)).
		Msg("got order book snapshot")

	return &domain.OrderBookSnapshot{
		Source:   domain.OrderBookSource_Provider,
		Provider: ProviderName,
		Product:  product.String(),
		Sequence: data.Sequence,
		Bids:     bids,
		Asks:     asks,
	}, nil
}

func stringifyLevels(depth [][]interface{}) ([][]string, error) {
	result := make([][]string, len(depth))
	for i, level := range depth {
		row := make([]string, len(level))
		for j, v := range level {
			switch v := v.(type) {
			case string:
				row[j] = v
			case float64:
				row[j] = strconv.FormatFloat(v, 'f', -1, 64)
			default:
				return nil, fmt.Errorf("%w: unexpected %T at level %d", domain.ErrMalformedLevel, v, i)
			}
		}
		result[i] = row
	}
	return result, nil
}
