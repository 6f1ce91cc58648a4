package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/spooky-finn/cryptoquote/domain"
	"github.com/spooky-finn/cryptoquote/helpers"
	promclient "github.com/spooky-finn/cryptoquote/infrastructure/prometheus"
)

var logger = log.With().Str("component", "quote-usecase").Logger()

type QuoteUseCaseConfig struct {
	BookLevel    int
	MaxDepth     int
	FetchTimeout time.Duration
	Precision    *domain.PrecisionTable
}

// QuoteUseCase prices quote requests against a fresh order book snapshot
// fetched per request. Nothing is kept between calls.
type QuoteUseCase struct {
	connManager domain.ConnManager
	config      QuoteUseCaseConfig
}

func NewQuoteUseCase(connManager domain.ConnManager, config QuoteUseCaseConfig) *QuoteUseCase {
	if config.BookLevel <= 0 {
		config.BookLevel = 2
	}
	if config.FetchTimeout <= 0 {
		config.FetchTimeout = 10 * time.Second
	}
	if config.Precision == nil {
		config.Precision = domain.DefaultPrecisionTable()
	}

	return &QuoteUseCase{
		connManager: connManager,
		config:      config,
	}
}

// GetQuote resolves the product, fetches its book from provider and
// computes the quote. Unsupported pairs fail before any network call.
func (uc *QuoteUseCase) GetQuote(ctx context.Context, provider string, req *domain.QuoteRequest) (result *domain.QuoteResult, err error) {
	defer func() {
		promclient.QuotesTotal.WithLabelValues(provider, domain.ErrorKind(err)).Inc()
	}()

	l := logger.With().
		Str("request_id", helpers.RequestID(ctx)).
		Str("provider", provider).
		Str("base", req.Base.String()).
		Str("quote", req.Quote.String()).
		Str("action", string(req.Action)).
		Str("amount", req.Amount.String()).
		Logger()

	product, ok := domain.ResolveProductID(req.Base, req.Quote)
	if !ok {
		return nil, domain.ErrUnsupportedPair
	}

	book, err := uc.fetchOrderBook(ctx, provider, product)
	if err != nil {
		l.Error().Err(err).Str("product", product.String()).Msg("failed to fetch order book")
		return nil, err
	}

	result, err = domain.ComputeQuote(*req, book, uc.config.Precision)
	if err != nil {
		l.Warn().Err(err).Str("product", product.String()).Int64("sequence", book.Sequence).Msg("quote rejected")
		return nil, err
	}

	l.Debug().
		Str("product", product.String()).
		Int64("sequence", book.Sequence).
		Str("result", helpers.ToJsonString(result)).
		Msg("quote computed")

	return result, nil
}

func (uc *QuoteUseCase) fetchOrderBook(ctx context.Context, provider string, product *domain.MarketSymbol) (*domain.OrderBook, error) {
	syncAPI, err := uc.connManager.SyncAPI(provider)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, uc.config.FetchTimeout)
	defer cancel()

	start := time.Now()
	snapshot, err := syncAPI.OrderBookSnapshot(ctx, product, uc.config.BookLevel)
	promclient.OrderBookFetchDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
	if errors.Is(err, domain.ErrUnsupportedPair) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	if snapshot == nil {
		return nil, domain.ErrNoOrderBook
	}
	promclient.OrderBookLevelsReceived.WithLabelValues(provider).Observe(float64(len(snapshot.Bids) + len(snapshot.Asks)))

	book, err := domain.NewOrderBook(snapshot)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}

	return book.LimitDepth(uc.config.MaxDepth), nil
}
