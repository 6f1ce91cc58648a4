package rest

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/spooky-finn/cryptoquote/domain"
	"github.com/spooky-finn/cryptoquote/helpers"
	"github.com/spooky-finn/cryptoquote/usecase"
)

type QuoteService interface {
	GetQuote(ctx context.Context, provider string, req *domain.QuoteRequest) (*domain.QuoteResult, error)
}

// amountField accepts either a JSON number or a JSON string.
type amountField string

func (a *amountField) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*a = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = amountField(s)
		return nil
	}
	*a = amountField(b)
	return nil
}

type quoteRequest struct {
	BaseCurrency  string      `json:"base_currency"`
	QuoteCurrency string      `json:"quote_currency"`
	Action        string      `json:"action"`
	Amount        amountField `json:"amount"`
	Provider      string      `json:"provider"`
}

type quoteResponse struct {
	Success  bool   `json:"success"`
	Total    string `json:"total"`
	Price    string `json:"price"`
	Currency string `json:"currency"`
}

type quoteHandler struct {
	quotes     QuoteService
	validation *usecase.ValidationService
}

func (h *quoteHandler) Quote(w http.ResponseWriter, r *http.Request) {
	body, err := decodeJSON[quoteRequest](w, r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	provider, err := h.validation.Provider(body.Provider)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "provider "+body.Provider+" is not supported")
		return
	}

	req, err := h.validation.ParseQuoteRequest(usecase.RawQuoteRequest{
		BaseCurrency:  body.BaseCurrency,
		QuoteCurrency: body.QuoteCurrency,
		Action:        body.Action,
		Amount:        string(body.Amount),
	})
	if err != nil {
		writeJSONError(w, statusFor(err), err.Error())
		return
	}

	quote, err := h.quotes.GetQuote(r.Context(), provider, req)
	if err != nil {
		logger.Warn().
			Err(err).
			Str("request_id", helpers.RequestID(r.Context())).
			Str("provider", provider).
			Msg("quote failed")
		writeJSONError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, quoteResponse{
		Success:  true,
		Total:    quote.Total,
		Price:    quote.Price,
		Currency: quote.Currency.String(),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrFetchFailed),
		errors.Is(err, domain.ErrNoOrderBook):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrInconsistentSide):
		return http.StatusInternalServerError
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidAction),
		errors.Is(err, domain.ErrUnsupportedPair),
		errors.Is(err, domain.ErrProviderNotFound),
		errors.Is(err, domain.ErrEmptyBook),
		errors.Is(err, domain.ErrInsufficientLiquidity),
		errors.Is(err, domain.ErrZeroFill):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
