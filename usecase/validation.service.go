package usecase

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/spooky-finn/cryptoquote/domain"
)

// RawQuoteRequest holds the quote fields exactly as a transport received them.
type RawQuoteRequest struct {
	BaseCurrency  string
	QuoteCurrency string
	Action        string
	Amount        string
	Provider      string
}

type ValidationServiceConfig struct {
	AvailableProviders []string
	DefaultProvider    string
}

type ValidationService struct {
	config   *ValidationServiceConfig
	validate *validator.Validate
}

type normalizedRequest struct {
	Base   string `validate:"required"`
	Quote  string `validate:"required"`
	Action string `validate:"required,oneof=buy sell"`
}

func NewValidationService(config *ValidationServiceConfig) *ValidationService {
	return &ValidationService{
		config:   config,
		validate: validator.New(),
	}
}

func (s *ValidationService) IsSupportedProvider(provider string) bool {
	for _, p := range s.config.AvailableProviders {
		if p == provider {
			return true
		}
	}
	return false
}

// Provider returns the normalised provider name, falling back to the default.
func (s *ValidationService) Provider(raw string) (string, error) {
	provider := strings.ToLower(strings.TrimSpace(raw))
	if provider == "" {
		provider = s.config.DefaultProvider
	}
	if !s.IsSupportedProvider(provider) {
		return "", domain.ErrProviderNotFound
	}
	return provider, nil
}

// ParseQuoteRequest normalises case and parses the amount. Fields are checked
// in order amount, action, currencies; the first failure is returned. Whether
// the pair is quotable is left to domain.ResolveProductID.
func (s *ValidationService) ParseQuoteRequest(raw RawQuoteRequest) (*domain.QuoteRequest, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw.Amount))
	if err != nil || !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	req := normalizedRequest{
		Base:   string(domain.NewCurrencyCode(raw.BaseCurrency)),
		Quote:  string(domain.NewCurrencyCode(raw.QuoteCurrency)),
		Action: strings.ToLower(strings.TrimSpace(raw.Action)),
	}

	if err := s.validate.Struct(&req); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrs {
				if fe.Field() == "Action" {
					return nil, domain.ErrInvalidAction
				}
			}
		}
		return nil, domain.ErrUnsupportedPair
	}

	action, err := domain.ParseAction(req.Action)
	if err != nil {
		return nil, err
	}

	return &domain.QuoteRequest{
		Base:   domain.CurrencyCode(req.Base),
		Quote:  domain.CurrencyCode(req.Quote),
		Action: action,
		Amount: amount,
	}, nil
}
