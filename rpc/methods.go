package rpc

import (
	"context"
	"errors"
	"strconv"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/spooky-finn/cryptoquote/domain"
	"github.com/spooky-finn/cryptoquote/usecase"
)

func (s *server) GetQuote(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	provider, err := s.validationService.Provider(fieldString(in, "provider"))
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "provider %s is not supported", fieldString(in, "provider"))
	}

	req, err := s.validationService.ParseQuoteRequest(usecase.RawQuoteRequest{
		BaseCurrency:  fieldString(in, "base_currency"),
		QuoteCurrency: fieldString(in, "quote_currency"),
		Action:        fieldString(in, "action"),
		Amount:        fieldString(in, "amount"),
	})
	if err != nil {
		return nil, statusFromError(err)
	}

	quote, err := s.quoteUseCase.GetQuote(ctx, provider, req)
	if err != nil {
		return nil, statusFromError(err)
	}

	out, err := structpb.NewStruct(map[string]interface{}{
		"success":  true,
		"total":    quote.Total,
		"price":    quote.Price,
		"currency": quote.Currency.String(),
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode quote: %v", err)
	}
	return out, nil
}

// fieldString reads a string or number field; anything else reads as "".
func fieldString(in *structpb.Struct, name string) string {
	v, ok := in.GetFields()[name]
	if !ok {
		return ""
	}
	switch kind := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return kind.StringValue
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(kind.NumberValue, 'f', -1, 64)
	}
	return ""
}

func statusFromError(err error) error {
	var code codes.Code
	switch {
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidAction),
		errors.Is(err, domain.ErrUnsupportedPair),
		errors.Is(err, domain.ErrProviderNotFound):
		code = codes.InvalidArgument
	case errors.Is(err, domain.ErrEmptyBook),
		errors.Is(err, domain.ErrInsufficientLiquidity),
		errors.Is(err, domain.ErrZeroFill):
		code = codes.FailedPrecondition
	case errors.Is(err, domain.ErrFetchFailed),
		errors.Is(err, domain.ErrNoOrderBook):
		code = codes.Unavailable
	default:
		code = codes.Internal
	}
	return status.Error(code, err.Error())
}
