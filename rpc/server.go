package rpc

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/spooky-finn/cryptoquote/domain"
	"github.com/spooky-finn/cryptoquote/helpers"
	"github.com/spooky-finn/cryptoquote/usecase"
)

const (
	ServiceName        = "cryptoquote.QuoteService"
	GetQuoteFullMethod = "/" + ServiceName + "/GetQuote"
	requestIDHeader    = "x-request-id"
)

var logger = log.With().Str("component", "rpc").Logger()

type QuoteService interface {
	GetQuote(ctx context.Context, provider string, req *domain.QuoteRequest) (*domain.QuoteResult, error)
}

// QuoteServiceServer is the server API of cryptoquote.QuoteService. Messages
// are google.protobuf.Struct values carrying the same fields as the HTTP API.
type QuoteServiceServer interface {
	GetQuote(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

type server struct {
	quoteUseCase      QuoteService
	validationService *usecase.ValidationService
}

func NewServer(quotes QuoteService, validation *usecase.ValidationService) *server {
	return &server{
		quoteUseCase:      quotes,
		validationService: validation,
	}
}

var QuoteService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*QuoteServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetQuote",
			Handler:    getQuoteHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "cryptoquote/quote.proto",
}

func RegisterQuoteServiceServer(s grpc.ServiceRegistrar, srv QuoteServiceServer) {
	s.RegisterService(&QuoteService_ServiceDesc, srv)
}

func getQuoteHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(QuoteServiceServer).GetQuote(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: GetQuoteFullMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(QuoteServiceServer).GetQuote(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// NewGRPCServer builds a grpc.Server serving the quote service and the
// standard health service.
func NewGRPCServer(srv QuoteServiceServer, opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(requestLogger))
	s := grpc.NewServer(opts...)

	RegisterQuoteServiceServer(s, srv)

	healthServer := health.NewServer()
	healthServer.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, healthServer)

	return s
}

func requestLogger(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	id := ""
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if v := md.Get(requestIDHeader); len(v) > 0 {
			id = v[0]
		}
	}
	if id == "" {
		id = helpers.NewRequestID()
	}
	ctx = helpers.WithRequestID(ctx, id)

	start := time.Now()
	resp, err := handler(ctx, req)

	logger.Info().
		Str("request_id", id).
		Str("method", info.FullMethod).
		Str("code", status.Code(err).String()).
		Dur("duration", time.Since(start)).
		Msg("handled rpc")

	return resp, err
}

type QuoteServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewQuoteServiceClient(cc grpc.ClientConnInterface) *QuoteServiceClient {
	return &QuoteServiceClient{cc: cc}
}

func (c *QuoteServiceClient) GetQuote(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetQuoteFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
