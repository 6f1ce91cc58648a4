package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/spooky-finn/cryptoquote/config"
	"github.com/spooky-finn/cryptoquote/domain"
	promclient "github.com/spooky-finn/cryptoquote/infrastructure/prometheus"
	"github.com/spooky-finn/cryptoquote/provider"
	"github.com/spooky-finn/cryptoquote/rest"
	"github.com/spooky-finn/cryptoquote/rpc"
	"github.com/spooky-finn/cryptoquote/usecase"
)

func main() {
	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	connManager, err := provider.NewConnectionManager(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create connection manager")
	}

	precision := domain.DefaultPrecisionTable().WithFallback(cfg.DefaultPrecision)
	if len(cfg.Precision) > 0 {
		overrides := make(map[domain.CurrencyCode]int32, len(cfg.Precision))
		for code, places := range cfg.Precision {
			overrides[domain.NewCurrencyCode(code)] = places
		}
		precision = precision.With(overrides)
	}

	quoteUseCase := usecase.NewQuoteUseCase(connManager, usecase.QuoteUseCaseConfig{
		BookLevel:    cfg.BookLevel,
		MaxDepth:     cfg.MaxDepth,
		FetchTimeout: cfg.FetchTimeout,
		Precision:    precision,
	})
	validationService := usecase.NewValidationService(&usecase.ValidationServiceConfig{
		AvailableProviders: connManager.Providers(),
		DefaultProvider:    cfg.DefaultProvider,
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           rest.NewRouter(quoteUseCase, validationService, promclient.Handler(promclient.NewRegistry())),
		ReadHeaderTimeout: 5 * time.Second,
	}
	grpcServer := rpc.NewGRPCServer(rpc.NewServer(quoteUseCase, validationService))

	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("http server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http listen error")
		}
	}()

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.GRPCAddr).Msg("grpc listen error")
	}
	go func() {
		log.Info().Str("addr", cfg.GRPCAddr).Msg("grpc server listening")
		if err := grpcServer.Serve(lis); err != nil {
			log.Error().Err(err).Msg("grpc server stopped")
		}
	}()

	log.Info().
		Strs("providers", connManager.Providers()).
		Str("default_provider", cfg.DefaultProvider).
		Msg("quote service started")

	<-rootCtx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown failed; forcing close")
		_ = httpServer.Close()
	}
	grpcServer.GracefulStop()

	log.Info().Msg("server stopped")
}
