package provider

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/spooky-finn/cryptoquote/config"
	"github.com/spooky-finn/cryptoquote/domain"
	"github.com/spooky-finn/cryptoquote/provider/coinbase"
	"github.com/spooky-finn/cryptoquote/provider/kucoin"
)

var logger = log.With().Str("component", "conn-manager").Logger()

// ConnectionManager resolves a provider name to its REST order book API.
type ConnectionManager struct {
	syncAPIs map[string]domain.ProviderSyncAPI
}

func NewConnectionManager(cfg *config.Config) (*ConnectionManager, error) {
	cm := &ConnectionManager{syncAPIs: make(map[string]domain.ProviderSyncAPI)}

	for _, name := range cfg.Providers {
		switch name {
		case coinbase.ProviderName:
			cm.syncAPIs[name] = coinbase.NewSyncAPI(coinbase.Config{
				BaseURL:           cfg.Coinbase.BaseURL,
				UserAgent:         cfg.Coinbase.UserAgent,
				RequestsPerSecond: cfg.Coinbase.RequestsPerSecond,
				Burst:             cfg.Coinbase.Burst,
			})
		case kucoin.ProviderName:
			cm.syncAPIs[name] = kucoin.NewKucoinSyncAPI(cfg.Kucoin.BaseURL)
		default:
			return nil, fmt.Errorf("%w: %s", domain.ErrProviderNotFound, name)
		}
		logger.Info().Str("provider", name).Msg("provider registered")
	}

	return cm, nil
}

// NewStaticConnectionManager wraps ready-made APIs, keyed by provider name.
func NewStaticConnectionManager(apis map[string]domain.ProviderSyncAPI) *ConnectionManager {
	cm := &ConnectionManager{syncAPIs: make(map[string]domain.ProviderSyncAPI, len(apis))}
	for name, api := range apis {
		cm.syncAPIs[name] = api
	}
	return cm
}

func (cm *ConnectionManager) SyncAPI(provider string) (domain.ProviderSyncAPI, error) {
	api, ok := cm.syncAPIs[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrProviderNotFound, provider)
	}
	return api, nil
}

func (cm *ConnectionManager) Providers() []string {
	names := make([]string, 0, len(cm.syncAPIs))
	for name := range cm.syncAPIs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
