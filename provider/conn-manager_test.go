package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spooky-finn/cryptoquote/config"
	"github.com/spooky-finn/cryptoquote/domain"
	"github.com/spooky-finn/cryptoquote/provider/coinbase"
	"github.com/spooky-finn/cryptoquote/provider/kucoin"
)

func TestNewConnectionManager(t *testing.T) {
	cm, err := NewConnectionManager(config.Default())
	require.NoError(t, err)

	assert.Equal(t, []string{"coinbase", "kucoin"}, cm.Providers())

	api, err := cm.SyncAPI("coinbase")
	require.NoError(t, err)
	assert.IsType(t, &coinbase.SyncAPI{}, api)

	api, err = cm.SyncAPI("kucoin")
	require.NoError(t, err)
	assert.IsType(t, &kucoin.KucoinSyncAPI{}, api)

	_, err = cm.SyncAPI("binance")
	assert.ErrorIs(t, err, domain.ErrProviderNotFound)
}

func TestNewConnectionManager_UnknownProvider(t *testing.T) {
	cfg := config.Default()
	cfg.Providers = []string{"coinbase", "bitstamp"}

	_, err := NewConnectionManager(cfg)
	assert.ErrorIs(t, err, domain.ErrProviderNotFound)
}
