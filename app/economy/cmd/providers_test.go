package main

import (
	"testing"

	"github.com/lk2023060901/xdooria-economy/app/economy/internal/dao"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/metrics"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/model"
	"github.com/lk2023060901/xdooria-economy/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvideStateStoreMemory(t *testing.T) {
	m, err := metrics.New(nil)
	require.NoError(t, err)

	store, cleanup, err := provideStateStore(&Config{}, logger.NewNoop(), m)
	require.NoError(t, err)
	defer cleanup()

	_, ok := store.(*dao.MeteredStore)
	assert.True(t, ok)

	found, err := store.Load(t.Context(), model.NamespaceWallet, 1, &model.WalletState{})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestProvideStateStoreUnknownDriver(t *testing.T) {
	m, err := metrics.New(nil)
	require.NoError(t, err)

	_, _, err = provideStateStore(&Config{Store: dao.Config{Driver: "etcd"}}, logger.NewNoop(), m)
	require.Error(t, err)
}

func TestInitAppMemory(t *testing.T) {
	cfg := &Config{}
	cfg.GameData.Path = "../../../config/gamedata.yaml"
	cfg.Web.Mode = "test"

	application, cleanup, err := InitApp(cfg, logger.NewNoop())
	require.NoError(t, err)
	defer cleanup()
	assert.NotNil(t, application)
}
