package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/freightledger/internal/config"
	"github.com/mamadbah2/freightledger/internal/repository/memory"
)

func TestOpenStoresMemory(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Backend: config.BackendMemory}}

	stores, err := OpenStores(context.Background(), cfg, nil)
	require.NoError(t, err)

	assert.IsType(t, &memory.Store{}, stores.Records)
	assert.Nil(t, stores.Snapshots)
	assert.Nil(t, stores.Sheets)
	assert.NoError(t, stores.Close(context.Background()))
}

func TestOpenStoresUnknownBackend(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Backend: "sqlite"}}

	_, err := OpenStores(context.Background(), cfg, nil)
	assert.ErrorContains(t, err, "sqlite")
}
