package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Freeeeeet/proregion_bot/internal/config"
	"github.com/Freeeeeet/proregion_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenStorageSQLiteMigratesAndReopens(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		DBDriver: config.DriverSQLite,
		DBDSN:    filepath.Join(t.TempDir(), "proregion.db"),
	}

	storage, err := OpenStorage(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, storage.Ping(ctx))

	w := &model.Workshop{Name: "Pottery", Date: "2024-06-01", Time: "10:00", MaxParticipants: 2}
	require.NoError(t, storage.Workshops.Create(ctx, w))
	require.NoError(t, storage.Close())

	// Повторное открытие: миграции уже применены, данные на месте
	storage, err = OpenStorage(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer storage.Close()

	got, err := storage.Workshops.GetByID(ctx, w.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Pottery", got.Name)
}
