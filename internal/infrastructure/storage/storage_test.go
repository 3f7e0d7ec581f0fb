package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/panel-api/internal/domain/repository"
	"github.com/jhoicas/panel-api/internal/infrastructure/storage"
	"github.com/jhoicas/panel-api/pkg/config"
)

func TestOpen_SQLite(t *testing.T) {
	ctx := context.Background()
	stores, err := storage.Open(ctx, config.DBConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "panel.db"),
	}, zerolog.Nop())
	require.NoError(t, err)
	defer stores.Close()

	id, err := stores.Records.Insert(ctx, repository.ResourceProducts, repository.Row{"name": "Sal", "quantity": 3})
	require.NoError(t, err)
	rows, err := stores.Records.Select(ctx, repository.ResourceProducts, []string{"id"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, id, rows[0].String("id"))
}

func TestOpen_DriverDesconocido(t *testing.T) {
	_, err := storage.Open(context.Background(), config.DBConfig{Driver: "mysql"}, zerolog.Nop())
	assert.ErrorContains(t, err, "mysql")
}
