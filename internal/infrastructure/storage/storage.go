// Package storage selecciona el adaptador de persistencia según DB_DRIVER.
package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/panel-api/internal/domain/repository"
	"github.com/jhoicas/panel-api/internal/infrastructure/postgres"
	"github.com/jhoicas/panel-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/panel-api/pkg/config"
)

// Stores adaptadores de un mismo backend.
type Stores struct {
	Records     repository.RecordStore
	Credentials repository.CredentialRepository
	Purger      repository.StaffPurger
	Close       func()
}

// Open abre el backend configurado y aplica el esquema.
func Open(ctx context.Context, cfg config.DBConfig, log zerolog.Logger) (*Stores, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", cfg.SQLitePath).Msg("almacén sqlite listo")
		return &Stores{
			Records:     sqlite.NewRecordStore(db),
			Credentials: sqlite.NewCredentialRepository(db),
			Purger:      sqlite.NewPurger(db),
			Close:       func() { _ = db.Close() },
		}, nil
	case config.DriverPostgres, "":
		pool, err := postgres.NewPool(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("almacén postgres listo")
		return &Stores{
			Records:     postgres.NewRecordStore(pool),
			Credentials: postgres.NewCredentialRepository(pool),
			Purger:      postgres.NewTxRunner(pool),
			Close:       pool.Close,
		}, nil
	default:
		return nil, fmt.Errorf("DB_DRIVER desconocido: %q", cfg.Driver)
	}
}
