package app

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/proregion_bot/internal/config"
	"github.com/Freeeeeet/proregion_bot/internal/repository/postgres"
	"github.com/Freeeeeet/proregion_bot/internal/repository/sqlite"
	"github.com/Freeeeeet/proregion_bot/internal/service"
	"go.uber.org/zap"
)

// Storage репозитории выбранного драйвера и управление соединением
type Storage struct {
	Workshops     service.WorkshopRepository
	Registrations service.RegistrationRepository
	Admins        service.AdminRepository

	ping  func(ctx context.Context) error
	close func() error
}

// OpenStorage подключается к базе и применяет миграции
func OpenStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Storage, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		store, err := sqlite.Open(ctx, cfg.DBDSN)
		if err != nil {
			return nil, err
		}

		migrator := NewSQLiteMigrator(store.DB().DB, logger)
		if err := migrator.Run(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("migrations failed: %w", err)
		}

		logger.Info("✅ Connected to SQLite", zap.String("dsn", cfg.DBDSN))
		return &Storage{
			Workshops:     store.Workshops,
			Registrations: store.Registrations,
			Admins:        store.Admins,
			ping:          store.Ping,
			close:         store.Close,
		}, nil

	default:
		store, err := postgres.Open(ctx, cfg.DBDSN)
		if err != nil {
			return nil, err
		}

		migrator := NewPostgresMigrator(store.Pool(), logger)
		defer migrator.Close()
		if err := migrator.Run(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("migrations failed: %w", err)
		}

		logger.Info("✅ Connected to PostgreSQL")
		return &Storage{
			Workshops:     store.Workshops,
			Registrations: store.Registrations,
			Admins:        store.Admins,
			ping:          store.Ping,
			close:         store.Close,
		}, nil
	}
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

func (s *Storage) Close() error {
	return s.close()
}
