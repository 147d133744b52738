package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Freeeeeet/proregion_bot/internal/repository/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// Migrator обёртка над goose
type Migrator struct {
	db      *sql.DB
	ownsDB  bool
	dialect migrations.Dialect
	logger  *zap.Logger
}

// NewPostgresMigrator создаёт мигратор поверх пула pgx
func NewPostgresMigrator(pool *pgxpool.Pool, logger *zap.Logger) *Migrator {
	// Goose работает с *sql.DB, поэтому создаём его из конфига пула
	return &Migrator{
		db:      stdlib.OpenDBFromPool(pool),
		ownsDB:  true,
		dialect: migrations.Postgres,
		logger:  logger,
	}
}

// NewSQLiteMigrator создаёт мигратор поверх открытой базы SQLite
func NewSQLiteMigrator(db *sql.DB, logger *zap.Logger) *Migrator {
	return &Migrator{
		db:      db,
		dialect: migrations.SQLite,
		logger:  logger,
	}
}

// Run применяет все pending миграции
func (mg *Migrator) Run(ctx context.Context) error {
	mg.logger.Info("🔄 Applying database migrations", zap.String("dialect", mg.dialect.Name))
	goose.SetLogger(gooseLogger{mg.logger.Sugar()})

	if err := migrations.Up(ctx, mg.db, mg.dialect); err != nil {
		return err
	}

	version, err := mg.Version(ctx)
	if err != nil {
		return err
	}

	mg.logger.Info("✅ Migrations applied successfully", zap.Int64("version", version))
	return nil
}

// Version показывает текущую версию миграций
func (mg *Migrator) Version(ctx context.Context) (int64, error) {
	version, err := migrations.Version(ctx, mg.db, mg.dialect)
	if err != nil {
		return 0, fmt.Errorf("get version: %w", err)
	}
	return version, nil
}

// Close закрывает соединение мигратора
func (mg *Migrator) Close() error {
	// Закрываем sql.DB, только если создавали его сами; пул управляется в main
	if mg.ownsDB && mg.db != nil {
		return mg.db.Close()
	}
	return nil
}

type gooseLogger struct {
	s *zap.SugaredLogger
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) { l.s.Fatalf(format, v...) }
func (l gooseLogger) Printf(format string, v ...interface{}) { l.s.Infof(format, v...) }
