package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

// Dialect диалект goose вместе с каталогом миграций
type Dialect struct {
	Name string
	Dir  string
}

var (
	Postgres = Dialect{Name: "postgres", Dir: PostgresDir}
	SQLite   = Dialect{Name: "sqlite3", Dir: SQLiteDir}
)

// Up применяет все pending миграции для диалекта
func Up(ctx context.Context, db *sql.DB, d Dialect) error {
	goose.SetBaseFS(FS)

	if err := goose.SetDialect(d.Name); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, d.Dir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Version возвращает текущую версию схемы
func Version(ctx context.Context, db *sql.DB, d Dialect) (int64, error) {
	if err := goose.SetDialect(d.Name); err != nil {
		return 0, fmt.Errorf("set goose dialect: %w", err)
	}
	return goose.GetDBVersionContext(ctx, db)
}
