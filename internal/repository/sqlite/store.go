// Package sqlite реализует хранилище бота в одном файле SQLite.
package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Store объединяет репозитории, работающие на одном соединении
type Store struct {
	db *sqlx.DB

	Workshops     *WorkshopRepository
	Registrations *RegistrationRepository
	Admins        *AdminRepository
}

// Open открывает базу. Соединение одно: SQLite всё равно сериализует запись,
// а транзакции записи на мастер-класс не должны пересекаться.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return NewStore(db), nil
}

// NewStore собирает репозитории поверх открытой базы
func NewStore(db *sqlx.DB) *Store {
	return &Store{
		db:            db,
		Workshops:     &WorkshopRepository{db: db},
		Registrations: &RegistrationRepository{db: db},
		Admins:        &AdminRepository{db: db},
	}
}

// DB возвращает соединение (нужно мигратору)
func (s *Store) DB() *sqlx.DB {
	return s.db
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}
