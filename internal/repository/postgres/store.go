// Package postgres реализует хранилище бота поверх pgxpool.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store объединяет репозитории, работающие на одном пуле соединений
type Store struct {
	pool *pgxpool.Pool

	Workshops     *WorkshopRepository
	Registrations *RegistrationRepository
	Admins        *AdminRepository
}

// Open создаёт пул соединений и проверяет доступность базы
func Open(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return NewStore(pool), nil
}

// NewStore собирает репозитории поверх существующего пула
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		pool:          pool,
		Workshops:     NewWorkshopRepository(pool),
		Registrations: NewRegistrationRepository(pool),
		Admins:        NewAdminRepository(pool),
	}
}

// Pool возвращает пул соединений
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close закрывает пул
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
