package postgres

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/proregion_bot/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type WorkshopRepository struct {
	pool *pgxpool.Pool
}

func NewWorkshopRepository(pool *pgxpool.Pool) *WorkshopRepository {
	return &WorkshopRepository{pool: pool}
}

// Create создаёт новый мастер-класс
func (r *WorkshopRepository) Create(ctx context.Context, workshop *model.Workshop) error {
	query := `
		INSERT INTO workshops (name, date, time, max_participants, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.pool.QueryRow(
		ctx, query,
		workshop.Name,
		workshop.Date,
		workshop.Time,
		workshop.MaxParticipants,
		workshop.IsActive,
	).Scan(&workshop.ID)

	if err != nil {
		return fmt.Errorf("create workshop: %w", err)
	}

	return nil
}

// GetByID получает мастер-класс по ID
func (r *WorkshopRepository) GetByID(ctx context.Context, id int64) (*model.Workshop, error) {
	query := `
		SELECT id, name, date, time, max_participants, is_active
		FROM workshops
		WHERE id = $1
	`

	var w model.Workshop
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&w.ID,
		&w.Name,
		&w.Date,
		&w.Time,
		&w.MaxParticipants,
		&w.IsActive,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get workshop by id: %w", err)
	}

	return &w, nil
}

// ListAll получает все мастер-классы независимо от даты
func (r *WorkshopRepository) ListAll(ctx context.Context) ([]*model.Workshop, error) {
	query := `
		SELECT id, name, date, time, max_participants, is_active
		FROM workshops
		ORDER BY date, time, id
	`

	return r.list(ctx, query)
}

// ListByDate получает все мастер-классы на дату
func (r *WorkshopRepository) ListByDate(ctx context.Context, date string) ([]*model.Workshop, error) {
	query := `
		SELECT id, name, date, time, max_participants, is_active
		FROM workshops
		WHERE date = $1
		ORDER BY time, id
	`

	return r.list(ctx, query, date)
}

func (r *WorkshopRepository) list(ctx context.Context, query string, args ...any) ([]*model.Workshop, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list workshops: %w", err)
	}
	defer rows.Close()

	var workshops []*model.Workshop
	for rows.Next() {
		var w model.Workshop
		if err := rows.Scan(&w.ID, &w.Name, &w.Date, &w.Time, &w.MaxParticipants, &w.IsActive); err != nil {
			return nil, fmt.Errorf("scan workshop: %w", err)
		}
		workshops = append(workshops, &w)
	}

	return workshops, rows.Err()
}

// ListActiveWithLoad получает активные мастер-классы на дату вместе с числом записавшихся
func (r *WorkshopRepository) ListActiveWithLoad(ctx context.Context, date string) ([]*model.WorkshopAvailability, error) {
	query := `
		SELECT w.id, w.name, w.date, w.time, w.max_participants, w.is_active,
		       (SELECT COUNT(*) FROM registrations r WHERE r.workshop_id = w.id) AS registered
		FROM workshops w
		WHERE w.date = $1 AND w.is_active
		ORDER BY w.time, w.id
	`

	rows, err := r.pool.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("list active workshops: %w", err)
	}
	defer rows.Close()

	var result []*model.WorkshopAvailability
	for rows.Next() {
		var w model.WorkshopAvailability
		err := rows.Scan(
			&w.ID,
			&w.Name,
			&w.Date,
			&w.Time,
			&w.MaxParticipants,
			&w.IsActive,
			&w.Registered,
		)
		if err != nil {
			return nil, fmt.Errorf("scan workshop availability: %w", err)
		}
		result = append(result, &w)
	}

	return result, rows.Err()
}

// ToggleActive инвертирует флаг активности и возвращает обновлённый мастер-класс
func (r *WorkshopRepository) ToggleActive(ctx context.Context, id int64) (*model.Workshop, error) {
	query := `
		UPDATE workshops
		SET is_active = NOT is_active
		WHERE id = $1
		RETURNING id, name, date, time, max_participants, is_active
	`

	var w model.Workshop
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&w.ID,
		&w.Name,
		&w.Date,
		&w.Time,
		&w.MaxParticipants,
		&w.IsActive,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("toggle workshop: %w", err)
	}

	return &w, nil
}

// ActivateByDate активирует неактивные мастер-классы на дату
func (r *WorkshopRepository) ActivateByDate(ctx context.Context, date string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE workshops SET is_active = TRUE WHERE date = $1 AND NOT is_active`, date)
	if err != nil {
		return 0, fmt.Errorf("activate workshops: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeactivateUpTo деактивирует активные мастер-классы с датой не позже указанной
func (r *WorkshopRepository) DeactivateUpTo(ctx context.Context, date string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE workshops SET is_active = FALSE WHERE date <= $1 AND is_active`, date)
	if err != nil {
		return 0, fmt.Errorf("deactivate workshops: %w", err)
	}
	return tag.RowsAffected(), nil
}
