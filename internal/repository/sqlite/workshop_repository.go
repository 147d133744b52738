package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Freeeeeet/proregion_bot/internal/model"
	"github.com/jmoiron/sqlx"
)

type WorkshopRepository struct {
	db *sqlx.DB
}

const workshopColumns = `id, name, date, time, max_participants, is_active`

func (r *WorkshopRepository) Create(ctx context.Context, workshop *model.Workshop) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO workshops (name, date, time, max_participants, is_active) VALUES (?, ?, ?, ?, ?)`,
		workshop.Name, workshop.Date, workshop.Time, workshop.MaxParticipants, workshop.IsActive,
	)
	if err != nil {
		return fmt.Errorf("create workshop: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("workshop id: %w", err)
	}
	workshop.ID = id
	return nil
}

func (r *WorkshopRepository) GetByID(ctx context.Context, id int64) (*model.Workshop, error) {
	var w model.Workshop
	err := r.db.GetContext(ctx, &w, `SELECT `+workshopColumns+` FROM workshops WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get workshop by id: %w", err)
	}
	return &w, nil
}

func (r *WorkshopRepository) ListAll(ctx context.Context) ([]*model.Workshop, error) {
	var workshops []*model.Workshop
	err := r.db.SelectContext(ctx, &workshops, `SELECT `+workshopColumns+` FROM workshops ORDER BY date, time, id`)
	if err != nil {
		return nil, fmt.Errorf("list workshops: %w", err)
	}
	return workshops, nil
}

func (r *WorkshopRepository) ListByDate(ctx context.Context, date string) ([]*model.Workshop, error) {
	var workshops []*model.Workshop
	err := r.db.SelectContext(ctx, &workshops,
		`SELECT `+workshopColumns+` FROM workshops WHERE date = ? ORDER BY time, id`, date)
	if err != nil {
		return nil, fmt.Errorf("list workshops by date: %w", err)
	}
	return workshops, nil
}

func (r *WorkshopRepository) ListActiveWithLoad(ctx context.Context, date string) ([]*model.WorkshopAvailability, error) {
	query := `
		SELECT w.id, w.name, w.date, w.time, w.max_participants, w.is_active,
		       (SELECT COUNT(*) FROM registrations r WHERE r.workshop_id = w.id) AS registered
		FROM workshops w
		WHERE w.date = ? AND w.is_active = 1
		ORDER BY w.time, w.id
	`

	var result []*model.WorkshopAvailability
	if err := r.db.SelectContext(ctx, &result, query, date); err != nil {
		return nil, fmt.Errorf("list active workshops: %w", err)
	}
	return result, nil
}

func (r *WorkshopRepository) ToggleActive(ctx context.Context, id int64) (*model.Workshop, error) {
	var w model.Workshop
	err := r.db.GetContext(ctx, &w,
		`UPDATE workshops SET is_active = NOT is_active WHERE id = ? RETURNING `+workshopColumns, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("toggle workshop: %w", err)
	}
	return &w, nil
}

func (r *WorkshopRepository) ActivateByDate(ctx context.Context, date string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE workshops SET is_active = 1 WHERE date = ? AND is_active = 0`, date)
	if err != nil {
		return 0, fmt.Errorf("activate workshops: %w", err)
	}
	return res.RowsAffected()
}

func (r *WorkshopRepository) DeactivateUpTo(ctx context.Context, date string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE workshops SET is_active = 0 WHERE date <= ? AND is_active = 1`, date)
	if err != nil {
		return 0, fmt.Errorf("deactivate workshops: %w", err)
	}
	return res.RowsAffected()
}
