package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Freeeeeet/proregion_bot/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

type RegistrationRepository struct {
	db *sqlx.DB
}

func (r *RegistrationRepository) SeatStatus(ctx context.Context, workshopID, userID int64) (*model.SeatStatus, error) {
	query := `
		SELECT w.id, w.name, w.date, w.time, w.max_participants, w.is_active,
		       (SELECT COUNT(*) FROM registrations r WHERE r.workshop_id = w.id),
		       EXISTS (SELECT 1 FROM registrations r WHERE r.workshop_id = w.id AND r.user_id = ?)
		FROM workshops w
		WHERE w.id = ?
	`

	var s model.SeatStatus
	err := r.db.QueryRowxContext(ctx, query, userID, workshopID).Scan(
		&s.Workshop.ID,
		&s.Workshop.Name,
		&s.Workshop.Date,
		&s.Workshop.Time,
		&s.Workshop.MaxParticipants,
		&s.Workshop.IsActive,
		&s.Registered,
		&s.AlreadyRegistered,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get seat status: %w", err)
	}
	return &s, nil
}

// CreateChecked проверяет уникальность и вместимость и вставляет запись в одной транзакции
func (r *RegistrationRepository) CreateChecked(ctx context.Context, reg *model.Registration) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var maxParticipants int
	if err := tx.GetContext(ctx, &maxParticipants, `SELECT max_participants FROM workshops WHERE id = ?`, reg.WorkshopID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ErrWorkshopNotFound
		}
		return fmt.Errorf("get workshop capacity: %w", err)
	}

	var exists bool
	err = tx.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM registrations WHERE workshop_id = ? AND user_id = ?)`,
		reg.WorkshopID, reg.UserID)
	if err != nil {
		return fmt.Errorf("check registration: %w", err)
	}
	if exists {
		return model.ErrAlreadyRegistered
	}

	var registered int
	if err := tx.GetContext(ctx, &registered, `SELECT COUNT(*) FROM registrations WHERE workshop_id = ?`, reg.WorkshopID); err != nil {
		return fmt.Errorf("count registrations: %w", err)
	}
	if registered >= maxParticipants {
		return model.ErrWorkshopFull
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO registrations (workshop_id, user_id, full_name, phone, registration_date) VALUES (?, ?, ?, ?, ?)`,
		reg.WorkshopID, reg.UserID, reg.FullName, reg.Phone, reg.RegistrationDate,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return model.ErrAlreadyRegistered
		}
		return fmt.Errorf("insert registration: %w", err)
	}

	if reg.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("registration id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *RegistrationRepository) ListByUser(ctx context.Context, userID int64) ([]*model.UserRegistration, error) {
	query := `
		SELECT w.name, w.date, w.time
		FROM registrations r
		JOIN workshops w ON r.workshop_id = w.id
		WHERE r.user_id = ?
		ORDER BY w.date, w.time
	`

	var result []*model.UserRegistration
	if err := r.db.SelectContext(ctx, &result, query, userID); err != nil {
		return nil, fmt.Errorf("get registrations by user: %w", err)
	}
	return result, nil
}

func (r *RegistrationRepository) ListForExport(ctx context.Context) ([]*model.ExportRow, error) {
	query := `
		SELECT w.name, w.date, w.time, r.full_name, r.phone, r.registration_date
		FROM registrations r
		JOIN workshops w ON r.workshop_id = w.id
		ORDER BY w.date, w.time, r.registration_date
	`

	var result []*model.ExportRow
	if err := r.db.SelectContext(ctx, &result, query); err != nil {
		return nil, fmt.Errorf("get registrations for export: %w", err)
	}
	return result, nil
}

func (r *RegistrationRepository) DistinctUserIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, `SELECT DISTINCT user_id FROM registrations ORDER BY user_id`); err != nil {
		return nil, fmt.Errorf("get registered users: %w", err)
	}
	return ids, nil
}
