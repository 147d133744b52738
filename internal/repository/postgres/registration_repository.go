package postgres

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/proregion_bot/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RegistrationRepository struct {
	pool *pgxpool.Pool
}

func NewRegistrationRepository(pool *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{pool: pool}
}

// SeatStatus возвращает загрузку мастер-класса и признак записи пользователя.
// Если мастер-класса нет, возвращает nil.
func (r *RegistrationRepository) SeatStatus(ctx context.Context, workshopID, userID int64) (*model.SeatStatus, error) {
	query := `
		SELECT w.id, w.name, w.date, w.time, w.max_participants, w.is_active,
		       (SELECT COUNT(*) FROM registrations r WHERE r.workshop_id = w.id),
		       EXISTS (SELECT 1 FROM registrations r WHERE r.workshop_id = w.id AND r.user_id = $2)
		FROM workshops w
		WHERE w.id = $1
	`

	var s model.SeatStatus
	err := r.pool.QueryRow(ctx, query, workshopID, userID).Scan(
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
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get seat status: %w", err)
	}

	return &s, nil
}

// CreateChecked атомарно проверяет уникальность пары и вместимость, затем создаёт запись.
// Строка мастер-класса блокируется на время транзакции, поэтому параллельные
// записи на один мастер-класс выполняются по очереди.
func (r *RegistrationRepository) CreateChecked(ctx context.Context, reg *model.Registration) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var maxParticipants int
	err = tx.QueryRow(ctx, `SELECT max_participants FROM workshops WHERE id = $1 FOR UPDATE`, reg.WorkshopID).
		Scan(&maxParticipants)
	if err != nil {
		if err == pgx.ErrNoRows {
			return model.ErrWorkshopNotFound
		}
		return fmt.Errorf("lock workshop: %w", err)
	}

	var exists bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM registrations WHERE workshop_id = $1 AND user_id = $2)`,
		reg.WorkshopID, reg.UserID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check registration: %w", err)
	}
	if exists {
		return model.ErrAlreadyRegistered
	}

	var registered int
	err = tx.QueryRow(ctx, `SELECT COUNT(*) FROM registrations WHERE workshop_id = $1`, reg.WorkshopID).
		Scan(&registered)
	if err != nil {
		return fmt.Errorf("count registrations: %w", err)
	}
	if registered >= maxParticipants {
		return model.ErrWorkshopFull
	}

	query := `
		INSERT INTO registrations (workshop_id, user_id, full_name, phone, registration_date)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (workshop_id, user_id) DO NOTHING
		RETURNING id
	`

	err = tx.QueryRow(
		ctx, query,
		reg.WorkshopID,
		reg.UserID,
		reg.FullName,
		reg.Phone,
		reg.RegistrationDate,
	).Scan(&reg.ID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return model.ErrAlreadyRegistered
		}
		return fmt.Errorf("insert registration: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// ListByUser получает записи пользователя, упорядоченные по дате и времени
func (r *RegistrationRepository) ListByUser(ctx context.Context, userID int64) ([]*model.UserRegistration, error) {
	query := `
		SELECT w.name, w.date, w.time
		FROM registrations r
		JOIN workshops w ON r.workshop_id = w.id
		WHERE r.user_id = $1
		ORDER BY w.date, w.time
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("get registrations by user: %w", err)
	}
	defer rows.Close()

	var result []*model.UserRegistration
	for rows.Next() {
		var ur model.UserRegistration
		if err := rows.Scan(&ur.WorkshopName, &ur.Date, &ur.Time); err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		result = append(result, &ur)
	}

	return result, rows.Err()
}

// ListForExport получает все регистрации для выгрузки
func (r *RegistrationRepository) ListForExport(ctx context.Context) ([]*model.ExportRow, error) {
	query := `
		SELECT w.name, w.date, w.time, r.full_name, r.phone, r.registration_date
		FROM registrations r
		JOIN workshops w ON r.workshop_id = w.id
		ORDER BY w.date, w.time, r.registration_date
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get registrations for export: %w", err)
	}
	defer rows.Close()

	var result []*model.ExportRow
	for rows.Next() {
		var row model.ExportRow
		err := rows.Scan(
			&row.WorkshopName,
			&row.Date,
			&row.Time,
			&row.FullName,
			&row.Phone,
			&row.RegistrationDate,
		)
		if err != nil {
			return nil, fmt.Errorf("scan export row: %w", err)
		}
		result = append(result, &row)
	}

	return result, rows.Err()
}

// DistinctUserIDs получает всех пользователей, у которых есть хотя бы одна запись
func (r *RegistrationRepository) DistinctUserIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT user_id FROM registrations ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("get registered users: %w", err)
	}
	defer rows.Close()

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("collect user ids: %w", err)
	}
	return ids, nil
}
