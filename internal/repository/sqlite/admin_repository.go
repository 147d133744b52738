package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type AdminRepository struct {
	db *sqlx.DB
}

func (r *AdminRepository) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM admin_users WHERE user_id = ?)`, userID); err != nil {
		return false, fmt.Errorf("check admin: %w", err)
	}
	return exists, nil
}

func (r *AdminRepository) ListIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, `SELECT user_id FROM admin_users ORDER BY user_id`); err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	return ids, nil
}

func (r *AdminRepository) Add(ctx context.Context, userID int64) error {
	if _, err := r.db.ExecContext(ctx, `INSERT OR IGNORE INTO admin_users (user_id) VALUES (?)`, userID); err != nil {
		return fmt.Errorf("add admin: %w", err)
	}
	return nil
}
