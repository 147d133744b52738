package service

import (
	"context"

	"github.com/Freeeeeet/proregion_bot/internal/model"
)

// WorkshopRepository хранилище мастер-классов.
// GetByID и ToggleActive возвращают nil без ошибки, если записи нет.
type WorkshopRepository interface {
	Create(ctx context.Context, workshop *model.Workshop) error
	GetByID(ctx context.Context, id int64) (*model.Workshop, error)
	ListAll(ctx context.Context) ([]*model.Workshop, error)
	ListByDate(ctx context.Context, date string) ([]*model.Workshop, error)
	ListActiveWithLoad(ctx context.Context, date string) ([]*model.WorkshopAvailability, error)
	ToggleActive(ctx context.Context, id int64) (*model.Workshop, error)
	ActivateByDate(ctx context.Context, date string) (int64, error)
	DeactivateUpTo(ctx context.Context, date string) (int64, error)
}

// RegistrationRepository хранилище регистраций.
// CreateChecked обязан атомарно проверить уникальность пары и вместимость.
type RegistrationRepository interface {
	SeatStatus(ctx context.Context, workshopID, userID int64) (*model.SeatStatus, error)
	CreateChecked(ctx context.Context, reg *model.Registration) error
	ListByUser(ctx context.Context, userID int64) ([]*model.UserRegistration, error)
	ListForExport(ctx context.Context) ([]*model.ExportRow, error)
	DistinctUserIDs(ctx context.Context) ([]int64, error)
}

type AdminRepository interface {
	IsAdmin(ctx context.Context, userID int64) (bool, error)
	ListIDs(ctx context.Context) ([]int64, error)
	Add(ctx context.Context, userID int64) error
}
