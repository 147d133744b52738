package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/proregion_bot/internal/model"
	"go.uber.org/zap"
)

type AdminService struct {
	adminRepo AdminRepository
	logger    *zap.Logger
}

func NewAdminService(adminRepo AdminRepository, logger *zap.Logger) *AdminService {
	return &AdminService{
		adminRepo: adminRepo,
		logger:    logger,
	}
}

// Seed добавляет администраторов из конфигурации
func (s *AdminService) Seed(ctx context.Context, userIDs []int64) error {
	for _, id := range userIDs {
		if err := s.adminRepo.Add(ctx, id); err != nil {
			return fmt.Errorf("seed admin %d: %w", id, err)
		}
	}

	if len(userIDs) > 0 {
		s.logger.Info("Admins seeded", zap.Int64s("admin_ids", userIDs))
	}
	return nil
}

func (s *AdminService) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	return s.adminRepo.IsAdmin(ctx, userID)
}

// Require возвращает model.ErrAccessDenied, если пользователь не администратор
func (s *AdminService) Require(ctx context.Context, userID int64) error {
	ok, err := s.adminRepo.IsAdmin(ctx, userID)
	if err != nil {
		return fmt.Errorf("check admin: %w", err)
	}
	if !ok {
		s.logger.Warn("Access denied", zap.Int64("user_id", userID))
		return model.ErrAccessDenied
	}
	return nil
}

func (s *AdminService) AdminIDs(ctx context.Context) ([]int64, error) {
	return s.adminRepo.ListIDs(ctx)
}
