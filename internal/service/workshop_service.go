package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/proregion_bot/internal/model"
	"go.uber.org/zap"
)

type WorkshopService struct {
	workshopRepo WorkshopRepository
	calendar     *Calendar
	logger       *zap.Logger
}

func NewWorkshopService(workshopRepo WorkshopRepository, calendar *Calendar, logger *zap.Logger) *WorkshopService {
	return &WorkshopService{
		workshopRepo: workshopRepo,
		calendar:     calendar,
		logger:       logger,
	}
}

// ParseCapacity разбирает ввод максимального количества участников.
// Единственное поле, которое проверяется при создании мастер-класса.
func ParseCapacity(input string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n <= 0 {
		return 0, model.ErrInvalidCapacity
	}
	return n, nil
}

// CreateWorkshop создаёт мастер-класс. Новый мастер-класс всегда неактивен.
func (s *WorkshopService) CreateWorkshop(ctx context.Context, name, date, timeStr string, maxParticipants int) (*model.Workshop, error) {
	if maxParticipants <= 0 {
		return nil, model.ErrInvalidCapacity
	}

	workshop := &model.Workshop{
		Name:            name,
		Date:            date,
		Time:            timeStr,
		MaxParticipants: maxParticipants,
		IsActive:        false,
	}

	if err := s.workshopRepo.Create(ctx, workshop); err != nil {
		return nil, fmt.Errorf("create workshop: %w", err)
	}

	s.logger.Info("Workshop created",
		zap.Int64("workshop_id", workshop.ID),
		zap.String("name", name),
		zap.String("date", date),
		zap.String("time", timeStr),
		zap.Int("max_participants", maxParticipants),
	)

	return workshop, nil
}

// TodayAvailability получает активные мастер-классы на сегодня со свободными местами
func (s *WorkshopService) TodayAvailability(ctx context.Context) ([]*model.WorkshopAvailability, error) {
	return s.workshopRepo.ListActiveWithLoad(ctx, s.calendar.Today())
}

// ListAll получает все мастер-классы (для управления активностью)
func (s *WorkshopService) ListAll(ctx context.Context) ([]*model.Workshop, error) {
	return s.workshopRepo.ListAll(ctx)
}

// ListToday получает все мастер-классы на сегодня независимо от активности
func (s *WorkshopService) ListToday(ctx context.Context) ([]*model.Workshop, error) {
	return s.workshopRepo.ListByDate(ctx, s.calendar.Today())
}

// Toggle переключает активность мастер-класса
func (s *WorkshopService) Toggle(ctx context.Context, workshopID int64) (*model.Workshop, error) {
	workshop, err := s.workshopRepo.ToggleActive(ctx, workshopID)
	if err != nil {
		return nil, fmt.Errorf("toggle workshop: %w", err)
	}
	if workshop == nil {
		return nil, model.ErrWorkshopNotFound
	}

	s.logger.Info("Workshop status changed",
		zap.Int64("workshop_id", workshopID),
		zap.Bool("is_active", workshop.IsActive),
	)

	return workshop, nil
}

// ActivateToday активирует сегодняшние неактивные мастер-классы
func (s *WorkshopService) ActivateToday(ctx context.Context) (int64, error) {
	today := s.calendar.Today()

	n, err := s.workshopRepo.ActivateByDate(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("activate workshops: %w", err)
	}

	s.logger.Info("Workshops activated by schedule",
		zap.String("date", today),
		zap.Int64("activated", n),
	)
	return n, nil
}

// DeactivatePast деактивирует мастер-классы, дата которых наступила или прошла.
// Задача запускается в конце дня, поэтому сегодняшний день считается прошедшим.
func (s *WorkshopService) DeactivatePast(ctx context.Context) (int64, error) {
	today := s.calendar.Today()

	n, err := s.workshopRepo.DeactivateUpTo(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("deactivate workshops: %w", err)
	}

	s.logger.Info("Workshops deactivated by schedule",
		zap.String("date", today),
		zap.Int64("deactivated", n),
	)
	return n, nil
}
