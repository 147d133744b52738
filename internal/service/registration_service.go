package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/proregion_bot/internal/model"
	"go.uber.org/zap"
)

type RegistrationService struct {
	workshopRepo     WorkshopRepository
	registrationRepo RegistrationRepository
	calendar         *Calendar
	logger           *zap.Logger
}

func NewRegistrationService(
	workshopRepo WorkshopRepository,
	registrationRepo RegistrationRepository,
	calendar *Calendar,
	logger *zap.Logger,
) *RegistrationService {
	return &RegistrationService{
		workshopRepo:     workshopRepo,
		registrationRepo: registrationRepo,
		calendar:         calendar,
		logger:           logger,
	}
}

// Reserve выполняет предварительную проверку перед сбором данных участника.
// Ничего не записывает и места не удерживает: окончательное решение принимает Commit.
func (s *RegistrationService) Reserve(ctx context.Context, workshopID, userID int64) (*model.Workshop, error) {
	status, err := s.registrationRepo.SeatStatus(ctx, workshopID, userID)
	if err != nil {
		return nil, fmt.Errorf("get seat status: %w", err)
	}

	if status == nil {
		return nil, model.ErrWorkshopNotFound
	}

	if status.Registered >= status.Workshop.MaxParticipants {
		s.logger.Info("Reserve rejected: workshop is full",
			zap.Int64("workshop_id", workshopID),
			zap.Int64("user_id", userID),
			zap.Int("registered", status.Registered),
		)
		return nil, model.ErrWorkshopFull
	}

	if status.AlreadyRegistered {
		return nil, model.ErrAlreadyRegistered
	}

	workshop := status.Workshop
	return &workshop, nil
}

// Commit создаёт регистрацию. Уникальность и вместимость проверяются заново
// в одной транзакции хранилища.
func (s *RegistrationService) Commit(ctx context.Context, workshopID, userID int64, fullName, phone string) (*model.Registration, error) {
	reg := &model.Registration{
		WorkshopID:       workshopID,
		UserID:           userID,
		FullName:         fullName,
		Phone:            phone,
		RegistrationDate: s.calendar.Now().UTC(),
	}

	if err := s.registrationRepo.CreateChecked(ctx, reg); err != nil {
		if errors.Is(err, model.ErrAlreadyRegistered) || errors.Is(err, model.ErrWorkshopFull) || errors.Is(err, model.ErrWorkshopNotFound) {
			s.logger.Info("Commit rejected",
				zap.Int64("workshop_id", workshopID),
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
			return nil, err
		}
		return nil, fmt.Errorf("create registration: %w", err)
	}

	workshop, err := s.workshopRepo.GetByID(ctx, workshopID)
	if err != nil {
		return nil, fmt.Errorf("get workshop: %w", err)
	}
	reg.Workshop = workshop

	s.logger.Info("Registration committed",
		zap.Int64("registration_id", reg.ID),
		zap.Int64("workshop_id", workshopID),
		zap.Int64("user_id", userID),
	)

	return reg, nil
}

// MyRegistrations получает записи пользователя по дате и времени мастер-класса
func (s *RegistrationService) MyRegistrations(ctx context.Context, userID int64) ([]*model.UserRegistration, error) {
	return s.registrationRepo.ListByUser(ctx, userID)
}
