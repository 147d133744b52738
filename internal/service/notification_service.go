package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Sender отправляет текстовое сообщение пользователю
type Sender interface {
	SendText(ctx context.Context, chatID int64, text string) error
}

// DeliveryResult итог массовой отправки
type DeliveryResult struct {
	Attempted int
	Delivered int
	Failed    int
}

type NotificationService struct {
	sender           Sender
	registrationRepo RegistrationRepository
	adminRepo        AdminRepository
	logger           *zap.Logger
}

func NewNotificationService(
	sender Sender,
	registrationRepo RegistrationRepository,
	adminRepo AdminRepository,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		sender:           sender,
		registrationRepo: registrationRepo,
		adminRepo:        adminRepo,
		logger:           logger,
	}
}

// Broadcast рассылает сообщение всем, у кого есть хотя бы одна запись.
// Ошибка доставки одному получателю не прерывает рассылку.
func (s *NotificationService) Broadcast(ctx context.Context, text string) (DeliveryResult, error) {
	userIDs, err := s.registrationRepo.DistinctUserIDs(ctx)
	if err != nil {
		return DeliveryResult{}, fmt.Errorf("get recipients: %w", err)
	}

	result := s.deliver(ctx, userIDs, text)

	s.logger.Info("Broadcast finished",
		zap.Int("attempted", result.Attempted),
		zap.Int("delivered", result.Delivered),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

// NotifyAdmins отправляет сообщение каждому администратору
func (s *NotificationService) NotifyAdmins(ctx context.Context, text string) (DeliveryResult, error) {
	adminIDs, err := s.adminRepo.ListIDs(ctx)
	if err != nil {
		return DeliveryResult{}, fmt.Errorf("get admins: %w", err)
	}

	return s.deliver(ctx, adminIDs, text), nil
}

func (s *NotificationService) deliver(ctx context.Context, chatIDs []int64, text string) DeliveryResult {
	var result DeliveryResult

	for _, chatID := range chatIDs {
		result.Attempted++

		if err := s.sender.SendText(ctx, chatID, text); err != nil {
			result.Failed++
			s.logger.Error("Failed to deliver message",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
			continue
		}
		result.Delivered++
	}

	return result
}
