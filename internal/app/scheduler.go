package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/proregion_bot/internal/controller/formatting"
	"github.com/Freeeeeet/proregion_bot/internal/service"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler управляет ежедневными задачами активации и деактивации мастер-классов
type Scheduler struct {
	workshopService     *service.WorkshopService
	notificationService *service.NotificationService
	cron                *cron.Cron
	logger              *zap.Logger
	jobTimeout          time.Duration
}

// NewScheduler создаёт новый планировщик. Расписания задаются в формате cron
// и интерпретируются в часовом поясе loc.
func NewScheduler(
	workshopService *service.WorkshopService,
	notificationService *service.NotificationService,
	loc *time.Location,
	activationSpec, deactivationSpec string,
	logger *zap.Logger,
) (*Scheduler, error) {
	s := &Scheduler{
		workshopService:     workshopService,
		notificationService: notificationService,
		cron:                cron.New(cron.WithLocation(loc)),
		logger:              logger,
		jobTimeout:          time.Minute,
	}

	if _, err := s.cron.AddFunc(activationSpec, s.job("activation", s.RunActivation)); err != nil {
		return nil, fmt.Errorf("invalid activation schedule %q: %w", activationSpec, err)
	}
	if _, err := s.cron.AddFunc(deactivationSpec, s.job("deactivation", s.RunDeactivation)); err != nil {
		return nil, fmt.Errorf("invalid deactivation schedule %q: %w", deactivationSpec, err)
	}

	return s, nil
}

// Start запускает фоновые задачи
func (s *Scheduler) Start() {
	s.logger.Info("Starting background scheduler")
	s.cron.Start()
}

// Stop останавливает планировщик и ждёт завершения запущенных задач
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) job(name string, run func(ctx context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
		defer cancel()

		if err := run(ctx); err != nil {
			s.logger.Error("Scheduled job failed", zap.String("job", name), zap.Error(err))
		}
	}
}

// RunActivation активирует сегодняшние мастер-классы и уведомляет администраторов
// обо всех мастер-классах на сегодня
func (s *Scheduler) RunActivation(ctx context.Context) error {
	if _, err := s.workshopService.ActivateToday(ctx); err != nil {
		return err
	}

	workshops, err := s.workshopService.ListToday(ctx)
	if err != nil {
		return err
	}
	if len(workshops) == 0 {
		return nil
	}

	result, err := s.notificationService.NotifyAdmins(ctx, formatting.ActivationNotice(workshops))
	if err != nil {
		return err
	}

	s.logger.Info("Admins notified about activation",
		zap.Int("workshops", len(workshops)),
		zap.Int("delivered", result.Delivered),
		zap.Int("failed", result.Failed),
	)
	return nil
}

// RunDeactivation снимает активность с мастер-классов, дата которых наступила или прошла
func (s *Scheduler) RunDeactivation(ctx context.Context) error {
	_, err := s.workshopService.DeactivatePast(ctx)
	return err
}
