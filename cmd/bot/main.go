package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/Freeeeeet/proregion_bot/internal/app"
	"github.com/Freeeeeet/proregion_bot/internal/config"
	"github.com/Freeeeeet/proregion_bot/internal/controller"
	"github.com/Freeeeeet/proregion_bot/internal/controller/handlers"
	"github.com/Freeeeeet/proregion_bot/internal/controller/state"
	"github.com/Freeeeeet/proregion_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := app.NewLogger(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Bot stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting ПРОрегион bot",
		zap.String("db_driver", cfg.DBDriver),
		zap.String("state_backend", cfg.StateBackend),
		zap.String("timezone", cfg.Timezone),
	)

	storage, err := app.OpenStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer storage.Close()

	stateStorage, closeState, err := newStateStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeState()
	stateManager := state.NewManager(stateStorage)

	b, err := bot.New(cfg.TelegramToken, bot.WithMiddlewares(controller.RecoverMiddleware(logger)))
	if err != nil {
		return err
	}

	calendar := service.NewCalendar(cfg.Location())

	adminService := service.NewAdminService(storage.Admins, logger)
	if err := adminService.Seed(ctx, cfg.AdminIDs); err != nil {
		return err
	}

	workshopService := service.NewWorkshopService(storage.Workshops, calendar, logger)
	notificationService := service.NewNotificationService(controller.NewSender(b), storage.Registrations, storage.Admins, logger)

	h := handlers.NewHandlers(
		service.NewRegistrationService(storage.Workshops, storage.Registrations, calendar, logger),
		workshopService,
		adminService,
		notificationService,
		service.NewExportService(storage.Registrations, calendar, logger),
		service.NewTicketService(cfg.TicketQR),
		stateManager,
		logger,
	)

	botController := controller.NewBotController(b, h, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Warn("Bot commands menu not set", zap.Error(err))
	}

	scheduler, err := app.NewScheduler(
		workshopService,
		notificationService,
		cfg.Location(),
		cfg.ActivationSchedule,
		cfg.DeactivationSchedule,
		logger,
	)
	if err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	var health *app.HealthServer
	if cfg.HealthAddr != "" {
		health = app.NewHealthServer(map[string]app.Pinger{
			"database": storage,
			"state":    stateManager,
		}, logger)

		go func() {
			if err := health.Listen(cfg.HealthAddr); err != nil {
				logger.Error("Health endpoint stopped", zap.Error(err))
			}
		}()
	}

	// Блокируется до SIGINT/SIGTERM
	botController.Start(ctx)

	logger.Info("Shutting down")
	if health != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := health.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			logger.Warn("Health endpoint shutdown failed", zap.Error(err))
		}
	}
	return nil
}

func newStateStorage(ctx context.Context, cfg *config.Config) (state.Storage, func(), error) {
	if cfg.StateBackend != config.StateBackendRedis {
		return state.NewMemoryStorage(cfg.StateTTL), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, err
	}

	return state.NewRedisStorage(client, cfg.StateTTL), func() { client.Close() }, nil
}
