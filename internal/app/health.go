package app

import (
	"context"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Pinger зависимость, доступность которой проверяет /healthz
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthServer отвечает на проверки живости и готовности
type HealthServer struct {
	app    *fiber.App
	deps   map[string]Pinger
	logger *zap.Logger
}

func NewHealthServer(deps map[string]Pinger, logger *zap.Logger) *HealthServer {
	s := &HealthServer{
		app:    fiber.New(fiber.Config{DisableStartupMessage: true}),
		deps:   deps,
		logger: logger,
	}

	s.app.Get("/livez", s.live)
	s.app.Get("/healthz", s.ready)
	return s
}

// App возвращает fiber-приложение (для тестов)
func (s *HealthServer) App() *fiber.App {
	return s.app
}

// Listen блокируется до остановки сервера
func (s *HealthServer) Listen(addr string) error {
	s.logger.Info("Health endpoint listening", zap.String("addr", addr))
	return s.app.Listen(addr)
}

func (s *HealthServer) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *HealthServer) live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "alive"})
}

func (s *HealthServer) ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(s.deps))
	for name := range s.deps {
		names = append(names, name)
	}
	sort.Strings(names)

	depStatus := fiber.Map{}
	ready := true
	for _, name := range names {
		if err := s.deps[name].Ping(ctx); err != nil {
			s.logger.Warn("Health check failed", zap.String("dependency", name), zap.Error(err))
			depStatus[name] = err.Error()
			ready = false
			continue
		}
		depStatus[name] = "ok"
	}

	if !ready {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":       "unavailable",
			"dependencies": depStatus,
		})
	}

	return c.JSON(fiber.Map{
		"status":       "ready",
		"dependencies": depStatus,
	})
}
