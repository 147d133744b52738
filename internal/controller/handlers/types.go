package handlers

import (
	"context"

	"github.com/Freeeeeet/proregion_bot/internal/controller/state"
	"github.com/Freeeeeet/proregion_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Messenger исходящие вызовы Telegram API, которые использует бот.
// *bot.Bot реализует интерфейс напрямую.
type Messenger interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	SendDocument(ctx context.Context, params *bot.SendDocumentParams) (*models.Message, error)
	SendPhoto(ctx context.Context, params *bot.SendPhotoParams) (*models.Message, error)
	AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error)
	DeleteMessage(ctx context.Context, params *bot.DeleteMessageParams) (bool, error)
}

// Handlers содержит все зависимости для обработки сообщений и нажатий кнопок
type Handlers struct {
	registrationService *service.RegistrationService
	workshopService     *service.WorkshopService
	adminService        *service.AdminService
	notificationService *service.NotificationService
	exportService       *service.ExportService
	ticketService       *service.TicketService
	stateManager        *state.Manager
	logger              *zap.Logger
}

// NewHandlers создаёт новый обработчик
func NewHandlers(
	registrationService *service.RegistrationService,
	workshopService *service.WorkshopService,
	adminService *service.AdminService,
	notificationService *service.NotificationService,
	exportService *service.ExportService,
	ticketService *service.TicketService,
	stateManager *state.Manager,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		registrationService: registrationService,
		workshopService:     workshopService,
		adminService:        adminService,
		notificationService: notificationService,
		exportService:       exportService,
		ticketService:       ticketService,
		stateManager:        stateManager,
		logger:              logger,
	}
}
