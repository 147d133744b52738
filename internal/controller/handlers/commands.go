package handlers

import (
	"context"
	"strings"

	"github.com/Freeeeeet/proregion_bot/internal/controller/formatting"
	"github.com/Freeeeeet/proregion_bot/internal/controller/keyboard"
	"github.com/Freeeeeet/proregion_bot/internal/controller/state"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleTextMessage единая точка входа для текстовых сообщений.
// Активный диалог имеет приоритет над меню и командами.
func (h *Handlers) HandleTextMessage(ctx context.Context, m Messenger, update *models.Update) {
	if update.Message == nil || update.Message.From == nil || update.Message.Text == "" {
		return
	}

	msg := update.Message
	telegramID := msg.From.ID
	log := h.requestLogger(telegramID)

	userData, err := h.stateManager.Get(ctx, telegramID)
	if err != nil {
		log.Error("Failed to load user state", zap.Error(err))
		h.sendText(ctx, m, msg.Chat.ID, MsgInternalError)
		return
	}

	if userData.State != state.StateNone {
		log.Debug("Handling dialog step", zap.String("state", string(userData.State)))
		h.handleDialogStep(ctx, m, log, msg, userData)
		return
	}

	switch strings.TrimSpace(msg.Text) {
	case "/start":
		h.handleStart(ctx, m, log, msg)
	case BtnRegister:
		h.handleListWorkshops(ctx, m, log, msg)
	case BtnMyRegistrations:
		h.handleMyRegistrations(ctx, m, log, msg)
	case BtnBack:
		h.handleBack(ctx, m, log, msg)
	case BtnManageWorkshops:
		h.handleManageWorkshops(ctx, m, log, msg)
	case BtnAddWorkshop:
		h.handleAddWorkshopStart(ctx, m, log, msg)
	case BtnToggleWorkshops:
		h.handleToggleList(ctx, m, log, msg)
	case BtnExport:
		h.handleExport(ctx, m, log, msg)
	case BtnBroadcast:
		h.handleBroadcastStart(ctx, m, log, msg)
	default:
		h.sendMessage(ctx, m, msg.Chat.ID, MsgUnknownInput, h.mainMenu(ctx, log, telegramID))
	}
}

func (h *Handlers) handleStart(ctx context.Context, m Messenger, log *zap.Logger, msg *models.Message) {
	if h.isAdmin(ctx, log, msg.From.ID) {
		h.sendMessage(ctx, m, msg.Chat.ID, MsgWelcomeAdmin, adminMenu())
		return
	}
	h.sendMessage(ctx, m, msg.Chat.ID, MsgWelcomeAttendee, attendeeMenu())
}

func (h *Handlers) handleBack(ctx context.Context, m Messenger, log *zap.Logger, msg *models.Message) {
	if h.isAdmin(ctx, log, msg.From.ID) {
		h.sendMessage(ctx, m, msg.Chat.ID, MsgBackToAdminMenu, adminMenu())
		return
	}
	h.sendMessage(ctx, m, msg.Chat.ID, MsgBackToMainMenu, attendeeMenu())
}

// handleListWorkshops показывает сегодняшние активные мастер-классы со свободными местами
func (h *Handlers) handleListWorkshops(ctx context.Context, m Messenger, log *zap.Logger, msg *models.Message) {
	workshops, err := h.workshopService.TodayAvailability(ctx)
	if err != nil {
		h.sendError(ctx, m, log, msg.Chat.ID, err)
		return
	}

	if len(workshops) == 0 {
		h.sendText(ctx, m, msg.Chat.ID, MsgNoWorkshopsToday)
		return
	}

	kb := keyboard.NewBuilder()
	for _, w := range workshops {
		kb.Row(keyboard.Button(formatting.AvailabilityButton(w), CallbackSelectWorkshop+itoa(w.ID)))
	}

	h.sendMessage(ctx, m, msg.Chat.ID, PromptChooseWorkshop, kb.Build())
}

func (h *Handlers) handleMyRegistrations(ctx context.Context, m Messenger, log *zap.Logger, msg *models.Message) {
	registrations, err := h.registrationService.MyRegistrations(ctx, msg.From.ID)
	if err != nil {
		h.sendError(ctx, m, log, msg.Chat.ID, err)
		return
	}

	if len(registrations) == 0 {
		h.sendText(ctx, m, msg.Chat.ID, MsgNoRegistrations)
		return
	}

	h.sendText(ctx, m, msg.Chat.ID, formatting.MyRegistrations(registrations))
}
