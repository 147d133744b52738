package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Freeeeeet/proregion_bot/internal/controller/formatting"
	"github.com/Freeeeeet/proregion_bot/internal/controller/state"
	"github.com/Freeeeeet/proregion_bot/internal/model"
	"github.com/Freeeeeet/proregion_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// handleDialogStep обрабатывает сообщение в зависимости от состояния пользователя
func (h *Handlers) handleDialogStep(ctx context.Context, m Messenger, log *zap.Logger, msg *models.Message, userData *state.UserData) {
	switch userData.State {
	case state.StateAwaitingFullName:
		h.handleFullNameStep(ctx, m, log, msg)
	case state.StateAwaitingPhone:
		h.handlePhoneStep(ctx, m, log, msg, userData)
	case state.StateAwaitingWorkshopName:
		h.advance(ctx, m, log, msg, state.StateAwaitingWorkshopDate, state.KeyWorkshopName, PromptWorkshopDate)
	case state.StateAwaitingWorkshopDate:
		h.advance(ctx, m, log, msg, state.StateAwaitingWorkshopTime, state.KeyWorkshopDate, PromptWorkshopTime)
	case state.StateAwaitingWorkshopTime:
		h.advance(ctx, m, log, msg, state.StateAwaitingWorkshopCapacity, state.KeyWorkshopTime, PromptWorkshopMax)
	case state.StateAwaitingWorkshopCapacity:
		h.handleCapacityStep(ctx, m, log, msg, userData)
	case state.StateAwaitingAnnouncement:
		h.handleAnnouncementStep(ctx, m, log, msg)
	default:
		log.Warn("Unknown dialog state, clearing", zap.String("state", string(userData.State)))
		h.clearState(ctx, log, msg.From.ID)
		h.sendMessage(ctx, m, msg.Chat.ID, MsgUnknownInput, h.mainMenu(ctx, log, msg.From.ID))
	}
}

// advance сохраняет введённое значение и задаёт следующий вопрос
func (h *Handlers) advance(ctx context.Context, m Messenger, log *zap.Logger, msg *models.Message, next state.UserState, key, prompt string) {
	if err := h.stateManager.Advance(ctx, msg.From.ID, next, key, strings.TrimSpace(msg.Text)); err != nil {
		h.sendError(ctx, m, log, msg.Chat.ID, err)
		return
	}
	h.sendText(ctx, m, msg.Chat.ID, prompt)
}

func (h *Handlers) clearState(ctx context.Context, log *zap.Logger, telegramID int64) {
	if err := h.stateManager.Clear(ctx, telegramID); err != nil {
		log.Error("Failed to clear state", zap.Error(err))
	}
}

// ========================
// Запись на мастер-класс
// ========================

func (h *Handlers) handleFullNameStep(ctx context.Context, m Messenger, log *zap.Logger, msg *models.Message) {
	h.advance(ctx, m, log, msg, state.StateAwaitingPhone, state.KeyFullName, PromptPhone)
}

func (h *Handlers) handlePhoneStep(ctx context.Context, m Messenger, log *zap.Logger, msg *models.Message, userData *state.UserData) {
	workshopID, ok := userData.GetInt64(state.KeyWorkshopID)
	if !ok {
		log.Warn("Registration state has no workshop id")
		h.clearState(ctx, log, msg.From.ID)
		h.sendText(ctx, m, msg.Chat.ID, MsgInternalError)
		return
	}

	reg, err := h.registrationService.Commit(
		ctx,
		workshopID,
		msg.From.ID,
		userData.Get(state.KeyFullName),
		strings.TrimSpace(msg.Text),
	)
	if err != nil {
		if errors.Is(err, model.ErrAlreadyRegistered) || errors.Is(err, model.ErrWorkshopFull) || errors.Is(err, model.ErrWorkshopNotFound) {
			h.clearState(ctx, log, msg.From.ID)
			h.sendText(ctx, m, msg.Chat.ID, ErrorMessage(err))
			return
		}

		// Состояние сохраняется: пользователь может отправить телефон ещё раз
		log.Error("Failed to commit registration", zap.Int64("workshop_id", workshopID), zap.Error(err))
		h.sendText(ctx, m, msg.Chat.ID, MsgResendPhone)
		return
	}

	h.clearState(ctx, log, msg.From.ID)
	h.sendText(ctx, m, msg.Chat.ID, formatting.RegistrationConfirmed(reg.Workshop))
	h.sendTicket(ctx, m, log, msg.Chat.ID, reg)
}

// sendTicket отправляет QR-код записи, если функция включена
func (h *Handlers) sendTicket(ctx context.Context, m Messenger, log *zap.Logger, chatID int64, reg *model.Registration) {
	if !h.ticketService.Enabled() {
		return
	}

	png, err := h.ticketService.Render(reg)
	if err != nil {
		log.Warn("Failed to render ticket", zap.Error(err))
		return
	}

	_, err = m.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:  chatID,
		Photo:   &models.InputFileUpload{Filename: "ticket.png", Data: bytes.NewReader(png)},
		Caption: "🎟 Ваш билет. Покажите его на входе.",
	})
	if err != nil {
		log.Warn("Failed to send ticket", zap.Error(err))
	}
}

// ========================
// Создание мастер-класса
// ========================

func (h *Handlers) handleCapacityStep(ctx context.Context, m Messenger, log *zap.Logger, msg *models.Message, userData *state.UserData) {
	capacity, err := service.ParseCapacity(msg.Text)
	if err != nil {
		h.sendText(ctx, m, msg.Chat.ID, PromptNumberRequired+"\n"+PromptWorkshopMax)
		return
	}

	workshop, err := h.workshopService.CreateWorkshop(
		ctx,
		userData.Get(state.KeyWorkshopName),
		userData.Get(state.KeyWorkshopDate),
		userData.Get(state.KeyWorkshopTime),
		capacity,
	)
	if err != nil {
		h.clearState(ctx, log, msg.From.ID)
		h.sendError(ctx, m, log, msg.Chat.ID, err)
		return
	}

	h.clearState(ctx, log, msg.From.ID)
	h.sendMessage(ctx, m, msg.Chat.ID, formatting.WorkshopCreated(workshop), manageMenu())
}

// ========================
// Рассылка
// ========================

func (h *Handlers) handleAnnouncementStep(ctx context.Context, m Messenger, log *zap.Logger, msg *models.Message) {
	h.clearState(ctx, log, msg.From.ID)

	result, err := h.notificationService.Broadcast(ctx, msg.Text)
	if err != nil {
		h.sendError(ctx, m, log, msg.Chat.ID, err)
		return
	}

	h.sendText(ctx, m, msg.Chat.ID, fmt.Sprintf(MsgBroadcastCompleted, result.Attempted))
}
