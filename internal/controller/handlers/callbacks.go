package handlers

import (
	"context"
	"strings"

	"github.com/Freeeeeet/proregion_bot/internal/controller/formatting"
	"github.com/Freeeeeet/proregion_bot/internal/controller/keyboard"
	"github.com/Freeeeeet/proregion_bot/internal/controller/state"
	"github.com/Freeeeeet/proregion_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleCallbackQuery маршрутизирует нажатия inline кнопок по префиксу.
// Нажатия обрабатываются всегда, даже посреди диалога.
func (h *Handlers) HandleCallbackQuery(ctx context.Context, m Messenger, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}

	callback := update.CallbackQuery
	log := h.requestLogger(callback.From.ID).With(zap.String("callback_data", callback.Data))

	switch {
	case strings.HasPrefix(callback.Data, CallbackSelectWorkshop):
		h.handleSelectWorkshop(ctx, m, log, callback)
	case strings.HasPrefix(callback.Data, CallbackToggleWorkshop):
		h.handleToggleWorkshop(ctx, m, log, callback)
	default:
		log.Warn("Unknown callback")
		h.answerCallback(ctx, m, callback.ID, "")
	}
}

// handleSelectWorkshop проверяет места и начинает диалог записи
func (h *Handlers) handleSelectWorkshop(ctx context.Context, m Messenger, log *zap.Logger, callback *models.CallbackQuery) {
	workshopID, err := ParseIDFromCallback(callback.Data)
	if err != nil {
		log.Warn("Invalid workshop callback", zap.Error(err))
		h.answerCallback(ctx, m, callback.ID, "")
		return
	}

	userID := callback.From.ID
	if _, err := h.registrationService.Reserve(ctx, workshopID, userID); err != nil {
		if ErrorMessage(err) == MsgInternalError {
			log.Error("Failed to check workshop seats", zap.Error(err))
		}
		h.answerCallback(ctx, m, callback.ID, ErrorMessage(err))
		return
	}

	err = h.stateManager.Start(ctx, userID, state.StateAwaitingFullName, map[string]string{
		state.KeyWorkshopID: itoa(workshopID),
	})
	if err != nil {
		log.Error("Failed to start registration", zap.Error(err))
		h.answerCallback(ctx, m, callback.ID, MsgInternalError)
		return
	}

	h.answerCallback(ctx, m, callback.ID, "")
	h.sendText(ctx, m, userID, PromptFullName)
}

// handleToggleWorkshop переключает активность и присылает обновлённый список
func (h *Handlers) handleToggleWorkshop(ctx context.Context, m Messenger, log *zap.Logger, callback *models.CallbackQuery) {
	if !h.isAdmin(ctx, log, callback.From.ID) {
		h.answerCallbackAlert(ctx, m, callback.ID, MsgAccessDenied)
		return
	}

	workshopID, err := ParseIDFromCallback(callback.Data)
	if err != nil {
		log.Warn("Invalid toggle callback", zap.Error(err))
		h.answerCallback(ctx, m, callback.ID, "")
		return
	}

	if _, err := h.workshopService.Toggle(ctx, workshopID); err != nil {
		if ErrorMessage(err) == MsgInternalError {
			log.Error("Failed to toggle workshop", zap.Error(err))
		}
		h.answerCallback(ctx, m, callback.ID, ErrorMessage(err))
		return
	}

	h.answerCallback(ctx, m, callback.ID, MsgStatusChanged)

	chatID := callback.From.ID
	if message := callback.Message.Message; message != nil {
		chatID = message.Chat.ID
		if _, err := m.DeleteMessage(ctx, &bot.DeleteMessageParams{
			ChatID:    message.Chat.ID,
			MessageID: message.ID,
		}); err != nil {
			log.Debug("Failed to delete old list", zap.Error(err))
		}
	}

	h.sendToggleList(ctx, m, log, chatID)
}

// sendToggleList отправляет все мастер-классы с отметкой активности
func (h *Handlers) sendToggleList(ctx context.Context, m Messenger, log *zap.Logger, chatID int64) {
	workshops, err := h.workshopService.ListAll(ctx)
	if err != nil {
		h.sendError(ctx, m, log, chatID, err)
		return
	}

	if len(workshops) == 0 {
		h.sendText(ctx, m, chatID, MsgNoWorkshopsAtAll)
		return
	}

	h.sendMessage(ctx, m, chatID, PromptChooseToggle, toggleKeyboard(workshops))
}

func toggleKeyboard(workshops []*model.Workshop) *models.InlineKeyboardMarkup {
	kb := keyboard.NewBuilder()
	for _, w := range workshops {
		kb.Row(keyboard.Button(formatting.ToggleButton(w), CallbackToggleWorkshop+itoa(w.ID)))
	}
	return kb.Build()
}
