package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/proregion_bot/internal/controller/keyboard"
	"github.com/Freeeeeet/proregion_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrorMessage переводит ошибку сервиса в короткий ответ пользователю
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrWorkshopFull):
		return "Извините, все места заняты!"
	case errors.Is(err, model.ErrAlreadyRegistered):
		return "Вы уже записаны на этот мастер-класс!"
	case errors.Is(err, model.ErrWorkshopNotFound):
		return MsgWorkshopUnknown
	case errors.Is(err, model.ErrAccessDenied):
		return MsgAccessDenied
	case errors.Is(err, model.ErrInvalidCapacity):
		return PromptNumberRequired
	default:
		return MsgInternalError
	}
}

// ParseIDFromCallback извлекает ID из callback data
// Например: "workshop:123" -> 123
func ParseIDFromCallback(data string) (int64, error) {
	parts := strings.Split(data, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid callback data format")
	}
	return strconv.ParseInt(parts[1], 10, 64)
}

// requestLogger дочерний логгер с идентификатором обновления
func (h *Handlers) requestLogger(telegramID int64) *zap.Logger {
	return h.logger.With(
		zap.String("request_id", uuid.NewString()),
		zap.Int64("telegram_id", telegramID),
	)
}

func (h *Handlers) sendMessage(ctx context.Context, m Messenger, chatID int64, text string, markup models.ReplyMarkup) {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}
	if markup != nil {
		params.ReplyMarkup = markup
	}

	if _, err := m.SendMessage(ctx, params); err != nil {
		h.logger.Warn("Failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (h *Handlers) sendText(ctx context.Context, m Messenger, chatID int64, text string) {
	h.sendMessage(ctx, m, chatID, text, nil)
}

// sendError логирует ошибку и отправляет пользователю сообщение для неё
func (h *Handlers) sendError(ctx context.Context, m Messenger, log *zap.Logger, chatID int64, err error) {
	msg := ErrorMessage(err)
	if msg == MsgInternalError {
		log.Error("Request failed", zap.Error(err))
	}
	h.sendText(ctx, m, chatID, msg)
}

// requireAdmin отвечает "Доступ запрещен" и возвращает false, если пользователь не администратор
func (h *Handlers) requireAdmin(ctx context.Context, m Messenger, log *zap.Logger, chatID, userID int64) bool {
	err := h.adminService.Require(ctx, userID)
	if err == nil {
		return true
	}
	h.sendError(ctx, m, log, chatID, err)
	return false
}

func (h *Handlers) isAdmin(ctx context.Context, log *zap.Logger, userID int64) bool {
	ok, err := h.adminService.IsAdmin(ctx, userID)
	if err != nil {
		log.Error("Failed to check admin", zap.Error(err))
		return false
	}
	return ok
}

// answerCallback отвечает на callback query (без alert)
func (h *Handlers) answerCallback(ctx context.Context, m Messenger, callbackID, text string) {
	if _, err := m.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	}); err != nil {
		h.logger.Debug("Failed to answer callback", zap.Error(err))
	}
}

// answerCallbackAlert отвечает на callback query всплывающим окном
func (h *Handlers) answerCallbackAlert(ctx context.Context, m Messenger, callbackID, text string) {
	if _, err := m.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       true,
	}); err != nil {
		h.logger.Debug("Failed to answer callback", zap.Error(err))
	}
}

func attendeeMenu() *models.ReplyKeyboardMarkup {
	return keyboard.Menu([]string{BtnRegister, BtnMyRegistrations})
}

func adminMenu() *models.ReplyKeyboardMarkup {
	return keyboard.Menu([]string{BtnManageWorkshops, BtnExport, BtnBroadcast})
}

func manageMenu() *models.ReplyKeyboardMarkup {
	return keyboard.Menu([]string{BtnAddWorkshop, BtnToggleWorkshops, BtnBack})
}

func (h *Handlers) mainMenu(ctx context.Context, log *zap.Logger, userID int64) *models.ReplyKeyboardMarkup {
	if h.isAdmin(ctx, log, userID) {
		return adminMenu()
	}
	return attendeeMenu()
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
