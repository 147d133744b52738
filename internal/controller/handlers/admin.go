package handlers

import (
	"bytes"
	"context"

	"github.com/Freeeeeet/proregion_bot/internal/controller/state"
	"github.com/Freeeeeet/proregion_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

func (h *Handlers) handleManageWorkshops(ctx context.Context, m Messenger, log *zap.Logger, msg *models.Message) {
	if !h.requireAdmin(ctx, m, log, msg.Chat.ID, msg.From.ID) {
		return
	}
	h.sendMessage(ctx, m, msg.Chat.ID, PromptManageWorkshops, manageMenu())
}

func (h *Handlers) handleAddWorkshopStart(ctx context.Context, m Messenger, log *zap.Logger, msg *models.Message) {
	if !h.requireAdmin(ctx, m, log, msg.Chat.ID, msg.From.ID) {
		return
	}

	if err := h.stateManager.Start(ctx, msg.From.ID, state.StateAwaitingWorkshopName, nil); err != nil {
		h.sendError(ctx, m, log, msg.Chat.ID, err)
		return
	}
	h.sendText(ctx, m, msg.Chat.ID, PromptWorkshopName)
}

func (h *Handlers) handleToggleList(ctx context.Context, m Messenger, log *zap.Logger, msg *models.Message) {
	if !h.requireAdmin(ctx, m, log, msg.Chat.ID, msg.From.ID) {
		return
	}
	h.sendToggleList(ctx, m, log, msg.Chat.ID)
}

func (h *Handlers) handleBroadcastStart(ctx context.Context, m Messenger, log *zap.Logger, msg *models.Message) {
	if !h.requireAdmin(ctx, m, log, msg.Chat.ID, msg.From.ID) {
		return
	}

	if err := h.stateManager.Start(ctx, msg.From.ID, state.StateAwaitingAnnouncement, nil); err != nil {
		h.sendError(ctx, m, log, msg.Chat.ID, err)
		return
	}
	h.sendText(ctx, m, msg.Chat.ID, PromptAnnouncement)
}

// handleExport выгружает все регистрации в xlsx и отправляет файлом
func (h *Handlers) handleExport(ctx context.Context, m Messenger, log *zap.Logger, msg *models.Message) {
	if !h.requireAdmin(ctx, m, log, msg.Chat.ID, msg.From.ID) {
		return
	}

	data, rows, err := h.exportService.BuildWorkbook(ctx)
	if err != nil {
		h.sendError(ctx, m, log, msg.Chat.ID, err)
		return
	}

	_, err = m.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID: msg.Chat.ID,
		Document: &models.InputFileUpload{
			Filename: service.ExportFileName,
			Data:     bytes.NewReader(data),
		},
	})
	if err != nil {
		log.Error("Failed to send export", zap.Error(err))
		return
	}

	log.Info("Registrations exported", zap.Int("rows", rows))
}
