package controller

import (
	"context"

	"github.com/Freeeeeet/proregion_bot/internal/controller/handlers"
	"github.com/go-telegram/bot"
)

// Sender отправляет текстовые уведомления через Telegram (рассылка, уведомления администраторам)
type Sender struct {
	messenger handlers.Messenger
}

func NewSender(messenger handlers.Messenger) *Sender {
	return &Sender{messenger: messenger}
}

func (s *Sender) SendText(ctx context.Context, chatID int64, text string) error {
	_, err := s.messenger.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	return err
}
