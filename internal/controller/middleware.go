package controller

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// RecoverMiddleware не даёт панике в обработчике остановить бота
func RecoverMiddleware(logger *zap.Logger) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("Handler panic recovered",
						zap.Int64("update_id", update.ID),
						zap.Any("panic", r),
						zap.Stack("stack"),
					)
				}
			}()
			next(ctx, b, update)
		}
	}
}
