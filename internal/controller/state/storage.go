package state

import (
	"context"
	"errors"
)

// ErrNotFound возвращается хранилищем, если диалога нет или он истёк
var ErrNotFound = errors.New("conversation state not found")

// Storage хранит состояния диалогов по идентификатору пользователя
type Storage interface {
	Load(ctx context.Context, telegramID int64) (*UserData, error)
	Save(ctx context.Context, telegramID int64, data *UserData) error
	Delete(ctx context.Context, telegramID int64) error
	Ping(ctx context.Context) error
}
