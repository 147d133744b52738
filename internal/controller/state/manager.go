package state

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Manager управляет состояниями пользователей.
// У пользователя не больше одного активного диалога: Start перезаписывает прежний.
type Manager struct {
	storage Storage
	now     func() time.Time
}

// NewManager создаёт новый менеджер состояний
func NewManager(storage Storage) *Manager {
	return &Manager{
		storage: storage,
		now:     time.Now,
	}
}

// Get получает текущий диалог пользователя; при отсутствии возвращает StateNone
func (sm *Manager) Get(ctx context.Context, telegramID int64) (*UserData, error) {
	data, err := sm.storage.Load(ctx, telegramID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return &UserData{State: StateNone, Data: map[string]string{}}, nil
		}
		return nil, fmt.Errorf("load state: %w", err)
	}
	return data, nil
}

// Start начинает новый диалог, отбрасывая незавершённый
func (sm *Manager) Start(ctx context.Context, telegramID int64, state UserState, fields map[string]string) error {
	data := &UserData{
		State:     state,
		Data:      make(map[string]string, len(fields)),
		UpdatedAt: sm.now(),
	}
	for k, v := range fields {
		data.Data[k] = v
	}

	if err := sm.storage.Save(ctx, telegramID, data); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// Advance переводит диалог в следующее состояние и сохраняет одно поле
func (sm *Manager) Advance(ctx context.Context, telegramID int64, next UserState, key, value string) error {
	data, err := sm.Get(ctx, telegramID)
	if err != nil {
		return err
	}

	data.State = next
	data.Data[key] = value
	data.UpdatedAt = sm.now()

	if err := sm.storage.Save(ctx, telegramID, data); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// Clear очищает состояние и данные пользователя
func (sm *Manager) Clear(ctx context.Context, telegramID int64) error {
	if err := sm.storage.Delete(ctx, telegramID); err != nil {
		return fmt.Errorf("clear state: %w", err)
	}
	return nil
}

func (sm *Manager) Ping(ctx context.Context) error {
	return sm.storage.Ping(ctx)
}
