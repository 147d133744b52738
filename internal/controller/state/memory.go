package state

import (
	"context"
	"sync"
	"time"
)

// MemoryStorage хранит диалоги в памяти процесса
type MemoryStorage struct {
	mu     sync.RWMutex
	states map[int64]*UserData // telegramID -> UserData
	ttl    time.Duration
	now    func() time.Time
}

// NewMemoryStorage создаёт хранилище; ttl == 0 означает без истечения
func NewMemoryStorage(ttl time.Duration) *MemoryStorage {
	return &MemoryStorage{
		states: make(map[int64]*UserData),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (m *MemoryStorage) Load(_ context.Context, telegramID int64) (*UserData, error) {
	m.mu.RLock()
	data, ok := m.states[telegramID]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}

	if m.expired(data) {
		m.mu.Lock()
		// запись могли перезаписать, пока лок был отпущен
		if cur, ok := m.states[telegramID]; ok && m.expired(cur) {
			delete(m.states, telegramID)
		}
		m.mu.Unlock()
		return nil, ErrNotFound
	}

	// Возвращаем копию, чтобы избежать race condition
	return data.clone(), nil
}

func (m *MemoryStorage) Save(_ context.Context, telegramID int64, data *UserData) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if data.State == StateNone {
		delete(m.states, telegramID)
		return nil
	}
	m.states[telegramID] = data.clone()
	return nil
}

func (m *MemoryStorage) Delete(_ context.Context, telegramID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.states, telegramID)
	return nil
}

func (m *MemoryStorage) Ping(context.Context) error {
	return nil
}

func (m *MemoryStorage) expired(data *UserData) bool {
	return m.ttl > 0 && m.now().Sub(data.UpdatedAt) > m.ttl
}
