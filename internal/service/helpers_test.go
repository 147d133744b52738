package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/proregion_bot/internal/repository/migrations"
	"github.com/Freeeeeet/proregion_bot/internal/repository/sqlite"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testNow = time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	goose.SetLogger(goose.NopLogger())

	ctx := context.Background()
	store, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, migrations.Up(ctx, store.DB().DB, migrations.SQLite))
	return store
}

func newTestCalendar() *Calendar {
	cal := NewCalendar(time.UTC)
	cal.Now = func() time.Time { return testNow }
	return cal
}

type fakeSender struct {
	mu     sync.Mutex
	failOn map[int64]bool
	sent   map[int64][]string
}

func newFakeSender(failOn ...int64) *fakeSender {
	s := &fakeSender{failOn: map[int64]bool{}, sent: map[int64][]string{}}
	for _, id := range failOn {
		s.failOn[id] = true
	}
	return s
}

func (s *fakeSender) SendText(_ context.Context, chatID int64, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn[chatID] {
		return errors.New("Forbidden: bot was blocked by the user")
	}
	s.sent[chatID] = append(s.sent[chatID], text)
	return nil
}

var testLogger = zap.NewNop()
