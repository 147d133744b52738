package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/proregion_bot/internal/model"
	"github.com/Freeeeeet/proregion_bot/internal/repository/migrations"
	"github.com/Freeeeeet/proregion_bot/internal/repository/sqlite"
	"github.com/Freeeeeet/proregion_bot/internal/service"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingSender struct {
	mu     sync.Mutex
	failOn map[int64]bool
	sent   map[int64][]string
}

func (s *recordingSender) SendText(_ context.Context, chatID int64, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn[chatID] {
		return errors.New("chat not found")
	}
	s.sent[chatID] = append(s.sent[chatID], text)
	return nil
}

type schedulerEnv struct {
	store     *sqlite.Store
	sender    *recordingSender
	scheduler *Scheduler
}

func newSchedulerEnv(t *testing.T, admins ...int64) *schedulerEnv {
	t.Helper()
	goose.SetLogger(goose.NopLogger())

	ctx := context.Background()
	store, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, migrations.Up(ctx, store.DB().DB, migrations.SQLite))

	for _, id := range admins {
		require.NoError(t, store.Admins.Add(ctx, id))
	}

	// 00:01 по Москве 1 июня
	moscow := time.FixedZone("MSK", 3*60*60)
	cal := service.NewCalendar(moscow)
	cal.Now = func() time.Time { return time.Date(2024, 5, 31, 21, 1, 0, 0, time.UTC) }

	logger := zap.NewNop()
	sender := &recordingSender{failOn: map[int64]bool{}, sent: map[int64][]string{}}

	scheduler, err := NewScheduler(
		service.NewWorkshopService(store.Workshops, cal, logger),
		service.NewNotificationService(sender, store.Registrations, store.Admins, logger),
		moscow,
		"1 0 * * *",
		"59 23 * * *",
		logger,
	)
	require.NoError(t, err)

	return &schedulerEnv{store: store, sender: sender, scheduler: scheduler}
}

func (e *schedulerEnv) create(t *testing.T, name, date, timeStr string, active bool) *model.Workshop {
	t.Helper()
	w := &model.Workshop{Name: name, Date: date, Time: timeStr, MaxParticipants: 10, IsActive: active}
	require.NoError(t, e.store.Workshops.Create(context.Background(), w))
	return w
}

func TestRunActivationNotifiesAllTodayWorkshops(t *testing.T) {
	e := newSchedulerEnv(t, 100, 200, 300)
	e.create(t, "Pottery", "2024-06-01", "10:00", false)
	e.create(t, "Yoga", "2024-06-01", "12:00", true)
	tomorrow := e.create(t, "Drawing", "2024-06-02", "09:00", false)

	e.sender.failOn[200] = true

	require.NoError(t, e.scheduler.RunActivation(context.Background()))

	today, err := e.store.Workshops.ListByDate(context.Background(), "2024-06-01")
	require.NoError(t, err)
	for _, w := range today {
		assert.True(t, w.IsActive, w.Name)
	}

	got, err := e.store.Workshops.GetByID(context.Background(), tomorrow.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	want := "🔔 Автоматически активированы мастер-классы:\n\n• Pottery (10:00)\n• Yoga (12:00)"
	assert.Equal(t, []string{want}, e.sender.sent[100])
	assert.Equal(t, []string{want}, e.sender.sent[300])
	assert.Empty(t, e.sender.sent[200])
}

func TestRunActivationSilentWithoutWorkshops(t *testing.T) {
	e := newSchedulerEnv(t, 100)
	e.create(t, "Drawing", "2024-06-02", "09:00", false)

	require.NoError(t, e.scheduler.RunActivation(context.Background()))
	assert.Empty(t, e.sender.sent)
}

func TestRunDeactivationIncludesToday(t *testing.T) {
	e := newSchedulerEnv(t)
	past := e.create(t, "Old", "2024-05-30", "10:00", true)
	today := e.create(t, "Pottery", "2024-06-01", "10:00", true)
	future := e.create(t, "Drawing", "2024-06-02", "09:00", true)

	require.NoError(t, e.scheduler.RunDeactivation(context.Background()))

	for _, tc := range []struct {
		w      *model.Workshop
		active bool
	}{{past, false}, {today, false}, {future, true}} {
		got, err := e.store.Workshops.GetByID(context.Background(), tc.w.ID)
		require.NoError(t, err)
		assert.Equal(t, tc.active, got.IsActive, tc.w.Name)
	}
}

func TestNewSchedulerRejectsBadSchedule(t *testing.T) {
	logger := zap.NewNop()
	_, err := NewScheduler(nil, nil, time.UTC, "not a cron", "59 23 * * *", logger)
	assert.Error(t, err)
}

func TestSchedulerStartStop(t *testing.T) {
	e := newSchedulerEnv(t)
	e.scheduler.Start()
	e.scheduler.Stop()
}
