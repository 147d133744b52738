package handlers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/proregion_bot/internal/controller/state"
	"github.com/Freeeeeet/proregion_bot/internal/model"
	"github.com/Freeeeeet/proregion_bot/internal/repository/migrations"
	"github.com/Freeeeeet/proregion_bot/internal/repository/sqlite"
	"github.com/Freeeeeet/proregion_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	adminID  int64 = 100
	today          = "2024-06-01"
	tomorrow       = "2024-06-02"
)

type sentMessage struct {
	chatID int64
	text   string
	markup models.ReplyMarkup
}

// fakeMessenger записывает исходящие вызовы вместо обращения к Telegram API
type fakeMessenger struct {
	mu        sync.Mutex
	failOn    map[int64]bool
	messages  []sentMessage
	documents []*bot.SendDocumentParams
	photos    []*bot.SendPhotoParams
	answers   []*bot.AnswerCallbackQueryParams
	deleted   []*bot.DeleteMessageParams
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{failOn: map[int64]bool{}}
}

func (f *fakeMessenger) SendMessage(_ context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	chatID := params.ChatID.(int64)
	if f.failOn[chatID] {
		return nil, errors.New("Forbidden: bot was blocked by the user")
	}
	f.messages = append(f.messages, sentMessage{chatID: chatID, text: params.Text, markup: params.ReplyMarkup})
	return &models.Message{ID: len(f.messages), Chat: models.Chat{ID: chatID}, Text: params.Text}, nil
}

func (f *fakeMessenger) SendDocument(_ context.Context, params *bot.SendDocumentParams) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.documents = append(f.documents, params)
	return &models.Message{}, nil
}

func (f *fakeMessenger) SendPhoto(_ context.Context, params *bot.SendPhotoParams) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.photos = append(f.photos, params)
	return &models.Message{}, nil
}

func (f *fakeMessenger) AnswerCallbackQuery(_ context.Context, params *bot.AnswerCallbackQueryParams) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answers = append(f.answers, params)
	return true, nil
}

func (f *fakeMessenger) DeleteMessage(_ context.Context, params *bot.DeleteMessageParams) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, params)
	return true, nil
}

// last возвращает последнее сообщение, отправленное в чат
func (f *fakeMessenger) last(t *testing.T, chatID int64) sentMessage {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := len(f.messages) - 1; i >= 0; i-- {
		if f.messages[i].chatID == chatID {
			return f.messages[i]
		}
	}
	t.Fatalf("no messages sent to chat %d", chatID)
	return sentMessage{}
}

func (f *fakeMessenger) texts(chatID int64) []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []string
	for _, m := range f.messages {
		if m.chatID == chatID {
			out = append(out, m.text)
		}
	}
	return out
}

func (f *fakeMessenger) lastAnswer(t *testing.T) *bot.AnswerCallbackQueryParams {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.answers)
	return f.answers[len(f.answers)-1]
}

// messengerSender доставляет уведомления сервиса через fakeMessenger
type messengerSender struct {
	m Messenger
}

func (s messengerSender) SendText(ctx context.Context, chatID int64, text string) error {
	_, err := s.m.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text})
	return err
}

type testEnv struct {
	ctx       context.Context
	store     *sqlite.Store
	handlers  *Handlers
	messenger *fakeMessenger
	states    *state.Manager
}

func newTestEnv(t *testing.T, tickets bool) *testEnv {
	t.Helper()
	goose.SetLogger(goose.NopLogger())

	ctx := context.Background()
	store, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, migrations.Up(ctx, store.DB().DB, migrations.SQLite))

	logger := zap.NewNop()
	cal := service.NewCalendar(time.UTC)
	cal.Now = func() time.Time { return time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC) }

	messenger := newFakeMessenger()
	states := state.NewManager(state.NewMemoryStorage(0))

	adminService := service.NewAdminService(store.Admins, logger)
	require.NoError(t, adminService.Seed(ctx, []int64{adminID}))

	h := NewHandlers(
		service.NewRegistrationService(store.Workshops, store.Registrations, cal, logger),
		service.NewWorkshopService(store.Workshops, cal, logger),
		adminService,
		service.NewNotificationService(messengerSender{m: messenger}, store.Registrations, store.Admins, logger),
		service.NewExportService(store.Registrations, cal, logger),
		service.NewTicketService(tickets),
		states,
		logger,
	)

	return &testEnv{ctx: ctx, store: store, handlers: h, messenger: messenger, states: states}
}

func (e *testEnv) text(userID int64, text string) {
	e.handlers.HandleTextMessage(e.ctx, e.messenger, &models.Update{
		Message: &models.Message{
			ID:   1,
			From: &models.User{ID: userID},
			Chat: models.Chat{ID: userID},
			Text: text,
		},
	})
}

func (e *testEnv) callback(userID int64, data string) {
	e.handlers.HandleCallbackQuery(e.ctx, e.messenger, &models.Update{
		CallbackQuery: &models.CallbackQuery{
			ID:   fmt.Sprintf("cb-%d", userID),
			From: models.User{ID: userID},
			Data: data,
			Message: models.MaybeInaccessibleMessage{
				Type:    models.MaybeInaccessibleMessageTypeMessage,
				Message: &models.Message{ID: 42, Chat: models.Chat{ID: userID}},
			},
		},
	})
}

func (e *testEnv) workshop(t *testing.T, name, date, timeStr string, max int, active bool) *model.Workshop {
	t.Helper()
	w := &model.Workshop{Name: name, Date: date, Time: timeStr, MaxParticipants: max, IsActive: active}
	require.NoError(t, e.store.Workshops.Create(e.ctx, w))
	return w
}

func (e *testEnv) register(t *testing.T, userID int64, workshopID int64, fullName, phone string) {
	t.Helper()
	e.callback(userID, fmt.Sprintf("workshop:%d", workshopID))
	require.Equal(t, PromptFullName, e.messenger.last(t, userID).text)
	e.text(userID, fullName)
	require.Equal(t, PromptPhone, e.messenger.last(t, userID).text)
	e.text(userID, phone)
}

func inlineTexts(t *testing.T, markup models.ReplyMarkup) []string {
	t.Helper()
	kb, ok := markup.(*models.InlineKeyboardMarkup)
	require.True(t, ok, "expected inline keyboard, got %T", markup)

	var out []string
	for _, row := range kb.InlineKeyboard {
		for _, b := range row {
			out = append(out, b.Text)
		}
	}
	return out
}

func TestRegistrationFlowUntilFull(t *testing.T) {
	e := newTestEnv(t, false)

	// Администратор создаёт мастер-класс через диалог и активирует его
	e.text(adminID, BtnAddWorkshop)
	assert.Equal(t, PromptWorkshopName, e.messenger.last(t, adminID).text)
	e.text(adminID, "Pottery")
	assert.Equal(t, PromptWorkshopDate, e.messenger.last(t, adminID).text)
	e.text(adminID, today)
	assert.Equal(t, PromptWorkshopTime, e.messenger.last(t, adminID).text)
	e.text(adminID, "10:00")
	assert.Equal(t, PromptWorkshopMax, e.messenger.last(t, adminID).text)
	e.text(adminID, "2")
	assert.Contains(t, e.messenger.last(t, adminID).text, "Мастер-класс успешно добавлен!")

	all, err := e.store.Workshops.ListAll(e.ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	pottery := all[0]
	assert.False(t, pottery.IsActive)

	e.callback(adminID, fmt.Sprintf("toggle:%d", pottery.ID))
	assert.Equal(t, MsgStatusChanged, e.messenger.lastAnswer(t).Text)

	const userA, userB, userC int64 = 1, 2, 3

	e.text(userA, BtnRegister)
	list := e.messenger.last(t, userA)
	assert.Equal(t, PromptChooseWorkshop, list.text)
	assert.Equal(t, []string{"Pottery (10:00) - мест: 2/2"}, inlineTexts(t, list.markup))

	e.register(t, userA, pottery.ID, "Alice", "555-1")
	assert.Equal(t, "Вы успешно записаны на мастер-класс 'Pottery' в 10:00!", e.messenger.last(t, userA).text)

	e.register(t, userB, pottery.ID, "Bob", "555-2")
	assert.Equal(t, "Вы успешно записаны на мастер-класс 'Pottery' в 10:00!", e.messenger.last(t, userB).text)

	before := len(e.messenger.texts(userC))
	e.callback(userC, fmt.Sprintf("workshop:%d", pottery.ID))
	assert.Equal(t, "Извините, все места заняты!", e.messenger.lastAnswer(t).Text)
	assert.Len(t, e.messenger.texts(userC), before, "full workshop must not start a dialog")

	data, err := e.states.Get(e.ctx, userC)
	require.NoError(t, err)
	assert.Equal(t, state.StateNone, data.State)

	e.text(userA, BtnMyRegistrations)
	assert.Equal(t, "Ваши записи:\n\nPottery - 2024-06-01 в 10:00\n", e.messenger.last(t, userA).text)
}

func TestSelectingSameWorkshopTwiceIsRejected(t *testing.T) {
	e := newTestEnv(t, false)
	w := e.workshop(t, "Yoga", today, "12:00", 5, true)

	e.register(t, 1, w.ID, "Alice", "555-1")
	e.callback(1, fmt.Sprintf("workshop:%d", w.ID))
	assert.Equal(t, "Вы уже записаны на этот мастер-класс!", e.messenger.lastAnswer(t).Text)
}

func TestPhoneStepClearsStateWhenWorkshopFilledMeanwhile(t *testing.T) {
	e := newTestEnv(t, false)
	w := e.workshop(t, "Yoga", today, "12:00", 1, true)

	// Оба прошли предварительную проверку, место досталось первому
	e.callback(1, fmt.Sprintf("workshop:%d", w.ID))
	e.callback(2, fmt.Sprintf("workshop:%d", w.ID))
	e.text(1, "Alice")
	e.text(2, "Bob")
	e.text(1, "555-1")
	e.text(2, "555-2")

	assert.Equal(t, "Извините, все места заняты!", e.messenger.last(t, 2).text)
	data, err := e.states.Get(e.ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, state.StateNone, data.State)
}

func TestToggledOffWorkshopHiddenFromAttendees(t *testing.T) {
	e := newTestEnv(t, false)
	w := e.workshop(t, "Pottery", today, "10:00", 2, true)
	e.workshop(t, "Yoga", tomorrow, "12:00", 2, false)

	e.text(adminID, BtnToggleWorkshops)
	list := e.messenger.last(t, adminID)
	assert.Equal(t, PromptChooseToggle, list.text)
	assert.Equal(t, []string{
		"✅ Pottery (2024-06-01 10:00)",
		"❌ Yoga (2024-06-02 12:00)",
	}, inlineTexts(t, list.markup))

	e.callback(adminID, fmt.Sprintf("toggle:%d", w.ID))
	assert.Equal(t, MsgStatusChanged, e.messenger.lastAnswer(t).Text)
	require.Len(t, e.messenger.deleted, 1)
	assert.Equal(t, 42, e.messenger.deleted[0].MessageID)

	refreshed := e.messenger.last(t, adminID)
	assert.Equal(t, []string{
		"❌ Pottery (2024-06-01 10:00)",
		"❌ Yoga (2024-06-02 12:00)",
	}, inlineTexts(t, refreshed.markup))

	e.text(1, BtnRegister)
	assert.Equal(t, MsgNoWorkshopsToday, e.messenger.last(t, 1).text)
}

func TestBroadcastReportsAttemptedCount(t *testing.T) {
	e := newTestEnv(t, false)
	w := e.workshop(t, "Pottery", today, "10:00", 5, true)
	e.register(t, 1, w.ID, "Alice", "555-1")
	e.register(t, 2, w.ID, "Bob", "555-2")

	e.messenger.failOn[1] = true

	e.text(adminID, BtnBroadcast)
	assert.Equal(t, PromptAnnouncement, e.messenger.last(t, adminID).text)
	e.text(adminID, "Hello")

	assert.Equal(t, "Рассылка завершена. Сообщение отправлено 2 пользователям.", e.messenger.last(t, adminID).text)
	assert.Equal(t, "Hello", e.messenger.last(t, 2).text)
}

func TestActiveDialogTakesPrecedenceOverMenu(t *testing.T) {
	e := newTestEnv(t, false)
	w := e.workshop(t, "Pottery", today, "10:00", 5, true)

	e.callback(1, fmt.Sprintf("workshop:%d", w.ID))
	e.text(1, BtnMyRegistrations)
	assert.Equal(t, PromptPhone, e.messenger.last(t, 1).text)

	e.text(1, "/start")
	assert.Equal(t, "Вы успешно записаны на мастер-класс 'Pottery' в 10:00!", e.messenger.last(t, 1).text)

	regs, err := e.store.Registrations.ListForExport(e.ctx)
	require.NoError(t, err)
	require.Len(t, regs, 1)
	assert.Equal(t, BtnMyRegistrations, regs[0].FullName)
	assert.Equal(t, "/start", regs[0].Phone)
}

func TestSelectingWorkshopRestartsDialog(t *testing.T) {
	e := newTestEnv(t, false)
	w := e.workshop(t, "Pottery", today, "10:00", 5, true)

	e.text(adminID, BtnBroadcast)
	e.callback(adminID, fmt.Sprintf("workshop:%d", w.ID))

	data, err := e.states.Get(e.ctx, adminID)
	require.NoError(t, err)
	assert.Equal(t, state.StateAwaitingFullName, data.State)
	assert.Equal(t, PromptFullName, e.messenger.last(t, adminID).text)
}

func TestCapacityMustBePositiveNumber(t *testing.T) {
	e := newTestEnv(t, false)

	e.text(adminID, BtnAddWorkshop)
	e.text(adminID, "Pottery")
	e.text(adminID, today)
	e.text(adminID, "10:00")

	for _, input := range []string{"abc", "0", "-3"} {
		e.text(adminID, input)
		assert.Equal(t, PromptNumberRequired+"\n"+PromptWorkshopMax, e.messenger.last(t, adminID).text)

		data, err := e.states.Get(e.ctx, adminID)
		require.NoError(t, err)
		assert.Equal(t, state.StateAwaitingWorkshopCapacity, data.State)
	}

	e.text(adminID, "12")
	all, err := e.store.Workshops.ListAll(e.ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 12, all[0].MaxParticipants)
}

func TestAdminOnlyActionsDenied(t *testing.T) {
	e := newTestEnv(t, false)
	w := e.workshop(t, "Pottery", today, "10:00", 5, true)

	for _, label := range []string{BtnManageWorkshops, BtnAddWorkshop, BtnToggleWorkshops, BtnExport, BtnBroadcast} {
		e.text(1, label)
		assert.Equal(t, MsgAccessDenied, e.messenger.last(t, 1).text, label)
	}

	e.callback(1, fmt.Sprintf("toggle:%d", w.ID))
	assert.Equal(t, MsgAccessDenied, e.messenger.lastAnswer(t).Text)

	got, err := e.store.Workshops.GetByID(e.ctx, w.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)

	data, err := e.states.Get(e.ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, state.StateNone, data.State)
}

func TestStartShowsRoleMenu(t *testing.T) {
	e := newTestEnv(t, false)

	e.text(1, "/start")
	attendee := e.messenger.last(t, 1)
	assert.Equal(t, MsgWelcomeAttendee, attendee.text)
	assert.Equal(t, attendeeMenu(), attendee.markup)

	e.text(adminID, "/start")
	admin := e.messenger.last(t, adminID)
	assert.Equal(t, MsgWelcomeAdmin, admin.text)
	assert.Equal(t, adminMenu(), admin.markup)

	e.text(adminID, BtnManageWorkshops)
	assert.Equal(t, manageMenu(), e.messenger.last(t, adminID).markup)

	e.text(adminID, BtnBack)
	assert.Equal(t, MsgBackToAdminMenu, e.messenger.last(t, adminID).text)

	e.text(1, "что-то непонятное")
	assert.Equal(t, MsgUnknownInput, e.messenger.last(t, 1).text)
}

func TestExportSendsWorkbook(t *testing.T) {
	e := newTestEnv(t, false)
	w := e.workshop(t, "Pottery", today, "10:00", 5, true)
	e.register(t, 1, w.ID, "Alice", "555-1")

	e.text(adminID, BtnExport)
	require.Len(t, e.messenger.documents, 1)

	doc, ok := e.messenger.documents[0].Document.(*models.InputFileUpload)
	require.True(t, ok)
	assert.Equal(t, service.ExportFileName, doc.Filename)
	assert.Equal(t, adminID, e.messenger.documents[0].ChatID)
}

func TestTicketSentWhenEnabled(t *testing.T) {
	e := newTestEnv(t, true)
	w := e.workshop(t, "Pottery", today, "10:00", 5, true)

	e.register(t, 1, w.ID, "Alice", "555-1")
	require.Len(t, e.messenger.photos, 1)
	assert.Equal(t, int64(1), e.messenger.photos[0].ChatID)
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "Извините, все места заняты!", ErrorMessage(fmt.Errorf("commit: %w", model.ErrWorkshopFull)))
	assert.Equal(t, "Вы уже записаны на этот мастер-класс!", ErrorMessage(model.ErrAlreadyRegistered))
	assert.Equal(t, MsgAccessDenied, ErrorMessage(model.ErrAccessDenied))
	assert.Equal(t, MsgInternalError, ErrorMessage(errors.New("connection reset")))
}

func TestParseIDFromCallback(t *testing.T) {
	id, err := ParseIDFromCallback("workshop:17")
	require.NoError(t, err)
	assert.Equal(t, int64(17), id)

	_, err = ParseIDFromCallback("workshop")
	assert.Error(t, err)
	_, err = ParseIDFromCallback("toggle:abc")
	assert.Error(t, err)
}
