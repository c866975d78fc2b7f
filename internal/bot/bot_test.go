package bot

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ScissorhandsMetu/scissorhands-bot/internal/config"
	"github.com/ScissorhandsMetu/scissorhands-bot/internal/domain"
	"github.com/ScissorhandsMetu/scissorhands-bot/internal/events"
	"github.com/ScissorhandsMetu/scissorhands-bot/internal/models"
	"github.com/ScissorhandsMetu/scissorhands-bot/internal/repository"
	"github.com/ScissorhandsMetu/scissorhands-bot/internal/schedule"
	"github.com/ScissorhandsMetu/scissorhands-bot/internal/scissorhands"
	"github.com/ScissorhandsMetu/scissorhands-bot/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fakeTelegramService записывает отправленные сообщения вместо похода в Telegram.
type fakeTelegramService struct {
	sent      []tgbotapi.Chattable
	callbacks []string
}

func (f *fakeTelegramService) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeTelegramService) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeTelegramService) SendMessage(chatID int64, text string) (tgbotapi.Message, error) {
	return f.Send(tgbotapi.NewMessage(chatID, text))
}

func (f *fakeTelegramService) SendMarkdown(chatID int64, text string) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = models.ParseModeMarkdown
	return f.Send(msg)
}

func (f *fakeTelegramService) SendWithKeyboard(chatID int64, text string, keyboard tgbotapi.ReplyKeyboardMarkup) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	return f.Send(msg)
}

func (f *fakeTelegramService) SendWithInlineKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	return f.Send(msg)
}

func (f *fakeTelegramService) EditMessage(chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error) {
	return f.Send(tgbotapi.NewEditMessageText(chatID, messageID, text))
}

func (f *fakeTelegramService) AnswerCallback(callbackID, text string) error {
	f.callbacks = append(f.callbacks, callbackID)
	return nil
}

func (f *fakeTelegramService) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	ch := make(chan tgbotapi.Update)
	close(ch)
	return ch
}

func (f *fakeTelegramService) GetSelf() tgbotapi.User {
	return tgbotapi.User{UserName: "scissorhands_test_bot"}
}

func (f *fakeTelegramService) StopReceivingUpdates() {}

func (f *fakeTelegramService) lastText(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, f.sent)
	switch msg := f.sent[len(f.sent)-1].(type) {
	case tgbotapi.MessageConfig:
		return msg.Text
	case tgbotapi.EditMessageTextConfig:
		return msg.Text
	default:
		t.Fatalf("unexpected chattable type %T", msg)
		return ""
	}
}

// stubCatalog отдаёт фиксированный каталог без бэкенда.
type stubCatalog struct {
	barbers   []models.Barber
	districts []models.District
}

func (c *stubCatalog) ListBarbers(ctx context.Context, district string) ([]models.Barber, error) {
	if district == "" {
		return c.barbers, nil
	}
	var filtered []models.Barber
	for _, b := range c.barbers {
		if b.District == district {
			filtered = append(filtered, b)
		}
	}
	return filtered, nil
}

func (c *stubCatalog) ListDistricts(ctx context.Context) ([]models.District, error) {
	return c.districts, nil
}

func (c *stubCatalog) GetBarber(ctx context.Context, barberID int) (*models.Barber, error) {
	for i := range c.barbers {
		if c.barbers[i].ID == barberID {
			return &c.barbers[i], nil
		}
	}
	return nil, scissorhands.ErrInvalidResponse
}

func (c *stubCatalog) GetSlots(ctx context.Context, barberID int, date string) ([]schedule.Slot, error) {
	barber, err := c.GetBarber(ctx, barberID)
	if err != nil {
		return nil, err
	}
	return schedule.ResolveSlots(barber.Appointments, date), nil
}

func (c *stubCatalog) Refresh(ctx context.Context) error { return nil }

type mockBookingService struct {
	mock.Mock
}

func (m *mockBookingService) Validate(req models.BookingRequest) map[string]string {
	args := m.Called(req)
	return args.Get(0).(map[string]string)
}

func (m *mockBookingService) Submit(ctx context.Context, userID int64, req models.BookingRequest) (int, error) {
	args := m.Called(ctx, userID, req)
	return args.Int(0), args.Error(1)
}

func (m *mockBookingService) Cancel(ctx context.Context, userID int64, appointmentID int) error {
	args := m.Called(ctx, userID, appointmentID)
	return args.Error(0)
}

func (m *mockBookingService) GetUserReceipts(ctx context.Context, userID int64) ([]models.Receipt, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Receipt), args.Error(1)
}

func testConfig() *config.Config {
	return &config.Config{
		Bot: config.BotConfig{
			PaginationSize:    6,
			RateLimitMessages: 100,
			RateLimitWindow:   60,
		},
	}
}

func newTestBot(t *testing.T, booking domain.BookingService) (*Bot, *fakeTelegramService, domain.StateManager) {
	t.Helper()

	logger := zerolog.Nop()
	tg := &fakeTelegramService{}
	stateService := service.NewStateService(repository.NewMemoryStateRepository(time.Hour), &logger)

	catalog := &stubCatalog{
		barbers: []models.Barber{
			{ID: 1, Name: "Mehmet Usta", District: "Kadikoy", Appointments: []models.Appointment{
				{ID: 11, AppointmentDate: "2099-09-12", SlotTime: "14:00:00"},
			}},
			{ID: 2, Name: "Ali Usta", District: "Besiktas"},
		},
		districts: []models.District{
			{ID: 1, Name: "Kadikoy"},
			{ID: 2, Name: "Besiktas"},
		},
	}

	b, err := NewBot(tg, testConfig(), stateService, catalog, booking, nil, events.NewEventBus(), []models.Service{
		{ID: 1, Name: "haircut"},
		{ID: 2, Name: "beard cut"},
	}, nil, &logger)
	require.NoError(t, err)

	return b, tg, stateService
}

func messageUpdate(userID, chatID int64, text string) *tgbotapi.Update {
	return &tgbotapi.Update{
		Message: &tgbotapi.Message{
			From: &tgbotapi.User{ID: userID},
			Chat: &tgbotapi.Chat{ID: chatID},
			Text: text,
		},
	}
}

func TestStartShowsMainMenu(t *testing.T) {
	b, tg, states := newTestBot(t, new(mockBookingService))
	ctx := context.Background()

	b.handleMessage(ctx, messageUpdate(42, 42, "/start"))

	assert.Contains(t, tg.lastText(t), "ScissorHands")

	state, err := states.GetUserState(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, models.StateMainMenu, state.CurrentStep)
}

func TestBookingFlow_DistrictToDate(t *testing.T) {
	b, tg, states := newTestBot(t, new(mockBookingService))
	ctx := context.Background()

	b.handleMessage(ctx, messageUpdate(42, 42, btnBookAppointment))
	assert.Contains(t, tg.lastText(t), "Choose a district")

	b.handleDistrictSelected(ctx, 42, 42, "Kadikoy")
	assert.Contains(t, tg.lastText(t), "Barbers in Kadikoy")

	b.handleBarberSelected(ctx, 42, 42, 1)
	assert.Contains(t, tg.lastText(t), "Mehmet Usta")
	assert.Contains(t, tg.lastText(t), "YYYY-MM-DD")

	state, err := states.GetUserState(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, models.StateWaitingDate, state.CurrentStep)
	assert.Equal(t, 1, state.GetInt("barber_id"))
}

func TestDateInput_RejectsMalformedAndPast(t *testing.T) {
	b, tg, states := newTestBot(t, new(mockBookingService))
	ctx := context.Background()

	b.handleBarberSelected(ctx, 42, 42, 1)

	state, _ := states.GetUserState(ctx, 42)
	b.handleDateInput(ctx, 42, 42, "12.09.2099", state)
	assert.Contains(t, tg.lastText(t), "YYYY-MM-DD")

	b.handleDateInput(ctx, 42, 42, "2020-01-01", state)
	assert.Contains(t, tg.lastText(t), "already passed")

	b.handleDateInput(ctx, 42, 42, "2099-09-12", state)
	assert.Contains(t, tg.lastText(t), "Available slots for 2099-09-12")

	state, _ = states.GetUserState(ctx, 42)
	assert.Equal(t, models.StateSelectSlot, state.CurrentStep)
}

func TestDateInput_TodayIsBookable(t *testing.T) {
	b, tg, states := newTestBot(t, new(mockBookingService))
	ctx := context.Background()

	b.handleBarberSelected(ctx, 42, 42, 1)
	state, _ := states.GetUserState(ctx, 42)

	// Сегодняшняя дата валидна весь день независимо от часового пояса.
	today := time.Now().Format(models.DateLayout)
	b.handleDateInput(ctx, 42, 42, today, state)
	assert.Contains(t, tg.lastText(t), "Available slots for "+today)
}

func TestSlotSelection_BookedSlotRejected(t *testing.T) {
	b, tg, states := newTestBot(t, new(mockBookingService))
	ctx := context.Background()

	b.handleBarberSelected(ctx, 42, 42, 1)
	state, _ := states.GetUserState(ctx, 42)
	b.handleDateInput(ctx, 42, 42, "2099-09-12", state)

	// 14:00 занят записью в каталоге
	b.handleSlotSelected(ctx, 42, 42, "14:00:00")
	assert.Contains(t, tg.lastText(t), "Available slots")

	b.handleSlotSelected(ctx, 42, 42, "10:00:00")
	assert.Contains(t, tg.lastText(t), "first name")

	state, _ = states.GetUserState(ctx, 42)
	assert.Equal(t, models.StateEnterFirstName, state.CurrentStep)
	assert.Equal(t, "10:00:00", state.GetString("slot_time"))
}

func TestFormSteps_EmailValidation(t *testing.T) {
	booking := new(mockBookingService)
	booking.On("Validate", mock.MatchedBy(func(r models.BookingRequest) bool {
		return r.Email == "not-an-email"
	})).Return(map[string]string{"email": "Please enter a valid email address."})
	booking.On("Validate", mock.MatchedBy(func(r models.BookingRequest) bool {
		return r.Email == "john@example.com"
	})).Return(map[string]string{})

	b, tg, states := newTestBot(t, booking)
	ctx := context.Background()

	b.setUserState(ctx, 42, models.StateEnterEmail, map[string]interface{}{
		"barber_id": 1, "first_name": "John", "last_name": "Doe",
	})

	state, _ := states.GetUserState(ctx, 42)
	require.True(t, b.handleUserStateSteps(ctx, messageUpdate(42, 42, "not-an-email"), "not-an-email", state))
	assert.Contains(t, tg.lastText(t), "valid email")

	state, _ = states.GetUserState(ctx, 42)
	assert.Equal(t, models.StateEnterEmail, state.CurrentStep)

	require.True(t, b.handleUserStateSteps(ctx, messageUpdate(42, 42, "john@example.com"), "john@example.com", state))
	state, _ = states.GetUserState(ctx, 42)
	assert.Equal(t, models.StateEnterPhone, state.CurrentStep)
	assert.Equal(t, "john@example.com", state.GetString("email"))
}

func fullDraftData() map[string]interface{} {
	return map[string]interface{}{
		"barber_id":   1,
		"barber_name": "Mehmet Usta",
		"first_name":  "John",
		"last_name":   "Doe",
		"email":       "john@example.com",
		"phone":       "+905551112233",
		"date":        "2099-09-12",
		"slot_time":   "10:00:00",
		"service":     "haircut",
	}
}

func TestConfirm_Success(t *testing.T) {
	booking := new(mockBookingService)
	booking.On("Submit", mock.Anything, int64(42), mock.MatchedBy(func(r models.BookingRequest) bool {
		return r.BarberID == 1 && r.SlotTime == "10:00:00" && r.Service == "haircut"
	})).Return(101, nil).Once()

	b, tg, states := newTestBot(t, booking)
	ctx := context.Background()

	b.setUserState(ctx, 42, models.StateConfirmation, fullDraftData())

	b.handleConfirm(ctx, 42, 42)

	found := false
	for _, c := range tg.sent {
		if msg, ok := c.(tgbotapi.MessageConfig); ok && strings.Contains(msg.Text, "Appointment #101 confirmed") {
			found = true
		}
	}
	assert.True(t, found, "confirmation message should name the appointment id")

	// Состояние сброшено в главное меню
	state, _ := states.GetUserState(ctx, 42)
	require.NotNil(t, state)
	assert.Equal(t, models.StateMainMenu, state.CurrentStep)

	booking.AssertExpectations(t)
}

func TestConfirm_APIErrorShownVerbatim(t *testing.T) {
	booking := new(mockBookingService)
	booking.On("Submit", mock.Anything, int64(42), mock.Anything).
		Return(0, &scissorhands.APIError{StatusCode: 409, Message: "Slot already booked"}).Once()

	b, tg, states := newTestBot(t, booking)
	ctx := context.Background()

	b.setUserState(ctx, 42, models.StateConfirmation, fullDraftData())

	b.handleConfirm(ctx, 42, 42)

	assert.Contains(t, tg.lastText(t), "Slot already booked")

	// Пользователь остаётся на подтверждении и может попробовать снова
	state, _ := states.GetUserState(ctx, 42)
	require.NotNil(t, state)
	assert.Equal(t, models.StateConfirmation, state.CurrentStep)
}

func TestConfirm_DoubleTapIgnoredWhileSubmitting(t *testing.T) {
	booking := new(mockBookingService)
	b, tg, _ := newTestBot(t, booking)
	ctx := context.Background()

	b.setUserState(ctx, 42, models.StateSubmitting, fullDraftData())

	sentBefore := len(tg.sent)
	b.handleConfirm(ctx, 42, 42)

	assert.Equal(t, sentBefore, len(tg.sent))
	booking.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything)
}

func TestCancelFlow(t *testing.T) {
	booking := new(mockBookingService)
	booking.On("Cancel", mock.Anything, int64(42), 101).Return(nil).Once()

	b, tg, states := newTestBot(t, booking)
	ctx := context.Background()

	b.handleMessage(ctx, messageUpdate(42, 42, btnCancelBooking))
	assert.Contains(t, tg.lastText(t), "appointment ID")

	state, _ := states.GetUserState(ctx, 42)
	require.True(t, b.handleUserStateSteps(ctx, messageUpdate(42, 42, "abc"), "abc", state))
	assert.Contains(t, tg.lastText(t), "numeric")

	state, _ = states.GetUserState(ctx, 42)
	require.True(t, b.handleUserStateSteps(ctx, messageUpdate(42, 42, "101"), "101", state))
	assert.Contains(t, tg.lastText(t), "cancelled")

	booking.AssertExpectations(t)
}

func TestCancelFlow_APIError(t *testing.T) {
	booking := new(mockBookingService)
	booking.On("Cancel", mock.Anything, int64(42), 999).
		Return(&scissorhands.APIError{StatusCode: 404, Message: ""}).Once()

	b, tg, _ := newTestBot(t, booking)
	ctx := context.Background()

	b.handleCancelIDInput(ctx, 42, 42, "999")
	assert.Contains(t, tg.lastText(t), "Failed to cancel the appointment.")
}

func TestMyAppointments_Empty(t *testing.T) {
	booking := new(mockBookingService)
	booking.On("GetUserReceipts", mock.Anything, int64(42)).Return([]models.Receipt{}, nil).Once()

	b, tg, _ := newTestBot(t, booking)

	b.showUserAppointments(context.Background(), 42, 42)
	assert.Contains(t, tg.lastText(t), "no appointments yet")
}
