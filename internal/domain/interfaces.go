package domain

import (
	"context"
	"time"

	"github.com/ScissorhandsMetu/scissorhands-bot/internal/models"
	"github.com/ScissorhandsMetu/scissorhands-bot/internal/schedule"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// APIClient talks to the ScissorHands backend.
type APIClient interface {
	ListBarbers(ctx context.Context) ([]models.Barber, error)
	ListDistricts(ctx context.Context) ([]models.District, error)
	CreateAppointment(ctx context.Context, req models.BookingRequest) (int, error)
	CancelAppointment(ctx context.Context, appointmentID int) error
}

// CatalogService serves barbers and districts, cached between backend refreshes.
type CatalogService interface {
	ListBarbers(ctx context.Context, district string) ([]models.Barber, error)
	ListDistricts(ctx context.Context) ([]models.District, error)
	GetBarber(ctx context.Context, barberID int) (*models.Barber, error)
	GetSlots(ctx context.Context, barberID int, date string) ([]schedule.Slot, error)
	Refresh(ctx context.Context) error
}

// BookingService validates and submits appointments.
type BookingService interface {
	Validate(req models.BookingRequest) map[string]string
	Submit(ctx context.Context, userID int64, req models.BookingRequest) (int, error)
	Cancel(ctx context.Context, userID int64, appointmentID int) error
	GetUserReceipts(ctx context.Context, userID int64) ([]models.Receipt, error)
}

// ReceiptStore persists local booking receipts.
type ReceiptStore interface {
	SaveReceipt(ctx context.Context, receipt *models.Receipt) error
	GetUserReceipts(ctx context.Context, userID int64) ([]models.Receipt, error)
	GetReceiptByAppointmentID(ctx context.Context, appointmentID int) (*models.Receipt, error)
	UpdateReceiptStatus(ctx context.Context, id int64, status string) error
	GetAllReceipts(ctx context.Context) ([]models.Receipt, error)
}

type StateRepository interface {
	GetState(ctx context.Context, userID int64) (*models.UserState, error)
	SetState(ctx context.Context, state *models.UserState) error
	ClearState(ctx context.Context, userID int64) error
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

type StateManager interface {
	GetUserState(ctx context.Context, userID int64) (*models.UserState, error)
	SetUserState(ctx context.Context, userID int64, step string, data map[string]interface{}) error
	ClearUserState(ctx context.Context, userID int64) error
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}

type TelegramService interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	SendMessage(chatID int64, text string) (tgbotapi.Message, error)
	SendMarkdown(chatID int64, text string) (tgbotapi.Message, error)
	SendWithKeyboard(chatID int64, text string, keyboard tgbotapi.ReplyKeyboardMarkup) (tgbotapi.Message, error)
	SendWithInlineKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error)
	EditMessage(chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error)
	AnswerCallback(callbackID string, text string) error
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}
