package models

// Receipt statuses.
const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

const (
	ParseModeMarkdown = "Markdown"
	ParseModeHTML     = "HTML"
)

// Conversation steps of the booking flow.
const (
	StateMainMenu        = "main_menu"
	StateSelectDistrict  = "select_district"
	StateSelectBarber    = "select_barber"
	StateWaitingDate     = "waiting_date"
	StateSelectSlot      = "select_slot"
	StateEnterFirstName  = "enter_first_name"
	StateEnterLastName   = "enter_last_name"
	StateEnterEmail      = "enter_email"
	StateEnterPhone      = "enter_phone"
	StateSelectService   = "select_service"
	StateConfirmation    = "confirmation"
	StateSubmitting      = "submitting"
	StateWaitingCancelID = "waiting_cancel_id"
)

// Daily operating window: 10 one-hour slots, 08:00 through 17:00.
const (
	OpeningHour = 8
	ClosingHour = 17
	SlotsPerDay = ClosingHour - OpeningHour + 1
)

const (
	// DefaultRedisTTL время жизни состояния пользователя в Redis
	DefaultRedisTTL = 24 * 60 * 60 // 24 часа в секундах

	// DefaultPaginationSize размер пагинации по умолчанию
	DefaultPaginationSize = 6

	// RateLimitMessages количество сообщений в окне
	RateLimitMessages = 20

	// RateLimitWindow окно ограничения частоты сообщений
	RateLimitWindow = 60 // 1 минута в секундах

	// CatalogCacheTTL время жизни кэша каталога барберов
	CatalogCacheTTL = 5 * 60 // 5 минут в секундах

	// DefaultCatalogRefresh период фонового обновления каталога
	DefaultCatalogRefresh = 120 // секунды
)

// Wire formats of the navigation contract between listing and booking.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)
