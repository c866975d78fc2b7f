package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/ScissorhandsMetu/scissorhands-bot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Кнопки главного меню
const (
	btnBookAppointment = "💈 Book an appointment"
	btnMyAppointments  = "📋 My appointments"
	btnCancelBooking   = "❌ Cancel appointment"
	btnContacts        = "📞 Contacts"
	btnBack            = "⬅️ Back"
	btnCancel          = "❌ Cancel"
)

// Вспомогательные методы для работы с состояниями пользователей

func (b *Bot) setUserState(ctx context.Context, userID int64, step string, tempData map[string]interface{}) {
	if tempData == nil {
		tempData = make(map[string]interface{})
	}

	if err := b.stateService.SetUserState(ctx, userID, step, tempData); err != nil {
		b.logger.Error().Err(err).Int64("user_id", userID).Str("step", step).Msg("Failed to set user state")
	}
}

func (b *Bot) getUserState(ctx context.Context, userID int64) *models.UserState {
	state, err := b.stateService.GetUserState(ctx, userID)
	if err != nil {
		b.logger.Error().Err(err).Int64("user_id", userID).Msg("Failed to get user state")
		return nil
	}
	return state
}

func (b *Bot) clearUserState(ctx context.Context, userID int64) {
	if err := b.stateService.ClearUserState(ctx, userID); err != nil {
		b.logger.Error().Err(err).Int64("user_id", userID).Msg("Failed to clear user state")
	}
}

func (b *Bot) isBlacklisted(userID int64) bool {
	for _, blacklistedID := range b.config.Blacklist {
		if userID == blacklistedID {
			return true
		}
	}
	return false
}

func (b *Bot) sendMessage(chatID int64, text string) {
	if _, err := b.tgService.SendMessage(chatID, text); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send message")
	}
}

// sanitizeInput обрезает пробелы и ограничивает длину пользовательского ввода
func (b *Bot) sanitizeInput(text string) string {
	text = strings.TrimSpace(text)
	if len(text) > 256 {
		text = text[:256]
	}
	return text
}

// draftFromState собирает черновик заявки из сохранённого состояния
func draftFromState(state *models.UserState) models.BookingRequest {
	return models.BookingRequest{
		BarberID:   state.GetInt("barber_id"),
		BarberName: state.GetString("barber_name"),
		FirstName:  state.GetString("first_name"),
		LastName:   state.GetString("last_name"),
		Email:      state.GetString("email"),
		Phone:      state.GetString("phone"),
		Date:       state.GetString("date"),
		SlotTime:   state.GetString("slot_time"),
		Service:    state.GetString("service"),
	}
}

// handleMainMenu - главное меню
func (b *Bot) handleMainMenu(ctx context.Context, chatID, userID int64) {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnBookAppointment),
			tgbotapi.NewKeyboardButton(btnMyAppointments),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancelBooking),
			tgbotapi.NewKeyboardButton(btnContacts),
		),
	)

	b.setUserState(ctx, userID, models.StateMainMenu, nil)
	text := "Welcome to ScissorHands! 💈\nBook a chair with one of our barbers:"
	if _, err := b.tgService.SendWithKeyboard(chatID, text, keyboard); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send main menu")
	}
}

// showContacts показывает контакты барбершопа
func (b *Bot) showContacts(chatID int64) {
	var message strings.Builder
	message.WriteString("📞 ScissorHands contacts:\n\n")
	for _, contact := range b.config.Contacts {
		message.WriteString(fmt.Sprintf("🔹 %s\n", contact))
	}
	if len(b.config.Contacts) == 0 {
		message.WriteString("Contact us through the app.")
	}

	b.sendMessage(chatID, message.String())
}
