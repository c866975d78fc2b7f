package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ScissorhandsMetu/scissorhands-bot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

func (b *Bot) handleMessage(ctx context.Context, update *tgbotapi.Update) {
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	text := update.Message.Text
	l := zerolog.Ctx(ctx)

	if b.metrics != nil {
		b.metrics.MessagesProcessed.Inc()
		if strings.HasPrefix(text, "/") {
			b.metrics.CommandsProcessed.Inc()
		}
	}

	l.Debug().
		Int64("user_id", userID).
		Str("username", update.Message.From.UserName).
		Str("text", text).
		Msg("Handling message")

	state := b.getUserState(ctx, userID)

	if text == btnCancel || text == btnBack {
		b.clearUserState(ctx, userID)
		b.handleMainMenu(ctx, chatID, userID)
		return
	}

	if b.handleUserCommands(ctx, update, text) {
		return
	}

	if state != nil && b.handleUserStateSteps(ctx, update, text, state) {
		return
	}

	// Непонятный ввод возвращает в меню
	b.handleMainMenu(ctx, chatID, userID)
}

func (b *Bot) handleUserCommands(ctx context.Context, update *tgbotapi.Update, text string) bool {
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	switch {
	case text == "/start" || strings.EqualFold(text, "reset"):
		b.clearUserState(ctx, userID)
		b.handleMainMenu(ctx, chatID, userID)
		return true

	case text == btnBookAppointment || text == "/book":
		b.startBookingFlow(ctx, chatID, userID)
		return true

	case text == btnMyAppointments || text == "/appointments":
		b.showUserAppointments(ctx, chatID, userID)
		return true

	case text == btnCancelBooking || text == "/cancel":
		b.setUserState(ctx, userID, models.StateWaitingCancelID, nil)
		b.sendMessage(chatID, "Enter the appointment ID you want to cancel:")
		return true

	case text == btnContacts || text == "/contacts":
		b.showContacts(chatID)
		return true

	case text == "/export":
		b.handleExport(ctx, chatID, userID)
		return true
	}

	return false
}

// handleUserStateSteps обрабатывает текстовый ввод в зависимости от шага анкеты
func (b *Bot) handleUserStateSteps(ctx context.Context, update *tgbotapi.Update, text string, state *models.UserState) bool {
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	switch state.CurrentStep {
	case models.StateWaitingDate:
		b.handleDateInput(ctx, chatID, userID, text, state)
		return true

	case models.StateEnterFirstName:
		name := b.sanitizeInput(text)
		if name == "" {
			b.sendMessage(chatID, "⚠️ First name is required. Please enter your first name:")
			return true
		}
		state.Set("first_name", name)
		b.setUserState(ctx, userID, models.StateEnterLastName, state.TempData)
		b.sendMessage(chatID, "Enter your last name:")
		return true

	case models.StateEnterLastName:
		name := b.sanitizeInput(text)
		if name == "" {
			b.sendMessage(chatID, "⚠️ Last name is required. Please enter your last name:")
			return true
		}
		state.Set("last_name", name)
		b.setUserState(ctx, userID, models.StateEnterEmail, state.TempData)
		b.sendMessage(chatID, "Enter your email address:")
		return true

	case models.StateEnterEmail:
		email := b.sanitizeInput(text)
		draft := draftFromState(state)
		draft.Email = email
		if msg, ok := b.bookingService.Validate(draft)["email"]; ok {
			b.sendMessage(chatID, "⚠️ "+msg)
			return true
		}
		state.Set("email", email)
		b.setUserState(ctx, userID, models.StateEnterPhone, state.TempData)
		b.sendMessage(chatID, "Enter your phone number in international format (e.g. +905551112233):")
		return true

	case models.StateEnterPhone:
		phone := b.sanitizeInput(text)
		draft := draftFromState(state)
		draft.Phone = phone
		if msg, ok := b.bookingService.Validate(draft)["phone"]; ok {
			b.sendMessage(chatID, "⚠️ "+msg)
			return true
		}
		state.Set("phone", phone)
		b.setUserState(ctx, userID, models.StateSelectService, state.TempData)
		b.sendServiceKeyboard(chatID)
		return true

	case models.StateWaitingCancelID:
		b.handleCancelIDInput(ctx, chatID, userID, text)
		return true
	}

	return false
}

// startBookingFlow начинает оформление с выбора района
func (b *Bot) startBookingFlow(ctx context.Context, chatID, userID int64) {
	districts, err := b.catalogService.ListDistricts(ctx)
	if err != nil {
		b.logger.Error().Err(err).Msg("Failed to list districts")
		b.sendMessage(chatID, msgTryLater)
		return
	}

	var keyboard [][]tgbotapi.InlineKeyboardButton
	keyboard = append(keyboard, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("🌍 All districts", "district:"),
	})
	for _, district := range districts {
		keyboard = append(keyboard, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("📍 "+district.Name, "district:"+district.Name),
		})
	}

	msg := tgbotapi.NewMessage(chatID, "Choose a district:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(keyboard...)

	b.setUserState(ctx, userID, models.StateSelectDistrict, nil)
	if _, err := b.tgService.Send(msg); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send district list")
	}
}

// handleDateInput проверяет дату и показывает слоты
func (b *Bot) handleDateInput(ctx context.Context, chatID, userID int64, text string, state *models.UserState) {
	dateStr := b.sanitizeInput(text)

	if _, err := time.Parse(models.DateLayout, dateStr); err != nil {
		b.sendMessage(chatID, "⚠️ Please enter the date as YYYY-MM-DD (e.g. 2025-09-12):")
		return
	}

	// Сравниваем по локальной календарной дате, не по UTC.
	if dateStr < time.Now().Format(models.DateLayout) {
		b.sendMessage(chatID, "⚠️ That date has already passed. Please pick a future date:")
		return
	}

	state.Set("date", dateStr)
	b.setUserState(ctx, userID, models.StateSelectSlot, state.TempData)
	b.sendSlotKeyboard(ctx, chatID, state.GetInt("barber_id"), dateStr)
}

// sendSlotKeyboard показывает 10 часовых слотов с доступностью
func (b *Bot) sendSlotKeyboard(ctx context.Context, chatID int64, barberID int, date string) {
	slots, err := b.catalogService.GetSlots(ctx, barberID, date)
	if err != nil {
		b.logger.Error().Err(err).Int("barber_id", barberID).Str("date", date).Msg("Failed to resolve slots")
		b.sendMessage(chatID, msgTryLater)
		return
	}

	var keyboard [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, slot := range slots {
		label := "✅ " + slot.Time[:5]
		data := "slot:" + slot.Time
		if !slot.Available {
			label = "⛔ " + slot.Time[:5]
			data = "noop"
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, data))
		if len(row) == 2 {
			keyboard = append(keyboard, row)
			row = nil
		}
	}
	if len(row) > 0 {
		keyboard = append(keyboard, row)
	}

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("Available slots for %s:", date))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(keyboard...)
	if _, err := b.tgService.Send(msg); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send slot keyboard")
	}
}

// sendServiceKeyboard показывает список услуг
func (b *Bot) sendServiceKeyboard(chatID int64) {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, service := range b.services {
		keyboard = append(keyboard, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("✂️ "+service.Name, "service:"+service.Name),
		})
	}

	msg := tgbotapi.NewMessage(chatID, "Choose a service:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(keyboard...)
	if _, err := b.tgService.Send(msg); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send service keyboard")
	}
}

// showUserAppointments показывает локальные квитанции пользователя
func (b *Bot) showUserAppointments(ctx context.Context, chatID, userID int64) {
	receipts, err := b.bookingService.GetUserReceipts(ctx, userID)
	if err != nil {
		b.logger.Error().Err(err).Int64("user_id", userID).Msg("Failed to get user receipts")
		b.sendMessage(chatID, msgTryLater)
		return
	}

	if len(receipts) == 0 {
		b.sendMessage(chatID, "You have no appointments yet. Tap \"💈 Book an appointment\" to make one.")
		return
	}

	var message strings.Builder
	message.WriteString("📋 Your appointments:\n\n")
	for _, receipt := range receipts {
		statusEmoji := "✅"
		if receipt.Status == models.StatusCancelled {
			statusEmoji = "❌"
		}

		message.WriteString(fmt.Sprintf("%s Appointment #%d\n", statusEmoji, receipt.AppointmentID))
		message.WriteString(fmt.Sprintf("   💈 %s\n", receipt.BarberName))
		message.WriteString(fmt.Sprintf("   📅 %s at %s\n", receipt.Date, receipt.SlotTime))
		message.WriteString(fmt.Sprintf("   ✂️ %s\n\n", receipt.Service))
	}

	b.sendMessage(chatID, message.String())
}

// handleCancelIDInput отменяет запись по введённому ID
func (b *Bot) handleCancelIDInput(ctx context.Context, chatID, userID int64, text string) {
	appointmentID, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || appointmentID <= 0 {
		b.sendMessage(chatID, "⚠️ Please enter a numeric appointment ID:")
		return
	}

	if err := b.bookingService.Cancel(ctx, userID, appointmentID); err != nil {
		b.sendMessage(chatID, b.cancellationErrorMessage(err))
		b.clearUserState(ctx, userID)
		return
	}

	b.clearUserState(ctx, userID)
	b.sendMessage(chatID, fmt.Sprintf("✅ Appointment #%d has been cancelled.", appointmentID))
}
