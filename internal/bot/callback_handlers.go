package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ScissorhandsMetu/scissorhands-bot/internal/models"
	"github.com/ScissorhandsMetu/scissorhands-bot/internal/schedule"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleCallbackQuery(ctx context.Context, update tgbotapi.Update) {
	callback := update.CallbackQuery
	data := callback.Data
	userID := callback.From.ID
	chatID := callback.Message.Chat.ID

	// Отвечаем на callback сразу, чтобы убрать "часики"
	if err := b.tgService.AnswerCallback(callback.ID, ""); err != nil {
		b.logger.Debug().Err(err).Msg("Failed to answer callback")
	}

	switch {
	case data == "noop":
		// Занятый слот, нажатие игнорируется

	case data == "back_to_main":
		b.clearUserState(ctx, userID)
		b.handleMainMenu(ctx, chatID, userID)

	case strings.HasPrefix(data, "district:"):
		district := strings.TrimPrefix(data, "district:")
		b.handleDistrictSelected(ctx, chatID, userID, district)

	case strings.HasPrefix(data, "barbers_page:"):
		page, _ := strconv.Atoi(strings.TrimPrefix(data, "barbers_page:"))
		state := b.getUserState(ctx, userID)
		district := ""
		if state != nil {
			district = state.GetString("district")
		}
		b.sendBarbersPage(ctx, chatID, callback.Message.MessageID, district, page)

	case strings.HasPrefix(data, "barber:"):
		barberID, _ := strconv.Atoi(strings.TrimPrefix(data, "barber:"))
		b.handleBarberSelected(ctx, chatID, userID, barberID)

	case strings.HasPrefix(data, "slot:"):
		slotTime := strings.TrimPrefix(data, "slot:")
		b.handleSlotSelected(ctx, chatID, userID, slotTime)

	case strings.HasPrefix(data, "service:"):
		service := strings.TrimPrefix(data, "service:")
		b.handleServiceSelected(ctx, chatID, userID, service)

	case data == "confirm:yes":
		b.handleConfirm(ctx, chatID, userID)

	case data == "confirm:no":
		b.clearUserState(ctx, userID)
		b.sendMessage(chatID, "Booking discarded.")
		b.handleMainMenu(ctx, chatID, userID)
	}
}

func (b *Bot) handleDistrictSelected(ctx context.Context, chatID, userID int64, district string) {
	state := b.getUserState(ctx, userID)
	if state == nil {
		state = models.NewUserState(userID)
	}
	state.Set("district", district)
	b.setUserState(ctx, userID, models.StateSelectBarber, state.TempData)

	b.sendBarbersPage(ctx, chatID, 0, district, 0)
}

func (b *Bot) handleBarberSelected(ctx context.Context, chatID, userID int64, barberID int) {
	barber, err := b.catalogService.GetBarber(ctx, barberID)
	if err != nil {
		b.logger.Warn().Err(err).Int("barber_id", barberID).Msg("Barber not found")
		b.sendMessage(chatID, "⚠️ This barber is no longer available. Please pick another one.")
		return
	}

	state := b.getUserState(ctx, userID)
	if state == nil {
		state = models.NewUserState(userID)
	}
	state.Set("barber_id", barber.ID)
	state.Set("barber_name", barber.Name)
	b.setUserState(ctx, userID, models.StateWaitingDate, state.TempData)

	b.sendMessage(chatID, fmt.Sprintf("You picked %s (%s).\n\nEnter the date as YYYY-MM-DD (e.g. 2025-09-12):",
		barber.Name, barber.District))
}

func (b *Bot) handleSlotSelected(ctx context.Context, chatID, userID int64, slotTime string) {
	state := b.getUserState(ctx, userID)
	if state == nil || state.GetInt("barber_id") == 0 || state.GetString("date") == "" {
		b.sendMessage(chatID, "⚠️ Your booking session expired. Please start over.")
		b.handleMainMenu(ctx, chatID, userID)
		return
	}

	// Слот мог занять кто-то другой, пока пользователь думал
	slots, err := b.catalogService.GetSlots(ctx, state.GetInt("barber_id"), state.GetString("date"))
	if err == nil {
		if slot, ok := schedule.FindSlot(slots, slotTime); ok && !slot.Available {
			b.sendMessage(chatID, "⚠️ This slot was just taken. Please pick another one.")
			b.sendSlotKeyboard(ctx, chatID, state.GetInt("barber_id"), state.GetString("date"))
			return
		}
	}

	state.Set("slot_time", slotTime)
	b.setUserState(ctx, userID, models.StateEnterFirstName, state.TempData)
	b.sendMessage(chatID, "Enter your first name:")
}

func (b *Bot) handleServiceSelected(ctx context.Context, chatID, userID int64, service string) {
	state := b.getUserState(ctx, userID)
	if state == nil {
		b.sendMessage(chatID, "⚠️ Your booking session expired. Please start over.")
		b.handleMainMenu(ctx, chatID, userID)
		return
	}

	state.Set("service", service)

	draft := draftFromState(state)
	if errs := b.bookingService.Validate(draft); len(errs) > 0 {
		// Анкета неполная, возвращаем к началу
		b.logger.Warn().Int64("user_id", userID).Interface("errors", errs).Msg("Draft incomplete at confirmation")
		b.sendMessage(chatID, "⚠️ Some booking details are missing. Please start over.")
		b.clearUserState(ctx, userID)
		b.handleMainMenu(ctx, chatID, userID)
		return
	}

	b.setUserState(ctx, userID, models.StateConfirmation, state.TempData)

	summary := fmt.Sprintf(
		"Please confirm your appointment:\n\n"+
			"💈 Barber: %s\n"+
			"📅 Date: %s\n"+
			"🕐 Time: %s\n"+
			"✂️ Service: %s\n"+
			"👤 Name: %s\n"+
			"📧 Email: %s\n"+
			"📱 Phone: %s",
		draft.BarberName, draft.Date, draft.SlotTime, draft.Service,
		draft.CustomerName(), draft.Email, draft.Phone,
	)

	msg := tgbotapi.NewMessage(chatID, summary)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Confirm", "confirm:yes"),
			tgbotapi.NewInlineKeyboardButtonData("❌ Discard", "confirm:no"),
		),
	)
	if _, err := b.tgService.Send(msg); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send confirmation")
	}
}

// handleConfirm отправляет заявку в бэкенд. Запрос выполняется один раз;
// защита от двойного нажатия — шаг submitting.
func (b *Bot) handleConfirm(ctx context.Context, chatID, userID int64) {
	state := b.getUserState(ctx, userID)
	if state == nil || state.CurrentStep != models.StateConfirmation {
		if state != nil && state.CurrentStep == models.StateSubmitting {
			// Повторное нажатие, заявка уже в полёте
			return
		}
		b.sendMessage(chatID, "⚠️ Your booking session expired. Please start over.")
		b.handleMainMenu(ctx, chatID, userID)
		return
	}

	draft := draftFromState(state)
	b.setUserState(ctx, userID, models.StateSubmitting, state.TempData)

	appointmentID, err := b.bookingService.Submit(ctx, userID, draft)
	if err != nil {
		if b.metrics != nil {
			b.metrics.ErrorsTotal.Inc()
		}
		b.sendMessage(chatID, b.bookingErrorMessage(err))
		// Возвращаем на подтверждение, пользователь решает сам
		b.setUserState(ctx, userID, models.StateConfirmation, state.TempData)
		return
	}

	if b.metrics != nil {
		b.metrics.BookingsCreated.WithLabelValues(draft.Service).Inc()
	}

	b.clearUserState(ctx, userID)

	header := "🎉 Appointment confirmed!"
	if appointmentID > 0 {
		header = fmt.Sprintf("🎉 Appointment #%d confirmed!", appointmentID)
	}
	b.sendMessage(chatID, fmt.Sprintf(
		"%s\n\n💈 %s\n📅 %s at %s\n\nSee you at the shop!",
		header, draft.BarberName, draft.Date, draft.SlotTime,
	))
	b.handleMainMenu(ctx, chatID, userID)
}
