package bot

import (
	"errors"

	"github.com/ScissorhandsMetu/scissorhands-bot/internal/scissorhands"
)

const msgTryLater = "❌ Something went wrong. Please try again later."

// bookingErrorMessage превращает ошибку отправки заявки в сообщение
// пользователю. Текст бэкенда показывается дословно.
func (b *Bot) bookingErrorMessage(err error) string {
	if apiErr, ok := scissorhands.AsAPIError(err); ok {
		if apiErr.Message != "" {
			return "⚠️ " + apiErr.Message
		}
		return "⚠️ Unknown error"
	}

	if errors.Is(err, scissorhands.ErrTransport) || errors.Is(err, scissorhands.ErrInvalidResponse) {
		return "❌ Could not reach the booking service. Your appointment was NOT submitted - please try again later."
	}

	return msgTryLater
}

func (b *Bot) cancellationErrorMessage(err error) string {
	if apiErr, ok := scissorhands.AsAPIError(err); ok {
		if apiErr.Message != "" {
			return "⚠️ " + apiErr.Message
		}
		return "⚠️ Failed to cancel the appointment."
	}

	if errors.Is(err, scissorhands.ErrTransport) || errors.Is(err, scissorhands.ErrInvalidResponse) {
		return "❌ Could not reach the booking service. Please try again later."
	}

	return "⚠️ Failed to cancel the appointment."
}
