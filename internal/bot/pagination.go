package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/ScissorhandsMetu/scissorhands-bot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// sendBarbersPage показывает страницу списка барберов.
// messageID != 0 означает редактирование существующего сообщения.
func (b *Bot) sendBarbersPage(ctx context.Context, chatID int64, messageID int, district string, page int) {
	barbers, err := b.catalogService.ListBarbers(ctx, district)
	if err != nil {
		b.logger.Error().Err(err).Str("district", district).Msg("Failed to list barbers")
		b.sendMessage(chatID, msgTryLater)
		return
	}

	if len(barbers) == 0 {
		b.sendMessage(chatID, "No barbers available right now. Please try again later.")
		return
	}

	perPage := b.config.Bot.PaginationSize
	if perPage <= 0 {
		perPage = models.DefaultPaginationSize
	}

	totalPages := (len(barbers) + perPage - 1) / perPage
	if page >= totalPages {
		page = totalPages - 1
	}
	if page < 0 {
		page = 0
	}

	startIdx := page * perPage
	endIdx := startIdx + perPage
	if endIdx > len(barbers) {
		endIdx = len(barbers)
	}

	var message strings.Builder
	title := "💈 Our barbers:"
	if district != "" {
		title = fmt.Sprintf("💈 Barbers in %s:", district)
	}
	message.WriteString(title + "\n\n")
	if totalPages > 1 {
		message.WriteString(fmt.Sprintf("Page %d of %d\n\n", page+1, totalPages))
	}

	var keyboard [][]tgbotapi.InlineKeyboardButton
	for i, barber := range barbers[startIdx:endIdx] {
		message.WriteString(fmt.Sprintf("%d. *%s*\n", startIdx+i+1, barber.Name))
		message.WriteString(fmt.Sprintf("   📍 %s\n", barber.District))
		if barber.Description != "" {
			message.WriteString(fmt.Sprintf("   📝 %s\n", barber.Description))
		}
		message.WriteString("\n")

		btn := tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf("%d. %s", startIdx+i+1, barber.Name),
			fmt.Sprintf("barber:%d", barber.ID),
		)
		keyboard = append(keyboard, []tgbotapi.InlineKeyboardButton{btn})
	}

	var navButtons []tgbotapi.InlineKeyboardButton
	if page > 0 {
		navButtons = append(navButtons, tgbotapi.NewInlineKeyboardButtonData("⬅️ Prev", fmt.Sprintf("barbers_page:%d", page-1)))
	}
	if endIdx < len(barbers) {
		navButtons = append(navButtons, tgbotapi.NewInlineKeyboardButtonData("Next ➡️", fmt.Sprintf("barbers_page:%d", page+1)))
	}
	if len(navButtons) > 0 {
		keyboard = append(keyboard, navButtons)
	}
	keyboard = append(keyboard, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("⬅️ Back to menu", "back_to_main"),
	})

	markup := tgbotapi.NewInlineKeyboardMarkup(keyboard...)

	if messageID != 0 {
		if _, err := b.tgService.EditMessage(chatID, messageID, message.String(), &markup); err != nil {
			b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to edit barber page")
		}
		return
	}

	msg := tgbotapi.NewMessage(chatID, message.String())
	msg.ReplyMarkup = markup
	msg.ParseMode = models.ParseModeMarkdown
	if _, err := b.tgService.Send(msg); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send barber page")
	}
}
