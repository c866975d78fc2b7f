package bot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ScissorhandsMetu/scissorhands-bot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xuri/excelize/v2"
)

// handleExport выгружает квитанции пользователя в Excel и отправляет файлом
func (b *Bot) handleExport(ctx context.Context, chatID, userID int64) {
	receipts, err := b.bookingService.GetUserReceipts(ctx, userID)
	if err != nil {
		b.logger.Error().Err(err).Int64("user_id", userID).Msg("Failed to get receipts for export")
		b.sendMessage(chatID, msgTryLater)
		return
	}

	if len(receipts) == 0 {
		b.sendMessage(chatID, "Nothing to export yet.")
		return
	}

	filePath, err := b.exportToExcel(userID, receipts)
	if err != nil {
		b.logger.Error().Err(err).Int64("user_id", userID).Msg("Export failed")
		b.sendMessage(chatID, msgTryLater)
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(filePath))
	doc.Caption = "📋 Your appointments"
	if _, err := b.tgService.Send(doc); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send export file")
	}
}

// exportToExcel создает Excel файл с квитанциями
func (b *Bot) exportToExcel(userID int64, receipts []models.Receipt) (string, error) {
	if err := os.MkdirAll(b.config.Exports.Path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Appointments"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	headers := []string{"Appointment ID", "Barber", "Date", "Time", "Service", "Customer", "Email", "Phone", "Status", "Booked at"}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	_ = f.SetCellStyle(sheetName, "A1", lastHeader, headerStyle)

	for row, receipt := range receipts {
		values := []interface{}{
			receipt.AppointmentID,
			receipt.BarberName,
			receipt.Date,
			receipt.SlotTime,
			receipt.Service,
			receipt.CustomerName,
			receipt.Email,
			receipt.Phone,
			receipt.Status,
			receipt.CreatedAt.Format("2006-01-02 15:04"),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheetName, cell, value)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "J", 18)
	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("appointments_%d_%s.xlsx", userID, time.Now().Format("2006-01-02"))
	filePath := filepath.Join(b.config.Exports.Path, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	b.logger.Info().Str("file_path", filePath).Msg("Excel file created")
	return filePath, nil
}
