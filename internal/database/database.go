package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ScissorhandsMetu/scissorhands-bot/internal/models"

	_ "github.com/mattn/go-sqlite3"
)

// DB хранит локальные квитанции о бронированиях. Источник правды о слотах —
// бэкенд ScissorHands, здесь только то, что оформил этот бот.
type DB struct {
	db *sql.DB
}

func NewDB(path string) (*DB, error) {
	// Создаем директорию для БД, если её нет
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %v", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %v", err)
	}

	return &DB{db: db}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS receipts (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            user_id INTEGER NOT NULL,
            appointment_id INTEGER NOT NULL DEFAULT 0,
            barber_id INTEGER NOT NULL,
            barber_name TEXT NOT NULL,
            customer_name TEXT NOT NULL,
            email TEXT NOT NULL,
            phone TEXT NOT NULL,
            date TEXT NOT NULL,
            slot_time TEXT NOT NULL,
            service TEXT NOT NULL,
            status TEXT NOT NULL DEFAULT 'confirmed',
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,

		`CREATE INDEX IF NOT EXISTS idx_receipts_user_id ON receipts(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_receipts_appointment_id ON receipts(appointment_id)`,
		`CREATE INDEX IF NOT EXISTS idx_receipts_status ON receipts(status)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %v", query, err)
		}
	}
	return nil
}

// SaveReceipt сохраняет квитанцию и проставляет её ID
func (db *DB) SaveReceipt(ctx context.Context, receipt *models.Receipt) error {
	query := `
        INSERT INTO receipts (user_id, appointment_id, barber_id, barber_name, customer_name, email, phone, date, slot_time, service, status, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `

	now := time.Now()
	if receipt.CreatedAt.IsZero() {
		receipt.CreatedAt = now
	}
	receipt.UpdatedAt = now

	result, err := db.db.ExecContext(ctx, query,
		receipt.UserID,
		receipt.AppointmentID,
		receipt.BarberID,
		receipt.BarberName,
		receipt.CustomerName,
		receipt.Email,
		receipt.Phone,
		receipt.Date,
		receipt.SlotTime,
		receipt.Service,
		receipt.Status,
		receipt.CreatedAt,
		receipt.UpdatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	receipt.ID = id
	return nil
}

const receiptColumns = `id, user_id, appointment_id, barber_id, barber_name, customer_name, email, phone, date, slot_time, service, status, created_at, updated_at`

func scanReceipt(row interface {
	Scan(dest ...interface{}) error
}) (*models.Receipt, error) {
	var r models.Receipt
	err := row.Scan(
		&r.ID,
		&r.UserID,
		&r.AppointmentID,
		&r.BarberID,
		&r.BarberName,
		&r.CustomerName,
		&r.Email,
		&r.Phone,
		&r.Date,
		&r.SlotTime,
		&r.Service,
		&r.Status,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetUserReceipts возвращает квитанции пользователя, свежие первыми
func (db *DB) GetUserReceipts(ctx context.Context, userID int64) ([]models.Receipt, error) {
	query := `SELECT ` + receiptColumns + ` FROM receipts WHERE user_id = ? ORDER BY created_at DESC`

	rows, err := db.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var receipts []models.Receipt
	for rows.Next() {
		r, err := scanReceipt(rows)
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, *r)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return receipts, nil
}

// GetReceiptByAppointmentID находит квитанцию по ID записи в бэкенде
func (db *DB) GetReceiptByAppointmentID(ctx context.Context, appointmentID int) (*models.Receipt, error) {
	query := `SELECT ` + receiptColumns + ` FROM receipts WHERE appointment_id = ? ORDER BY created_at DESC LIMIT 1`

	receipt, err := scanReceipt(db.db.QueryRowContext(ctx, query, appointmentID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// UpdateReceiptStatus обновляет статус квитанции
func (db *DB) UpdateReceiptStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE receipts SET status = ?, updated_at = ? WHERE id = ?`

	_, err := db.db.ExecContext(ctx, query, status, time.Now(), id)
	return err
}

// GetAllReceipts возвращает все квитанции для выгрузки
func (db *DB) GetAllReceipts(ctx context.Context) ([]models.Receipt, error) {
	query := `SELECT ` + receiptColumns + ` FROM receipts ORDER BY created_at`

	rows, err := db.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var receipts []models.Receipt
	for rows.Next() {
		r, err := scanReceipt(rows)
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, *r)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return receipts, nil
}

func (db *DB) Close() error {
	return db.db.Close()
}
