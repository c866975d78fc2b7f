package service

import (
	"context"
	"regexp"
	"strings"

	"github.com/ScissorhandsMetu/scissorhands-bot/internal/domain"
	"github.com/ScissorhandsMetu/scissorhands-bot/internal/events"
	"github.com/ScissorhandsMetu/scissorhands-bot/internal/models"

	"github.com/rs/zerolog"
)

var (
	emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)
	phonePattern = regexp.MustCompile(`^\+\d{1,15}$`)
)

// BookingService оформляет и отменяет записи через бэкенд ScissorHands.
// Запрос на создание отправляется ровно один раз: повтор мог бы занять
// чужой слот, поэтому при сбое пользователь решает сам.
type BookingService struct {
	api      domain.APIClient
	receipts domain.ReceiptStore
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewBookingService(api domain.APIClient, receipts domain.ReceiptStore, eventBus domain.EventPublisher, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		api:      api,
		receipts: receipts,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Validate проверяет черновик и возвращает ошибки по полям.
// Пустая карта означает, что запрос готов к отправке.
func (s *BookingService) Validate(req models.BookingRequest) map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(req.FirstName) == "" {
		errs["first_name"] = "First name is required."
	}
	if strings.TrimSpace(req.LastName) == "" {
		errs["last_name"] = "Last name is required."
	}
	if !emailPattern.MatchString(req.Email) {
		errs["email"] = "Please enter a valid email address."
	}
	if !phonePattern.MatchString(req.Phone) {
		errs["phone"] = "Phone must start with + followed by up to 15 digits."
	}
	if req.BarberID == 0 {
		errs["barber"] = "Please choose a barber."
	}
	if req.Date == "" {
		errs["date"] = "Please choose a date."
	}
	if req.SlotTime == "" {
		errs["slot_time"] = "Please choose a time slot."
	}
	if strings.TrimSpace(req.Service) == "" {
		errs["service"] = "Please choose a service."
	}

	return errs
}

// Submit отправляет запись в бэкенд. Возвращает ID созданной записи,
// если бэкенд его сообщил.
func (s *BookingService) Submit(ctx context.Context, userID int64, req models.BookingRequest) (int, error) {
	l := s.logger.With().
		Int64("user_id", userID).
		Int("barber_id", req.BarberID).
		Str("date", req.Date).
		Str("slot_time", req.SlotTime).
		Logger()

	payload := events.BookingEventPayload{
		UserID:       userID,
		BarberID:     req.BarberID,
		BarberName:   req.BarberName,
		CustomerName: req.CustomerName(),
		Email:        req.Email,
		Phone:        req.Phone,
		Date:         req.Date,
		SlotTime:     req.SlotTime,
		Service:      req.Service,
		Status:       "submitted",
	}
	_ = s.eventBus.PublishJSON(events.EventBookingSubmitted, payload)

	appointmentID, err := s.api.CreateAppointment(ctx, req)
	if err != nil {
		l.Warn().Err(err).Msg("Appointment submission failed")

		payload.Status = "failed"
		payload.Reason = err.Error()
		_ = s.eventBus.PublishJSON(events.EventBookingFailed, payload)

		return 0, err
	}

	l.Info().Int("appointment_id", appointmentID).Msg("Appointment confirmed")

	payload.Status = models.StatusConfirmed
	payload.AppointmentID = appointmentID
	payload.Reason = ""
	_ = s.eventBus.PublishJSON(events.EventBookingConfirmed, payload)

	receipt := &models.Receipt{
		UserID:        userID,
		AppointmentID: appointmentID,
		BarberID:      req.BarberID,
		BarberName:    req.BarberName,
		CustomerName:  req.CustomerName(),
		Email:         req.Email,
		Phone:         req.Phone,
		Date:          req.Date,
		SlotTime:      req.SlotTime,
		Service:       req.Service,
		Status:        models.StatusConfirmed,
	}
	if err := s.receipts.SaveReceipt(ctx, receipt); err != nil {
		// Запись в бэкенде уже создана, локальная квитанция вторична
		l.Error().Err(err).Msg("Failed to save receipt")
	}

	return appointmentID, nil
}

// Cancel отменяет запись в бэкенде и помечает локальную квитанцию.
func (s *BookingService) Cancel(ctx context.Context, userID int64, appointmentID int) error {
	if err := s.api.CancelAppointment(ctx, appointmentID); err != nil {
		s.logger.Warn().Err(err).
			Int64("user_id", userID).
			Int("appointment_id", appointmentID).
			Msg("Appointment cancellation failed")
		return err
	}

	payload := events.BookingEventPayload{
		UserID:        userID,
		AppointmentID: appointmentID,
		Status:        models.StatusCancelled,
	}

	receipt, err := s.receipts.GetReceiptByAppointmentID(ctx, appointmentID)
	if err == nil && receipt != nil {
		payload.BarberID = receipt.BarberID
		payload.BarberName = receipt.BarberName
		payload.CustomerName = receipt.CustomerName
		payload.Date = receipt.Date
		payload.SlotTime = receipt.SlotTime
		payload.Service = receipt.Service

		if err := s.receipts.UpdateReceiptStatus(ctx, receipt.ID, models.StatusCancelled); err != nil {
			s.logger.Error().Err(err).Int64("receipt_id", receipt.ID).Msg("Failed to update receipt status")
		}
	}

	_ = s.eventBus.PublishJSON(events.EventBookingCancelled, payload)

	return nil
}

// GetUserReceipts возвращает локальные квитанции пользователя.
func (s *BookingService) GetUserReceipts(ctx context.Context, userID int64) ([]models.Receipt, error) {
	return s.receipts.GetUserReceipts(ctx, userID)
}
