package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/ScissorhandsMetu/scissorhands-bot/internal/models"
)

// Slot is one bookable hour of the daily operating window, derived for a
// single (barber, date) pair. Never persisted; recomputed on every date
// selection.
type Slot struct {
	Hour      int    // 8..17
	Time      string // 15:04:05, the value submitted as slot_time
	Available bool
}

// ResolveSlots computes the 10 hourly slots of the operating window for the
// selected ISO date. A slot is unavailable iff some appointment matches the
// slot's (date, hour) exactly after normalization. An empty date yields an
// empty sequence: nothing is offered until the user picks a day.
func ResolveSlots(appointments []models.Appointment, date string) []Slot {
	if date == "" {
		return nil
	}

	booked := make(map[int]bool)
	for _, appt := range appointments {
		apptDate, hour, err := NormalizeAppointment(appt)
		if err != nil {
			// A single stale or malformed record must not block booking.
			continue
		}
		if apptDate == date {
			booked[hour] = true
		}
	}

	slots := make([]Slot, 0, models.SlotsPerDay)
	for hour := models.OpeningHour; hour <= models.ClosingHour; hour++ {
		slots = append(slots, Slot{
			Hour:      hour,
			Time:      fmt.Sprintf("%02d:00:00", hour),
			Available: !booked[hour],
		})
	}
	return slots
}

// NormalizeAppointment reduces an appointment's raw date and time strings to
// a (ISO date, hour) pair. The API is not consistent about shapes: dates may
// carry a time-of-day suffix ("2025-09-12T00:00:00Z"), times may carry a
// date prefix or a timezone ("2025-09-12 09:00:00+03"). Anything that still
// fails to parse is reported as an error and treated by callers as
// "does not match".
func NormalizeAppointment(appt models.Appointment) (string, int, error) {
	date, err := normalizeDate(appt.AppointmentDate)
	if err != nil {
		return "", 0, err
	}
	hour, err := normalizeHour(appt.SlotTime)
	if err != nil {
		return "", 0, err
	}
	return date, hour, nil
}

func normalizeDate(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	// Drop any time-of-day suffix.
	if idx := strings.IndexAny(s, "T "); idx >= 0 {
		s = s[:idx]
	}
	if _, err := time.Parse(models.DateLayout, s); err != nil {
		return "", fmt.Errorf("malformed appointment date %q", raw)
	}
	return s, nil
}

func normalizeHour(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	// Drop a date prefix, if any.
	if idx := strings.LastIndexAny(s, "T "); idx >= 0 {
		s = s[idx+1:]
	}
	// Drop a timezone suffix.
	for _, sep := range []string{"+", "-", "Z", "z"} {
		if idx := strings.Index(s, sep); idx >= 0 {
			s = s[:idx]
		}
	}
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return 0, fmt.Errorf("malformed slot time %q", raw)
	}
	var hour int
	if _, err := fmt.Sscanf(parts[0], "%d", &hour); err != nil {
		return 0, fmt.Errorf("malformed slot time %q", raw)
	}
	if hour < 0 || hour > 23 {
		return 0, fmt.Errorf("slot hour %d out of range", hour)
	}
	return hour, nil
}

// FindSlot returns the resolved slot for the given time string, if the time
// falls inside the operating window.
func FindSlot(slots []Slot, slotTime string) (Slot, bool) {
	for _, s := range slots {
		if s.Time == slotTime {
			return s, true
		}
	}
	return Slot{}, false
}
