package models

import "time"

// BookingRequest is the transient payload submitted to reserve a slot.
// It is built once from the conversation draft and discarded after the
// submission finishes, success or failure.
type BookingRequest struct {
	BarberID   int
	BarberName string
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	Date       string // ISO calendar day, 2006-01-02
	SlotTime   string // hour-granular time of day, 15:04:05
	Service    string
}

// CustomerName concatenates first and last name the way the API expects.
func (r BookingRequest) CustomerName() string {
	return r.FirstName + " " + r.LastName
}

// Receipt is the bot's local record of a submitted appointment. The API owns
// the booking itself; receipts exist so the user can list, cancel and export
// their appointments without re-entering ids from the confirmation email.
type Receipt struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	AppointmentID int       `json:"appointment_id"`
	BarberID      int       `json:"barber_id"`
	BarberName    string    `json:"barber_name"`
	CustomerName  string    `json:"customer_name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Date          string    `json:"date"`
	SlotTime      string    `json:"slot_time"`
	Service       string    `json:"service"`
	Status        string    `json:"status"` // confirmed, cancelled
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
