package events

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	EventBookingSubmitted = "booking_submitted"
	EventBookingConfirmed = "booking_confirmed"
	EventBookingFailed    = "booking_failed"
	EventBookingCancelled = "booking_cancelled"
)

// BookingEventPayload describes the booking snapshot for event consumers.
type BookingEventPayload struct {
	UserID        int64  `json:"user_id"`
	AppointmentID int    `json:"appointment_id,omitempty"`
	BarberID      int    `json:"barber_id"`
	BarberName    string `json:"barber_name"`
	CustomerName  string `json:"customer_name"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Date          string `json:"date"`
	SlotTime      string `json:"slot_time"`
	Service       string `json:"service"`
	Status        string `json:"status"`
	Reason        string `json:"reason,omitempty"`
}

// Event represents a lightweight domain event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for booking events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}

// DecodeBookingPayload разбирает полезную нагрузку события бронирования.
func DecodeBookingPayload(event *Event) (*BookingEventPayload, error) {
	var payload BookingEventPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}
