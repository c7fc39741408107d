package events

import (
	"time"

	"github.com/google/uuid"
)

// Типы событий, публикуемых сервисом записи
const (
	TypeBookingCreated  = "booking.created"
	TypeBookingCanceled = "booking.canceled"
)

// Envelope общий конверт события. Сервис публикует только события
// о записях, поэтому полезная нагрузка типизирована.
type Envelope struct {
	EventID    string         `json:"event_id"`
	EventType  string         `json:"event_type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    BookingPayload `json:"payload"`
}

// BookingPayload полезная нагрузка событий о записи
type BookingPayload struct {
	AppointmentID   int64  `json:"appointment_id"`
	ServiceID       int64  `json:"service_id"`
	CustomerID      int64  `json:"customer_id"`
	AppointmentDate string `json:"appointment_date"`
	StartTime       string `json:"start_time"`
}

// NewBookingCreated создает событие о создании записи
func NewBookingCreated(payload BookingPayload, now time.Time) Envelope {
	return newEnvelope(TypeBookingCreated, payload, now)
}

// NewBookingCanceled создает событие об отмене записи
func NewBookingCanceled(payload BookingPayload, now time.Time) Envelope {
	return newEnvelope(TypeBookingCanceled, payload, now)
}

func newEnvelope(eventType string, payload BookingPayload, now time.Time) Envelope {
	return Envelope{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		OccurredAt: now.UTC(),
		Payload:    payload,
	}
}
