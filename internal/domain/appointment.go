package domain

import (
	"time"

	"github.com/dmarques-dev/salon-booking-service/pkg/types"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusConfirmed AppointmentStatus = "CONFIRMED"
	StatusCompleted AppointmentStatus = "COMPLETED"
	StatusCanceled  AppointmentStatus = "CANCELED"
)

// IsValid returns true if the status is one of the known statuses
func (s AppointmentStatus) IsValid() bool {
	return s == StatusConfirmed || s == StatusCompleted || s == StatusCanceled
}

// IsTerminal returns true for statuses that allow no further transitions
func (s AppointmentStatus) IsTerminal() bool {
	for _, terminal := range TerminalStatuses {
		if s == terminal {
			return true
		}
	}
	return false
}

// Appointment represents one reservation of a service slot
type Appointment struct {
	ID         int64
	ServiceID  int64
	CustomerID int64

	// AppointmentDate календарная дата, StartTime время начала слота.
	// Вместе образуют момент бронирования с точностью до минуты.
	AppointmentDate time.Time
	StartTime       types.TimeString

	Status AppointmentStatus

	// Denormalized for history views
	ServiceTitle string

	CanceledAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsConfirmed returns true if the appointment is still active
func (a *Appointment) IsConfirmed() bool {
	return a.Status == StatusConfirmed
}

// CanTransitionTo returns true if the lifecycle allows moving to target.
// Допустимы только CONFIRMED -> COMPLETED и CONFIRMED -> CANCELED.
func (a *Appointment) CanTransitionTo(target AppointmentStatus) bool {
	if a.Status != StatusConfirmed {
		return false
	}
	return target == StatusCompleted || target == StatusCanceled
}

// Instant returns the exact moment of the appointment (date + start time)
func (a *Appointment) Instant() time.Time {
	minutes, err := a.StartTime.TotalMinutes()
	if err != nil {
		minutes = 0
	}
	d := a.AppointmentDate
	return time.Date(d.Year(), d.Month(), d.Day(), minutes/60, minutes%60, 0, 0, d.Location())
}

// IsPast returns true if the appointment instant is not after now
func (a *Appointment) IsPast(now time.Time) bool {
	return !a.Instant().After(now)
}

// ServiceAppointmentsFilter фильтр для получения бронирований услуги
type ServiceAppointmentsFilter struct {
	ServiceID int64              // Обязательный параметр
	Date      *time.Time         // Фильтр по дате (опционально)
	Status    *AppointmentStatus // Фильтр по статусу (опционально)
}
