package create_appointment

import (
	"time"

	"github.com/dmarques-dev/salon-booking-service/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	CustomerID int64            // ID клиента (из заголовков аутентификации)
	ServiceID  int64            // ID услуги
	Date       time.Time        // Дата записи (без времени)
	StartTime  types.TimeString // Время начала слота (например, "10:00")
}

// Response модель ответа с созданной записью
type Response struct {
	ID              int64            // ID созданной записи
	ServiceID       int64            // ID услуги
	CustomerID      int64            // ID клиента
	AppointmentDate time.Time        // Дата записи
	StartTime       types.TimeString // Время начала
	DurationMinutes int              // Длительность в минутах
	Status          string           // Статус записи

	// Денормализованные данные услуги
	ServiceTitle string // Название услуги на момент записи

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
