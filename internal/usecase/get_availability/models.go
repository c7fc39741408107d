package get_availability

import (
	"time"

	"github.com/dmarques-dev/salon-booking-service/internal/domain"
)

// Request модель запроса на получение слотов услуги
type Request struct {
	ServiceID int64     // ID услуги
	Date      time.Time // Дата, на которую запрашиваются слоты (без времени)
}

// Response модель ответа со списком слотов на день
type Response struct {
	ServiceID int64     // ID услуги
	Date      time.Time // Дата, на которую запрашивались слоты
	Slots     []Slot    // Список слотов дня, включая занятые
}

// Slot временной слот дня, см. domain.Slot
type Slot = domain.Slot
