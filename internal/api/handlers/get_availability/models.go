package get_availability

import (
	"github.com/dmarques-dev/salon-booking-service/internal/domain"
	getAvailability "github.com/dmarques-dev/salon-booking-service/internal/usecase/get_availability"
)

// SlotResponse HTTP модель временного слота
type SlotResponse struct {
	StartTime       string `json:"startTime"` // "10:00"
	DurationMinutes int    `json:"durationMinutes"`
	Available       bool   `json:"available"`
}

// AvailabilityResponse HTTP модель ответа со слотами на день
type AvailabilityResponse struct {
	ServiceID int64          `json:"serviceId"`
	Date      string         `json:"date"` // "2025-10-15"
	Slots     []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	slots := make([]SlotResponse, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = SlotResponse{
			StartTime:       slot.StartTime.String(),
			DurationMinutes: slot.DurationMinutes,
			Available:       slot.Available,
		}
	}

	return &AvailabilityResponse{
		ServiceID: resp.ServiceID,
		Date:      resp.Date.Format(domain.DateFormat),
		Slots:     slots,
	}
}
