package create_appointment

import (
	"fmt"
	"time"

	"github.com/dmarques-dev/salon-booking-service/internal/domain"
	"github.com/dmarques-dev/salon-booking-service/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// Проверяем, что время начала указано
	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	// Валидируем формат времени
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	return nil
}

// validateInstantInFuture проверяет, что момент записи (дата + время начала)
// СТРОГО в будущем. Запись "на сейчас" или на прошедший момент запрещена.
func validateInstantInFuture(date time.Time, startTime types.TimeString, now time.Time) error {
	minutes, err := startTime.TotalMinutes()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// Дата запроса парсится в UTC, поэтому момент строим в локации now,
	// иначе на сервере западнее UTC сегодняшние слоты считались бы прошедшими
	instant := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location()).
		Add(time.Duration(minutes) * time.Minute)

	if !instant.After(now) {
		return ErrSlotInPast
	}

	return nil
}

// generateTimeSlots генерирует множество допустимых времен начала слотов
// по интервалам открытых часов. Логика совпадает с выдачей слотов:
// начало слота должно лежать внутри открытых часов, последний слот
// интервала может заканчиваться позже закрытия.
func generateTimeSlots(ranges []domain.TimeRange, slotDuration int) (map[types.TimeString]bool, error) {
	slots := make(map[types.TimeString]bool)

	for _, rng := range ranges {
		currentSlot := rng.Start

		for currentSlot.IsBefore(rng.End) {
			slots[currentSlot] = true

			next, err := currentSlot.AddMinutes(slotDuration)
			if err != nil {
				return nil, err
			}
			if !next.IsAfter(currentSlot) {
				break
			}
			currentSlot = next
		}
	}

	return slots, nil
}

// findConflict ищет подтвержденную запись, чей момент начала совпадает
// с запрошенным слотом. Совпадение ТОЧНОЕ: записи на соседние времена
// конфликтом не считаются.
func findConflict(startTime types.TimeString, appointments []*domain.Appointment) *domain.Appointment {
	for _, appt := range appointments {
		if !appt.IsConfirmed() {
			continue
		}
		if appt.StartTime == startTime {
			return appt
		}
	}
	return nil
}
