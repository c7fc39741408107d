package get_availability

import (
	"time"

	"github.com/dmarques-dev/salon-booking-service/internal/domain"
	"github.com/dmarques-dev/salon-booking-service/pkg/types"
)

// generateTimeSlots генерирует список всех временных слотов дня по интервалам
// открытых часов. Слоты идут с фиксированным шагом slotDuration от начала
// каждого интервала.
//
// Слот попадает в выдачу, если его НАЧАЛО лежит внутри открытых часов:
// последний слот интервала может заканчиваться позже закрытия. Так услуга
// с часами 10:00-17:30 и шагом 60 минут отдает слоты 10:00..17:00.
func generateTimeSlots(ranges []domain.TimeRange, slotDuration int) ([]types.TimeString, error) {
	allSlots := make([]types.TimeString, 0)

	for _, rng := range ranges {
		currentSlot := rng.Start

		for currentSlot.IsBefore(rng.End) {
			allSlots = append(allSlots, currentSlot)

			next, err := currentSlot.AddMinutes(slotDuration)
			if err != nil {
				return nil, err
			}
			// AddMinutes обрезает результат на границе суток - выходим,
			// чтобы не зациклиться на 23:59
			if !next.IsAfter(currentSlot) {
				break
			}
			currentSlot = next
		}
	}

	return allSlots, nil
}

// filterPastSlots убирает слоты, которые уже нельзя забронировать.
// Для прошедших дат возвращает пустой список, для будущих - все слоты.
// Для сегодняшнего дня остаются только слоты, начинающиеся СТРОГО позже
// текущего момента: слот ровно "сейчас" забронировать уже нельзя.
func filterPastSlots(slots []types.TimeString, requestDate time.Time, now time.Time) []types.TimeString {
	if isDateInPast(requestDate, now) {
		return []types.TimeString{}
	}

	if !isSameDay(requestDate, now) {
		return slots
	}

	currentTime := types.NewTimeString(now)

	futureSlots := make([]types.TimeString, 0, len(slots))
	for _, slot := range slots {
		if slot.IsAfter(currentTime) {
			futureSlots = append(futureSlots, slot)
		}
	}

	return futureSlots
}

// buildSlots размечает доступность слотов по подтвержденным записям.
// Слот занят, только если момент его начала СОВПАДАЕТ с моментом начала
// подтвержденной записи - записи на соседние времена слот не блокируют.
func buildSlots(starts []types.TimeString, slotDuration int, appointments []*domain.Appointment) []Slot {
	booked := make(map[types.TimeString]bool, len(appointments))
	for _, appt := range appointments {
		// Пропускаем отмененные и завершенные записи
		if !appt.IsConfirmed() {
			continue
		}
		booked[appt.StartTime] = true
	}

	result := make([]Slot, len(starts))
	for i, start := range starts {
		result[i] = Slot{
			StartTime:       start,
			DurationMinutes: slotDuration,
			Available:       !booked[start],
		}
	}

	return result
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня).
// Сравниваются календарные компоненты: дата запроса парсится в UTC,
// а now приходит в локации сервера, сравнение моментов здесь некорректно.
func isDateInPast(date, now time.Time) bool {
	y1, m1, d1 := date.Date()
	y2, m2, d2 := now.Date()
	if y1 != y2 {
		return y1 < y2
	}
	if m1 != m2 {
		return m1 < m2
	}
	return d1 < d2
}
