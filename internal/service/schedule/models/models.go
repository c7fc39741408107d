package models

import (
	"time"

	"github.com/dmarques-dev/salon-booking-service/internal/domain"
	"github.com/dmarques-dev/salon-booking-service/pkg/types"
)

// Request модели

// TimeRangeDTO интервал открытых часов в формате "HH:MM"
type TimeRangeDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// UpdateScheduleRequest запрос на замену недельного расписания услуги
// Расписание заменяется целиком: отсутствующий или пустой день означает,
// что в этот день услуга не принимает записи
type UpdateScheduleRequest struct {
	Monday    []TimeRangeDTO `json:"monday,omitempty"`
	Tuesday   []TimeRangeDTO `json:"tuesday,omitempty"`
	Wednesday []TimeRangeDTO `json:"wednesday,omitempty"`
	Thursday  []TimeRangeDTO `json:"thursday,omitempty"`
	Friday    []TimeRangeDTO `json:"friday,omitempty"`
	Saturday  []TimeRangeDTO `json:"saturday,omitempty"`
	Sunday    []TimeRangeDTO `json:"sunday,omitempty"`
}

// ToDomainSchedule конвертирует request в domain модель
func (r *UpdateScheduleRequest) ToDomainSchedule() (*domain.WeekSchedule, error) {
	var schedule domain.WeekSchedule

	days := []struct {
		weekday time.Weekday
		ranges  []TimeRangeDTO
	}{
		{time.Monday, r.Monday},
		{time.Tuesday, r.Tuesday},
		{time.Wednesday, r.Wednesday},
		{time.Thursday, r.Thursday},
		{time.Friday, r.Friday},
		{time.Saturday, r.Saturday},
		{time.Sunday, r.Sunday},
	}

	for _, day := range days {
		ranges := make([]domain.TimeRange, 0, len(day.ranges))
		for _, dto := range day.ranges {
			start, err := types.NewTimeStringFromString(dto.Start)
			if err != nil {
				return nil, err
			}
			end, err := types.NewTimeStringFromString(dto.End)
			if err != nil {
				return nil, err
			}
			ranges = append(ranges, domain.TimeRange{Start: start, End: end})
		}
		schedule.SetRangesFor(day.weekday, ranges)
	}

	return &schedule, nil
}

// Response модели

// ScheduleResponse ответ с недельным расписанием услуги
type ScheduleResponse struct {
	ServiceID int64          `json:"serviceId"`
	Monday    []TimeRangeDTO `json:"monday"`
	Tuesday   []TimeRangeDTO `json:"tuesday"`
	Wednesday []TimeRangeDTO `json:"wednesday"`
	Thursday  []TimeRangeDTO `json:"thursday"`
	Friday    []TimeRangeDTO `json:"friday"`
	Saturday  []TimeRangeDTO `json:"saturday"`
	Sunday    []TimeRangeDTO `json:"sunday"`
}

// FromDomainSchedule конвертирует domain модель в DTO
func FromDomainSchedule(serviceID int64, s *domain.WeekSchedule) *ScheduleResponse {
	if s == nil {
		return nil
	}

	toDTO := func(ranges []domain.TimeRange) []TimeRangeDTO {
		result := make([]TimeRangeDTO, len(ranges))
		for i, rng := range ranges {
			result[i] = TimeRangeDTO{
				Start: rng.Start.String(),
				End:   rng.End.String(),
			}
		}
		return result
	}

	return &ScheduleResponse{
		ServiceID: serviceID,
		Monday:    toDTO(s.RangesFor(time.Monday)),
		Tuesday:   toDTO(s.RangesFor(time.Tuesday)),
		Wednesday: toDTO(s.RangesFor(time.Wednesday)),
		Thursday:  toDTO(s.RangesFor(time.Thursday)),
		Friday:    toDTO(s.RangesFor(time.Friday)),
		Saturday:  toDTO(s.RangesFor(time.Saturday)),
		Sunday:    toDTO(s.RangesFor(time.Sunday)),
	}
}
