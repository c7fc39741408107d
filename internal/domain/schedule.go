package domain

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dmarques-dev/salon-booking-service/pkg/types"
)

var (
	// ErrInvalidTimeRange возвращается, когда интервал расписания некорректен (start >= end)
	ErrInvalidTimeRange = errors.New("schedule: range start must be before end")

	// ErrOverlappingRanges возвращается, когда интервалы одного дня пересекаются
	ErrOverlappingRanges = errors.New("schedule: ranges within a day must not overlap")
)

// TimeRange один интервал открытых часов в пределах дня, [Start, End)
type TimeRange struct {
	Start types.TimeString
	End   types.TimeString
}

// Validate проверяет формат времени и что Start строго раньше End
func (r TimeRange) Validate() error {
	if err := r.Start.Validate(); err != nil {
		return err
	}
	if err := r.End.Validate(); err != nil {
		return err
	}
	if !r.Start.IsBefore(r.End) {
		return fmt.Errorf("%w: %s >= %s", ErrInvalidTimeRange, r.Start, r.End)
	}
	return nil
}

// WeekSchedule represents the recurring weekly open hours of a service.
// Пустой список интервалов означает, что день выходной.
type WeekSchedule struct {
	Monday    []TimeRange
	Tuesday   []TimeRange
	Wednesday []TimeRange
	Thursday  []TimeRange
	Friday    []TimeRange
	Saturday  []TimeRange
	Sunday    []TimeRange
}

// RangesFor возвращает интервалы открытых часов на указанный день недели
func (s *WeekSchedule) RangesFor(day time.Weekday) []TimeRange {
	switch day {
	case time.Monday:
		return s.Monday
	case time.Tuesday:
		return s.Tuesday
	case time.Wednesday:
		return s.Wednesday
	case time.Thursday:
		return s.Thursday
	case time.Friday:
		return s.Friday
	case time.Saturday:
		return s.Saturday
	case time.Sunday:
		return s.Sunday
	default:
		return nil
	}
}

// SetRangesFor заменяет интервалы указанного дня недели
func (s *WeekSchedule) SetRangesFor(day time.Weekday, ranges []TimeRange) {
	switch day {
	case time.Monday:
		s.Monday = ranges
	case time.Tuesday:
		s.Tuesday = ranges
	case time.Wednesday:
		s.Wednesday = ranges
	case time.Thursday:
		s.Thursday = ranges
	case time.Friday:
		s.Friday = ranges
	case time.Saturday:
		s.Saturday = ranges
	case time.Sunday:
		s.Sunday = ranges
	}
}

// IsDayActive возвращает true, если на день задан хотя бы один интервал
func (s *WeekSchedule) IsDayActive(day time.Weekday) bool {
	return len(s.RangesFor(day)) > 0
}

// Normalize сортирует интервалы каждого дня по времени начала
func (s *WeekSchedule) Normalize() {
	for _, day := range AllWeekdays {
		ranges := s.RangesFor(day)
		sort.Slice(ranges, func(i, j int) bool {
			return ranges[i].Start.IsBefore(ranges[j].Start)
		})
	}
}

// Validate проверяет каждый интервал и отсутствие пересечений в пределах дня.
// Интервалы разных дней независимы. Граничащие интервалы (end == next start)
// пересечением не считаются.
func (s *WeekSchedule) Validate() error {
	for _, day := range AllWeekdays {
		ranges := s.RangesFor(day)

		for _, r := range ranges {
			if err := r.Validate(); err != nil {
				return fmt.Errorf("%s: %w", weekdayName(day), err)
			}
		}

		sorted := make([]TimeRange, len(ranges))
		copy(sorted, ranges)
		sort.Slice(sorted, func(i, j int) bool {
			return sorted[i].Start.IsBefore(sorted[j].Start)
		})

		for i := 1; i < len(sorted); i++ {
			if sorted[i].Start.IsBefore(sorted[i-1].End) {
				return fmt.Errorf("%s: %w: %s-%s overlaps %s-%s",
					weekdayName(day), ErrOverlappingRanges,
					sorted[i-1].Start, sorted[i-1].End, sorted[i].Start, sorted[i].End)
			}
		}
	}
	return nil
}

// AllWeekdays дни недели в порядке, используемом расписанием
var AllWeekdays = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
	time.Sunday,
}

func weekdayName(day time.Weekday) string {
	return day.String()
}
