package get_availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmarques-dev/salon-booking-service/internal/domain"
	"github.com/dmarques-dev/salon-booking-service/pkg/types"
)

func rng(start, end string) domain.TimeRange {
	return domain.TimeRange{Start: types.TimeString(start), End: types.TimeString(end)}
}

func starts(slots []types.TimeString) []string {
	result := make([]string, len(slots))
	for i, s := range slots {
		result[i] = s.String()
	}
	return result
}

func TestGenerateTimeSlots(t *testing.T) {
	tests := []struct {
		name         string
		ranges       []domain.TimeRange
		slotDuration int
		want         []string
	}{
		{
			name:         "full day with hour step",
			ranges:       []domain.TimeRange{rng("09:00", "12:00")},
			slotDuration: 60,
			want:         []string{"09:00", "10:00", "11:00"},
		},
		{
			name:         "trailing partial slot kept",
			ranges:       []domain.TimeRange{rng("10:00", "17:30")},
			slotDuration: 60,
			// Слот 17:00 начинается до закрытия, хотя заканчивается в 18:00
			want: []string{"10:00", "11:00", "12:00", "13:00", "14:00", "15:00", "16:00", "17:00"},
		},
		{
			name:         "range shorter than slot still yields one slot",
			ranges:       []domain.TimeRange{rng("09:00", "09:30")},
			slotDuration: 60,
			want:         []string{"09:00"},
		},
		{
			name: "multiple ranges with lunch break",
			ranges: []domain.TimeRange{
				rng("09:00", "12:00"),
				rng("14:00", "16:00"),
			},
			slotDuration: 60,
			want:         []string{"09:00", "10:00", "11:00", "14:00", "15:00"},
		},
		{
			name:         "thirty minute step",
			ranges:       []domain.TimeRange{rng("10:00", "11:30")},
			slotDuration: 30,
			want:         []string{"10:00", "10:30", "11:00"},
		},
		{
			name:         "no ranges",
			ranges:       nil,
			slotDuration: 60,
			want:         []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := generateTimeSlots(tt.ranges, tt.slotDuration)
			require.NoError(t, err)
			assert.Equal(t, tt.want, starts(got))
		})
	}
}

func TestGenerateTimeSlots_EndOfDay(t *testing.T) {
	// AddMinutes обрезает результат на 23:59 - генерация должна завершиться
	got, err := generateTimeSlots([]domain.TimeRange{rng("23:00", "23:59")}, 60)
	require.NoError(t, err)
	assert.Equal(t, []string{"23:00"}, starts(got))
}

func TestFilterPastSlots(t *testing.T) {
	slots := []types.TimeString{"09:00", "10:00", "11:00", "12:00"}

	t.Run("past date returns nothing", func(t *testing.T) {
		requestDate := time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC)
		now := time.Date(2025, 10, 15, 8, 0, 0, 0, time.UTC)

		got := filterPastSlots(slots, requestDate, now)
		assert.Empty(t, got)
	})

	t.Run("future date returns all slots", func(t *testing.T) {
		requestDate := time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC)
		now := time.Date(2025, 10, 15, 23, 0, 0, 0, time.UTC)

		got := filterPastSlots(slots, requestDate, now)
		assert.Equal(t, slots, got)
	})

	t.Run("today keeps only strictly future slots", func(t *testing.T) {
		requestDate := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
		now := time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)

		got := filterPastSlots(slots, requestDate, now)
		// Слот ровно "сейчас" (10:00) исключается
		assert.Equal(t, []string{"11:00", "12:00"}, starts(got))
	})

	t.Run("today with time between slots", func(t *testing.T) {
		requestDate := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
		now := time.Date(2025, 10, 15, 10, 30, 0, 0, time.UTC)

		got := filterPastSlots(slots, requestDate, now)
		assert.Equal(t, []string{"11:00", "12:00"}, starts(got))
	})

	// Дата запроса парсится в UTC, а now приходит в локации сервера:
	// сравниваться должны календарные даты, а не моменты
	t.Run("today on a server west of UTC is not past", func(t *testing.T) {
		requestDate := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
		pacific := time.FixedZone("PDT", -7*60*60)
		now := time.Date(2025, 10, 15, 8, 30, 0, 0, pacific)

		got := filterPastSlots(slots, requestDate, now)
		assert.Equal(t, []string{"09:00", "10:00", "11:00", "12:00"}, starts(got))
	})

	t.Run("yesterday on a server east of UTC is past", func(t *testing.T) {
		requestDate := time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC)
		moscow := time.FixedZone("MSK", 3*60*60)
		now := time.Date(2025, 10, 15, 1, 0, 0, 0, moscow)

		got := filterPastSlots(slots, requestDate, now)
		assert.Empty(t, got)
	})
}

func TestBuildSlots(t *testing.T) {
	slotStarts := []types.TimeString{"09:00", "10:00", "11:00"}

	appointments := []*domain.Appointment{
		{StartTime: "10:00", Status: domain.StatusConfirmed},
		{StartTime: "11:00", Status: domain.StatusCanceled},
	}

	got := buildSlots(slotStarts, 60, appointments)

	require.Len(t, got, 3)
	assert.Equal(t, Slot{StartTime: "09:00", DurationMinutes: 60, Available: true}, got[0])
	// Подтвержденная запись делает слот занятым
	assert.Equal(t, Slot{StartTime: "10:00", DurationMinutes: 60, Available: false}, got[1])
	// Отмененная запись слот не блокирует
	assert.Equal(t, Slot{StartTime: "11:00", DurationMinutes: 60, Available: true}, got[2])
}
