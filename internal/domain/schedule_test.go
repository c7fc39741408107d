package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmarques-dev/salon-booking-service/pkg/types"
)

func rng(start, end string) TimeRange {
	return TimeRange{Start: types.TimeString(start), End: types.TimeString(end)}
}

func TestTimeRange_Validate(t *testing.T) {
	tests := []struct {
		name    string
		r       TimeRange
		wantErr error
	}{
		{name: "valid", r: rng("09:00", "18:00")},
		{name: "start equals end", r: rng("09:00", "09:00"), wantErr: ErrInvalidTimeRange},
		{name: "start after end", r: rng("18:00", "09:00"), wantErr: ErrInvalidTimeRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.r.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestWeekSchedule_Validate(t *testing.T) {
	t.Run("valid schedule", func(t *testing.T) {
		s := WeekSchedule{
			Monday: []TimeRange{rng("09:00", "13:00"), rng("14:00", "18:00")},
			Friday: []TimeRange{rng("10:00", "16:00")},
		}
		assert.NoError(t, s.Validate())
	})

	t.Run("touching ranges are allowed", func(t *testing.T) {
		s := WeekSchedule{
			Monday: []TimeRange{rng("09:00", "13:00"), rng("13:00", "18:00")},
		}
		assert.NoError(t, s.Validate())
	})

	t.Run("overlapping ranges rejected", func(t *testing.T) {
		s := WeekSchedule{
			Monday: []TimeRange{rng("09:00", "13:00"), rng("12:30", "18:00")},
		}
		assert.ErrorIs(t, s.Validate(), ErrOverlappingRanges)
	})

	t.Run("overlap detected regardless of order", func(t *testing.T) {
		s := WeekSchedule{
			Tuesday: []TimeRange{rng("14:00", "18:00"), rng("09:00", "15:00")},
		}
		assert.ErrorIs(t, s.Validate(), ErrOverlappingRanges)
	})

	t.Run("invalid range rejected", func(t *testing.T) {
		s := WeekSchedule{
			Sunday: []TimeRange{rng("18:00", "09:00")},
		}
		assert.ErrorIs(t, s.Validate(), ErrInvalidTimeRange)
	})

	t.Run("empty schedule is valid", func(t *testing.T) {
		var s WeekSchedule
		assert.NoError(t, s.Validate())
	})
}

func TestWeekSchedule_Normalize(t *testing.T) {
	s := WeekSchedule{
		Monday: []TimeRange{rng("14:00", "18:00"), rng("09:00", "13:00")},
	}

	s.Normalize()

	require.Len(t, s.Monday, 2)
	assert.Equal(t, types.TimeString("09:00"), s.Monday[0].Start)
	assert.Equal(t, types.TimeString("14:00"), s.Monday[1].Start)
}

func TestWeekSchedule_RangesFor(t *testing.T) {
	s := WeekSchedule{
		Wednesday: []TimeRange{rng("09:00", "18:00")},
	}

	assert.Len(t, s.RangesFor(time.Wednesday), 1)
	assert.Empty(t, s.RangesFor(time.Thursday))
	assert.True(t, s.IsDayActive(time.Wednesday))
	assert.False(t, s.IsDayActive(time.Sunday))
}

func TestWeekSchedule_SetRangesFor(t *testing.T) {
	var s WeekSchedule

	for _, day := range AllWeekdays {
		s.SetRangesFor(day, []TimeRange{rng("08:00", "12:00")})
	}

	for _, day := range AllWeekdays {
		assert.Len(t, s.RangesFor(day), 1, "day %s", day)
	}
}
