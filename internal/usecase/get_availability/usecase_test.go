package get_availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmarques-dev/salon-booking-service/internal/domain"
	scheduleRepo "github.com/dmarques-dev/salon-booking-service/internal/infra/storage/schedule"
	"github.com/dmarques-dev/salon-booking-service/internal/integrations/catalogservice"
)

type fakeLogger struct{}

func (fakeLogger) Info(string, ...interface{})  {}
func (fakeLogger) Warn(string, ...interface{})  {}
func (fakeLogger) Error(string, ...interface{}) {}

type fakeTimeProvider struct {
	now time.Time
}

func (p *fakeTimeProvider) Now() time.Time { return p.now }

type fakeAppointmentRepo struct {
	appointments []*domain.Appointment
	err          error
}

func (r *fakeAppointmentRepo) GetByServiceWithFilter(_ context.Context, filter domain.ServiceAppointmentsFilter) ([]*domain.Appointment, error) {
	if r.err != nil {
		return nil, r.err
	}

	result := make([]*domain.Appointment, 0)
	for _, a := range r.appointments {
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

type fakeScheduleRepo struct {
	schedule *domain.WeekSchedule
	err      error
}

func (r *fakeScheduleRepo) GetByServiceID(context.Context, int64) (*domain.WeekSchedule, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.schedule, nil
}

type fakeCatalogClient struct {
	service *catalogservice.Service
	err     error
}

func (c *fakeCatalogClient) GetService(context.Context, int64) (*catalogservice.Service, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.service, nil
}

func publishedService(id int64) *catalogservice.Service {
	return &catalogservice.Service{ID: id, Title: "Стрижка", Published: true}
}

// Среда, 15 октября 2025
var wednesday = time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)

func newTestUseCase(
	appointments *fakeAppointmentRepo,
	schedules *fakeScheduleRepo,
	catalog *fakeCatalogClient,
	now time.Time,
) *UseCase {
	uc := NewUseCase(appointments, schedules, catalog, 60, fakeLogger{})
	uc.timeProvider = &fakeTimeProvider{now: now}
	return uc
}

func TestUseCase_Execute(t *testing.T) {
	schedule := &domain.WeekSchedule{
		Wednesday: []domain.TimeRange{rng("09:00", "12:00")},
	}

	t.Run("returns day slots with booked ones tagged", func(t *testing.T) {
		appointments := &fakeAppointmentRepo{
			appointments: []*domain.Appointment{
				{ServiceID: 1, AppointmentDate: wednesday, StartTime: "10:00", Status: domain.StatusConfirmed},
			},
		}
		uc := newTestUseCase(
			appointments,
			&fakeScheduleRepo{schedule: schedule},
			&fakeCatalogClient{service: publishedService(1)},
			wednesday.AddDate(0, 0, -1),
		)

		resp, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: wednesday})
		require.NoError(t, err)

		require.Len(t, resp.Slots, 3)
		assert.Equal(t, Slot{StartTime: "09:00", DurationMinutes: 60, Available: true}, resp.Slots[0])
		assert.Equal(t, Slot{StartTime: "10:00", DurationMinutes: 60, Available: false}, resp.Slots[1])
		assert.Equal(t, Slot{StartTime: "11:00", DurationMinutes: 60, Available: true}, resp.Slots[2])
	})

	t.Run("canceled appointment frees the slot", func(t *testing.T) {
		appointments := &fakeAppointmentRepo{
			appointments: []*domain.Appointment{
				{ServiceID: 1, AppointmentDate: wednesday, StartTime: "10:00", Status: domain.StatusCanceled},
			},
		}
		uc := newTestUseCase(
			appointments,
			&fakeScheduleRepo{schedule: schedule},
			&fakeCatalogClient{service: publishedService(1)},
			wednesday.AddDate(0, 0, -1),
		)

		resp, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: wednesday})
		require.NoError(t, err)

		for _, slot := range resp.Slots {
			assert.True(t, slot.Available, "slot %s", slot.StartTime)
		}
	})

	t.Run("closed day returns empty list", func(t *testing.T) {
		uc := newTestUseCase(
			&fakeAppointmentRepo{},
			&fakeScheduleRepo{schedule: schedule},
			&fakeCatalogClient{service: publishedService(1)},
			wednesday.AddDate(0, 0, -1),
		)

		// Четверг в расписании отсутствует
		thursday := wednesday.AddDate(0, 0, 1)
		resp, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: thursday})
		require.NoError(t, err)
		assert.Empty(t, resp.Slots)
	})

	t.Run("service without schedule returns empty list", func(t *testing.T) {
		uc := newTestUseCase(
			&fakeAppointmentRepo{},
			&fakeScheduleRepo{err: scheduleRepo.ErrScheduleNotFound},
			&fakeCatalogClient{service: publishedService(1)},
			wednesday.AddDate(0, 0, -1),
		)

		resp, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: wednesday})
		require.NoError(t, err)
		assert.Empty(t, resp.Slots)
	})

	t.Run("past date returns empty list", func(t *testing.T) {
		uc := newTestUseCase(
			&fakeAppointmentRepo{},
			&fakeScheduleRepo{schedule: schedule},
			&fakeCatalogClient{service: publishedService(1)},
			wednesday.AddDate(0, 0, 7),
		)

		resp, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: wednesday})
		require.NoError(t, err)
		assert.Empty(t, resp.Slots)
	})

	t.Run("today keeps only strictly future slots", func(t *testing.T) {
		uc := newTestUseCase(
			&fakeAppointmentRepo{},
			&fakeScheduleRepo{schedule: schedule},
			&fakeCatalogClient{service: publishedService(1)},
			wednesday.Add(10*time.Hour), // сегодня 10:00
		)

		resp, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: wednesday})
		require.NoError(t, err)

		require.Len(t, resp.Slots, 1)
		assert.Equal(t, "11:00", resp.Slots[0].StartTime.String())
	})

	t.Run("service not found", func(t *testing.T) {
		uc := newTestUseCase(
			&fakeAppointmentRepo{},
			&fakeScheduleRepo{schedule: schedule},
			&fakeCatalogClient{err: catalogservice.ErrServiceNotFound},
			wednesday,
		)

		_, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: wednesday})
		assert.ErrorIs(t, err, ErrServiceNotFound)
	})

	t.Run("unpublished service rejected", func(t *testing.T) {
		uc := newTestUseCase(
			&fakeAppointmentRepo{},
			&fakeScheduleRepo{schedule: schedule},
			&fakeCatalogClient{service: &catalogservice.Service{ID: 1, Published: false}},
			wednesday,
		)

		_, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: wednesday})
		assert.ErrorIs(t, err, ErrServiceNotPublished)
	})

	t.Run("invalid input", func(t *testing.T) {
		uc := newTestUseCase(
			&fakeAppointmentRepo{},
			&fakeScheduleRepo{schedule: schedule},
			&fakeCatalogClient{service: publishedService(1)},
			wednesday,
		)

		_, err := uc.Execute(context.Background(), &Request{ServiceID: 0, Date: wednesday})
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, err = uc.Execute(context.Background(), &Request{ServiceID: 1})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("repository failure wrapped as internal", func(t *testing.T) {
		uc := newTestUseCase(
			&fakeAppointmentRepo{err: errors.New("connection refused")},
			&fakeScheduleRepo{schedule: schedule},
			&fakeCatalogClient{service: publishedService(1)},
			wednesday.AddDate(0, 0, -1),
		)

		_, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: wednesday})
		assert.ErrorIs(t, err, ErrInternal)
	})
}
