package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmarques-dev/salon-booking-service/internal/domain"
	"github.com/dmarques-dev/salon-booking-service/internal/events"
	appointmentRepo "github.com/dmarques-dev/salon-booking-service/internal/infra/storage/appointment"
	scheduleRepo "github.com/dmarques-dev/salon-booking-service/internal/infra/storage/schedule"
	"github.com/dmarques-dev/salon-booking-service/internal/integrations/catalogservice"
	"github.com/dmarques-dev/salon-booking-service/pkg/types"
)

type fakeLogger struct{}

func (fakeLogger) Info(string, ...interface{})  {}
func (fakeLogger) Warn(string, ...interface{})  {}
func (fakeLogger) Error(string, ...interface{}) {}

type fakeTimeProvider struct {
	now time.Time
}

func (p *fakeTimeProvider) Now() time.Time { return p.now }

// slotKey идентифицирует слот в пределах услуги и даты
type slotKey struct {
	serviceID int64
	date      string
	startTime types.TimeString
}

// memoryAppointmentRepo хранит записи в памяти и воспроизводит
// поведение частичного уникального индекса по подтвержденным слотам
type memoryAppointmentRepo struct {
	mu           sync.Mutex
	nextID       int64
	appointments []*domain.Appointment
	createErr    error
}

func (r *memoryAppointmentRepo) Create(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return nil, r.createErr
	}

	key := slotKey{a.ServiceID, a.AppointmentDate.Format(domain.DateFormat), a.StartTime}
	for _, existing := range r.appointments {
		existingKey := slotKey{existing.ServiceID, existing.AppointmentDate.Format(domain.DateFormat), existing.StartTime}
		if existing.IsConfirmed() && existingKey == key {
			return nil, fmt.Errorf("%w: duplicate slot", appointmentRepo.ErrSlotTaken)
		}
	}

	r.nextID++
	created := *a
	created.ID = r.nextID
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	r.appointments = append(r.appointments, &created)
	return &created, nil
}

func (r *memoryAppointmentRepo) GetByServiceWithFilter(_ context.Context, filter domain.ServiceAppointmentsFilter) ([]*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]*domain.Appointment, 0)
	for _, a := range r.appointments {
		if a.ServiceID != filter.ServiceID {
			continue
		}
		if filter.Date != nil && !a.AppointmentDate.Equal(*filter.Date) {
			continue
		}
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

// serializedTxManager сериализует транзакции мьютексом, имитируя
// уровень изоляции SERIALIZABLE
type serializedTxManager struct {
	mu sync.Mutex
}

func (m *serializedTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

type capturingPublisher struct {
	mu     sync.Mutex
	events []events.Envelope
	err    error
}

func (p *capturingPublisher) Publish(_ context.Context, event events.Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

// Среда, 15 октября 2025
var wednesday = time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)

func testSchedule() *domain.WeekSchedule {
	return &domain.WeekSchedule{
		Wednesday: []domain.TimeRange{{Start: "09:00", End: "18:00"}},
	}
}

type fixture struct {
	uc        *UseCase
	repo      *memoryAppointmentRepo
	publisher *capturingPublisher
}

func newFixture(repo *memoryAppointmentRepo, schedules *fakeScheduleRepo, catalog *fakeCatalogClient, now time.Time) *fixture {
	publisher := &capturingPublisher{}
	uc := NewUseCase(repo, schedules, catalog, &serializedTxManager{}, publisher, 60, fakeLogger{})
	uc.timeProvider = &fakeTimeProvider{now: now}
	return &fixture{uc: uc, repo: repo, publisher: publisher}
}

func validRequest() *Request {
	return &Request{
		CustomerID: 42,
		ServiceID:  1,
		Date:       wednesday,
		StartTime:  "10:00",
	}
}

func publishedService() *catalogservice.Service {
	return &catalogservice.Service{ID: 1, Title: "Стрижка", Published: true}
}

func TestUseCase_Execute(t *testing.T) {
	dayBefore := wednesday.AddDate(0, 0, -1)

	t.Run("creates confirmed appointment and publishes event", func(t *testing.T) {
		f := newFixture(&memoryAppointmentRepo{}, &fakeScheduleRepo{schedule: testSchedule()},
			&fakeCatalogClient{service: publishedService()}, dayBefore)

		resp, err := f.uc.Execute(context.Background(), validRequest())
		require.NoError(t, err)

		assert.Equal(t, int64(1), resp.ID)
		assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
		assert.Equal(t, "Стрижка", resp.ServiceTitle)
		assert.Equal(t, 60, resp.DurationMinutes)

		require.Len(t, f.publisher.events, 1)
		event := f.publisher.events[0]
		assert.Equal(t, events.TypeBookingCreated, event.EventType)
		assert.Equal(t, int64(1), event.Payload.AppointmentID)
		assert.Equal(t, "10:00", event.Payload.StartTime)
		assert.NotEmpty(t, event.EventID)
	})

	t.Run("publish failure does not fail the request", func(t *testing.T) {
		f := newFixture(&memoryAppointmentRepo{}, &fakeScheduleRepo{schedule: testSchedule()},
			&fakeCatalogClient{service: publishedService()}, dayBefore)
		f.publisher.err = errors.New("broker unavailable")

		resp, err := f.uc.Execute(context.Background(), validRequest())
		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	})

	t.Run("service not found", func(t *testing.T) {
		f := newFixture(&memoryAppointmentRepo{}, &fakeScheduleRepo{schedule: testSchedule()},
			&fakeCatalogClient{err: catalogservice.ErrServiceNotFound}, dayBefore)

		_, err := f.uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrServiceNotFound)
	})

	t.Run("unpublished service rejected", func(t *testing.T) {
		f := newFixture(&memoryAppointmentRepo{}, &fakeScheduleRepo{schedule: testSchedule()},
			&fakeCatalogClient{service: &catalogservice.Service{ID: 1, Published: false}}, dayBefore)

		_, err := f.uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrServiceNotPublished)
	})

	t.Run("slot in the past rejected", func(t *testing.T) {
		f := newFixture(&memoryAppointmentRepo{}, &fakeScheduleRepo{schedule: testSchedule()},
			&fakeCatalogClient{service: publishedService()}, wednesday.Add(12*time.Hour))

		_, err := f.uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrSlotInPast)
	})

	t.Run("same-day slot on a server west of UTC accepted", func(t *testing.T) {
		// Дата запроса в UTC, сервер в UTC-7: сегодняшний будущий слот
		// не должен считаться прошедшим
		pacific := time.FixedZone("PDT", -7*60*60)
		now := time.Date(2025, 10, 15, 8, 0, 0, 0, pacific)
		f := newFixture(&memoryAppointmentRepo{}, &fakeScheduleRepo{schedule: testSchedule()},
			&fakeCatalogClient{service: publishedService()}, now)

		resp, err := f.uc.Execute(context.Background(), validRequest())
		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	})

	t.Run("slot exactly at current instant rejected", func(t *testing.T) {
		f := newFixture(&memoryAppointmentRepo{}, &fakeScheduleRepo{schedule: testSchedule()},
			&fakeCatalogClient{service: publishedService()}, wednesday.Add(10*time.Hour))

		_, err := f.uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrSlotInPast)
	})

	t.Run("misaligned time rejected", func(t *testing.T) {
		f := newFixture(&memoryAppointmentRepo{}, &fakeScheduleRepo{schedule: testSchedule()},
			&fakeCatalogClient{service: publishedService()}, dayBefore)

		req := validRequest()
		req.StartTime = "10:30"
		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrSlotNotAvailable)
	})

	t.Run("time outside working hours rejected", func(t *testing.T) {
		f := newFixture(&memoryAppointmentRepo{}, &fakeScheduleRepo{schedule: testSchedule()},
			&fakeCatalogClient{service: publishedService()}, dayBefore)

		req := validRequest()
		req.StartTime = "19:00"
		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrSlotNotAvailable)
	})

	t.Run("closed day rejected", func(t *testing.T) {
		f := newFixture(&memoryAppointmentRepo{}, &fakeScheduleRepo{schedule: testSchedule()},
			&fakeCatalogClient{service: publishedService()}, dayBefore)

		req := validRequest()
		req.Date = wednesday.AddDate(0, 0, 1) // четверг закрыт
		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrSlotNotAvailable)
	})

	t.Run("service without schedule rejected", func(t *testing.T) {
		f := newFixture(&memoryAppointmentRepo{}, &fakeScheduleRepo{err: scheduleRepo.ErrScheduleNotFound},
			&fakeCatalogClient{service: publishedService()}, dayBefore)

		_, err := f.uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrSlotNotAvailable)
	})

	t.Run("taken slot rejected", func(t *testing.T) {
		repo := &memoryAppointmentRepo{}
		f := newFixture(repo, &fakeScheduleRepo{schedule: testSchedule()},
			&fakeCatalogClient{service: publishedService()}, dayBefore)

		_, err := f.uc.Execute(context.Background(), validRequest())
		require.NoError(t, err)

		req := validRequest()
		req.CustomerID = 99
		_, err = f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrSlotTaken)
	})

	t.Run("canceled appointment frees the slot", func(t *testing.T) {
		repo := &memoryAppointmentRepo{
			nextID: 1,
			appointments: []*domain.Appointment{
				{ID: 1, ServiceID: 1, CustomerID: 7, AppointmentDate: wednesday, StartTime: "10:00", Status: domain.StatusCanceled},
			},
		}
		f := newFixture(repo, &fakeScheduleRepo{schedule: testSchedule()},
			&fakeCatalogClient{service: publishedService()}, dayBefore)

		resp, err := f.uc.Execute(context.Background(), validRequest())
		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	})

	t.Run("unique index violation reported as taken slot", func(t *testing.T) {
		repo := &memoryAppointmentRepo{createErr: fmt.Errorf("%w: duplicate", appointmentRepo.ErrSlotTaken)}
		f := newFixture(repo, &fakeScheduleRepo{schedule: testSchedule()},
			&fakeCatalogClient{service: publishedService()}, dayBefore)

		_, err := f.uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrSlotTaken)
	})

	t.Run("invalid input", func(t *testing.T) {
		f := newFixture(&memoryAppointmentRepo{}, &fakeScheduleRepo{schedule: testSchedule()},
			&fakeCatalogClient{service: publishedService()}, dayBefore)

		req := validRequest()
		req.ServiceID = 0
		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestUseCase_Execute_ConcurrentSameSlot(t *testing.T) {
	const workers = 10

	repo := &memoryAppointmentRepo{}
	f := newFixture(repo, &fakeScheduleRepo{schedule: testSchedule()},
		&fakeCatalogClient{service: publishedService()}, wednesday.AddDate(0, 0, -1))

	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := validRequest()
			req.CustomerID = int64(100 + i)
			_, errs[i] = f.uc.Execute(context.Background(), req)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrSlotTaken)
	}
	assert.Equal(t, 1, succeeded)

	appointments, err := repo.GetByServiceWithFilter(context.Background(), domain.ServiceAppointmentsFilter{ServiceID: 1})
	require.NoError(t, err)
	assert.Len(t, appointments, 1)
}
