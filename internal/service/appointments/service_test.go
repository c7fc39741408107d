package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmarques-dev/salon-booking-service/internal/domain"
	"github.com/dmarques-dev/salon-booking-service/internal/events"
	appointmentRepo "github.com/dmarques-dev/salon-booking-service/internal/infra/storage/appointment"
	"github.com/dmarques-dev/salon-booking-service/internal/service/appointments/models"
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
	appointments map[int64]*domain.Appointment
	cancelErr    error
	completeErr  error
}

func newFakeRepo(appointments ...*domain.Appointment) *fakeAppointmentRepo {
	r := &fakeAppointmentRepo{appointments: make(map[int64]*domain.Appointment)}
	for _, a := range appointments {
		copied := *a
		r.appointments[a.ID] = &copied
	}
	return r
}

func (r *fakeAppointmentRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	a, ok := r.appointments[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *fakeAppointmentRepo) GetByCustomerID(_ context.Context, customerID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	result := make([]*domain.Appointment, 0)
	for _, a := range r.appointments {
		if a.CustomerID != customerID {
			continue
		}
		if status != nil && a.Status != *status {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

func (r *fakeAppointmentRepo) GetByServiceWithFilter(_ context.Context, filter domain.ServiceAppointmentsFilter) ([]*domain.Appointment, error) {
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

func (r *fakeAppointmentRepo) Cancel(_ context.Context, id int64) error {
	if r.cancelErr != nil {
		return r.cancelErr
	}
	a := r.appointments[id]
	if a.Status != domain.StatusConfirmed {
		return appointmentRepo.ErrNotConfirmed
	}
	a.Status = domain.StatusCanceled
	canceledAt := time.Now()
	a.CanceledAt = &canceledAt
	return nil
}

func (r *fakeAppointmentRepo) Complete(_ context.Context, id int64) error {
	if r.completeErr != nil {
		return r.completeErr
	}
	a := r.appointments[id]
	if a.Status != domain.StatusConfirmed {
		return appointmentRepo.ErrNotConfirmed
	}
	a.Status = domain.StatusCompleted
	return nil
}

type capturingPublisher struct {
	events []events.Envelope
}

func (p *capturingPublisher) Publish(_ context.Context, event events.Envelope) error {
	p.events = append(p.events, event)
	return nil
}

var (
	customer = domain.Actor{ID: 42, Role: domain.RoleCustomer}
	stranger = domain.Actor{ID: 99, Role: domain.RoleCustomer}
	admin    = domain.Actor{ID: 1, Role: domain.RoleAdmin}
)

// Среда, 15 октября 2025
var wednesday = time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)

func confirmedAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:              10,
		ServiceID:       1,
		CustomerID:      customer.ID,
		AppointmentDate: wednesday,
		StartTime:       "10:00",
		Status:          domain.StatusConfirmed,
		ServiceTitle:    "Стрижка",
	}
}

func newTestService(repo *fakeAppointmentRepo, publisher *capturingPublisher, now time.Time) *Service {
	svc := NewService(repo, publisher, fakeLogger{})
	svc.timeProvider = &fakeTimeProvider{now: now}
	return svc
}

func TestService_GetByID(t *testing.T) {
	repo := newFakeRepo(confirmedAppointment())
	svc := newTestService(repo, &capturingPublisher{}, wednesday)

	t.Run("owner sees own appointment", func(t *testing.T) {
		resp, err := svc.GetByID(context.Background(), 10, customer)
		require.NoError(t, err)
		assert.Equal(t, int64(10), resp.ID)
		assert.Equal(t, "Стрижка", resp.ServiceTitle)
	})

	t.Run("admin sees any appointment", func(t *testing.T) {
		resp, err := svc.GetByID(context.Background(), 10, admin)
		require.NoError(t, err)
		assert.Equal(t, int64(10), resp.ID)
	})

	t.Run("stranger denied", func(t *testing.T) {
		_, err := svc.GetByID(context.Background(), 10, stranger)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("missing appointment", func(t *testing.T) {
		_, err := svc.GetByID(context.Background(), 404, customer)
		assert.ErrorIs(t, err, ErrAppointmentNotFound)
	})
}

func TestService_GetCustomerAppointments(t *testing.T) {
	canceled := confirmedAppointment()
	canceled.ID = 11
	canceled.Status = domain.StatusCanceled

	repo := newFakeRepo(confirmedAppointment(), canceled)
	svc := newTestService(repo, &capturingPublisher{}, wednesday)

	t.Run("owner lists own history", func(t *testing.T) {
		resp, err := svc.GetCustomerAppointments(context.Background(),
			&models.GetCustomerAppointmentsRequest{CustomerID: customer.ID}, customer)
		require.NoError(t, err)
		assert.Len(t, resp.Appointments, 2)
	})

	t.Run("status filter applied", func(t *testing.T) {
		status := string(domain.StatusCanceled)
		resp, err := svc.GetCustomerAppointments(context.Background(),
			&models.GetCustomerAppointmentsRequest{CustomerID: customer.ID, Status: &status}, customer)
		require.NoError(t, err)
		require.Len(t, resp.Appointments, 1)
		assert.Equal(t, string(domain.StatusCanceled), resp.Appointments[0].Status)
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		status := "PENDING"
		_, err := svc.GetCustomerAppointments(context.Background(),
			&models.GetCustomerAppointmentsRequest{CustomerID: customer.ID, Status: &status}, customer)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("stranger denied", func(t *testing.T) {
		_, err := svc.GetCustomerAppointments(context.Background(),
			&models.GetCustomerAppointmentsRequest{CustomerID: customer.ID}, stranger)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("admin allowed", func(t *testing.T) {
		resp, err := svc.GetCustomerAppointments(context.Background(),
			&models.GetCustomerAppointmentsRequest{CustomerID: customer.ID}, admin)
		require.NoError(t, err)
		assert.Len(t, resp.Appointments, 2)
	})
}

func TestService_GetServiceAppointments(t *testing.T) {
	repo := newFakeRepo(confirmedAppointment())
	svc := newTestService(repo, &capturingPublisher{}, wednesday)

	t.Run("admin only", func(t *testing.T) {
		_, err := svc.GetServiceAppointments(context.Background(),
			&models.GetServiceAppointmentsRequest{ServiceID: 1}, customer)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("admin lists service appointments", func(t *testing.T) {
		resp, err := svc.GetServiceAppointments(context.Background(),
			&models.GetServiceAppointmentsRequest{ServiceID: 1}, admin)
		require.NoError(t, err)
		assert.Len(t, resp.Appointments, 1)
	})

	t.Run("date filter applied", func(t *testing.T) {
		otherDay := wednesday.AddDate(0, 0, 1)
		resp, err := svc.GetServiceAppointments(context.Background(),
			&models.GetServiceAppointmentsRequest{ServiceID: 1, Date: &otherDay}, admin)
		require.NoError(t, err)
		assert.Empty(t, resp.Appointments)
	})
}

func TestService_UpdateStatus_Cancel(t *testing.T) {
	dayBefore := wednesday.AddDate(0, 0, -1)
	cancelReq := &models.UpdateStatusRequest{Status: string(domain.StatusCanceled)}

	t.Run("owner cancels future appointment and event published", func(t *testing.T) {
		repo := newFakeRepo(confirmedAppointment())
		publisher := &capturingPublisher{}
		svc := newTestService(repo, publisher, dayBefore)

		resp, err := svc.UpdateStatus(context.Background(), 10, cancelReq, customer)
		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusCanceled), resp.Status)
		assert.NotNil(t, resp.CanceledAt)

		require.Len(t, publisher.events, 1)
		assert.Equal(t, events.TypeBookingCanceled, publisher.events[0].EventType)
		assert.Equal(t, int64(10), publisher.events[0].Payload.AppointmentID)
	})

	t.Run("owner cannot cancel started appointment", func(t *testing.T) {
		repo := newFakeRepo(confirmedAppointment())
		svc := newTestService(repo, &capturingPublisher{}, wednesday.Add(10*time.Hour))

		_, err := svc.UpdateStatus(context.Background(), 10, cancelReq, customer)
		assert.ErrorIs(t, err, ErrTooLateToCancel)
	})

	t.Run("admin cancels started appointment", func(t *testing.T) {
		repo := newFakeRepo(confirmedAppointment())
		svc := newTestService(repo, &capturingPublisher{}, wednesday.Add(12*time.Hour))

		resp, err := svc.UpdateStatus(context.Background(), 10, cancelReq, admin)
		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusCanceled), resp.Status)
	})

	t.Run("stranger denied", func(t *testing.T) {
		repo := newFakeRepo(confirmedAppointment())
		svc := newTestService(repo, &capturingPublisher{}, dayBefore)

		_, err := svc.UpdateStatus(context.Background(), 10, cancelReq, stranger)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("canceled appointment is terminal", func(t *testing.T) {
		appointment := confirmedAppointment()
		appointment.Status = domain.StatusCanceled
		repo := newFakeRepo(appointment)
		svc := newTestService(repo, &capturingPublisher{}, dayBefore)

		_, err := svc.UpdateStatus(context.Background(), 10, cancelReq, admin)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("concurrent status change surfaces as invalid transition", func(t *testing.T) {
		repo := newFakeRepo(confirmedAppointment())
		repo.cancelErr = appointmentRepo.ErrNotConfirmed
		svc := newTestService(repo, &capturingPublisher{}, dayBefore)

		_, err := svc.UpdateStatus(context.Background(), 10, cancelReq, admin)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestService_UpdateStatus_Complete(t *testing.T) {
	completeReq := &models.UpdateStatusRequest{Status: string(domain.StatusCompleted)}

	t.Run("admin completes appointment", func(t *testing.T) {
		repo := newFakeRepo(confirmedAppointment())
		publisher := &capturingPublisher{}
		svc := newTestService(repo, publisher, wednesday.Add(12*time.Hour))

		resp, err := svc.UpdateStatus(context.Background(), 10, completeReq, admin)
		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusCompleted), resp.Status)
		assert.Empty(t, publisher.events)
	})

	t.Run("customer cannot complete", func(t *testing.T) {
		repo := newFakeRepo(confirmedAppointment())
		svc := newTestService(repo, &capturingPublisher{}, wednesday.Add(12*time.Hour))

		_, err := svc.UpdateStatus(context.Background(), 10, completeReq, customer)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("completed appointment is terminal", func(t *testing.T) {
		appointment := confirmedAppointment()
		appointment.Status = domain.StatusCompleted
		repo := newFakeRepo(appointment)
		svc := newTestService(repo, &capturingPublisher{}, wednesday)

		_, err := svc.UpdateStatus(context.Background(), 10, completeReq, admin)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestService_UpdateStatus_InvalidStatus(t *testing.T) {
	repo := newFakeRepo(confirmedAppointment())
	svc := newTestService(repo, &capturingPublisher{}, wednesday)

	t.Run("unknown status string", func(t *testing.T) {
		_, err := svc.UpdateStatus(context.Background(), 10, &models.UpdateStatusRequest{Status: "DONE"}, admin)
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("confirmed is not a transition target", func(t *testing.T) {
		_, err := svc.UpdateStatus(context.Background(), 10,
			&models.UpdateStatusRequest{Status: string(domain.StatusConfirmed)}, admin)
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("missing appointment", func(t *testing.T) {
		_, err := svc.UpdateStatus(context.Background(), 404,
			&models.UpdateStatusRequest{Status: string(domain.StatusCanceled)}, admin)
		assert.ErrorIs(t, err, ErrAppointmentNotFound)
	})
}
