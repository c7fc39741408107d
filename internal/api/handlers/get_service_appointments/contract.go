package get_service_appointments

import (
	"context"

	"github.com/dmarques-dev/salon-booking-service/internal/domain"
	"github.com/dmarques-dev/salon-booking-service/internal/service/appointments/models"
)

type AppointmentService interface {
	GetServiceAppointments(ctx context.Context, req *models.GetServiceAppointmentsRequest, actor domain.Actor) (*models.AppointmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
