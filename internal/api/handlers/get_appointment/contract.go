package get_appointment

import (
	"context"

	"github.com/dmarques-dev/salon-booking-service/internal/domain"
	"github.com/dmarques-dev/salon-booking-service/internal/service/appointments/models"
)

type AppointmentService interface {
	GetByID(ctx context.Context, id int64, actor domain.Actor) (*models.AppointmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
