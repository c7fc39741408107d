package update_schedule

import (
	"context"

	"github.com/dmarques-dev/salon-booking-service/internal/domain"
	"github.com/dmarques-dev/salon-booking-service/internal/service/schedule/models"
)

type ScheduleService interface {
	Update(ctx context.Context, serviceID int64, req *models.UpdateScheduleRequest, actor domain.Actor) (*models.ScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
