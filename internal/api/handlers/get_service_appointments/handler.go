package get_service_appointments

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/dmarques-dev/salon-booking-service/internal/api/handlers"
	"github.com/dmarques-dev/salon-booking-service/internal/api/middleware"
	"github.com/dmarques-dev/salon-booking-service/internal/domain"
	"github.com/dmarques-dev/salon-booking-service/internal/service/appointments"
	"github.com/dmarques-dev/salon-booking-service/internal/service/appointments/models"
)

const (
	msgInvalidServiceID = "некорректный ID услуги"
	msgInvalidDate      = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgForbidden        = "доступ запрещен"
	msgInvalidFilter    = "некорректные параметры фильтрации"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/services/{serviceId}/appointments?date=YYYY-MM-DD&status=CONFIRMED
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем serviceId из URL
	vars := mux.Vars(r)
	serviceIDStr := vars["serviceId"]

	serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /services/{id}/appointments - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	// Получаем пользователя из контекста (через middleware Auth)
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /services/{id}/appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Опциональные фильтры по дате и статусу
	req := &models.GetServiceAppointmentsRequest{
		ServiceID: serviceID,
	}

	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			h.logger.Warn("GET /services/{id}/appointments - Invalid date %q: %v", dateStr, err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.Date = &date
	}

	if statusStr := r.URL.Query().Get("status"); statusStr != "" {
		req.Status = &statusStr
	}

	// Получаем записи (доступно только администраторам)
	result, err := h.service.GetServiceAppointments(r.Context(), req, actor)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("GET /services/{id}/appointments - Access denied: service_id=%d, actor_id=%d",
				serviceID, actor.ID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /services/{id}/appointments - Invalid filter: service_id=%d", serviceID)
			handlers.RespondUnprocessableEntity(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /services/{id}/appointments - Failed to get appointments: service_id=%d, error=%v",
				serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /services/{id}/appointments - Retrieved %d appointments: service_id=%d",
		len(result.Appointments), serviceID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
