package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmarques-dev/salon-booking-service/internal/domain"
	"github.com/dmarques-dev/salon-booking-service/internal/events"
	appointmentRepo "github.com/dmarques-dev/salon-booking-service/internal/infra/storage/appointment"
	"github.com/dmarques-dev/salon-booking-service/internal/service/appointments/models"
)

// Service сервис для работы с записями на услуги
type Service struct {
	appointmentRepo AppointmentRepository
	publisher       EventPublisher
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	publisher EventPublisher,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		publisher:       publisher,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// GetByID получает запись по ID
// Клиент видит только свои записи, администратор - любые
func (s *Service) GetByID(ctx context.Context, id int64, actor domain.Actor) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for actor=%d role=%s", id, actor.ID, actor.Role)

	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа
	if !actor.IsAdmin() && appointment.CustomerID != actor.ID {
		s.logger.Warn("GetByID: access denied for actor=%d to appointment id=%d", actor.ID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%d", id)
	return models.FromDomainAppointment(appointment), nil
}

// GetCustomerAppointments получает историю записей клиента
// Клиент видит только свою историю, администратор - любую
// Опционально фильтрует по статусу
func (s *Service) GetCustomerAppointments(ctx context.Context, req *models.GetCustomerAppointmentsRequest, actor domain.Actor) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetCustomerAppointments: fetching appointments for customer=%d, status=%v", req.CustomerID, req.Status)

	// Проверяем права доступа
	if !actor.IsAdmin() && req.CustomerID != actor.ID {
		s.logger.Warn("GetCustomerAppointments: access denied for actor=%d to customer=%d", actor.ID, req.CustomerID)
		return nil, ErrAccessDenied
	}

	// Конвертируем статус из строки в domain.AppointmentStatus
	var domainStatus *domain.AppointmentStatus
	if req.Status != nil {
		status, err := models.ToDomainAppointmentStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetCustomerAppointments: invalid status=%s for customer=%d", *req.Status, req.CustomerID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	appointments, err := s.appointmentRepo.GetByCustomerID(ctx, req.CustomerID, domainStatus)
	if err != nil {
		s.logger.Error("GetCustomerAppointments: repository error for customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: GetCustomerAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCustomerAppointments: successfully fetched %d appointments for customer=%d", len(appointments), req.CustomerID)
	return models.FromDomainAppointmentList(appointments), nil
}

// GetServiceAppointments получает записи услуги с фильтрацией по дате и статусу
// Доступно только администраторам
func (s *Service) GetServiceAppointments(ctx context.Context, req *models.GetServiceAppointmentsRequest, actor domain.Actor) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetServiceAppointments: fetching appointments for service=%d by actor=%d", req.ServiceID, actor.ID)

	// Проверяем права доступа (только администратор)
	if !actor.IsAdmin() {
		s.logger.Warn("GetServiceAppointments: access denied for actor=%d", actor.ID)
		return nil, ErrAccessDenied
	}

	// Конвертируем request в domain фильтр
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetServiceAppointments: invalid filter for service=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	appointments, err := s.appointmentRepo.GetByServiceWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetServiceAppointments: repository error for service=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: GetServiceAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetServiceAppointments: successfully fetched %d appointments for service=%d", len(appointments), req.ServiceID)
	return models.FromDomainAppointmentList(appointments), nil
}

// UpdateStatus переводит запись в новый статус
//
// Допустимые переходы: CONFIRMED -> CANCELED и CONFIRMED -> COMPLETED.
// Отмененные и завершенные записи менять нельзя.
//
// CANCELED: клиент может отменить только свою запись и только до её
// начала; администратор отменяет любую запись в любой момент.
// COMPLETED: доступно только администратору.
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest, actor domain.Actor) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateStatus: updating appointment id=%d to status=%s by actor=%d role=%s",
		id, req.Status, actor.ID, actor.Role)

	// Валидируем и конвертируем статус
	newStatus, err := models.ToDomainAppointmentStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%d", req.Status, id)
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, req.Status)
	}

	// CONFIRMED не является целевым статусом перехода
	if newStatus == domain.StatusConfirmed {
		s.logger.Warn("UpdateStatus: status=%s is not a valid transition target for appointment id=%d", req.Status, id)
		return nil, fmt.Errorf("%w: cannot transition to %s", ErrInvalidStatus, newStatus)
	}

	// Получаем запись
	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("UpdateStatus: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	// Терминальные статусы неизменяемы
	if !appointment.CanTransitionTo(newStatus) {
		s.logger.Warn("UpdateStatus: appointment id=%d in status=%s cannot transition to %s",
			id, appointment.Status, newStatus)
		return nil, ErrInvalidTransition
	}

	switch newStatus {
	case domain.StatusCanceled:
		if err := s.cancel(ctx, appointment, actor); err != nil {
			return nil, err
		}
	case domain.StatusCompleted:
		if err := s.complete(ctx, appointment, actor); err != nil {
			return nil, err
		}
	}

	// Перечитываем запись, чтобы вернуть актуальные поля (canceled_at, updated_at)
	updated, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("UpdateStatus: failed to reload appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateStatus - failed to reload appointment: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: successfully updated appointment id=%d to status=%s", id, updated.Status)
	return models.FromDomainAppointment(updated), nil
}

// cancel отменяет запись с проверкой прав и окна отмены
func (s *Service) cancel(ctx context.Context, appointment *domain.Appointment, actor domain.Actor) error {
	if !actor.IsAdmin() {
		// Клиент отменяет только свою запись
		if appointment.CustomerID != actor.ID {
			s.logger.Warn("cancel: access denied for actor=%d to appointment id=%d", actor.ID, appointment.ID)
			return ErrAccessDenied
		}

		// Отмена возможна строго до момента начала записи
		now := s.timeProvider.Now()
		if appointment.IsPast(now) {
			s.logger.Warn("cancel: appointment id=%d has already started, actor=%d cannot cancel",
				appointment.ID, actor.ID)
			return ErrTooLateToCancel
		}
	}

	if err := s.appointmentRepo.Cancel(ctx, appointment.ID); err != nil {
		if errors.Is(err, appointmentRepo.ErrNotConfirmed) {
			// Статус успел измениться между чтением и обновлением
			s.logger.Warn("cancel: appointment id=%d no longer confirmed", appointment.ID)
			return ErrInvalidTransition
		}
		s.logger.Error("cancel: repository error for appointment id=%d: %v", appointment.ID, err)
		return fmt.Errorf("%w: cancel - repository error: %v", ErrInternal, err)
	}

	// Публикуем событие об отмене (best-effort)
	event := events.NewBookingCanceled(events.BookingPayload{
		AppointmentID:   appointment.ID,
		ServiceID:       appointment.ServiceID,
		CustomerID:      appointment.CustomerID,
		AppointmentDate: appointment.AppointmentDate.Format(domain.DateFormat),
		StartTime:       appointment.StartTime.String(),
	}, s.timeProvider.Now())

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("cancel: failed to publish event for appointment id=%d: %v", appointment.ID, err)
	}

	return nil
}

// complete завершает запись, доступно только администратору
func (s *Service) complete(ctx context.Context, appointment *domain.Appointment, actor domain.Actor) error {
	if !actor.IsAdmin() {
		s.logger.Warn("complete: access denied for actor=%d to appointment id=%d", actor.ID, appointment.ID)
		return ErrAccessDenied
	}

	if err := s.appointmentRepo.Complete(ctx, appointment.ID); err != nil {
		if errors.Is(err, appointmentRepo.ErrNotConfirmed) {
			s.logger.Warn("complete: appointment id=%d no longer confirmed", appointment.ID)
			return ErrInvalidTransition
		}
		s.logger.Error("complete: repository error for appointment id=%d: %v", appointment.ID, err)
		return fmt.Errorf("%w: complete - repository error: %v", ErrInternal, err)
	}

	return nil
}
