package get_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmarques-dev/salon-booking-service/internal/domain"
	scheduleRepo "github.com/dmarques-dev/salon-booking-service/internal/infra/storage/schedule"
	catalogClient "github.com/dmarques-dev/salon-booking-service/internal/integrations/catalogservice"
	"github.com/dmarques-dev/salon-booking-service/pkg/ptr"
)

// UseCase use case для получения слотов услуги на день
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	catalogClient   CatalogServiceClient
	slotDuration    int
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	catalogClient CatalogServiceClient,
	slotDuration int,
	logger Logger,
) *UseCase {
	if slotDuration <= 0 {
		slotDuration = domain.DefaultSlotDurationMinutes
	}

	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		catalogClient:   catalogClient,
		slotDuration:    slotDuration,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: service=%d, date=%s",
		req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем услугу из каталога
	service, err := uc.catalogClient.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailability: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailability: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 4. Проверяем, что услуга опубликована
	if !service.IsPublished() {
		uc.logger.Warn("GetAvailability: service id=%d is not published", req.ServiceID)
		return nil, ErrServiceNotPublished
	}

	// 5. Получаем недельное расписание услуги
	schedule, err := uc.scheduleRepo.GetByServiceID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			// Услуга без расписания не принимает записи: пустая выдача, не ошибка
			uc.logger.Info("GetAvailability: service id=%d has no schedule", req.ServiceID)
			return uc.emptyResponse(req), nil
		}
		uc.logger.Error("GetAvailability: failed to get schedule for service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
	}

	// 6. Берем интервалы открытых часов на день недели запрошенной даты
	ranges := schedule.RangesFor(req.Date.Weekday())
	if len(ranges) == 0 {
		uc.logger.Info("GetAvailability: service id=%d is closed on %s",
			req.ServiceID, req.Date.Format(domain.DateFormat))
		return uc.emptyResponse(req), nil
	}

	// 7. Генерируем временные слоты дня
	timeSlots, err := generateTimeSlots(ranges, uc.slotDuration)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to generate time slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate time slots: %v", ErrInternal, err)
	}

	// 8. Отсекаем слоты, которые уже нельзя забронировать
	timeSlots = filterPastSlots(timeSlots, req.Date, now)

	// 9. Получаем подтвержденные записи на эту дату
	filter := domain.ServiceAppointmentsFilter{
		ServiceID: req.ServiceID,
		Date:      &req.Date,
		Status:    ptr.Ptr(domain.StatusConfirmed),
	}

	appointments, err := uc.appointmentRepo.GetByServiceWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	// 10. Размечаем доступность слотов
	slots := buildSlots(timeSlots, uc.slotDuration, appointments)

	uc.logger.Info("GetAvailability: generated %d slots for service=%d, date=%s",
		len(slots), req.ServiceID, req.Date.Format(domain.DateFormat))

	return &Response{
		ServiceID: req.ServiceID,
		Date:      req.Date,
		Slots:     slots,
	}, nil
}

func (uc *UseCase) emptyResponse(req *Request) *Response {
	return &Response{
		ServiceID: req.ServiceID,
		Date:      req.Date,
		Slots:     []Slot{},
	}
}
