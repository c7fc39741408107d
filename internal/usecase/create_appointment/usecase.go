package create_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmarques-dev/salon-booking-service/internal/domain"
	"github.com/dmarques-dev/salon-booking-service/internal/events"
	appointmentRepo "github.com/dmarques-dev/salon-booking-service/internal/infra/storage/appointment"
	scheduleRepo "github.com/dmarques-dev/salon-booking-service/internal/infra/storage/schedule"
	catalogClient "github.com/dmarques-dev/salon-booking-service/internal/integrations/catalogservice"
	"github.com/dmarques-dev/salon-booking-service/pkg/ptr"
)

// UseCase use case для создания записи на услугу
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	catalogClient   CatalogServiceClient
	txManager       TransactionManager
	publisher       EventPublisher
	slotDuration    int
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	catalogClient CatalogServiceClient,
	txManager TransactionManager,
	publisher EventPublisher,
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
		txManager:       txManager,
		publisher:       publisher,
		slotDuration:    slotDuration,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи
// Клиентской выдаче слотов не доверяем: доступность пересчитывается
// на сервере внутри сериализуемой транзакции, уникальность слота
// дополнительно гарантирует частичный уникальный индекс в БД
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: customer=%d, service=%d, date=%s, time=%s",
		req.CustomerID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем услугу из каталога
	service, err := uc.catalogClient.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 4. Проверяем, что услуга опубликована
	if !service.IsPublished() {
		uc.logger.Warn("CreateAppointment: service id=%d is not published", req.ServiceID)
		return nil, ErrServiceNotPublished
	}

	// 5. Проверяем, что момент записи строго в будущем
	if err := validateInstantInFuture(req.Date, req.StartTime, now); err != nil {
		uc.logger.Warn("CreateAppointment: instant validation failed: %v", err)
		return nil, err
	}

	// Переменная для хранения результата
	var result *domain.Appointment

	// 6. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Получаем недельное расписание услуги
		schedule, err := uc.scheduleRepo.GetByServiceID(txCtx, req.ServiceID)
		if err != nil {
			if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
				// Услуга без расписания не принимает записи
				uc.logger.Warn("CreateAppointment: service id=%d has no schedule", req.ServiceID)
				return ErrSlotNotAvailable
			}
			uc.logger.Error("CreateAppointment: failed to get schedule: %v", err)
			return fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
		}

		// 6.2. Проверяем, что в этот день недели услуга принимает записи
		ranges := schedule.RangesFor(req.Date.Weekday())
		if len(ranges) == 0 {
			uc.logger.Warn("CreateAppointment: service id=%d is closed on %s",
				req.ServiceID, req.Date.Format(domain.DateFormat))
			return ErrSlotNotAvailable
		}

		// 6.3. Пересчитываем множество слотов дня и проверяем,
		// что запрошенное время входит в него
		validSlots, err := generateTimeSlots(ranges, uc.slotDuration)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to generate time slots: %v", err)
			return fmt.Errorf("%w: failed to generate time slots: %v", ErrInternal, err)
		}

		if !validSlots[req.StartTime] {
			uc.logger.Warn("CreateAppointment: time %s is not a valid slot for service id=%d",
				req.StartTime, req.ServiceID)
			return ErrSlotNotAvailable
		}

		// 6.4. Получаем подтвержденные записи на эту дату с блокировкой (FOR UPDATE)
		filter := domain.ServiceAppointmentsFilter{
			ServiceID: req.ServiceID,
			Date:      &req.Date,
			Status:    ptr.Ptr(domain.StatusConfirmed),
		}

		appointments, err := uc.appointmentRepo.GetByServiceWithFilter(txCtx, filter)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		// 6.5. Проверяем, что слот не занят
		if conflict := findConflict(req.StartTime, appointments); conflict != nil {
			uc.logger.Warn("CreateAppointment: slot %s on %s already taken by appointment id=%d",
				req.StartTime, req.Date.Format(domain.DateFormat), conflict.ID)
			return ErrSlotTaken
		}

		// 6.6. Создаем запись с денормализацией названия услуги
		appointment := &domain.Appointment{
			ServiceID:       req.ServiceID,
			CustomerID:      req.CustomerID,
			AppointmentDate: req.Date,
			StartTime:       req.StartTime,
			Status:          domain.StatusConfirmed,
			ServiceTitle:    service.Title,
		}

		created, err := uc.appointmentRepo.Create(txCtx, appointment)
		if err != nil {
			// Конкурентная запись могла успеть первой: уникальный индекс
			// отдает нарушение, которое мы показываем как занятый слот
			if errors.Is(err, appointmentRepo.ErrSlotTaken) {
				uc.logger.Warn("CreateAppointment: slot %s on %s taken concurrently",
					req.StartTime, req.Date.Format(domain.DateFormat))
				return ErrSlotTaken
			}
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", result.ID)

	// 7. Публикуем событие о созданной записи (best-effort, после коммита)
	event := events.NewBookingCreated(events.BookingPayload{
		AppointmentID:   result.ID,
		ServiceID:       result.ServiceID,
		CustomerID:      result.CustomerID,
		AppointmentDate: result.AppointmentDate.Format(domain.DateFormat),
		StartTime:       result.StartTime.String(),
	}, now)

	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Error("CreateAppointment: failed to publish event for appointment id=%d: %v", result.ID, err)
	}

	// Конвертируем в response
	return &Response{
		ID:              result.ID,
		ServiceID:       result.ServiceID,
		CustomerID:      result.CustomerID,
		AppointmentDate: result.AppointmentDate,
		StartTime:       result.StartTime,
		DurationMinutes: uc.slotDuration,
		Status:          string(result.Status),
		ServiceTitle:    result.ServiceTitle,
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	}, nil
}
