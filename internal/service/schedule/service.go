package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmarques-dev/salon-booking-service/internal/domain"
	scheduleRepo "github.com/dmarques-dev/salon-booking-service/internal/infra/storage/schedule"
	catalogClient "github.com/dmarques-dev/salon-booking-service/internal/integrations/catalogservice"
	"github.com/dmarques-dev/salon-booking-service/internal/service/schedule/models"
)

// Service сервис для работы с недельным расписанием услуг
type Service struct {
	scheduleRepo  ScheduleRepository
	catalogClient CatalogServiceClient
	txManager     TransactionManager
	logger        Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(
	scheduleRepo ScheduleRepository,
	catalogClient CatalogServiceClient,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo:  scheduleRepo,
		catalogClient: catalogClient,
		txManager:     txManager,
		logger:        logger,
	}
}

// Get получает недельное расписание услуги
// Публичный метод - доступен всем
func (s *Service) Get(ctx context.Context, serviceID int64) (*models.ScheduleResponse, error) {
	s.logger.Info("Get: fetching schedule for service=%d", serviceID)

	schedule, err := s.scheduleRepo.GetByServiceID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			s.logger.Warn("Get: schedule for service=%d not found", serviceID)
			return nil, ErrScheduleNotFound
		}
		s.logger.Error("Get: repository error for service=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Get: successfully fetched schedule for service=%d", serviceID)
	return models.FromDomainSchedule(serviceID, schedule), nil
}

// Update заменяет недельное расписание услуги целиком
// Доступно только администраторам
func (s *Service) Update(ctx context.Context, serviceID int64, req *models.UpdateScheduleRequest, actor domain.Actor) (*models.ScheduleResponse, error) {
	s.logger.Info("Update: updating schedule for service=%d by actor=%d role=%s", serviceID, actor.ID, actor.Role)

	// 1. Проверяем права доступа (только администратор)
	if !actor.IsAdmin() {
		s.logger.Warn("Update: access denied for actor=%d", actor.ID)
		return nil, ErrAccessDenied
	}

	// 2. Проверяем, что услуга существует в каталоге
	if _, err := s.catalogClient.GetService(ctx, serviceID); err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			s.logger.Warn("Update: service id=%d not found", serviceID)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("Update: failed to get service id=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 3. Конвертируем и валидируем расписание
	schedule, err := req.ToDomainSchedule()
	if err != nil {
		s.logger.Warn("Update: invalid schedule for service=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	schedule.Normalize()

	if err := schedule.Validate(); err != nil {
		s.logger.Warn("Update: schedule validation failed for service=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 4. Заменяем расписание в транзакции
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		return s.scheduleRepo.Replace(txCtx, serviceID, schedule)
	})
	if err != nil {
		s.logger.Error("Update: failed to replace schedule for service=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated schedule for service=%d", serviceID)
	return models.FromDomainSchedule(serviceID, schedule), nil
}
