package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/dmarques-dev/salon-booking-service/internal/domain"
	"github.com/dmarques-dev/salon-booking-service/pkg/dbmetrics"
	"github.com/dmarques-dev/salon-booking-service/pkg/psqlbuilder"
	"github.com/dmarques-dev/salon-booking-service/pkg/types"
)

// Repository репозиторий недельного расписания услуг
// Расписание хранится построчно: одна строка на интервал открытых часов
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByServiceID собирает недельное расписание услуги из строк таблицы.
// Если у услуги нет ни одного интервала, возвращает ErrScheduleNotFound.
//
// Прочитанное расписание валидируется: невалидные данные в БД - это
// нарушение целостности, а не ошибка пользователя.
func (r *Repository) GetByServiceID(ctx context.Context, serviceID int64) (*domain.WeekSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"weekday",
		"start_time",
		"end_time",
	).
		From("service_schedules").
		Where(squirrel.Eq{"service_id": serviceID}).
		OrderBy("weekday ASC, start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByServiceID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByServiceID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	var schedule domain.WeekSchedule
	found := false

	for rows.Next() {
		var weekday int
		var start, end types.TimeString

		if err := rows.Scan(&weekday, &start, &end); err != nil {
			return nil, fmt.Errorf("%w: GetByServiceID - scan row: %v", ErrScanRow, err)
		}

		day := time.Weekday(weekday)
		schedule.SetRangesFor(day, append(schedule.RangesFor(day), domain.TimeRange{
			Start: start,
			End:   end,
		}))
		found = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByServiceID - rows error: %v", ErrScanRow, err)
	}

	if !found {
		return nil, ErrScheduleNotFound
	}

	if err := schedule.Validate(); err != nil {
		return nil, fmt.Errorf("%w: service_id=%d: %v", ErrCorruptedSchedule, serviceID, err)
	}

	return &schedule, nil
}

// Replace атомарно заменяет всё недельное расписание услуги.
// Вызывается внутри транзакции (txmanager) - частичные обновления
// по дням на сервере не поддерживаются, клиент присылает документ целиком.
func (r *Repository) Replace(ctx context.Context, serviceID int64, schedule *domain.WeekSchedule) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteQuery, deleteArgs, err := psqlbuilder.Delete("service_schedules").
		Where(squirrel.Eq{"service_id": serviceID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Replace - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("%w: Replace - execute delete: %v", ErrExecQuery, err)
	}

	insertBuilder := psqlbuilder.Insert("service_schedules").
		Columns("service_id", "weekday", "start_time", "end_time")

	hasRows := false
	for _, day := range domain.AllWeekdays {
		for _, rng := range schedule.RangesFor(day) {
			insertBuilder = insertBuilder.Values(serviceID, int(day), rng.Start, rng.End)
			hasRows = true
		}
	}

	// Пустое расписание допустимо: услуга временно не принимает записи
	if !hasRows {
		return nil
	}

	insertQuery, insertArgs, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: Replace - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return fmt.Errorf("%w: Replace - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}
