package schedule

import "errors"

var (
	// ErrScheduleNotFound возвращается, когда у услуги нет ни одного интервала расписания
	ErrScheduleNotFound = errors.New("schedule.repository: schedule not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("schedule.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("schedule.repository: failed to scan row")

	// ErrCorruptedSchedule возвращается, когда сохранённое расписание
	// не проходит валидацию (нарушение целостности данных)
	ErrCorruptedSchedule = errors.New("schedule.repository: stored schedule is corrupted")
)
