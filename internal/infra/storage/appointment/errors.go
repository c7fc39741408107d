package appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда бронирование не найдено
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrSlotTaken возвращается при нарушении уникальности
	// (service_id, appointment_date, start_time) среди CONFIRMED бронирований
	ErrSlotTaken = errors.New("appointment.repository: slot already taken")

	// ErrNotConfirmed возвращается при попытке перевести статус
	// бронирования, которое уже не находится в статусе CONFIRMED
	ErrNotConfirmed = errors.New("appointment.repository: appointment is not confirmed")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)
