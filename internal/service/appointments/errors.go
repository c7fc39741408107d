package appointments

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidTransition возвращается при попытке изменить запись
	// в терминальном статусе (отмененную или завершенную)
	ErrInvalidTransition = errors.New("appointment status cannot be changed")

	// ErrTooLateToCancel возвращается, когда клиент пытается отменить
	// запись, чей момент уже наступил
	ErrTooLateToCancel = errors.New("too late to cancel this appointment")

	// ErrInvalidStatus возвращается при попытке установить недопустимый статус
	ErrInvalidStatus = errors.New("invalid appointment status")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
