package create_appointment

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге
	ErrServiceNotFound = errors.New("create_appointment: service not found")

	// ErrServiceNotPublished возвращается, когда услуга снята с публикации
	ErrServiceNotPublished = errors.New("create_appointment: service is not published")

	// ErrSlotInPast возвращается при попытке записаться на уже прошедший момент
	ErrSlotInPast = errors.New("create_appointment: slot is in the past")

	// ErrSlotNotAvailable возвращается, когда запрошенное время не входит
	// в множество слотов услуги (закрытый день, время вне часов, не кратно шагу)
	ErrSlotNotAvailable = errors.New("create_appointment: slot is not available")

	// ErrSlotTaken возвращается, когда слот уже занят другой подтвержденной записью
	ErrSlotTaken = errors.New("create_appointment: slot is already taken")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
