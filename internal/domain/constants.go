package domain

// Default configuration values
const (
	// DefaultSlotDurationMinutes шаг генерации слотов по умолчанию (1 час)
	DefaultSlotDurationMinutes = 60
)

// Business validation constants
const (
	MinSlotDurationMinutes = 5
	MaxSlotDurationMinutes = 480 // 8 hours
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActorRole роль инициатора операции
// Передаётся явно в каждую операцию вместо глобального состояния сессии
type ActorRole string

const (
	RoleCustomer ActorRole = "customer"
	RoleAdmin    ActorRole = "admin"
)

// IsValid возвращает true для известных ролей
func (r ActorRole) IsValid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

// Actor инициатор операции: идентификатор пользователя и его роль
type Actor struct {
	ID   int64
	Role ActorRole
}

// IsAdmin возвращает true, если инициатор - администратор
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// TerminalStatuses статусы, из которых нет переходов
var TerminalStatuses = []AppointmentStatus{
	StatusCompleted,
	StatusCanceled,
}
