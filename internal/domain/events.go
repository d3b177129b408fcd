package domain

import (
	"time"

	"github.com/google/uuid"
)

type EventKind string

const (
	// UserRegistered пользователь зарегистрирован
	UserRegistered EventKind = "USER_REGISTERED"
	// BalanceUpdated баланс пользователя перезаписан
	BalanceUpdated EventKind = "BALANCE_UPDATED"
)

// Event событие для асинхронной downstream-обработки; доставка best-effort
type Event struct {
	Kind      EventKind
	UserID    uuid.UUID
	CreatedAt time.Time
}
