package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User запись пользователя в хранилище учетных данных
type User struct {
	ID        uuid.UUID
	Username  string
	Password  string
	FirstName string
	LastName  string
	Account   decimal.Decimal
}

// Credentials данные для регистрации и аутентификации
type Credentials struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
}

// UserView проекция пользователя для кеширования и ответов API,
// без учетных данных
type UserView struct {
	ID        uuid.UUID `json:"user_id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	Account   float64   `json:"account"`
}

// View собирает проекцию из полной записи
func (u User) View() UserView {
	return UserView{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Account:   u.Account.InexactFloat64(),
	}
}

// SessionToken подписанный токен сессии
type SessionToken struct {
	Token     string
	ExpiresAt time.Time
}

// TokenClaims данные, зашитые в токен
type TokenClaims struct {
	Username  string
	UserID    uuid.UUID
	ExpiresAt time.Time
}
