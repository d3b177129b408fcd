package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kdv2001/authd/internal/domain"
	"github.com/kdv2001/authd/internal/pkg/logger"
)

type credentialStore interface {
	Insert(ctx context.Context, u domain.User) error
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (domain.User, error)
	UpdateBalance(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (bool, error)
}

type sessionCache interface {
	Lookup(ctx context.Context, token string) (domain.UserView, bool)
	Store(ctx context.Context, token string, view domain.UserView, tokenExpiresAt time.Time)
}

type tokenCodec interface {
	Issue(username string, userID uuid.UUID) (domain.SessionToken, error)
	Decode(token string) (domain.TokenClaims, error)
}

// EventPublisher издатель событий; доставка best-effort, ошибки не влияют на запрос
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

type Implementation struct {
	store     credentialStore
	cache     sessionCache
	codec     tokenCodec
	publisher EventPublisher
}

func NewImplementation(store credentialStore, cache sessionCache,
	codec tokenCodec, publisher EventPublisher) *Implementation {
	return &Implementation{
		store:     store,
		cache:     cache,
		codec:     codec,
		publisher: publisher,
	}
}

// RegisterUser регистрирует нового пользователя и выпускает токен сессии.
// Вставка записи идет первой: уникальность имени решает ограничение в
// хранилище, и при неудавшейся вставке токен не выпускается вовсе.
// Занятое имя - ожидаемый исход, domain.ErrConflict.
func (a *Implementation) RegisterUser(ctx context.Context, cred domain.Credentials) (domain.SessionToken, error) {
	u := domain.User{
		ID:        uuid.New(),
		Username:  cred.Username,
		Password:  cred.Password,
		FirstName: cred.FirstName,
		LastName:  cred.LastName,
		Account:   decimal.Zero,
	}

	if err := a.store.Insert(ctx, u); err != nil {
		return domain.SessionToken{}, err
	}

	token, err := a.codec.Issue(u.Username, u.ID)
	if err != nil {
		return domain.SessionToken{}, err
	}

	a.cache.Store(ctx, token.Token, u.View(), token.ExpiresAt)
	a.publish(ctx, domain.Event{
		Kind:      domain.UserRegistered,
		UserID:    u.ID,
		CreatedAt: time.Now().UTC(),
	})

	return token, nil
}

// LoginUser аутентифицирует пользователя и выпускает свежий токен.
// Ранее выпущенные токены остаются действительными до собственного
// истечения: несколько живых сессий на пользователя - осознанное
// поведение, отзыва при входе нет.
// Отсутствие пользователя и неверный пароль неразличимы для вызывающего.
func (a *Implementation) LoginUser(ctx context.Context, cred domain.Credentials) (domain.SessionToken, error) {
	u, err := a.store.GetByUsername(ctx, cred.Username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.SessionToken{}, domain.ErrUnauthorized
		}

		// недоступность хранилища не маскируем под отказ в доступе
		return domain.SessionToken{}, err
	}

	// пароли хранятся и сравниваются в открытом виде - известная
	// слабость наблюдаемой системы, сохранена намеренно, см. DESIGN.md
	if u.Password != cred.Password {
		return domain.SessionToken{}, domain.ErrUnauthorized
	}

	token, err := a.codec.Issue(u.Username, u.ID)
	if err != nil {
		return domain.SessionToken{}, err
	}

	a.cache.Store(ctx, token.Token, u.View(), token.ExpiresAt)

	return token, nil
}

// AuthUser проверяет токен и возвращает проекцию пользователя.
// Порядок: кеш, затем декодирование токена, затем хранилище с прогревом
// кеша. Просроченный, неподписанный или указывающий на несуществующую
// запись токен дает domain.ErrInvalidToken.
func (a *Implementation) AuthUser(ctx context.Context, token string) (domain.UserView, error) {
	if view, ok := a.cache.Lookup(ctx, token); ok {
		return view, nil
	}

	claims, err := a.codec.Decode(token)
	if err != nil {
		return domain.UserView{}, err
	}

	u, err := a.store.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// запись могла быть удалена вне сервиса
			return domain.UserView{}, domain.ErrInvalidToken
		}

		return domain.UserView{}, err
	}

	a.cache.Store(ctx, token, u.View(), claims.ExpiresAt)

	return u.View(), nil
}

func (a *Implementation) publish(ctx context.Context, event domain.Event) {
	if a.publisher == nil {
		return
	}

	if err := a.publisher.Publish(ctx, event); err != nil {
		logger.Errorf(ctx, "publish %s event: %v", event.Kind, err)
	}
}
