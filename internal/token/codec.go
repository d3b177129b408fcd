package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kdv2001/authd/internal/domain"
)

// Config параметры кодека, задаются при создании и далее не меняются
type Config struct {
	// Secret общий секрет для подписи HS256
	Secret []byte
	// TTL время жизни выпускаемого токена
	TTL time.Duration
}

const defaultTTL = time.Hour

// Codec выпускает и проверяет подписанные токены сессии
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// claims утверждения токена: имя пользователя, идентификатор и срок действия
type claims struct {
	Username string `json:"username"`
	UserID   string `json:"user_id"`
	jwt.RegisteredClaims
}

// NewCodec создает кодек из явной конфигурации
func NewCodec(cfg Config) (*Codec, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("empty signing secret")
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}

	return &Codec{
		secret: cfg.Secret,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// TTL время жизни выпускаемых токенов
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue выпускает подписанный токен с exp = now + TTL
func (c *Codec) Issue(username string, userID uuid.UUID) (domain.SessionToken, error) {
	expiresAt := c.now().Add(c.ttl)

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Username: username,
		UserID:   userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := t.SignedString(c.secret)
	if err != nil {
		return domain.SessionToken{}, err
	}

	return domain.SessionToken{
		Token:     signed,
		ExpiresAt: expiresAt,
	}, nil
}

// Decode проверяет подпись и срок действия токена.
// Любой некорректный вход дает domain.ErrInvalidToken, без паник.
func (c *Codec) Decode(tokenString string) (domain.TokenClaims, error) {
	parsed := new(claims)
	t, err := jwt.ParseWithClaims(tokenString, parsed,
		func(t *jwt.Token) (any, error) {
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return c.now() }),
	)
	if err != nil || !t.Valid {
		return domain.TokenClaims{}, domain.ErrInvalidToken
	}

	userID, err := uuid.Parse(parsed.UserID)
	if err != nil {
		return domain.TokenClaims{}, domain.ErrInvalidToken
	}

	return domain.TokenClaims{
		Username:  parsed.Username,
		UserID:    userID,
		ExpiresAt: parsed.ExpiresAt.Time,
	}, nil
}
