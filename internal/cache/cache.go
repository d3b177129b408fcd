package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kdv2001/authd/internal/domain"
	"github.com/kdv2001/authd/internal/pkg/logger"
)

var errNotCached = errors.New("not cached")

// Config параметры кеша сессий
type Config struct {
	// TTL время жизни записи; дедлайн записи никогда не превышает
	// срок действия токена, который она кеширует
	TTL time.Duration
	// LocalSize емкость процессного уровня
	LocalSize int
	// KeyPrefix префикс ключей в redis
	KeyPrefix string
}

const (
	defaultTTL       = time.Hour
	defaultLocalSize = 1024
	defaultKeyPrefix = "authd"
)

// Cache двухуровневый кеш сессий: процессный LRU и, опционально,
// разделяемый redis. Недоступность redis эквивалентна промаху кеша
// и никогда не приводит к ошибке вызывающего.
type Cache struct {
	local  *localCache
	shared *redisCache
	ttl    time.Duration
	now    func() time.Time
}

// New создает кеш. client может быть nil, тогда остается
// только процессный уровень.
func New(cfg Config, client *redis.Client) *Cache {
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTTL
	}
	if cfg.LocalSize <= 0 {
		cfg.LocalSize = defaultLocalSize
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = defaultKeyPrefix
	}

	c := &Cache{
		local: newLocalCache(cfg.LocalSize),
		ttl:   cfg.TTL,
		now:   time.Now,
	}

	if client != nil {
		c.shared = newRedisCache(client, cfg.KeyPrefix)
	}

	return c
}

// Lookup ищет запись сначала в процессном уровне, затем в redis.
// Попадание в redis прогревает процессный уровень.
func (c *Cache) Lookup(ctx context.Context, token string) (domain.UserView, bool) {
	now := c.now()

	if view, ok := c.local.get(token, now); ok {
		return view, true
	}

	if c.shared == nil {
		return domain.UserView{}, false
	}

	view, deadline, err := c.shared.get(ctx, token, now)
	if err != nil {
		if !errors.Is(err, errNotCached) {
			logger.Errorf(ctx, "session cache lookup: %v", err)
		}

		return domain.UserView{}, false
	}

	c.local.set(token, view, deadline)

	return view, true
}

// Store записывает проекцию во все настроенные уровни. Дедлайн записи -
// минимум из настроенного TTL и срока действия токена, поэтому запись
// не может пережить свой токен. Ошибки уровней не возвращаются.
func (c *Cache) Store(ctx context.Context, token string, view domain.UserView, tokenExpiresAt time.Time) {
	now := c.now()

	deadline := now.Add(c.ttl)
	if tokenExpiresAt.Before(deadline) {
		deadline = tokenExpiresAt
	}

	if !deadline.After(now) {
		return
	}

	c.local.set(token, view, deadline)

	if c.shared == nil {
		return
	}

	if err := c.shared.set(ctx, token, view, deadline, now); err != nil {
		logger.Errorf(ctx, "session cache store: %v", err)
	}
}
