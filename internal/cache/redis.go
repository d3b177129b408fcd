package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kdv2001/authd/internal/domain"
)

// redisCache разделяемый между экземплярами сервиса уровень кеша сессий
type redisCache struct {
	client *redis.Client
	prefix string
}

// redisEntry сериализуемая запись кеша: проекция пользователя и дедлайн,
// после которого запись считается недействительной независимо от TTL ключа
type redisEntry struct {
	View     domain.UserView `json:"view"`
	Deadline time.Time       `json:"deadline"`
}

func newRedisCache(client *redis.Client, prefix string) *redisCache {
	return &redisCache{
		client: client,
		prefix: prefix,
	}
}

func (c *redisCache) key(token string) string {
	return c.prefix + ":session:" + token
}

func (c *redisCache) get(ctx context.Context, token string, now time.Time) (domain.UserView, time.Time, error) {
	raw, err := c.client.Get(ctx, c.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.UserView{}, time.Time{}, errNotCached
		}

		return domain.UserView{}, time.Time{}, err
	}

	entry := redisEntry{}
	if err = json.Unmarshal(raw, &entry); err != nil {
		return domain.UserView{}, time.Time{}, errNotCached
	}

	if !now.Before(entry.Deadline) {
		return domain.UserView{}, time.Time{}, errNotCached
	}

	return entry.View, entry.Deadline, nil
}

func (c *redisCache) set(ctx context.Context, token string, view domain.UserView, deadline time.Time, now time.Time) error {
	raw, err := json.Marshal(redisEntry{
		View:     view,
		Deadline: deadline,
	})
	if err != nil {
		return err
	}

	return c.client.Set(ctx, c.key(token), raw, deadline.Sub(now)).Err()
}
