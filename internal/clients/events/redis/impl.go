package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kdv2001/authd/internal/domain"
)

// Client публикует события в redis stream
type Client struct {
	client *redis.Client
	stream string
}

func NewClient(client *redis.Client, stream string) *Client {
	return &Client{
		client: client,
		stream: stream,
	}
}

func (c *Client) Publish(ctx context.Context, event domain.Event) error {
	return c.client.XAdd(ctx, &redis.XAddArgs{
		Stream: c.stream,
		Values: map[string]any{
			"kind":       string(event.Kind),
			"user_id":    event.UserID.String(),
			"created_at": event.CreatedAt.UTC().Format(time.RFC3339),
		},
	}).Err()
}
