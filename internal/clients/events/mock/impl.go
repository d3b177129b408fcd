package mock

import (
	"context"

	"github.com/kdv2001/authd/internal/domain"
)

// Client заглушка издателя событий для окружений без брокера
type Client struct {
}

func NewClient() *Client {
	return &Client{}
}

func (c *Client) Publish(_ context.Context, _ domain.Event) error {
	return nil
}
