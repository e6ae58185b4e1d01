package redis

import (
	"context"
	"time"

	"github.com/flexprice/connectcheckout/internal/config"
	ierr "github.com/flexprice/connectcheckout/internal/errors"
	"github.com/flexprice/connectcheckout/internal/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// Client owns the connection pool used by the redis-backed fulfillment dedupe store
type Client struct {
	*redis.Client
	logger *logger.Logger
}

func NewClient(cfg *config.Configuration, logger *logger.Logger) *Client {
	return &Client{
		Client: redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.Address,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     20,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolTimeout:  4 * time.Second,
		}),
		logger: logger,
	}
}

// RegisterHooks pings redis on start and closes the pool on stop
func RegisterHooks(lc fx.Lifecycle, c *Client) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := c.Ping(ctx); err != nil {
				return err
			}
			c.logger.Infow("connected to redis", "address", c.Options().Addr)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return c.Close()
		},
	})
}

func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.Client.Ping(ctx).Result(); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to reach redis").
			WithReportableDetails(map[string]interface{}{
				"address": c.Options().Addr,
			}).
			Mark(ierr.ErrSystem)
	}
	return nil
}

func (c *Client) Close() error {
	if err := c.Client.Close(); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to close redis connection").
			Mark(ierr.ErrSystem)
	}
	return nil
}
