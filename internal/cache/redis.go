package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/cliptube/backend/internal/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Client wraps a redis.Client used for view counters and channel stat
// caching. It is an optional collaborator: a nil *Client is safe to call
// and behaves as a miss everywhere.
type Client struct {
	client *redis.Client
}

// NewClient creates a Redis client with connection pooling and verifies the
// connection before returning.
func NewClient(host, port, password string) (*Client, error) {
	if host == "" {
		host = "localhost"
	}
	if port == "" {
		port = "6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", host, port),
		Password:     password,
		DB:           0,
		MaxRetries:   3,
		PoolSize:     10,
		MinIdleConns: 5,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Log.Info("Redis client connected", zap.String("host", host))
	return &Client{client: client}, nil
}

// Close closes the connection gracefully.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// IncrViewCount bumps the pending view counter for a video and returns the
// new pending count. Returns 0 with no error when the cache is absent.
func (c *Client) IncrViewCount(ctx context.Context, videoID string) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	return c.client.Incr(ctx, "video:views:"+videoID).Result()
}

// ResetViewCount clears the pending view counter after it has been flushed
// to the database.
func (c *Client) ResetViewCount(ctx context.Context, videoID string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, "video:views:"+videoID).Err()
}

// GetChannelStats returns cached subscriber/subscription counts for a
// channel, or ok=false on a miss.
func (c *Client) GetChannelStats(ctx context.Context, channelID string) (subscribers, subscribedTo int64, ok bool) {
	if c == nil || c.client == nil {
		return 0, 0, false
	}
	vals, err := c.client.HGetAll(ctx, "channel:stats:"+channelID).Result()
	if err != nil || len(vals) == 0 {
		return 0, 0, false
	}
	fmt.Sscan(vals["subscribers"], &subscribers)
	fmt.Sscan(vals["subscribed_to"], &subscribedTo)
	return subscribers, subscribedTo, true
}

// SetChannelStats caches channel counts for a short window.
func (c *Client) SetChannelStats(ctx context.Context, channelID string, subscribers, subscribedTo int64) error {
	if c == nil || c.client == nil {
		return nil
	}
	key := "channel:stats:" + channelID
	if err := c.client.HSet(ctx, key,
		"subscribers", subscribers,
		"subscribed_to", subscribedTo,
	).Err(); err != nil {
		return err
	}
	return c.client.Expire(ctx, key, time.Minute).Err()
}

// InvalidateChannelStats drops the cached counts, called when a
// subscription toggles.
func (c *Client) InvalidateChannelStats(ctx context.Context, channelID string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, "channel:stats:"+channelID).Err()
}
