package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb *redis.Client
}

func Initialize(redisURL string) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Overdue alert cooldown. The overdue sweep re-flags the same order on every
// run; the cooldown key suppresses repeat alerts between runs.

// AcquireOverdueCooldown returns true when no cooldown is active for the
// order and atomically starts one. False means an alert went out recently.
func (c *Client) AcquireOverdueCooldown(orderID string, ttl time.Duration) (bool, error) {
	ctx := context.Background()
	return c.rdb.SetNX(ctx, "overdue_cooldown:"+orderID, 1, ttl).Result()
}

// ReleaseOverdueCooldown drops the cooldown so the next sweep may re-alert,
// used when the alert could not be delivered.
func (c *Client) ReleaseOverdueCooldown(orderID string) error {
	ctx := context.Background()
	return c.rdb.Del(ctx, "overdue_cooldown:"+orderID).Err()
}

// Metrics report caching

func (c *Client) SetMetricsReport(projectID string, report interface{}, ttl time.Duration) error {
	ctx := context.Background()
	jsonData, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal metrics report: %w", err)
	}

	return c.rdb.Set(ctx, "metrics:"+projectID, jsonData, ttl).Err()
}

func (c *Client) GetMetricsReport(projectID string, dest interface{}) (bool, error) {
	ctx := context.Background()
	val, err := c.rdb.Get(ctx, "metrics:"+projectID).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to get metrics report: %w", err)
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal metrics report: %w", err)
	}
	return true, nil
}

func (c *Client) InvalidateMetricsReport(projectID string) error {
	ctx := context.Background()
	return c.rdb.Del(ctx, "metrics:"+projectID).Err()
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
