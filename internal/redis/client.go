package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrCacheMiss is returned when a key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

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

// Refresh token storage: token value → user id, removed on rotation/logout.

func (c *Client) SetRefreshToken(token string, userID uint, ttl time.Duration) error {
	ctx := context.Background()
	return c.rdb.Set(ctx, "refresh_token:"+token, userID, ttl).Err()
}

func (c *Client) GetRefreshToken(token string) (uint, error) {
	ctx := context.Background()
	val, err := c.rdb.Get(ctx, "refresh_token:"+token).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, ErrCacheMiss
		}
		return 0, fmt.Errorf("failed to get refresh token: %w", err)
	}
	userID, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt refresh token entry: %w", err)
	}
	return uint(userID), nil
}

func (c *Client) DeleteRefreshToken(token string) error {
	ctx := context.Background()
	return c.rdb.Del(ctx, "refresh_token:"+token).Err()
}

// Restaurant menu cache.

func (c *Client) SetMenu(restaurantID uint, value interface{}, ttl time.Duration) error {
	ctx := context.Background()
	jsonData, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal menu: %w", err)
	}
	key := fmt.Sprintf("restaurant_menu:%d", restaurantID)
	return c.rdb.Set(ctx, key, jsonData, ttl).Err()
}

func (c *Client) GetMenu(restaurantID uint, dest interface{}) error {
	ctx := context.Background()
	key := fmt.Sprintf("restaurant_menu:%d", restaurantID)
	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return ErrCacheMiss
		}
		return fmt.Errorf("failed to get menu: %w", err)
	}
	return json.Unmarshal([]byte(val), dest)
}

func (c *Client) DeleteMenu(restaurantID uint) error {
	ctx := context.Background()
	key := fmt.Sprintf("restaurant_menu:%d", restaurantID)
	return c.rdb.Del(ctx, key).Err()
}

// Paginated order-listing cache. Keys carry the full query shape so each
// (user, page, limit, status, sort) combination is cached independently.

func OrderListKey(userID uint, page, limit int, status, sort string) string {
	return fmt.Sprintf("user:%d:orders:page:%d:limit:%d:status:%s:sort:%s", userID, page, limit, status, sort)
}

func (c *Client) SetOrderList(key string, value interface{}, ttl time.Duration) error {
	ctx := context.Background()
	jsonData, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal order list: %w", err)
	}
	return c.rdb.Set(ctx, key, jsonData, ttl).Err()
}

func (c *Client) GetOrderList(key string, dest interface{}) error {
	ctx := context.Background()
	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return ErrCacheMiss
		}
		return fmt.Errorf("failed to get order list: %w", err)
	}
	return json.Unmarshal([]byte(val), dest)
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
