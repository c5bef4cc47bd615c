package redisclient

import (
	"context"
	_ "embed"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

//go:embed scripts/apply_stock_delta.lua
var applyStockDeltaScript string

// Client wraps Redis for two concerns: a best-effort mirror of product stock
// counts (Postgres stays authoritative; the mirror only serves fast catalog
// reads) and the refresh-token session allowlist.
type Client struct {
	rdb         *redis.Client
	deltaScript *redis.Script
}

// NewClient creates a new Redis client with the mirror script loaded.
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{
		rdb:         rdb,
		deltaScript: redis.NewScript(applyStockDeltaScript),
	}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func stockKey(productID string) string {
	return fmt.Sprintf("stock:%s", productID)
}

// InitStockMirror seeds the mirror hash for a product.
func (c *Client) InitStockMirror(ctx context.Context, productID string, countInStock, sold int) error {
	pipe := c.rdb.Pipeline()
	pipe.HSet(ctx, stockKey(productID), "count_in_stock", countInStock)
	pipe.HSet(ctx, stockKey(productID), "sold", sold)
	_, err := pipe.Exec(ctx)
	return err
}

// ApplyStockDelta atomically adjusts the mirrored counts after a ledger
// operation committed in Postgres. Applied via Lua so the two fields move
// together even under concurrent mirror writers.
func (c *Client) ApplyStockDelta(ctx context.Context, productID string, stockDelta, soldDelta int) error {
	_, err := c.deltaScript.Run(ctx, c.rdb, []string{stockKey(productID)}, stockDelta, soldDelta).Result()
	if err != nil {
		return fmt.Errorf("stock delta script failed: %w", err)
	}
	return nil
}

// GetStockMirror reads the mirrored counts for a product.
func (c *Client) GetStockMirror(ctx context.Context, productID string) (countInStock, sold int, err error) {
	result, err := c.rdb.HGetAll(ctx, stockKey(productID)).Result()
	if err != nil {
		return 0, 0, err
	}
	if len(result) == 0 {
		return 0, 0, fmt.Errorf("stock mirror missing for product %s", productID)
	}

	countInStock, _ = strconv.Atoi(result["count_in_stock"])
	sold, _ = strconv.Atoi(result["sold"])
	return countInStock, sold, nil
}

// DropStockMirror removes the mirror entry for a deleted product.
func (c *Client) DropStockMirror(ctx context.Context, productID string) error {
	return c.rdb.Del(ctx, stockKey(productID)).Err()
}

func sessionKey(userID string) string {
	return fmt.Sprintf("session:%s", userID)
}

// SetRefreshToken stores the current refresh token for a user with TTL.
// Issuing a new token replaces the old one, so at most one refresh token is
// live per user.
func (c *Client) SetRefreshToken(ctx context.Context, userID, token string, ttl time.Duration) error {
	return c.rdb.Set(ctx, sessionKey(userID), token, ttl).Err()
}

// CheckRefreshToken reports whether token is the live refresh token for the
// user.
func (c *Client) CheckRefreshToken(ctx context.Context, userID, token string) (bool, error) {
	stored, err := c.rdb.Get(ctx, sessionKey(userID)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return stored == token, nil
}

// DeleteRefreshToken revokes the user's refresh token (logout).
func (c *Client) DeleteRefreshToken(ctx context.Context, userID string) error {
	return c.rdb.Del(ctx, sessionKey(userID)).Err()
}
