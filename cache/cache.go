// Package cache is a small Redis wrapper for externally sourced content
// with a fixed expiry: check existence, read, write with a TTL. The store
// serializes per key operations itself, so no client side locking.
package cache

import (
	"time"

	"github.com/JamesNgai/qtbot/logger/dlog"
	"github.com/mediocregopher/radix/v3"
)

type Client struct {
	pool *radix.Pool
}

// Dial connects a bounded pool to the Redis server at addr (host:port).
func Dial(addr string) (*Client, error) {
	pool, err := radix.NewPool("tcp", addr, 10)
	if err != nil {
		dlog.Error("error connecting to redis", "addr", addr, "err", err)
		return nil, err
	}
	dlog.Info("redis pool established", "addr", addr)
	return &Client{pool: pool}, nil
}

func (c *Client) Exists(key string) (bool, error) {
	var n int
	if err := c.pool.Do(radix.Cmd(&n, "EXISTS", key)); err != nil {
		return false, err
	}
	return n == 1, nil
}

func (c *Client) Get(key string) (string, error) {
	var value string
	err := c.pool.Do(radix.Cmd(&value, "GET", key))
	return value, err
}

// SetEX writes value under key with a ttl.
func (c *Client) SetEX(key, value string, ttl time.Duration) error {
	return c.pool.Do(radix.FlatCmd(nil, "SET", key, value, "EX", int(ttl.Seconds())))
}

func (c *Client) Close() error {
	return c.pool.Close()
}
