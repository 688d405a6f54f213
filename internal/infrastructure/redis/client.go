package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const (
	clientName  = "farm-auth"
	pingTimeout = 2 * time.Second
	ioTimeout   = 500 * time.Millisecond
)

// Client wraps the connection shared by the login and registration limiters.
type Client struct {
	rdb  *goredis.Client
	addr string
}

func New(addr, password string, db int) *Client {
	return &Client{
		addr: addr,
		rdb: goredis.NewClient(&goredis.Options{
			Addr:         addr,
			Password:     password,
			DB:           db,
			ClientName:   clientName,
			DialTimeout:  pingTimeout,
			ReadTimeout:  ioTimeout,
			WriteTimeout: ioTimeout,
			PoolSize:     10,
		}),
	}
}

// Ping is used at startup and by /readyz.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping %s: %w", c.addr, err)
	}
	return nil
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
