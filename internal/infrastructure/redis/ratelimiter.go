package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// INCR the window key, arm its expiry on the first hit.
// returns: {count, ttl_ms}
var fixedWindowScript = goredis.NewScript(`
local c = redis.call("INCR", KEYS[1])
if c == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {c, ttl}
`)

// FixedWindowLimiter counts hits per key in Redis. Keys already carry the
// route, the caller identity and the window bucket.
type FixedWindowLimiter struct {
	rdb *goredis.Client
	now func() time.Time
}

func NewFixedWindowLimiter(c *Client) *FixedWindowLimiter {
	l := &FixedWindowLimiter{now: time.Now}
	if c != nil {
		l.rdb = c.rdb
	}
	return l
}

type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration // 0 if allowed
	ResetAt    time.Time
	Count      int
}

// AllowFixedWindow reports whether one more hit on key fits in limit per window.
// A nil client or a non-positive limit always allows.
func (l *FixedWindowLimiter) AllowFixedWindow(ctx context.Context, key string, limit int, window time.Duration) (Decision, error) {
	if limit <= 0 {
		return Decision{Allowed: true, Limit: limit, Remaining: limit}, nil
	}
	if window < time.Millisecond {
		window = time.Minute
	}
	if l.rdb == nil {
		return Decision{Allowed: true, Limit: limit, Remaining: limit}, nil
	}

	res, err := fixedWindowScript.Run(ctx, l.rdb, []string{key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("ratelimit redis eval: %w", err)
	}
	if len(res) != 2 {
		return Decision{}, fmt.Errorf("ratelimit redis eval: unexpected result %v", res)
	}

	count := int(res[0])
	ttl := time.Duration(res[1]) * time.Millisecond

	d := Decision{
		Allowed:   count <= limit,
		Limit:     limit,
		Remaining: max(0, limit-count),
		Count:     count,
		ResetAt:   l.now().Add(ttl),
	}
	if !d.Allowed {
		d.RetryAfter = ttl
		if d.RetryAfter <= 0 {
			d.RetryAfter = window
		}
	}
	return d, nil
}
