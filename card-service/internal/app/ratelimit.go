/**
 * @description
 * Distributed rate limiting for card issuance, backed by Redis. One counter
 * per account rolls over every window. The limiter fails open: when Redis is
 * down or not configured, issuance proceeds and the holding rules remain the
 * only guard.
 */
package app

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var issuanceRateLimitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
  ttl = tonumber(ARGV[1])
end
return {current, ttl}
`)

// RedisIssuanceRateLimiter throttles card issuance per account using Redis.
type RedisIssuanceRateLimiter struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisIssuanceRateLimiter creates a limiter with the given key prefix.
func NewRedisIssuanceRateLimiter(client redis.UniversalClient, prefix string) *RedisIssuanceRateLimiter {
	trimmedPrefix := strings.TrimSpace(prefix)
	if trimmedPrefix == "" {
		trimmedPrefix = "lumenbank:rate_limit"
	}
	trimmedPrefix = strings.TrimSuffix(trimmedPrefix, ":")

	return &RedisIssuanceRateLimiter{
		client: client,
		prefix: trimmedPrefix,
	}
}

// ConsumeIssuanceLimit counts an issuance attempt for the account and returns
// the running count within the window plus the retry-after hint in seconds.
// A nil limiter, nil client, or non-positive limit disables throttling.
func (r *RedisIssuanceRateLimiter) ConsumeIssuanceLimit(
	ctx context.Context,
	accountID string,
	limit int,
	window time.Duration,
) (count int, retryAfterSeconds int, err error) {
	if r == nil || r.client == nil || limit <= 0 || window <= 0 {
		return 0, 0, nil
	}

	normalizedAccount := strings.TrimSpace(accountID)
	if normalizedAccount == "" {
		return 0, 0, nil
	}

	windowMs := window.Milliseconds()
	if windowMs < 1000 {
		windowMs = 1000
	}

	key := fmt.Sprintf("%s:card_issue:%s", r.prefix, normalizedAccount)
	rawResult, err := issuanceRateLimitScript.Run(ctx, r.client, []string{key}, windowMs).Result()
	if err != nil {
		return 0, 0, err
	}

	values, ok := rawResult.([]interface{})
	if !ok || len(values) != 2 {
		return 0, 0, fmt.Errorf("unexpected redis limiter response shape: %T", rawResult)
	}

	currentCount, ok := values[0].(int64)
	if !ok {
		return 0, 0, fmt.Errorf("unexpected redis limiter count type: %T", values[0])
	}

	ttlMs, ok := values[1].(int64)
	if !ok {
		return int(currentCount), 0, fmt.Errorf("unexpected redis limiter ttl type: %T", values[1])
	}
	if ttlMs < 0 {
		ttlMs = windowMs
	}

	retryAfter := int(math.Ceil(float64(ttlMs) / 1000.0))
	if retryAfter < 1 {
		retryAfter = 1
	}

	return int(currentCount), retryAfter, nil
}
