package store

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const budgetKeyPrefix = "token_usage:"

// budgetKeyTTL keeps stale day keys from accumulating; generous enough to
// survive clock skew around midnight.
const budgetKeyTTL = 48 * time.Hour

// RedisBudget is the durable daily token budget. Usage is keyed by calendar
// date so the day rollover is implicit: a new date reads as zero usage and
// old keys expire on their own. Survives process restarts.
type RedisBudget struct {
	client *redis.Client
	limit  int
	now    func() time.Time
}

func NewRedisBudget(client *redis.Client, limit int) *RedisBudget {
	return &RedisBudget{client: client, limit: limit, now: time.Now}
}

// SetClock overrides the budget's clock. Test use only.
func (r *RedisBudget) SetClock(now func() time.Time) { r.now = now }

func (r *RedisBudget) key() string {
	return budgetKeyPrefix + r.now().Format("2006-01-02")
}

func (r *RedisBudget) Limit() int { return r.limit }

func (r *RedisBudget) CurrentUsage(ctx context.Context) (int, error) {
	val, err := r.client.Get(ctx, r.key()).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	usage, _ := strconv.Atoi(val)
	return usage, nil
}

// TryReserve reports whether usage plus the estimate still fits the limit.
// Nothing is held; Commit charges the real cost afterwards.
func (r *RedisBudget) TryReserve(ctx context.Context, estimated int) (bool, error) {
	usage, err := r.CurrentUsage(ctx)
	if err != nil {
		return false, err
	}
	return usage+estimated <= r.limit, nil
}

func (r *RedisBudget) Commit(ctx context.Context, actual int) error {
	key := r.key()
	if err := r.client.IncrBy(ctx, key, int64(actual)).Err(); err != nil {
		return err
	}
	return r.client.Expire(ctx, key, budgetKeyTTL).Err()
}
