package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
)

// Endpoint names used as the second half of a rate-limit key.
const (
	endpointGeneratePlan = "generate-plan"
	endpointPreviewPlan  = "preview-plan"
)

const defaultDailyRequestLimit = 3

// counterStore atomically increments the request counter for
// (key, endpoint, day) unless it already reached limit. allowed is false when
// the cap was hit; count is the stored value after the call.
type counterStore interface {
	increment(ctx context.Context, key, endpoint string, day DateOnly, limit int) (count int, allowed bool, err error)
}

// rateLimiter allows at most limit requests per calendar day (UTC) for each
// (key, endpoint) pair. Counters reset by the day rolling over; old rows are
// never read again.
type rateLimiter struct {
	store counterStore
	limit int
	now   func() time.Time
}

func newRateLimiter(store counterStore, limit int) *rateLimiter {
	if limit <= 0 {
		limit = defaultDailyRequestLimit
	}
	return &rateLimiter{store: store, limit: limit, now: time.Now}
}

// allow records one request and returns a RateLimitExceeded error once the
// daily cap is reached. Storage failures reject the request.
func (l *rateLimiter) allow(ctx context.Context, key, endpoint string) error {
	_, allowed, err := l.store.increment(ctx, key, endpoint, utcDate(l.now()), l.limit)
	if err != nil {
		return wrapError(errCollaborator, err, "rate limit check")
	}
	if !allowed {
		return newError(errRateLimitExceeded, "daily limit of %d requests reached, try again tomorrow", l.limit)
	}
	return nil
}

/* ─── PostgreSQL counters ────────────────────────────────────────────── */

// increment is a single conditional upsert: the DO UPDATE only fires while
// the counter is below the cap, so concurrent requests cannot both slip past
// it. No returned row means the cap was already reached.
func (s *pgStore) increment(ctx context.Context, key, endpoint string, day DateOnly, limit int) (int, bool, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`INSERT INTO rate_limits (user_key, endpoint, window_start, request_count)
		 VALUES (@key, @endpoint, @day, 1)
		 ON CONFLICT (user_key, endpoint, window_start) DO UPDATE
			SET request_count = rate_limits.request_count + 1, updated_at = now()
			WHERE rate_limits.request_count < @limit
		 RETURNING request_count`,
		pgx.NamedArgs{"key": key, "endpoint": endpoint, "day": day.String(), "limit": limit},
	).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return limit, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return count, true, nil
}

/* ─── Redis counters ─────────────────────────────────────────────────── */

// redisCounterStore keeps counters in Redis. INCR and EXPIREAT run in one
// MULTI so a key never outlives its day by more than the grace period.
type redisCounterStore struct {
	client *redis.Client
}

func (s *redisCounterStore) increment(ctx context.Context, key, endpoint string, day DateOnly, limit int) (int, bool, error) {
	redisKey := fmt.Sprintf("ratelimit:%s:%s:%s", endpoint, key, day)

	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.ExpireAt(ctx, redisKey, day.AddDate(0, 0, 2))
		return nil
	})
	if err != nil {
		return 0, false, err
	}

	count := int(incr.Val())
	return count, count <= limit, nil
}
