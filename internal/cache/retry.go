package cache

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/srini-crayon/tngrm-frontend-sub001/internal/logging"
)

// Operation is a function that performs an action and returns an error if it fails.
type Operation func() error

// DefaultMaxRetries is used by ConnectRedisWithRetry when attempts < 1.
const DefaultMaxRetries = 5

// retryDelay is the base of the incremental backoff between attempts.
var retryDelay = 200 * time.Millisecond

// WithRetries runs op until it succeeds, retryable reports false, or
// maxRetries retries have been used. The delay grows with each attempt.
func WithRetries(op Operation, maxRetries int, retryable func(error) bool) error {
	var err error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		err = op()
		if err == nil {
			return nil
		}
		if attempt == maxRetries || !retryable(err) {
			break
		}
		logging.Debugf("attempt %d failed, retrying: %v", attempt+1, err)
		time.Sleep(time.Duration(attempt+1) * retryDelay)
	}
	return err
}

// ConnectRedisWithRetry waits for redis to come up, e.g. when the worker
// starts alongside it.
func ConnectRedisWithRetry(addr, password string, db, maxRetries int) (*redis.Client, error) {
	if maxRetries < 1 {
		maxRetries = DefaultMaxRetries
	}
	var rdb *redis.Client
	err := WithRetries(func() error {
		var err error
		rdb, err = ConnectRedis(addr, password, db)
		return err
	}, maxRetries, func(error) bool { return true })
	return rdb, err
}
