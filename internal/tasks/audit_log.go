package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/srini-crayon/tngrm-frontend-sub001/internal/admin"
)

// DefaultAuditKey is the redis list holding the audit trail, newest first.
const DefaultAuditKey = "backoffice:audit"

// RedisAuditLog keeps the most recent audit entries in a capped redis list.
type RedisAuditLog struct {
	rdb   *redis.Client
	key   string
	limit int64
}

func NewRedisAuditLog(rdb *redis.Client, key string, limit int64) *RedisAuditLog {
	if key == "" {
		key = DefaultAuditKey
	}
	if limit <= 0 {
		limit = 1000
	}
	return &RedisAuditLog{rdb: rdb, key: key, limit: limit}
}

func (l *RedisAuditLog) Record(ctx context.Context, note admin.Notification) error {
	entry, err := json.Marshal(note)
	if err != nil {
		return err
	}
	_, err = l.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, l.key, entry)
		pipe.LTrim(ctx, l.key, 0, l.limit-1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

// Recent returns up to n entries, newest first.
func (l *RedisAuditLog) Recent(ctx context.Context, n int64) ([]admin.Notification, error) {
	raw, err := l.rdb.LRange(ctx, l.key, 0, n-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read audit trail: %w", err)
	}
	out := make([]admin.Notification, 0, len(raw))
	for _, r := range raw {
		var note admin.Notification
		if err := json.Unmarshal([]byte(r), &note); err != nil {
			continue
		}
		out = append(out, note)
	}
	return out, nil
}
