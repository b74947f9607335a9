package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/srini-crayon/tngrm-frontend-sub001/internal/logging"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/models"
)

// DefaultKey is the persistence key of the session record.
const DefaultKey = "auth-storage"

// Snapshot is the persisted part of a session. Nothing else is written to storage.
type Snapshot struct {
	User            *models.User `json:"user"`
	Token           string       `json:"token,omitempty"`
	IsAuthenticated bool         `json:"isAuthenticated"`
}

// Storage persists a single session snapshot.
// Load returns (nil, nil) when nothing has been saved.
type Storage interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap *Snapshot) error
	Clear(ctx context.Context) error
}

// --- File storage ---

// FileStorage keeps the snapshot in a JSON file keyed like browser local storage:
// {"auth-storage": {...}}.
type FileStorage struct {
	path string
	key  string
	mu   sync.Mutex
}

func NewFileStorage(path, key string) *FileStorage {
	if key == "" {
		key = DefaultKey
	}
	return &FileStorage{path: path, key: key}
}

func (f *FileStorage) Load(ctx context.Context) (*Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.read()
	if err != nil {
		return nil, err
	}
	raw, ok := entries[f.key]
	if !ok {
		return nil, nil
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", f.key, err)
	}
	return &snap, nil
}

func (f *FileStorage) Save(ctx context.Context, snap *Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.read()
	if err != nil {
		// A corrupt file is replaced rather than blocking every future save.
		logging.Warnf("session file %s unreadable, overwriting: %v", f.path, err)
		entries = map[string]json.RawMessage{}
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	entries[f.key] = raw
	return f.write(entries)
}

func (f *FileStorage) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.read()
	if err != nil {
		return err
	}
	if _, ok := entries[f.key]; !ok {
		return nil
	}
	delete(entries, f.key)
	if len(entries) == 0 {
		if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove session file: %w", err)
		}
		return nil
	}
	return f.write(entries)
}

func (f *FileStorage) read() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}
	entries := map[string]json.RawMessage{}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}
	return entries, nil
}

func (f *FileStorage) write(entries map[string]json.RawMessage) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session file: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	return nil
}

// --- Redis storage ---

// RedisStorage keeps the snapshot under a single redis key.
type RedisStorage struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

// NewRedisStorage creates a redis-backed store. ttl 0 keeps the key forever.
func NewRedisStorage(rdb *redis.Client, key string, ttl time.Duration) *RedisStorage {
	if key == "" {
		key = DefaultKey
	}
	return &RedisStorage{rdb: rdb, key: key, ttl: ttl}
}

func (r *RedisStorage) Load(ctx context.Context) (*Snapshot, error) {
	data, err := r.rdb.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session from redis: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", r.key, err)
	}
	return &snap, nil
}

func (r *RedisStorage) Save(ctx context.Context, snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := r.rdb.Set(ctx, r.key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session to redis: %w", err)
	}
	return nil
}

func (r *RedisStorage) Clear(ctx context.Context) error {
	if err := r.rdb.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("failed to clear session in redis: %w", err)
	}
	return nil
}

// --- Memory storage ---

// MemoryStorage keeps the snapshot in process memory.
type MemoryStorage struct {
	mu   sync.Mutex
	snap *Snapshot
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Load(ctx context.Context) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snap == nil {
		return nil, nil
	}
	cp := *m.snap
	return &cp, nil
}

func (m *MemoryStorage) Save(ctx context.Context, snap *Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *snap
	m.snap = &cp
	return nil
}

func (m *MemoryStorage) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = nil
	return nil
}

// --- Safe wrapper ---

// SafeStorage turns storage failures into logged no-ops so an unavailable
// backend never breaks the in-memory session.
type SafeStorage struct {
	inner Storage
}

func NewSafeStorage(inner Storage) *SafeStorage {
	return &SafeStorage{inner: inner}
}

func (s *SafeStorage) Load(ctx context.Context) (*Snapshot, error) {
	snap, err := s.inner.Load(ctx)
	if err != nil {
		logging.Errorf("Error accessing session storage: %v", err)
		return nil, nil
	}
	return snap, nil
}

func (s *SafeStorage) Save(ctx context.Context, snap *Snapshot) error {
	if err := s.inner.Save(ctx, snap); err != nil {
		logging.Errorf("Error setting session storage: %v", err)
	}
	return nil
}

func (s *SafeStorage) Clear(ctx context.Context) error {
	if err := s.inner.Clear(ctx); err != nil {
		logging.Errorf("Error removing from session storage: %v", err)
	}
	return nil
}
