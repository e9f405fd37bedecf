package cache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	stderrors "errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "interview-reports/internal/common/errors"
	"interview-reports/internal/models"
)

// RecordCache memoizes the record set built from one input file set. The
// caller owns the cache and decides when to invalidate it.
type RecordCache interface {
	Get(ctx context.Context, key string) (*models.RecordSet, bool, error)
	Set(ctx context.Context, key string, rs *models.RecordSet) error
	Invalidate(ctx context.Context, key string) error
}

// Entry is one input document as seen by the key function.
type Entry struct {
	Name    string
	Content []byte
}

// Key hashes the ordered input set together with a configuration
// fingerprint. Each part is length-prefixed so boundaries cannot shift.
func Key(fingerprint string, entries []Entry) string {
	h := sha256.New()
	writePart := func(b []byte) {
		var n [8]byte
		binary.BigEndian.PutUint64(n[:], uint64(len(b)))
		h.Write(n[:])
		h.Write(b)
	}

	writePart([]byte(fingerprint))
	for _, e := range entries {
		writePart([]byte(e.Name))
		writePart(e.Content)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ==========================
// In-memory
// ==========================

// MemoryRecordCache keeps record sets for the life of the process.
type MemoryRecordCache struct {
	mu      sync.RWMutex
	entries map[string]*models.RecordSet
}

func NewMemoryRecordCache() *MemoryRecordCache {
	return &MemoryRecordCache{entries: make(map[string]*models.RecordSet)}
}

func (m *MemoryRecordCache) Get(_ context.Context, key string) (*models.RecordSet, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rs, ok := m.entries[key]
	return rs, ok, nil
}

func (m *MemoryRecordCache) Set(_ context.Context, key string, rs *models.RecordSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = rs
	return nil
}

func (m *MemoryRecordCache) Invalidate(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// Len reports the number of cached record sets.
func (m *MemoryRecordCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// ==========================
// Redis
// ==========================

// RedisRecordCache stores record sets as JSON so several CLI runs can share them.
type RedisRecordCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisRecordCache(client *redis.Client, prefix string, ttl time.Duration) *RedisRecordCache {
	return &RedisRecordCache{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisRecordCache) Get(ctx context.Context, key string) (*models.RecordSet, bool, error) {
	val, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperrors.NewCacheUnavailableError("get", err)
	}

	var rs models.RecordSet
	if err := json.Unmarshal(val, &rs); err != nil {
		// A corrupt entry is treated as a miss and dropped.
		_ = r.client.Del(ctx, r.prefix+key).Err()
		return nil, false, nil
	}
	return &rs, true, nil
}

func (r *RedisRecordCache) Set(ctx context.Context, key string, rs *models.RecordSet) error {
	data, err := json.Marshal(rs)
	if err != nil {
		return apperrors.NewCacheUnavailableError("encode", err)
	}
	if err := r.client.Set(ctx, r.prefix+key, data, r.ttl).Err(); err != nil {
		return apperrors.NewCacheUnavailableError("set", err)
	}
	return nil
}

func (r *RedisRecordCache) Invalidate(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return apperrors.NewCacheUnavailableError("del", err)
	}
	return nil
}

// ==========================
// Disabled
// ==========================

// NopRecordCache never stores anything.
type NopRecordCache struct{}

func (NopRecordCache) Get(context.Context, string) (*models.RecordSet, bool, error) {
	return nil, false, nil
}

func (NopRecordCache) Set(context.Context, string, *models.RecordSet) error { return nil }

func (NopRecordCache) Invalidate(context.Context, string) error { return nil }
