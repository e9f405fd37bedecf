package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interview-reports/internal/common/config"
	apperrors "interview-reports/internal/common/errors"
	"interview-reports/internal/models"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func sampleRecordSet() *models.RecordSet {
	return &models.RecordSet{
		Columns: []string{"성명", "총점", "총평"},
		Categories: []models.CategoryDefinition{
			{Name: "Project", Columns: []string{"요구사항 관리"}, MaxPoints: 30},
		},
		Records: []models.EvaluationRecord{
			{
				Candidate:      "Kim",
				Source:         "a.xlsx",
				Line:           6,
				Fields:         map[string]string{"성명": "Kim", "총점": "72", "총평": "solid"},
				Numbers:        map[string]float64{"총점": 72},
				CategoryScores: map[string]float64{"Project": 0},
				TotalScore:     72,
				HasTotal:       true,
				ComputedResult: models.ResultPass,
				Comment:        "solid",
				HasComment:     true,
			},
		},
	}
}

func TestKey_StableAndOrderSensitive(t *testing.T) {
	a := Entry{Name: "a.xlsx", Content: []byte("one")}
	b := Entry{Name: "b.xlsx", Content: []byte("two")}

	k1 := Key("fp", []Entry{a, b})
	k2 := Key("fp", []Entry{a, b})
	assert.Equal(t, k1, k2)
	assert.Len(t, k1, 64)

	assert.NotEqual(t, k1, Key("fp", []Entry{b, a}), "upload order is part of the identity")
	assert.NotEqual(t, k1, Key("fp2", []Entry{a, b}), "configuration changes invalidate")
	assert.NotEqual(t,
		Key("fp", []Entry{{Name: "ab", Content: []byte("c")}}),
		Key("fp", []Entry{{Name: "a", Content: []byte("bc")}}),
	)
}

func TestMemoryRecordCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryRecordCache()

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	rs := sampleRecordSet()
	require.NoError(t, c.Set(ctx, "k", rs))
	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Same(t, rs, got)
	assert.Equal(t, 1, c.Len())

	require.NoError(t, c.Invalidate(ctx, "k"))
	_, ok, _ = c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestRedisRecordCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	mr, client := setupRedis(t)
	c := NewRedisRecordCache(client, "test:", 10*time.Minute)

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	rs := sampleRecordSet()
	require.NoError(t, c.Set(ctx, "k", rs))
	assert.True(t, mr.Exists("test:k"))
	assert.Equal(t, 10*time.Minute, mr.TTL("test:k"))

	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rs, got)
	assert.True(t, got.HasColumn("총평"))

	require.NoError(t, c.Invalidate(ctx, "k"))
	assert.False(t, mr.Exists("test:k"))
}

func TestRedisRecordCache_CorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	mr, client := setupRedis(t)
	c := NewRedisRecordCache(client, "test:", time.Minute)

	require.NoError(t, mr.Set("test:bad", "{not json"))

	_, ok, err := c.Get(ctx, "bad")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, mr.Exists("test:bad"))
}

func TestRedisRecordCache_Unavailable(t *testing.T) {
	ctx := context.Background()
	mr, client := setupRedis(t)
	c := NewRedisRecordCache(client, "test:", time.Minute)
	mr.Close()

	_, _, err := c.Get(ctx, "k")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeCacheUnavailable, apperrors.Normalize(err).Code)
}

func TestNewRedis(t *testing.T) {
	mr, _ := setupRedis(t)

	_, err := NewRedis(config.RedisConfig{})
	assert.Error(t, err)

	rc, err := NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer rc.Close()
	assert.NoError(t, rc.Ping(context.Background()))
}

func TestNopRecordCache(t *testing.T) {
	ctx := context.Background()
	var c RecordCache = NopRecordCache{}
	require.NoError(t, c.Set(ctx, "k", sampleRecordSet()))
	_, ok, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.False(t, ok)
}
