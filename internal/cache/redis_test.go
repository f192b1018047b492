package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masmgr/logospots/internal/response"
)

// setupTestRedis creates a miniredis instance for testing.
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})

	return client, mr
}

func TestNewRedisBackend_DefaultNamespace(t *testing.T) {
	b := NewRedisBackend(nil, "")
	assert.Equal(t, "logospots", b.namespace)
	assert.Equal(t, "logospots:https://example.com/a.jpg", b.key("https://example.com/a.jpg"))
}

func TestRedisBackend_RoundTrip(t *testing.T) {
	client, mr := setupTestRedis(t)
	b := NewRedisBackend(client, "test")
	ctx := context.Background()

	entries := map[string]response.Response{
		"https://example.com/a.jpg": sampleResponse("acme", 0.9),
		"https://example.com/b.jpg": sampleResponse("globex", 0.3),
	}
	require.NoError(t, b.WriteAll(ctx, entries))

	// Keys outside the namespace are ignored.
	require.NoError(t, mr.Set("other:https://example.com/c.jpg", "{}"))
	assert.Equal(t, time.Duration(0), mr.TTL("test:https://example.com/a.jpg"), "entries should not expire")

	got, err := b.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}

func TestRedisBackend_WriteAll_Mock(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	entry := sampleResponse("acme", 0.9)
	payload, err := json.Marshal(entry)
	require.NoError(t, err)

	mock.ExpectSet("ns:a", payload, 0).SetVal("OK")
	mock.ExpectSet("ns:b", payload, 0).SetErr(errors.New("readonly"))

	b := NewRedisBackend(rdb, "ns")
	err = b.WriteAll(context.Background(), map[string]response.Response{"b": entry, "a": entry})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisBackend_ReadAll_Mock(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	entry := sampleResponse("acme", 0.9)
	payload, err := json.Marshal(entry)
	require.NoError(t, err)

	mock.ExpectScan(0, "ns:*", 200).SetVal([]string{"ns:b", "ns:a"}, 7)
	mock.ExpectScan(7, "ns:*", 200).SetVal([]string{}, 0)
	mock.ExpectGet("ns:a").SetVal(string(payload))
	mock.ExpectGet("ns:b").RedisNil()

	b := NewRedisBackend(rdb, "ns")
	got, err := b.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]response.Response{"a": entry}, got, "vanished keys are skipped")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisBackend_ReadAll_ScanError(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectScan(0, "ns:*", 200).SetErr(errors.New("connection refused"))

	_, err := NewRedisBackend(rdb, "ns").ReadAll(context.Background())
	assert.Error(t, err)
}
