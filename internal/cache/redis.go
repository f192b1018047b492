package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/masmgr/logospots/internal/response"
)

// RedisBackend stores one key per URL under a namespace. Entries do not expire.
type RedisBackend struct {
	rdb       *redis.Client
	namespace string
}

// OpenRedis connects to addr and checks the connection.
func OpenRedis(addr, password string, db int, namespace string) (*RedisBackend, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect redis %s: %w", addr, err)
	}
	return NewRedisBackend(rdb, namespace), nil
}

// NewRedisBackend wraps a client. An empty namespace defaults to "logospots".
func NewRedisBackend(rdb *redis.Client, namespace string) *RedisBackend {
	if namespace == "" {
		namespace = "logospots"
	}
	return &RedisBackend{rdb: rdb, namespace: namespace}
}

func (b *RedisBackend) key(url string) string {
	return b.namespace + ":" + url
}

// ReadAll scans the namespace and fetches every entry.
func (b *RedisBackend) ReadAll(ctx context.Context) (map[string]response.Response, error) {
	prefix := b.namespace + ":"
	var keys []string
	var cursor uint64
	for {
		batch, cur, err := b.rdb.Scan(ctx, cursor, prefix+"*", 200).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, batch...)
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	sort.Strings(keys)

	entries := make(map[string]response.Response, len(keys))
	for _, k := range keys {
		data, err := b.rdb.Get(ctx, k).Bytes()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, err
		}
		var r response.Response
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("decode %q: %w", k, err)
		}
		entries[strings.TrimPrefix(k, prefix)] = r
	}
	return entries, nil
}

// WriteAll stores every entry in key order.
func (b *RedisBackend) WriteAll(ctx context.Context, entries map[string]response.Response) error {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		payload, err := json.Marshal(entries[k])
		if err != nil {
			return fmt.Errorf("encode %q: %w", k, err)
		}
		if err := b.rdb.Set(ctx, b.key(k), payload, 0).Err(); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the client.
func (b *RedisBackend) Close() error {
	return b.rdb.Close()
}
