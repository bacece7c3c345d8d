package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/samvad-hq/samvad-board-client/internal/domain"
)

const (
	redisKeyPrefix   = "samvad:posts:"
	redisOpTimeout   = 3 * time.Second
	redisScanBatch   = 200
	globSpecialChars = `*?[]\`
)

// redisClient is the subset of go-redis used by redisStore.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
	Close() error
}

// redisStore implements a Store backed by Redis string keys with native TTLs.
type redisStore struct {
	client  redisClient
	postTTL time.Duration
}

// openRedis connects to addr and verifies the server answers.
func openRedis(addr string, opts Options) (Store, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return newRedisStore(client, opts), nil
}

func newRedisStore(client redisClient, opts Options) *redisStore {
	return &redisStore{client: client, postTTL: normalizeOptions(opts).PostTTL}
}

func (r *redisStore) Close() error {
	if r == nil || r.client == nil {
		return nil
	}
	return r.client.Close()
}

func (r *redisStore) Get(key string) (domain.Post, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	raw, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Post{}, false, nil
	}
	if err != nil {
		return domain.Post{}, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	var post domain.Post
	if err := json.Unmarshal(raw, &post); err != nil {
		return domain.Post{}, false, fmt.Errorf("decode snapshot %s: %w", key, err)
	}
	return post, true, nil
}

func (r *redisStore) Put(key string, post domain.Post) error {
	payload, err := json.Marshal(post)
	if err != nil {
		return fmt.Errorf("marshal post: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := r.client.Set(ctx, redisKeyPrefix+key, payload, r.postTTL).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *redisStore) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := r.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (r *redisStore) List(prefix string) (map[string]domain.Post, error) {
	out := make(map[string]domain.Post)
	match := redisKeyPrefix + escapeGlob(prefix) + "*"

	var cursor uint64
	for {
		ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
		keys, next, err := r.client.Scan(ctx, cursor, match, redisScanBatch).Result()
		cancel()
		if err != nil {
			return nil, fmt.Errorf("redis scan %s: %w", prefix, err)
		}
		for _, full := range keys {
			key := strings.TrimPrefix(full, redisKeyPrefix)
			post, ok, err := r.Get(key)
			if err != nil {
				return nil, err
			}
			// Keys can expire between SCAN and GET.
			if ok {
				out[key] = post
			}
		}
		if next == 0 {
			return out, nil
		}
		cursor = next
	}
}

// escapeGlob quotes the characters SCAN MATCH treats as patterns.
func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(globSpecialChars, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
