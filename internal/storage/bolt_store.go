package storage

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/samvad-hq/samvad-board-client/internal/domain"
)

const (
	postBucket       = "posts"
	expiryValueBytes = 8
)

// boltStore implements a Store backed by BoltDB. Values are an 8-byte
// big-endian unix expiry followed by the JSON post.
type boltStore struct {
	db              *bolt.DB
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	postTTL         time.Duration
	cleanupInterval time.Duration
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string, opts Options) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(postBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	store := &boltStore{
		db:              db,
		postTTL:         opts.PostTTL,
		cleanupInterval: opts.CleanupInterval,
	}
	store.lastCleanup.Store(time.Now().Unix())
	return store, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Get returns the live snapshot stored under key.
func (b *boltStore) Get(key string) (domain.Post, bool, error) {
	if b == nil || b.db == nil {
		return domain.Post{}, false, nil
	}

	now := time.Now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return domain.Post{}, false, err
	}

	var (
		post  domain.Post
		found bool
	)
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(postBucket))
		if bucket == nil {
			return fmt.Errorf("post bucket missing")
		}
		p, ok, err := decodeValue(bucket.Get([]byte(key)), now)
		if err != nil {
			return fmt.Errorf("decode snapshot %s: %w", key, err)
		}
		post, found = p, ok
		return nil
	})
	return post, found, err
}

// Put stores post under key and refreshes its expiry.
func (b *boltStore) Put(key string, post domain.Post) error {
	if b == nil || b.db == nil {
		return nil
	}

	now := time.Now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return err
	}

	value, err := encodeValue(post, now.Add(b.postTTL))
	if err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(postBucket))
		if bucket == nil {
			return fmt.Errorf("post bucket missing")
		}
		return bucket.Put([]byte(key), value)
	})
}

// Delete removes the snapshot stored under key.
func (b *boltStore) Delete(key string) error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(postBucket))
		if bucket == nil {
			return fmt.Errorf("post bucket missing")
		}
		return bucket.Delete([]byte(key))
	})
}

// List returns every live snapshot whose key starts with prefix.
func (b *boltStore) List(prefix string) (map[string]domain.Post, error) {
	out := make(map[string]domain.Post)
	if b == nil || b.db == nil {
		return out, nil
	}

	now := time.Now()
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(postBucket))
		if bucket == nil {
			return fmt.Errorf("post bucket missing")
		}
		p := []byte(prefix)
		cursor := bucket.Cursor()
		for k, v := cursor.Seek(p); k != nil && bytes.HasPrefix(k, p); k, v = cursor.Next() {
			post, ok, err := decodeValue(v, now)
			if err != nil {
				return fmt.Errorf("decode snapshot %s: %w", k, err)
			}
			if ok {
				out[string(k)] = post
			}
		}
		return nil
	})
	return out, err
}

// maybeCleanupExpired removes expired snapshots on a fixed cadence to avoid unbounded growth.
func (b *boltStore) maybeCleanupExpired(now time.Time) error {
	if b == nil || b.db == nil {
		return nil
	}

	last := time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	b.cleanupMu.Lock()
	defer b.cleanupMu.Unlock()

	last = time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(postBucket))
		if bucket == nil {
			return fmt.Errorf("post bucket missing")
		}

		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			expiry, ok := decodeExpiry(v)
			if !ok || !expiry.After(now) {
				if err := cursor.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err == nil {
		b.lastCleanup.Store(now.Unix())
	}
	return err
}

func encodeValue(post domain.Post, expiry time.Time) ([]byte, error) {
	payload, err := json.Marshal(post)
	if err != nil {
		return nil, fmt.Errorf("marshal post: %w", err)
	}
	buf := make([]byte, expiryValueBytes, expiryValueBytes+len(payload))
	binary.BigEndian.PutUint64(buf, uint64(expiry.Unix()))
	return append(buf, payload...), nil
}

// decodeValue returns ok=false for missing or expired values.
func decodeValue(value []byte, now time.Time) (domain.Post, bool, error) {
	if value == nil {
		return domain.Post{}, false, nil
	}
	expiry, ok := decodeExpiry(value)
	if !ok || !expiry.After(now) {
		return domain.Post{}, false, nil
	}
	var post domain.Post
	if err := json.Unmarshal(value[expiryValueBytes:], &post); err != nil {
		return domain.Post{}, false, err
	}
	return post, true, nil
}

// decodeExpiry decodes the expiry time from the stored byte slice.
func decodeExpiry(value []byte) (time.Time, bool) {
	if len(value) < expiryValueBytes {
		return time.Time{}, false
	}
	unix := int64(binary.BigEndian.Uint64(value[:expiryValueBytes]))
	if unix <= 0 {
		return time.Time{}, false
	}
	return time.Unix(unix, 0), true
}
