package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-board-client/internal/domain"
)

// Package storage keeps the last-seen snapshot of every watched post.

// Store persists post snapshots keyed by Key(boardID, postID). Expired
// entries read as absent.
type Store interface {
	Close() error
	Get(key string) (domain.Post, bool, error)
	Put(key string, post domain.Post) error
	Delete(key string) error
	// List returns every live snapshot whose key starts with prefix.
	List(prefix string) (map[string]domain.Post, error)
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	PostTTL         time.Duration
	CleanupInterval time.Duration
}

const (
	defaultPostTTL         = 5 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// Key builds the snapshot key for a post on a board.
func Key(boardID, postID string) string {
	return BoardPrefix(boardID) + postID
}

// BoardPrefix is the key prefix shared by all snapshots of a board.
func BoardPrefix(boardID string) string {
	return boardID + "/"
}

// NewStore creates the configured storage backend. target is the bbolt file
// path or the redis address depending on typ.
func NewStore(typ, target string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(target) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(target, opts)
	case "redis":
		if strings.TrimSpace(target) == "" {
			return nil, fmt.Errorf("redis storage requires an address")
		}
		return openRedis(target, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.PostTTL <= 0 {
		opts.PostTTL = defaultPostTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                               { return nil }
func (noopStore) Get(string) (domain.Post, bool, error)      { return domain.Post{}, false, nil }
func (noopStore) Put(string, domain.Post) error              { return nil }
func (noopStore) Delete(string) error                        { return nil }
func (noopStore) List(string) (map[string]domain.Post, error) { return map[string]domain.Post{}, nil }
