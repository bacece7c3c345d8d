package watcher

import (
	"context"

	"github.com/samvad-hq/samvad-board-client/internal/domain"
	"github.com/samvad-hq/samvad-board-client/pkg/boards"
	"github.com/samvad-hq/samvad-board-client/pkg/publishers"
)

// PostLister fetches the current listing of one board. *posts.Client satisfies it.
type PostLister interface {
	ListAll(ctx context.Context) ([]domain.Post, error)
}

// ListerRegistry resolves the lister for a configured board.
type ListerRegistry interface {
	ListerFor(b boards.Board) (PostLister, error)
}

// EventPublisher publishes change events downstream and reports how many
// sinks accepted the event.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// SnapshotStore is the subset of storage.Store the watcher needs.
type SnapshotStore interface {
	Put(key string, post domain.Post) error
	Delete(key string) error
	List(prefix string) (map[string]domain.Post, error)
}
