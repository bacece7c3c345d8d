package watcher

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/samvad-hq/samvad-board-client/internal/domain"
	"github.com/samvad-hq/samvad-board-client/internal/logger"
	"github.com/samvad-hq/samvad-board-client/internal/storage"
	"github.com/samvad-hq/samvad-board-client/pkg/boards"
	"github.com/samvad-hq/samvad-board-client/pkg/publishers"
)

// Service polls boards and publishes post changes against the snapshot store.
type Service struct {
	registry  ListerRegistry
	publisher EventPublisher
	store     SnapshotStore
	log       logger.Logger
}

// PassResult summarizes one board poll.
type PassResult struct {
	Observed  int
	Created   int
	Updated   int
	Deleted   int
	Published int
}

// NewService wires a watcher with its collaborators.
func NewService(reg ListerRegistry, pub EventPublisher, store SnapshotStore, log logger.Logger) *Service {
	if log == nil {
		log = logger.NopLogger{}
	}
	if store == nil {
		store, _ = storage.NewStore("none", "", storage.Options{})
	}
	return &Service{
		registry:  reg,
		publisher: pub,
		store:     store,
		log:       log,
	}
}

// Run executes a poll pass for all configured boards.
func (s *Service) Run(ctx context.Context, bs []boards.Board) error {
	if s == nil || s.registry == nil || s.publisher == nil {
		return fmt.Errorf("watcher service is not initialized")
	}

	if len(bs) == 0 {
		return fmt.Errorf("no boards configured for watching")
	}

	errs := s.runAll(ctx, bs)
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

func (s *Service) runAll(ctx context.Context, bs []boards.Board) []error {
	errs := make([]error, 0, len(bs))

	for i, b := range bs {
		if ctx.Err() != nil {
			return errs
		}

		if _, err := s.RunBoard(ctx, b); err != nil {
			errs = append(errs, err)
			s.log.ErrorObj("board poll failed", "board_error", map[string]any{
				"board_id": b.ID,
				"error":    err.Error(),
			})
		}

		if delay := b.RequestDelay(); delay > 0 && i < len(bs)-1 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return errs
			case <-timer.C:
			}
		}
	}

	return errs
}

// RunBoard polls a single board, publishes every change, and advances the
// snapshots of changes that were published successfully.
func (s *Service) RunBoard(ctx context.Context, b boards.Board) (PassResult, error) {
	var res PassResult

	lister, err := s.registry.ListerFor(b)
	if err != nil {
		return res, fmt.Errorf("resolve lister for board %s: %w", b.ID, err)
	}

	current, err := lister.ListAll(ctx)
	if err != nil {
		return res, fmt.Errorf("list board %s: %w", b.ID, err)
	}
	res.Observed = len(current)

	snapshots, err := s.store.List(storage.BoardPrefix(b.ID))
	if err != nil {
		return res, fmt.Errorf("load snapshots for board %s: %w", b.ID, err)
	}

	var errs []error
	seen := make(map[string]bool, len(current))
	for _, post := range current {
		key := storage.Key(b.ID, post.ID)
		seen[key] = true

		prev, known := snapshots[key]
		kind := domain.ChangeKind("")
		switch {
		case !known:
			kind = domain.ChangeCreated
		case !prev.SameContent(post):
			kind = domain.ChangeUpdated
		}

		if kind != "" {
			n, err := s.publish(ctx, b, kind, post)
			res.Published += n
			if err != nil {
				errs = append(errs, err)
				continue
			}
			res.count(kind)
		}

		if err := s.store.Put(key, post); err != nil {
			errs = append(errs, fmt.Errorf("store snapshot %s: %w", key, err))
		}
	}

	gone := make([]string, 0)
	for key := range snapshots {
		if !seen[key] {
			gone = append(gone, key)
		}
	}
	sort.Strings(gone)
	for _, key := range gone {
		n, err := s.publish(ctx, b, domain.ChangeDeleted, snapshots[key])
		res.Published += n
		if err != nil {
			errs = append(errs, err)
			continue
		}
		res.count(domain.ChangeDeleted)
		if err := s.store.Delete(key); err != nil {
			errs = append(errs, fmt.Errorf("drop snapshot %s: %w", key, err))
		}
	}

	s.log.InfoObj("board poll completed", "board_result", map[string]any{
		"board_id":  b.ID,
		"observed":  res.Observed,
		"created":   res.Created,
		"updated":   res.Updated,
		"deleted":   res.Deleted,
		"published": res.Published,
	})
	return res, errors.Join(errs...)
}

func (s *Service) publish(ctx context.Context, b boards.Board, kind domain.ChangeKind, post domain.Post) (int, error) {
	evt := publishers.NewEvent(b.ID, b.Name, kind, post, Excerpt(post.Body))
	n, err := s.publisher.Publish(ctx, evt)
	if err != nil {
		return n, fmt.Errorf("publish %s post %s on board %s: %w", kind, post.ID, b.ID, err)
	}
	return n, nil
}

func (r *PassResult) count(kind domain.ChangeKind) {
	switch kind {
	case domain.ChangeCreated:
		r.Created++
	case domain.ChangeUpdated:
		r.Updated++
	case domain.ChangeDeleted:
		r.Deleted++
	}
}
