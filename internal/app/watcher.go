package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-board-client/internal/config"
	"github.com/samvad-hq/samvad-board-client/internal/logger"
	"github.com/samvad-hq/samvad-board-client/internal/storage"
	"github.com/samvad-hq/samvad-board-client/internal/watcher"
	"github.com/samvad-hq/samvad-board-client/pkg/boards"
	"github.com/samvad-hq/samvad-board-client/pkg/publishers"
)

// Watcher is the board watcher runtime. It owns the poll loop, the snapshot
// store and the publisher fanout.
type Watcher struct {
	cfg          *config.Config
	boardReg     *boards.Registry
	fanout       *publishers.Fanout
	service      *watcher.Service
	pollInterval time.Duration
	log          logger.Logger
	store        storage.Store
}

// NewWatcher builds a watcher runtime from config files.
func NewWatcher(ctx context.Context, cfg *config.Config, log logger.Logger) (*Watcher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	boardReg, err := LoadBoards(cfg)
	if err != nil {
		return nil, fmt.Errorf("load boards registry: %w", err)
	}
	boardList := boardReg.All()
	boardIDs := make([]string, 0, len(boardList))
	for _, b := range boardList {
		boardIDs = append(boardIDs, b.ID)
	}
	log.InfoObj("boards registry loaded", "boards_meta", map[string]any{
		"count": len(boardIDs),
		"ids":   boardIDs,
	})

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabledPublishers := publisherReg.Enabled()
	if len(enabledPublishers) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients)
	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})

	store, err := OpenStore(cfg)
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"target":                   storeTarget(cfg),
		"post_ttl_seconds":         int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	service := watcher.NewService(newClientRegistry(cfg, log), fanout, store, log)

	return &Watcher{
		cfg:          cfg,
		boardReg:     boardReg,
		fanout:       fanout,
		service:      service,
		pollInterval: cfg.PollInterval,
		log:          log,
		store:        store,
	}, nil
}

func storeTarget(cfg *config.Config) string {
	if strings.EqualFold(strings.TrimSpace(cfg.StorageType), "redis") {
		return cfg.RedisAddr
	}
	return cfg.BBoltPath
}

// OpenStore opens the configured snapshot store.
func OpenStore(cfg *config.Config) (storage.Store, error) {
	return storage.NewStore(cfg.StorageType, storeTarget(cfg), storage.Options{
		PostTTL:         cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
}

// Run starts the poll loop until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if w == nil || w.service == nil {
		return fmt.Errorf("watcher is not initialized")
	}
	defer w.close()

	bs := w.boardReg.All()
	w.log.InfoObj("watcher loop starting", "watcher_state", map[string]any{
		"boards_count":     len(bs),
		"publishers_count": w.fanout.Size(),
		"poll_interval":    w.pollInterval.String(),
	})

	if err := w.runOnce(ctx, bs); err != nil {
		w.log.ErrorObj("initial poll failed", "error", err)
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.InfoObj("watcher loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if err := w.runOnce(ctx, bs); err != nil {
				w.log.ErrorObj("scheduled poll failed", "error", err)
			}
		}
	}
}

// runOnce performs a single poll across all boards.
func (w *Watcher) runOnce(ctx context.Context, bs []boards.Board) error {
	start := time.Now()
	w.log.InfoObj("poll started", "poll_meta", map[string]any{
		"boards_count": len(bs),
		"started_at":   start.UTC(),
	})
	if err := w.service.Run(ctx, bs); err != nil {
		return err
	}
	w.log.InfoObj("poll completed", "poll_meta", map[string]any{
		"boards_count": len(bs),
		"elapsed_ms":   time.Since(start).Milliseconds(),
	})
	return nil
}

func (w *Watcher) close() {
	if w.store != nil {
		if err := w.store.Close(); err != nil {
			w.log.ErrorObj("storage close failed", "error", err)
		}
	}
	if w.fanout != nil {
		if err := w.fanout.Close(); err != nil {
			w.log.ErrorObj("publisher close failed", "error", err)
		}
	}
}
