package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/samvad-hq/samvad-board-client/internal/config"
	"github.com/samvad-hq/samvad-board-client/internal/logger"
	"github.com/samvad-hq/samvad-board-client/internal/watcher"
	"github.com/samvad-hq/samvad-board-client/pkg/boards"
	"github.com/samvad-hq/samvad-board-client/pkg/httpclient"
	"github.com/samvad-hq/samvad-board-client/pkg/posts"
)

const retryWait = 500 * time.Millisecond

// DefaultBoardID names the board built from board_host when no boards file exists.
const DefaultBoardID = "default"

// NewBoardTransport builds the shared resty transport from config.
func NewBoardTransport(cfg *config.Config) httpclient.Client {
	return httpclient.NewRestyClient(
		cfg.RequestTimeout,
		httpclient.WithRetries(cfg.RetryCount, retryWait),
		httpclient.WithUserAgent(cfg.UserAgent),
	)
}

// NewPostsClient builds a posts client for one board over the given transport.
func NewPostsClient(cfg *config.Config, b boards.Board, hc httpclient.Client, log logger.Logger) (*posts.Client, error) {
	opts := []posts.Option{
		posts.WithHTTPClient(hc),
		posts.WithHeaders(boards.Headers(b)),
		posts.WithLogger(log),
	}
	if cfg.CreateEncoding == config.EncodingForm {
		opts = append(opts, posts.WithFormEncoding())
	}
	return posts.NewClient(b.Host, opts...)
}

// clientRegistry caches one posts client per board.
type clientRegistry struct {
	cfg  *config.Config
	http httpclient.Client
	log  logger.Logger

	mu      sync.Mutex
	clients map[string]*posts.Client
}

func newClientRegistry(cfg *config.Config, log logger.Logger) *clientRegistry {
	return &clientRegistry{
		cfg:     cfg,
		http:    NewBoardTransport(cfg),
		log:     log,
		clients: make(map[string]*posts.Client),
	}
}

func (r *clientRegistry) ListerFor(b boards.Board) (watcher.PostLister, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.clients[b.ID]; ok {
		return c, nil
	}
	c, err := NewPostsClient(r.cfg, b, r.http, r.log)
	if err != nil {
		return nil, fmt.Errorf("build client for board %s: %w", b.ID, err)
	}
	r.clients[b.ID] = c
	return c, nil
}

// LoadBoards reads the boards file, falling back to a single board at
// cfg.BoardHost when no file is configured or the file does not exist.
func LoadBoards(cfg *config.Config) (*boards.Registry, error) {
	path := strings.TrimSpace(cfg.BoardsFile)
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return boards.LoadRegistry(path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("stat boards file: %w", err)
		}
	}
	return boards.NewRegistry(boards.Board{ID: DefaultBoardID, Host: cfg.BoardHost})
}
