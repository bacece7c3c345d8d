package boards

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Package boards loads the list of message-board hosts (environments) to poll.

// Board is a single message-board host.
type Board struct {
	ID             string         `json:"id" yaml:"id"`
	Name           string         `json:"name" yaml:"name"`
	Host           string         `json:"host" yaml:"host"`
	RequestDelayMs int            `json:"request_delay_ms" yaml:"request_delay_ms"`
	Config         map[string]any `json:"config" yaml:"config"`
}

type registryFile struct {
	Boards []Board `json:"boards" yaml:"boards"`
}

// Registry holds boards loaded from a config file.
type Registry struct {
	mu     sync.RWMutex
	boards []Board
	idx    map[string]Board
}

var defaultRequestDelayMs = 0

// NewRegistry builds a registry from in-memory boards, applying the same
// normalization and validation as LoadRegistry.
func NewRegistry(boards ...Board) (*Registry, error) {
	if len(boards) == 0 {
		return nil, errors.New("no boards configured")
	}

	reg := &Registry{
		boards: make([]Board, len(boards)),
		idx:    make(map[string]Board, len(boards)),
	}
	for i := range boards {
		b := sanitizeBoard(boards[i])
		if err := validateBoard(b); err != nil {
			return nil, fmt.Errorf("boards[%d]: %w", i, err)
		}
		if _, exists := reg.idx[b.ID]; exists {
			return nil, fmt.Errorf("duplicate board id %q", b.ID)
		}
		reg.boards[i] = b
		reg.idx[b.ID] = b
	}
	return reg, nil
}

// LoadRegistry loads the board registry from a YAML/JSON file.
func LoadRegistry(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("boards file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open boards file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read boards file: %w", err)
	}

	parsed, err := parseRegistry(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(parsed.Boards) == 0 {
		return nil, errors.New("boards file contains no boards entries")
	}
	return NewRegistry(parsed.Boards...)
}

func parseRegistry(data []byte, ext string) (registryFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		if reg, err := unmarshalRegistry(d.name, data, d.fn); err == nil {
			return reg, nil
		}
	}

	return registryFile{}, errors.New("boards file format not recognized (expected YAML or JSON)")
}

type unmarshalFn func([]byte, any) error

func unmarshalRegistry(name string, data []byte, fn unmarshalFn) (registryFile, error) {
	var reg registryFile
	if err := fn(data, &reg); err != nil {
		return registryFile{}, fmt.Errorf("decode %s boards: %w", name, err)
	}
	return reg, nil
}

func sanitizeBoard(b Board) Board {
	b.ID = strings.TrimSpace(b.ID)
	b.Name = strings.TrimSpace(b.Name)
	b.Host = strings.TrimRight(strings.TrimSpace(b.Host), "/")

	if b.Name == "" {
		b.Name = b.ID
	}
	if b.Config == nil {
		b.Config = map[string]any{}
	}
	if b.RequestDelayMs < 0 {
		b.RequestDelayMs = defaultRequestDelayMs
	}

	return b
}

func validateBoard(b Board) error {
	if b.ID == "" {
		return errors.New("id is required")
	}
	if strings.Contains(b.ID, "/") {
		return fmt.Errorf("id %q must not contain '/'", b.ID)
	}
	if b.Host == "" {
		return fmt.Errorf("host is required for board %q", b.ID)
	}
	u, err := url.Parse(b.Host)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("host %q for board %q must be an absolute http(s) URL", b.Host, b.ID)
	}
	return nil
}

// ByID returns the board with the given id.
func (r *Registry) ByID(id string) (Board, bool) {
	if r == nil {
		return Board{}, false
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Board{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.idx[id]
	return b, ok
}

// All returns a copy of the configured boards in file order.
func (r *Registry) All() []Board {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Board, len(r.boards))
	copy(out, r.boards)
	return out
}

// RequestDelay returns the pause applied after polling this board.
func (b Board) RequestDelay() time.Duration {
	if b.RequestDelayMs <= 0 {
		return time.Duration(defaultRequestDelayMs) * time.Millisecond
	}
	return time.Duration(b.RequestDelayMs) * time.Millisecond
}
