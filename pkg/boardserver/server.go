package boardserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/samvad-hq/samvad-board-client/internal/domain"
)

// Server is an in-memory message board speaking the posts wire contract.
type Server struct {
	mu     sync.RWMutex
	posts  map[string]domain.Post
	order  []string
	nextID int64

	echo *echo.Echo
	log  Logger
}

// New builds a server with an empty board.
func New(log Logger) *Server {
	if log == nil {
		log = noopLogger{}
	}
	s := &Server{
		posts: make(map[string]domain.Post),
		log:   log,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(s.logRequests)

	e.GET("/posts/all/", s.listPosts)
	e.POST("/posts/", s.createPost)
	e.GET("/posts/:id/", s.observePost)
	e.PUT("/posts/:id/", s.updatePost)
	e.DELETE("/posts/:id/", s.deletePost)

	s.echo = e
	return s
}

// Handler exposes the router, e.g. for httptest.NewServer.
func (s *Server) Handler() http.Handler { return s.echo }

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops a started server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Seed stores posts as-is, assigning ids to those without one. Numeric ids
// advance the id sequence so later creates never collide.
func (s *Server) Seed(posts ...domain.Post) []domain.Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Post, 0, len(posts))
	for _, p := range posts {
		if p.ID == "" {
			p.ID = s.allocateID()
		} else if n, err := strconv.ParseInt(p.ID, 10, 64); err == nil && n > s.nextID {
			s.nextID = n
		}
		if _, exists := s.posts[p.ID]; !exists {
			s.order = append(s.order, p.ID)
		}
		s.posts[p.ID] = p
		out = append(out, p)
	}
	return out
}

// Len returns the number of stored posts.
func (s *Server) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.posts)
}

func (s *Server) allocateID() string {
	for {
		s.nextID++
		id := strconv.FormatInt(s.nextID, 10)
		if _, taken := s.posts[id]; !taken {
			return id
		}
	}
}

type createForm struct {
	Title  string `json:"title" form:"title"`
	Body   string `json:"body" form:"body"`
	Poster string `json:"poster" form:"poster"`
}

type updateForm struct {
	Body   *string `json:"body"`
	Poster *string `json:"poster"`
}

type deleteForm struct {
	Poster *string `json:"poster"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func failure(c echo.Context, code int, msg string) error {
	return c.JSON(code, errorResponse{Error: msg})
}

func (s *Server) listPosts(c echo.Context) error {
	s.mu.RLock()
	out := make([]domain.Post, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.posts[id])
	}
	s.mu.RUnlock()
	return c.JSON(http.StatusOK, out)
}

func (s *Server) observePost(c echo.Context) error {
	s.mu.RLock()
	post, ok := s.posts[c.Param("id")]
	s.mu.RUnlock()
	if !ok {
		return failure(c, http.StatusNotFound, "Post not found!")
	}
	return c.JSON(http.StatusOK, post)
}

func (s *Server) createPost(c echo.Context) error {
	var form createForm
	if err := c.Bind(&form); err != nil {
		return failure(c, http.StatusBadRequest, "Invalid body.")
	}
	switch {
	case strings.TrimSpace(form.Title) == "":
		return failure(c, http.StatusBadRequest, "Title not found!")
	case strings.TrimSpace(form.Body) == "":
		return failure(c, http.StatusBadRequest, "Body not found!")
	case strings.TrimSpace(form.Poster) == "":
		return failure(c, http.StatusBadRequest, "Poster not found!")
	}

	s.mu.Lock()
	post := domain.Post{
		ID:     s.allocateID(),
		Title:  form.Title,
		Body:   form.Body,
		Poster: form.Poster,
	}
	s.posts[post.ID] = post
	s.order = append(s.order, post.ID)
	s.mu.Unlock()

	return c.JSON(http.StatusCreated, post)
}

func (s *Server) updatePost(c echo.Context) error {
	var form updateForm
	if err := json.NewDecoder(c.Request().Body).Decode(&form); err != nil {
		return failure(c, http.StatusBadRequest, "Invalid body.")
	}
	if form.Body == nil {
		return failure(c, http.StatusBadRequest, "Body not found!")
	}
	if form.Poster == nil {
		return failure(c, http.StatusBadRequest, "Poster not found!")
	}

	id := c.Param("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[id]
	if !ok {
		return failure(c, http.StatusNotFound, "Post not found!")
	}
	if post.Poster != *form.Poster {
		return failure(c, http.StatusForbidden, "Poster does not match!")
	}
	post.Body = *form.Body
	s.posts[id] = post
	return c.JSON(http.StatusOK, post)
}

func (s *Server) deletePost(c echo.Context) error {
	var form deleteForm
	if err := json.NewDecoder(c.Request().Body).Decode(&form); err != nil {
		return failure(c, http.StatusBadRequest, "Invalid body.")
	}
	if form.Poster == nil {
		return failure(c, http.StatusBadRequest, "Poster not found!")
	}

	id := c.Param("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[id]
	if !ok {
		return failure(c, http.StatusNotFound, "Post not found!")
	}
	if post.Poster != *form.Poster {
		return failure(c, http.StatusForbidden, "Poster does not match!")
	}
	delete(s.posts, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return c.JSON(http.StatusOK, post)
}

func (s *Server) logRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		s.log.DebugObj("board stub request", "stub_request", map[string]any{
			"method":     c.Request().Method,
			"path":       c.Request().URL.Path,
			"status":     c.Response().Status,
			"elapsed_ms": time.Since(start).Milliseconds(),
		})
		return err
	}
}
