package posts

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-board-client/internal/domain"
	"github.com/samvad-hq/samvad-board-client/pkg/httpclient"
)

// Post is the board's single resource type.
type Post = domain.Post

// Operation names used in errors and logs.
const (
	OpList   = "list"
	OpGet    = "get"
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

const defaultTimeout = 10 * time.Second

// Client issues post operations against one board host. It holds no mutable
// state and is safe for concurrent use.
type Client struct {
	host    string
	http    httpclient.Client
	headers map[string]string
	form    bool
	log     Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient swaps the transport, e.g. for a test double.
func WithHTTPClient(hc httpclient.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithHeaders adds static headers to every request.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		for k, v := range headers {
			if k = strings.TrimSpace(k); k != "" {
				c.headers[k] = v
			}
		}
	}
}

// WithFormEncoding sends the create body form-encoded.
func WithFormEncoding() Option {
	return func(c *Client) { c.form = true }
}

// WithJSONEncoding sends the create body as JSON (the default).
func WithJSONEncoding() Option {
	return func(c *Client) { c.form = false }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(log Logger) Option {
	return func(c *Client) { c.log = ensureLogger(log) }
}

// NewClient returns a client for the board at host, e.g.
// "https://board.example.com".
func NewClient(host string, opts ...Option) (*Client, error) {
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("parse board host: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("board host %q must be an absolute http(s) URL", host)
	}

	c := &Client{
		host:    host,
		headers: make(map[string]string),
		log:     noopLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.http == nil {
		c.http = httpclient.NewRestyClient(defaultTimeout)
	}
	return c, nil
}

// Host returns the base address prefixed to every endpoint path.
func (c *Client) Host() string { return c.host }

// ListAll fetches every post in server order. An empty board yields an empty,
// non-nil slice.
func (c *Client) ListAll(ctx context.Context) ([]Post, error) {
	body, err := c.execute(ctx, OpList, httpclient.Request{
		Method: http.MethodGet,
		URL:    c.host + "/posts/all/",
	})
	if err != nil {
		return nil, err
	}
	posts, err := decodePosts(body)
	if err != nil {
		return nil, c.decodeFailure(OpList, body, err)
	}
	return posts, nil
}

// Get fetches the post with the given id.
func (c *Client) Get(ctx context.Context, id string) (Post, error) {
	u, err := c.postURL(id)
	if err != nil {
		return Post{}, err
	}
	return c.single(ctx, OpGet, httpclient.Request{Method: http.MethodGet, URL: u})
}

// Create publishes a new post; the board assigns its id.
func (c *Client) Create(ctx context.Context, req CreateRequest) (Post, error) {
	out := httpclient.Request{Method: http.MethodPost, URL: c.host + "/posts/"}
	if c.form {
		out.Form = req.form()
	} else {
		out.JSON = req
	}
	return c.single(ctx, OpCreate, out)
}

// Update replaces the body of the post with the given id.
func (c *Client) Update(ctx context.Context, id string, req UpdateRequest) (Post, error) {
	u, err := c.postURL(id)
	if err != nil {
		return Post{}, err
	}
	return c.single(ctx, OpUpdate, httpclient.Request{Method: http.MethodPut, URL: u, JSON: req})
}

// Delete removes the post with the given id and returns its last
// representation as reported by the board.
func (c *Client) Delete(ctx context.Context, id string, req DeleteRequest) (Post, error) {
	u, err := c.postURL(id)
	if err != nil {
		return Post{}, err
	}
	return c.single(ctx, OpDelete, httpclient.Request{Method: http.MethodDelete, URL: u, JSON: req})
}

func (c *Client) postURL(id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", ErrMissingID
	}
	return c.host + "/posts/" + url.PathEscape(id) + "/", nil
}

func (c *Client) single(ctx context.Context, op string, req httpclient.Request) (Post, error) {
	body, err := c.execute(ctx, op, req)
	if err != nil {
		return Post{}, err
	}
	post, err := decodePost(body)
	if err != nil {
		return Post{}, c.decodeFailure(op, body, err)
	}
	return post, nil
}

// execute sends one request and returns the body of a 2xx response.
func (c *Client) execute(ctx context.Context, op string, req httpclient.Request) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(c.headers) > 0 {
		headers := make(map[string]string, len(c.headers)+len(req.Headers))
		for k, v := range c.headers {
			headers[k] = v
		}
		for k, v := range req.Headers {
			headers[k] = v
		}
		req.Headers = headers
	}

	c.log.DebugObj("board request", "board_request", map[string]any{
		"op":     op,
		"method": req.Method,
		"url":    req.URL,
	})

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, c.requestFailure(&RequestError{Op: op, Method: req.Method, URL: req.URL, Err: err})
	}

	code := resp.StatusCode()
	if code < 200 || code > 299 {
		return nil, c.requestFailure(&RequestError{
			Op:         op,
			Method:     req.Method,
			URL:        req.URL,
			StatusCode: code,
			Message:    serverMessage(resp.Body()),
			Err:        fmt.Errorf("unexpected status %d", code),
		})
	}
	return resp.Body(), nil
}

func (c *Client) requestFailure(err *RequestError) error {
	c.log.WarnObj("board request failed", "board_error", map[string]any{
		"op":          err.Op,
		"url":         err.URL,
		"status_code": err.StatusCode,
		"error":       err.Error(),
	})
	return err
}

func (c *Client) decodeFailure(op string, body []byte, cause error) error {
	err := &DecodeError{Op: op, Body: readBodySnippet(body), Err: cause}
	c.log.WarnObj("board response malformed", "board_error", map[string]any{
		"op":    op,
		"error": err.Error(),
	})
	return err
}
