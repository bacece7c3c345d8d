package posts

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrTransport matches every RequestError via errors.Is.
	ErrTransport = errors.New("posts: request failed")
	// ErrDecode matches every DecodeError via errors.Is.
	ErrDecode = errors.New("posts: malformed response")
	// ErrMissingID is returned before any request when an operation needs an id.
	ErrMissingID = errors.New("posts: id is required")
)

// RequestError reports a call that never produced a usable 2xx response:
// the transport failed or the board answered with a non-2xx status.
type RequestError struct {
	Op         string
	Method     string
	URL        string
	StatusCode int    // zero when no response was received
	Message    string // server supplied reason, if any
	Err        error
}

// TransportError is the taxonomy name for RequestError.
type TransportError = RequestError

func (e *RequestError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "posts %s: %s %s", e.Op, e.Method, e.URL)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": status %d", e.StatusCode)
		if e.Message != "" {
			b.WriteString(": ")
			b.WriteString(e.Message)
		}
		return b.String()
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *RequestError) Unwrap() error { return e.Err }

func (e *RequestError) Is(target error) bool { return target == ErrTransport }

// NotFound reports whether the board answered 404.
func (e *RequestError) NotFound() bool { return e.StatusCode == http.StatusNotFound }

// DecodeError reports a 2xx body that is not the expected JSON shape.
type DecodeError struct {
	Op   string
	Body string // leading part of the offending body
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("posts %s: decode response: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// serverMessage extracts the reason from a board failure body. The board
// answers {"error": "..."}; anything else is reported as a trimmed snippet.
func serverMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if msg := strings.TrimSpace(payload.Error); msg != "" {
			return msg
		}
		if msg := strings.TrimSpace(payload.Message); msg != "" {
			return msg
		}
	}
	return readBodySnippet(body)
}

func readBodySnippet(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if len(body) > 512 {
		body = body[:512]
	}
	return strings.TrimSpace(string(body))
}
