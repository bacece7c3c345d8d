package publishers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/samvad-hq/samvad-board-client/internal/domain"
)

func newWebhookPublisher(t *testing.T, url string, headers map[string]string) Publisher {
	t.Helper()
	pub, err := newHTTPPublisher(context.Background(), PublisherConfig{
		ID:   "hook",
		Type: TypeHTTP,
		HTTP: &HTTPPublisherConfig{
			URL:            url,
			Headers:        headers,
			TimeoutSeconds: 2,
		},
	}, nil)
	if err != nil {
		t.Fatalf("newHTTPPublisher: %v", err)
	}
	return pub
}

func TestHTTPPublisherPostsBoardEvent(t *testing.T) {
	var (
		gotMethod string
		gotHeader http.Header
		gotEvent  Event
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotHeader = r.Header.Clone()
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &gotEvent); err != nil {
			t.Errorf("decode event: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	pub := newWebhookPublisher(t, srv.URL, map[string]string{"X-Source": "watcher"})
	evt := NewEvent("main", "Main board", domain.ChangeUpdated,
		domain.Post{ID: "7", Title: "T", Body: "B", Poster: "alice"}, "B")

	if err := pub.Publish(context.Background(), evt); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Fatalf("expected default POST, got %s", gotMethod)
	}
	if got := gotHeader.Get("X-Source"); got != "watcher" {
		t.Fatalf("missing configured header, got %q", got)
	}
	if got := gotHeader.Get(HeaderBoardID); got != "main" {
		t.Fatalf("board header = %q", got)
	}
	if got := gotHeader.Get(HeaderEventKind); got != "updated" {
		t.Fatalf("kind header = %q", got)
	}
	if !strings.HasPrefix(gotHeader.Get("Content-Type"), "application/json") {
		t.Fatalf("content type = %q", gotHeader.Get("Content-Type"))
	}
	if gotEvent.Post.ID != "7" || gotEvent.Kind != domain.ChangeUpdated || gotEvent.BoardName != "Main board" {
		t.Fatalf("unexpected event payload: %+v", gotEvent)
	}
}

func TestHTTPPublisherErrorOnNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer srv.Close()

	pub := newWebhookPublisher(t, srv.URL, nil)
	err := pub.Publish(context.Background(), Event{BoardID: "main", Kind: domain.ChangeCreated})
	if err == nil || !strings.Contains(err.Error(), "status 400: nope") {
		t.Fatalf("expected status error, got %v", err)
	}
}
