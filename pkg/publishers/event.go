package publishers

import (
	"time"

	"github.com/samvad-hq/samvad-board-client/internal/domain"
)

// Event represents a post change published downstream.
type Event struct {
	BoardID    string            `json:"board_id"`
	BoardName  string            `json:"board_name"`
	Kind       domain.ChangeKind `json:"kind"`
	Post       domain.Post       `json:"post"`
	Excerpt    string            `json:"excerpt,omitempty"`
	ObservedAt time.Time         `json:"observed_at"`
}

// NewEvent constructs an Event for the given board + post change.
func NewEvent(boardID, boardName string, kind domain.ChangeKind, post domain.Post, excerpt string) Event {
	return Event{
		BoardID:    boardID,
		BoardName:  boardName,
		Kind:       kind,
		Post:       post,
		Excerpt:    excerpt,
		ObservedAt: time.Now().UTC(),
	}
}

// attributes are the message attributes attached by queue/topic publishers.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"board_id": e.BoardID,
		"kind":     string(e.Kind),
	}
}
