package domain

// Domain contains core models shared by the client, watcher and stores.

// Post is a single message-board entry. The remote board owns it; values held
// here are copies returned by the last round trip.
type Post struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	Poster string `json:"poster"`
}

// SameContent reports whether two posts carry identical user-visible fields.
func (p Post) SameContent(other Post) bool {
	return p.Title == other.Title && p.Body == other.Body && p.Poster == other.Poster
}

// ChangeKind labels a post transition observed between two board listings.
type ChangeKind string

const (
	ChangeCreated ChangeKind = "created"
	ChangeUpdated ChangeKind = "updated"
	ChangeDeleted ChangeKind = "deleted"
)
