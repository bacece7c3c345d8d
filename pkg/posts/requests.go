package posts

// CreateRequest is the body of POST /posts/.
type CreateRequest struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	Poster string `json:"poster"`
}

func (r CreateRequest) form() map[string]string {
	return map[string]string{
		"title":  r.Title,
		"body":   r.Body,
		"poster": r.Poster,
	}
}

// UpdateRequest is the body of PUT /posts/{id}/. The title cannot be changed.
type UpdateRequest struct {
	Body   string `json:"body"`
	Poster string `json:"poster"`
}

// DeleteRequest is the body of DELETE /posts/{id}/. Poster is forwarded as the
// server's authorization hint; the client does not check it.
type DeleteRequest struct {
	Poster string `json:"poster"`
}
