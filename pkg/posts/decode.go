package posts

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// wirePost mirrors the board's post object. Pointers tell a missing or null
// field apart from an empty string.
type wirePost struct {
	ID     *string `json:"id"`
	Title  *string `json:"title"`
	Body   *string `json:"body"`
	Poster *string `json:"poster"`
}

func (w wirePost) post() (Post, error) {
	switch {
	case w.ID == nil:
		return Post{}, errors.New(`missing field "id"`)
	case *w.ID == "":
		return Post{}, errors.New(`empty field "id"`)
	case w.Title == nil:
		return Post{}, errors.New(`missing field "title"`)
	case w.Body == nil:
		return Post{}, errors.New(`missing field "body"`)
	case w.Poster == nil:
		return Post{}, errors.New(`missing field "poster"`)
	}
	return Post{ID: *w.ID, Title: *w.Title, Body: *w.Body, Poster: *w.Poster}, nil
}

func decodePost(data []byte) (Post, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Post{}, errors.New("expected a JSON object")
	}
	var w wirePost
	if err := json.Unmarshal(trimmed, &w); err != nil {
		return Post{}, err
	}
	return w.post()
}

func decodePosts(data []byte) ([]Post, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errors.New("expected a JSON array")
	}
	var ws []wirePost
	if err := json.Unmarshal(trimmed, &ws); err != nil {
		return nil, err
	}
	out := make([]Post, 0, len(ws))
	for i, w := range ws {
		p, err := w.post()
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, p)
	}
	return out, nil
}
