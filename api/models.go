package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// TimestampFormat is the wire format for floot timestamps.
const TimestampFormat = "Mon Jan 02 15:04:05 2006"

// A Floot represents a single posted message.
type Floot struct {
	ID        string   `json:"id"`
	Username  string   `json:"username"`
	Message   string   `json:"message"`
	Timestamp string   `json:"timestamp"`
	Likes     int      `json:"likes"`
	Comments  Comments `json:"comments"`
}

// A Comment represents a comment on a floot.
type Comment struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

// Comments is an insertion-ordered collection of comments. On the wire it is
// a JSON object keyed by comment ID; the key order is the display order, so
// encoding and decoding must not reorder entries the way a Go map would.
type Comments []Comment

// ByID returns the comment with the given ID.
func (cs Comments) ByID(id string) (Comment, bool) {
	for _, c := range cs {
		if c.ID == id {
			return c, true
		}
	}
	return Comment{}, false
}

// MarshalJSON encodes the comments as a JSON object keyed by comment ID,
// preserving slice order.
func (cs Comments) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range cs {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.ID)
		if err != nil {
			return nil, fmt.Errorf("marshal comment id: %w", err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(c)
		if err != nil {
			return nil, fmt.Errorf("marshal comment: %w", err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object keyed by comment ID, preserving the
// key order of the document.
func (cs *Comments) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("comments: expected JSON object, got %v", tok)
	}
	out := Comments{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("comments: expected object key, got %v", tok)
		}
		var c Comment
		if err := dec.Decode(&c); err != nil {
			return fmt.Errorf("comments: decode comment %q: %w", key, err)
		}
		if c.ID == "" {
			c.ID = key
		}
		out = append(out, c)
	}
	*cs = out
	return nil
}
