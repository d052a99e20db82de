package jsonfile

import (
	"github.com/flutterer/flutterer/api"
)

// A floot is the file representation of a floot. The layout matches the
// historical data.json format, so an existing database file keeps working:
// comments are a JSON array (display order) and likes are a list of
// usernames.
type floot struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Timestamp string    `json:"timestamp"`
	Username  string    `json:"username"`
	LikedBy   []string  `json:"liked_by"`
	Comments  []comment `json:"comments"`
}

type comment struct {
	ID       string `json:"id"`
	Message  string `json:"message"`
	Username string `json:"username"`
}

func (f floot) APIFloot() api.Floot {
	comments := make(api.Comments, len(f.Comments))
	for i, c := range f.Comments {
		comments[i] = c.APIComment()
	}

	return api.Floot{
		ID:        f.ID,
		Username:  f.Username,
		Message:   f.Message,
		Timestamp: f.Timestamp,
		Likes:     len(f.LikedBy),
		Comments:  comments,
	}
}

func (c comment) APIComment() api.Comment {
	return api.Comment{
		ID:       c.ID,
		Username: c.Username,
		Message:  c.Message,
	}
}
