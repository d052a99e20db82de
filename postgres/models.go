package postgres

import (
	"time"

	"github.com/flutterer/flutterer/api"
)

// A floot represents a floot row in the database.
type floot struct {
	ID        string    `bun:",pk,type:uuid,default:uuid_generate_v4()"`
	Message   string    `bun:"message,notnull"`
	Username  string    `bun:",notnull"`
	LikedBy   []string  `bun:"liked_by,array"`
	CreatedAt time.Time `bun:",nullzero,default:now()"`
	Comments  []comment `bun:"rel:has-many,join:id=floot_id"`
}

// A comment represents a comment row, ordered within its floot by creation
// time.
type comment struct {
	ID        string    `bun:",pk,type:uuid,default:uuid_generate_v4()"`
	FlootID   string    `bun:",notnull"`
	Message   string    `bun:"message,notnull"`
	Username  string    `bun:",notnull"`
	CreatedAt time.Time `bun:",nullzero,default:now()"`
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
		Timestamp: f.CreatedAt.Format(api.TimestampFormat),
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
