package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/flutterer/flutterer/api"
)

// Postgres provides floot storage in PostgreSQL.
type Postgres struct {
	bun *bun.DB
}

// Connect connects to the database and pings the DB to ensure the connection
// is working.
func Connect(ctx context.Context, connStr string) (*Postgres, error) {
	sqlDB := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(connStr)))
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	db := bun.NewDB(sqlDB, pgdialect.New())
	return &Postgres{
		bun: db,
	}, nil
}

// ListFloots returns all floots sorted newest first, each with its comments
// in creation order.
func (pg *Postgres) ListFloots(ctx context.Context) ([]api.Floot, error) {
	var floots []floot
	q := pg.bun.NewSelect().
		Model(&floots).
		Relation("Comments", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("created_at ASC")
		}).
		Order("created_at DESC")

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	out := make([]api.Floot, len(floots))
	for i, f := range floots {
		out[i] = f.APIFloot()
	}

	return out, nil
}

func (pg *Postgres) getFloot(ctx context.Context, flootID string) (floot, error) {
	var f floot
	err := pg.bun.NewSelect().
		Model(&f).
		Relation("Comments", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("created_at ASC")
		}).
		Where("id = ?", flootID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return floot{}, fmt.Errorf("floot %s: %w", flootID, api.ErrNotFound)
	}
	if err != nil {
		return floot{}, fmt.Errorf("scan: %w", err)
	}
	return f, nil
}

// GetFloot returns the floot with the given ID.
func (pg *Postgres) GetFloot(ctx context.Context, flootID string) (api.Floot, error) {
	f, err := pg.getFloot(ctx, flootID)
	if err != nil {
		return api.Floot{}, err
	}
	return f.APIFloot(), nil
}

// InsertFloot inserts a floot into the database. The returned floot holds
// auto generated fields, such as the floot id and timestamp.
func (pg *Postgres) InsertFloot(ctx context.Context, f api.Floot) (api.Floot, error) {
	m := &floot{
		Message:  f.Message,
		Username: f.Username,
	}
	if _, err := pg.bun.NewInsert().Model(m).Exec(ctx); err != nil {
		return api.Floot{}, fmt.Errorf("insert: %w", err)
	}
	return m.APIFloot(), nil
}

// DeleteFloot removes a floot and its comments if username matches the
// floot's author.
func (pg *Postgres) DeleteFloot(ctx context.Context, flootID, username string) error {
	f, err := pg.getFloot(ctx, flootID)
	if err != nil {
		return err
	}
	if f.Username != username {
		return fmt.Errorf("floot %s belongs to %s: %w", flootID, f.Username, api.ErrWrongUser)
	}
	if _, err := pg.bun.NewDelete().Model((*comment)(nil)).Where("floot_id = ?", flootID).Exec(ctx); err != nil {
		return fmt.Errorf("delete comments: %w", err)
	}
	if _, err := pg.bun.NewDelete().Model((*floot)(nil)).Where("id = ?", flootID).Exec(ctx); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

// InsertComment inserts a comment on the given floot.
func (pg *Postgres) InsertComment(ctx context.Context, flootID string, c api.Comment) (api.Comment, error) {
	if _, err := pg.getFloot(ctx, flootID); err != nil {
		return api.Comment{}, err
	}
	m := &comment{
		FlootID:  flootID,
		Message:  c.Message,
		Username: c.Username,
	}
	if _, err := pg.bun.NewInsert().Model(m).Exec(ctx); err != nil {
		return api.Comment{}, fmt.Errorf("insert: %w", err)
	}
	return m.APIComment(), nil
}

// DeleteComment removes a comment if username matches the comment's author.
func (pg *Postgres) DeleteComment(ctx context.Context, flootID, commentID, username string) error {
	var c comment
	err := pg.bun.NewSelect().
		Model(&c).
		Where("id = ?", commentID).
		Where("floot_id = ?", flootID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("comment %s on floot %s: %w", commentID, flootID, api.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}
	if c.Username != username {
		return fmt.Errorf("comment %s belongs to %s: %w", commentID, c.Username, api.ErrWrongUser)
	}
	if _, err := pg.bun.NewDelete().Model((*comment)(nil)).Where("id = ?", commentID).Exec(ctx); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}
