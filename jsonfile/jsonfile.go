// Package jsonfile provides floot storage in a single JSON file. The whole
// database is held in memory and rewritten to disk on every mutation, which
// is plenty for feed-demo data volumes and keeps the file hand-editable.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/flutterer/flutterer/api"
)

// Store persists floots in a single JSON file.
type Store struct {
	path string

	mu     sync.Mutex
	floots []floot // insertion order
}

// Open loads the database file at path, creating an empty store if the file
// does not exist yet.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read database: %w", err)
	}
	if err := s.load(b); err != nil {
		return nil, fmt.Errorf("parse database %s: %w", path, err)
	}
	return s, nil
}

// load decodes the top-level object keyed by floot ID, preserving key order
// so ties in the timestamp sort stay deterministic across restarts.
func (s *Store) load(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		var f floot
		if err := dec.Decode(&f); err != nil {
			return fmt.Errorf("decode floot %q: %w", key, err)
		}
		if f.ID == "" {
			f.ID = key
		}
		s.floots = append(s.floots, f)
	}
	return nil
}

// persistLocked rewrites the database file. Callers must hold s.mu.
func (s *Store) persistLocked() error {
	var buf bytes.Buffer
	buf.WriteString("{")
	for i, f := range s.floots {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n    ")
		key, err := json.Marshal(f.ID)
		if err != nil {
			return fmt.Errorf("marshal floot id: %w", err)
		}
		buf.Write(key)
		buf.WriteString(": ")
		val, err := json.MarshalIndent(f, "    ", "    ")
		if err != nil {
			return fmt.Errorf("marshal floot: %w", err)
		}
		buf.Write(val)
	}
	buf.WriteString("\n}\n")
	if err := os.WriteFile(s.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write database: %w", err)
	}
	return nil
}

func (s *Store) findLocked(flootID string) (int, error) {
	for i, f := range s.floots {
		if f.ID == flootID {
			return i, nil
		}
	}
	return -1, fmt.Errorf("floot %s: %w", flootID, api.ErrNotFound)
}

// ListFloots returns all floots sorted newest first.
func (s *Store) ListFloots(_ context.Context) ([]api.Floot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sorted := make([]floot, len(s.floots))
	copy(sorted, s.floots)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, _ := time.Parse(api.TimestampFormat, sorted[i].Timestamp)
		tj, _ := time.Parse(api.TimestampFormat, sorted[j].Timestamp)
		return ti.After(tj)
	})

	out := make([]api.Floot, len(sorted))
	for i, f := range sorted {
		out[i] = f.APIFloot()
	}
	return out, nil
}

// GetFloot returns the floot with the given ID.
func (s *Store) GetFloot(_ context.Context, flootID string) (api.Floot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.findLocked(flootID)
	if err != nil {
		return api.Floot{}, err
	}
	return s.floots[i].APIFloot(), nil
}

// InsertFloot stores a new floot. The returned floot holds the generated ID
// and timestamp.
func (s *Store) InsertFloot(_ context.Context, f api.Floot) (api.Floot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := floot{
		ID:        uuid.NewString(),
		Message:   f.Message,
		Timestamp: time.Now().Format(api.TimestampFormat),
		Username:  f.Username,
	}
	s.floots = append(s.floots, stored)
	if err := s.persistLocked(); err != nil {
		s.floots = s.floots[:len(s.floots)-1]
		return api.Floot{}, err
	}
	return stored.APIFloot(), nil
}

// DeleteFloot removes a floot if username matches its author.
func (s *Store) DeleteFloot(_ context.Context, flootID, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.findLocked(flootID)
	if err != nil {
		return err
	}
	if s.floots[i].Username != username {
		return fmt.Errorf("floot %s belongs to %s: %w", flootID, s.floots[i].Username, api.ErrWrongUser)
	}
	s.floots = append(s.floots[:i], s.floots[i+1:]...)
	return s.persistLocked()
}

// InsertComment appends a comment to the floot's comment list. The returned
// comment holds the generated ID.
func (s *Store) InsertComment(_ context.Context, flootID string, c api.Comment) (api.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.findLocked(flootID)
	if err != nil {
		return api.Comment{}, err
	}
	stored := comment{
		ID:       uuid.NewString(),
		Message:  c.Message,
		Username: c.Username,
	}
	s.floots[i].Comments = append(s.floots[i].Comments, stored)
	if err := s.persistLocked(); err != nil {
		cs := s.floots[i].Comments
		s.floots[i].Comments = cs[:len(cs)-1]
		return api.Comment{}, err
	}
	return stored.APIComment(), nil
}

// DeleteComment removes a comment if username matches its author.
func (s *Store) DeleteComment(_ context.Context, flootID, commentID, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.findLocked(flootID)
	if err != nil {
		return err
	}
	for j, c := range s.floots[i].Comments {
		if c.ID != commentID {
			continue
		}
		if c.Username != username {
			return fmt.Errorf("comment %s belongs to %s: %w", commentID, c.Username, api.ErrWrongUser)
		}
		s.floots[i].Comments = append(s.floots[i].Comments[:j], s.floots[i].Comments[j+1:]...)
		return s.persistLocked()
	}
	return fmt.Errorf("comment %s on floot %s: %w", commentID, flootID, api.ErrNotFound)
}
