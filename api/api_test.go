package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/neilotoole/slogt"

	"github.com/flutterer/flutterer/api/validator"
)

func TestAPI_listFloots(t *testing.T) {
	tests := []struct {
		name       string
		db         *testdb
		cache      *testcache
		wantStatus int
		wantBody   string
	}{
		{
			name: "DBError",
			db: &testdb{
				listFloots: func(t *testing.T) ([]Floot, error) {
					return nil, errors.New("something went wrong")
				},
			},
			wantStatus: 500,
			wantBody: `{
				"error": "Could not list floots"
			}`,
		},
		{
			name: "Empty",
			db: &testdb{
				listFloots: func(t *testing.T) ([]Floot, error) {
					return nil, nil
				},
			},
			wantStatus: 200,
			wantBody:   `[]`,
		},
		{
			name: "Feed",
			db: &testdb{
				listFloots: func(t *testing.T) ([]Floot, error) {
					return []Floot{
						{
							ID:        "2",
							Username:  "Andy Wang",
							Message:   "second",
							Timestamp: "Tue Jan 02 00:00:00 2024",
							Likes:     1,
							Comments:  Comments{},
						},
						{
							ID:        "1",
							Username:  "Ben Yan",
							Message:   "first",
							Timestamp: "Mon Jan 01 00:00:00 2024",
							Comments: Comments{
								{ID: "c1", Username: "Andy Wang", Message: "nice"},
								{ID: "c2", Username: "Ben Yan", Message: "thanks"},
							},
						},
					}, nil
				},
			},
			wantStatus: 200,
			wantBody: `[
				{
					"id": "2",
					"username": "Andy Wang",
					"message": "second",
					"timestamp": "Tue Jan 02 00:00:00 2024",
					"likes": 1,
					"comments": {}
				},
				{
					"id": "1",
					"username": "Ben Yan",
					"message": "first",
					"timestamp": "Mon Jan 01 00:00:00 2024",
					"likes": 0,
					"comments": {
						"c1": {"id": "c1", "username": "Andy Wang", "message": "nice"},
						"c2": {"id": "c2", "username": "Ben Yan", "message": "thanks"}
					}
				}
			]`,
		},
		{
			name: "CacheHit",
			db: &testdb{
				listFloots: func(t *testing.T) ([]Floot, error) {
					t.Error("DB should not be queried on a cache hit")
					return nil, nil
				},
			},
			cache: &testcache{
				feed: func(t *testing.T) ([]Floot, error) {
					return []Floot{
						{
							ID:        "1",
							Username:  "Ben Yan",
							Message:   "cached",
							Timestamp: "Mon Jan 01 00:00:00 2024",
							Comments:  Comments{},
						},
					}, nil
				},
			},
			wantStatus: 200,
			wantBody: `[
				{
					"id": "1",
					"username": "Ben Yan",
					"message": "cached",
					"timestamp": "Mon Jan 01 00:00:00 2024",
					"likes": 0,
					"comments": {}
				}
			]`,
		},
		{
			name: "CacheErrorFallsBackToDB",
			db: &testdb{
				listFloots: func(t *testing.T) ([]Floot, error) {
					return nil, nil
				},
			},
			cache: &testcache{
				feed: func(t *testing.T) ([]Floot, error) {
					return nil, errors.New("redis down")
				},
			},
			wantStatus: 200,
			wantBody:   `[]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.db, tt.cache)
			defer srv.Close()

			resp, err := http.Get(srv.URL + "/api/floots")
			if err != nil {
				t.Fatal(err)
			}
			checkStatus(t, resp.StatusCode, tt.wantStatus)
			checkBody(t, resp, tt.wantBody)
		})
	}
}

func TestAPI_getFloot(t *testing.T) {
	tests := []struct {
		name       string
		db         *testdb
		flootID    string
		wantStatus int
		wantBody   string
	}{
		{
			name:    "OK",
			flootID: "1",
			db: &testdb{
				getFloot: func(t *testing.T, flootID string) (Floot, error) {
					if flootID != "1" {
						t.Errorf("Got floot ID %q, want 1", flootID)
					}
					return Floot{
						ID:        "1",
						Username:  "Ben Yan",
						Message:   "hi",
						Timestamp: "Mon Jan 01 00:00:00 2024",
						Comments:  Comments{},
					}, nil
				},
			},
			wantStatus: 200,
			wantBody: `{
				"id": "1",
				"username": "Ben Yan",
				"message": "hi",
				"timestamp": "Mon Jan 01 00:00:00 2024",
				"likes": 0,
				"comments": {}
			}`,
		},
		{
			name:    "NotFound",
			flootID: "nope",
			db: &testdb{
				getFloot: func(t *testing.T, flootID string) (Floot, error) {
					return Floot{}, fmt.Errorf("floot %s: %w", flootID, ErrNotFound)
				},
			},
			wantStatus: 404,
			wantBody: `{
				"error": "floot could not be found"
			}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.db, nil)
			defer srv.Close()

			resp, err := http.Get(srv.URL + "/api/floots/" + tt.flootID)
			if err != nil {
				t.Fatal(err)
			}
			checkStatus(t, resp.StatusCode, tt.wantStatus)
			checkBody(t, resp, tt.wantBody)
		})
	}
}

func TestAPI_createFloot(t *testing.T) {
	tests := []struct {
		name         string
		db           *testdb
		req          string
		wantStatus   int
		wantBody     string
		bodyContains string
	}{
		{
			name: "OK",
			req: `{
				"username": "Andy Wang",
				"message": "hello"
			}`,
			db: &testdb{
				insertFloot: func(t *testing.T, f Floot) (Floot, error) {
					if f.Username != "Andy Wang" {
						t.Errorf("Got Username %q, want Andy Wang", f.Username)
					}
					if f.Message != "hello" {
						t.Errorf("Got Message %q, want hello", f.Message)
					}
					f.ID = "1"
					f.Timestamp = "Mon Jan 01 00:00:00 2024"
					f.Comments = Comments{}
					return f, nil
				},
			},
			wantStatus: 200,
			wantBody: `{
				"id": "1",
				"username": "Andy Wang",
				"message": "hello",
				"timestamp": "Mon Jan 01 00:00:00 2024",
				"likes": 0,
				"comments": {}
			}`,
		},
		{
			name: "EmptyMessageAccepted",
			req: `{
				"username": "Andy Wang",
				"message": ""
			}`,
			db: &testdb{
				insertFloot: func(t *testing.T, f Floot) (Floot, error) {
					if f.Message != "" {
						t.Errorf("Got Message %q, want empty", f.Message)
					}
					f.ID = "1"
					f.Comments = Comments{}
					return f, nil
				},
			},
			wantStatus: 200,
		},
		{
			name: "MissingUsername",
			req: `{
				"message": "hello"
			}`,
			db:           &testdb{},
			wantStatus:   400,
			bodyContains: "username",
		},
		{
			name: "MissingMessage",
			req: `{
				"username": "Andy Wang"
			}`,
			db:           &testdb{},
			wantStatus:   400,
			bodyContains: "message",
		},
		{
			name:       "BadJSON",
			req:        `{`,
			db:         &testdb{},
			wantStatus: 400,
			wantBody: `{
				"error": "Could not decode request body"
			}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.db, nil)
			defer srv.Close()

			resp, err := http.Post(srv.URL+"/api/floots", "application/json", strings.NewReader(tt.req))
			if err != nil {
				t.Fatal(err)
			}
			checkStatus(t, resp.StatusCode, tt.wantStatus)
			if tt.wantBody != "" {
				checkBody(t, resp, tt.wantBody)
			}
			if tt.bodyContains != "" {
				checkBodyContains(t, resp, tt.bodyContains)
			}
		})
	}
}

func TestAPI_deleteFloot(t *testing.T) {
	tests := []struct {
		name       string
		db         *testdb
		req        string
		wantStatus int
		wantBody   string
	}{
		{
			name: "OK",
			req:  `{"username": "Ben Yan"}`,
			db: &testdb{
				deleteFloot: func(t *testing.T, flootID, username string) error {
					if flootID != "1" {
						t.Errorf("Got floot ID %q, want 1", flootID)
					}
					if username != "Ben Yan" {
						t.Errorf("Got username %q, want Ben Yan", username)
					}
					return nil
				},
			},
			wantStatus: 200,
			wantBody:   `"OK"`,
		},
		{
			name: "NotFound",
			req:  `{"username": "Ben Yan"}`,
			db: &testdb{
				deleteFloot: func(t *testing.T, flootID, username string) error {
					return fmt.Errorf("floot %s: %w", flootID, ErrNotFound)
				},
			},
			wantStatus: 404,
			wantBody: `{
				"error": "floot could not be found"
			}`,
		},
		{
			name: "WrongUser",
			req:  `{"username": "Andy Wang"}`,
			db: &testdb{
				deleteFloot: func(t *testing.T, flootID, username string) error {
					return fmt.Errorf("floot %s belongs to Ben Yan: %w", flootID, ErrWrongUser)
				},
			},
			wantStatus: 401,
			wantBody: `{
				"error": "user deleting is not the same as user who posted floot"
			}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.db, nil)
			defer srv.Close()

			resp, err := http.Post(srv.URL+"/api/floots/1/delete", "application/json", strings.NewReader(tt.req))
			if err != nil {
				t.Fatal(err)
			}
			checkStatus(t, resp.StatusCode, tt.wantStatus)
			checkBody(t, resp, tt.wantBody)
		})
	}
}

func TestAPI_createComment(t *testing.T) {
	tests := []struct {
		name       string
		db         *testdb
		req        string
		wantStatus int
		wantBody   string
	}{
		{
			name: "OK",
			req:  `{"username": "Andy Wang", "message": "nice"}`,
			db: &testdb{
				insertComment: func(t *testing.T, flootID string, c Comment) (Comment, error) {
					if flootID != "1" {
						t.Errorf("Got floot ID %q, want 1", flootID)
					}
					c.ID = "c1"
					return c, nil
				},
			},
			wantStatus: 200,
			wantBody: `{
				"id": "c1",
				"username": "Andy Wang",
				"message": "nice"
			}`,
		},
		{
			name: "FlootNotFound",
			req:  `{"username": "Andy Wang", "message": "nice"}`,
			db: &testdb{
				insertComment: func(t *testing.T, flootID string, c Comment) (Comment, error) {
					return Comment{}, fmt.Errorf("floot %s: %w", flootID, ErrNotFound)
				},
			},
			wantStatus: 404,
			wantBody: `{
				"error": "floot could not be found"
			}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.db, nil)
			defer srv.Close()

			resp, err := http.Post(srv.URL+"/api/floots/1/comments", "application/json", strings.NewReader(tt.req))
			if err != nil {
				t.Fatal(err)
			}
			checkStatus(t, resp.StatusCode, tt.wantStatus)
			checkBody(t, resp, tt.wantBody)
		})
	}
}

func TestAPI_deleteComment(t *testing.T) {
	tests := []struct {
		name       string
		db         *testdb
		req        string
		wantStatus int
		wantBody   string
	}{
		{
			name: "OK",
			req:  `{"username": "Andy Wang"}`,
			db: &testdb{
				deleteComment: func(t *testing.T, flootID, commentID, username string) error {
					if flootID != "1" || commentID != "c1" {
						t.Errorf("Got ids (%q, %q), want (1, c1)", flootID, commentID)
					}
					return nil
				},
			},
			wantStatus: 200,
			wantBody:   `"OK"`,
		},
		{
			name: "NotFound",
			req:  `{"username": "Andy Wang"}`,
			db: &testdb{
				deleteComment: func(t *testing.T, flootID, commentID, username string) error {
					return fmt.Errorf("comment %s on floot %s: %w", commentID, flootID, ErrNotFound)
				},
			},
			wantStatus: 404,
			wantBody: `{
				"error": "comment could not be found"
			}`,
		},
		{
			name: "WrongUser",
			req:  `{"username": "Ben Yan"}`,
			db: &testdb{
				deleteComment: func(t *testing.T, flootID, commentID, username string) error {
					return fmt.Errorf("comment %s belongs to Andy Wang: %w", commentID, ErrWrongUser)
				},
			},
			wantStatus: 401,
			wantBody: `{
				"error": "user deleting is not the same as user who posted comment"
			}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.db, nil)
			defer srv.Close()

			resp, err := http.Post(srv.URL+"/api/floots/1/comments/c1/delete", "application/json", strings.NewReader(tt.req))
			if err != nil {
				t.Fatal(err)
			}
			checkStatus(t, resp.StatusCode, tt.wantStatus)
			checkBody(t, resp, tt.wantBody)
		})
	}
}

func TestAPI_mutationDropsCachedFeed(t *testing.T) {
	dropped := 0
	db := &testdb{
		insertFloot: func(t *testing.T, f Floot) (Floot, error) {
			f.ID = "1"
			f.Comments = Comments{}
			return f, nil
		},
	}
	cache := &testcache{
		dropFeed: func(t *testing.T) error {
			dropped++
			return nil
		},
	}
	srv := newTestServer(t, db, cache)
	defer srv.Close()

	body := `{"username": "Andy Wang", "message": "hello"}`
	resp, err := http.Post(srv.URL+"/api/floots", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	checkStatus(t, resp.StatusCode, 200)
	if dropped != 1 {
		t.Errorf("Cache dropped %d times, want 1", dropped)
	}
}

func newTestServer(t *testing.T, db *testdb, cache *testcache) *httptest.Server {
	t.Helper()
	db.T = t
	a := &API{
		DB:     db,
		Logger: slogt.New(t),
		Val:    validator.New(),
	}
	if cache != nil {
		cache.T = t
		a.Cache = cache
	}
	return httptest.NewServer(a)
}

type testdb struct {
	T             *testing.T
	listFloots    func(t *testing.T) ([]Floot, error)
	getFloot      func(t *testing.T, flootID string) (Floot, error)
	insertFloot   func(t *testing.T, f Floot) (Floot, error)
	deleteFloot   func(t *testing.T, flootID, username string) error
	insertComment func(t *testing.T, flootID string, c Comment) (Comment, error)
	deleteComment func(t *testing.T, flootID, commentID, username string) error
}

func (db *testdb) ListFloots(_ context.Context) ([]Floot, error) {
	return db.listFloots(db.T)
}

func (db *testdb) GetFloot(_ context.Context, flootID string) (Floot, error) {
	return db.getFloot(db.T, flootID)
}

func (db *testdb) InsertFloot(_ context.Context, f Floot) (Floot, error) {
	return db.insertFloot(db.T, f)
}

func (db *testdb) DeleteFloot(_ context.Context, flootID, username string) error {
	return db.deleteFloot(db.T, flootID, username)
}

func (db *testdb) InsertComment(_ context.Context, flootID string, c Comment) (Comment, error) {
	return db.insertComment(db.T, flootID, c)
}

func (db *testdb) DeleteComment(_ context.Context, flootID, commentID, username string) error {
	return db.deleteComment(db.T, flootID, commentID, username)
}

type testcache struct {
	T        *testing.T
	feed     func(t *testing.T) ([]Floot, error)
	setFeed  func(t *testing.T, floots []Floot) error
	dropFeed func(t *testing.T) error
}

func (c *testcache) Feed(_ context.Context) ([]Floot, error) {
	if c.feed == nil {
		return nil, nil
	}
	return c.feed(c.T)
}

func (c *testcache) SetFeed(_ context.Context, floots []Floot) error {
	if c.setFeed == nil {
		return nil
	}
	return c.setFeed(c.T, floots)
}

func (c *testcache) DropFeed(_ context.Context) error {
	if c.dropFeed == nil {
		return nil
	}
	return c.dropFeed(c.T)
}

func checkStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("Got HTTP status %d, want %d", got, want)
	}
}

func checkBody(t *testing.T, resp *http.Response, want string) {
	t.Helper()
	gotBody := normalizeJSON(t, resp.Body)
	wantBody := normalizeJSON(t, bytes.NewReader([]byte(want)))
	if gotBody != wantBody {
		t.Errorf("Body does not match\nGot\n  %s\n\nWant\n  %s", gotBody, wantBody)
	}
}

func checkBodyContains(t *testing.T, resp *http.Response, want string) {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Could not read body: %v", err)
	}
	if !strings.Contains(string(b), want) {
		t.Errorf("Body %s does not contain %q", b, want)
	}
}

func normalizeJSON(t *testing.T, r io.Reader) string {
	t.Helper()
	var buf bytes.Buffer
	b, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("Could not read JSON: %v", err)
	}
	if err := json.Indent(&buf, b, "  ", "  "); err != nil {
		t.Fatalf("Could not indent JSON: %v", err)
	}
	return strings.TrimSpace(buf.String())
}
