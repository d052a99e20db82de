package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/flutterer/flutterer/api/validator"
	"github.com/flutterer/flutterer/metrics"
)

// Aliases so handlers can talk about validation without qualifying the
// subpackage at every use.
type (
	Validator       = validator.Validator
	ValidationError = validator.ValidationError
)

// Storage errors the handlers translate into HTTP statuses.
var (
	// ErrNotFound indicates the referenced floot or comment does not exist.
	ErrNotFound = errors.New("not found")
	// ErrWrongUser indicates the acting user is not the author of the
	// floot or comment.
	ErrWrongUser = errors.New("wrong user")
)

// A DB provides a storage layer that persists floots.
type DB interface {
	ListFloots(ctx context.Context) ([]Floot, error)
	GetFloot(ctx context.Context, flootID string) (Floot, error)
	InsertFloot(ctx context.Context, f Floot) (Floot, error)
	DeleteFloot(ctx context.Context, flootID, username string) error
	InsertComment(ctx context.Context, flootID string, c Comment) (Comment, error)
	DeleteComment(ctx context.Context, flootID, commentID, username string) error
}

// A Cache provides a storage layer that caches the feed snapshot. The feed
// is cached and replaced wholesale because clients always refetch the whole
// collection after a mutation.
type Cache interface {
	Feed(ctx context.Context) ([]Floot, error)
	SetFeed(ctx context.Context, floots []Floot) error
	DropFeed(ctx context.Context) error
}

// API provides the REST endpoints for the application. Cache is optional;
// when nil every read goes to the DB.
type API struct {
	Logger *slog.Logger
	DB     DB
	Cache  Cache
	Val    *Validator

	once sync.Once
	mux  *http.ServeMux
}

func (a *API) setupRoutes() {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/floots", a.listFloots)
	mux.HandleFunc("POST /api/floots", a.createFloot)
	mux.HandleFunc("GET /api/floots/{flootID}", a.getFloot)
	mux.HandleFunc("POST /api/floots/{flootID}/delete", a.deleteFloot)
	mux.HandleFunc("GET /api/floots/{flootID}/comments", a.listComments)
	mux.HandleFunc("POST /api/floots/{flootID}/comments", a.createComment)
	mux.HandleFunc("POST /api/floots/{flootID}/comments/{commentID}/delete", a.deleteComment)

	a.mux = mux
}

func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.once.Do(a.setupRoutes)
	a.Logger.Info("Request received", "method", r.Method, "path", r.URL.Path)
	start := time.Now()
	sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
	a.mux.ServeHTTP(sw, r)
	metrics.RecordRequest(r.Method, sw.status, time.Since(start))
}

// statusWriter captures the response status for metrics.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (a *API) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		a.Logger.Error("Could not encode JSON body", "error", err.Error())
	}
}

func (a *API) respondError(w http.ResponseWriter, status int, err error, msg string) {
	type response struct {
		Error string `json:"error"`
	}
	a.Logger.Error("Error", "error", err.Error())
	a.respond(w, status, response{Error: msg})
}

func (a *API) validateBody(w http.ResponseWriter, s interface{}) bool {
	errs := a.Val.ValidateStruct(s)
	type response struct {
		Errors []ValidationError `json:"errors"`
	}

	if len(errs) > 0 {
		a.respond(w, http.StatusBadRequest, &response{
			Errors: errs,
		})
		return false
	}
	return true
}

// dropFeed invalidates the cached feed after a mutation. Best effort: a
// failed invalidation only shortens the window the cache would have covered
// anyway.
func (a *API) dropFeed(ctx context.Context) {
	if a.Cache == nil {
		return
	}
	if err := a.Cache.DropFeed(ctx); err != nil {
		a.Logger.Error("Could not drop cached feed", "error", err.Error())
	}
}

func (a *API) listFloots(w http.ResponseWriter, r *http.Request) {
	if a.Cache != nil {
		floots, err := a.Cache.Feed(r.Context())
		if err != nil {
			a.Logger.Error("Could not read cached feed", "error", err.Error())
		} else if floots != nil {
			a.Logger.Info("Got feed from cache", "count", len(floots))
			a.respond(w, http.StatusOK, floots)
			return
		}
	}

	floots, err := a.DB.ListFloots(r.Context())
	if err != nil {
		a.respondError(w, http.StatusInternalServerError, err, "Could not list floots")
		return
	}
	if floots == nil {
		floots = []Floot{}
	}

	if a.Cache != nil {
		if err := a.Cache.SetFeed(r.Context(), floots); err != nil {
			a.Logger.Error("Could not cache feed", "error", err.Error())
		}
	}

	// The client parses the response body as the snapshot, so the list is
	// a bare JSON array rather than an envelope.
	a.respond(w, http.StatusOK, floots)
}

func (a *API) getFloot(w http.ResponseWriter, r *http.Request) {
	flootID := r.PathValue("flootID")

	floot, err := a.DB.GetFloot(r.Context(), flootID)
	if errors.Is(err, ErrNotFound) {
		a.respondError(w, http.StatusNotFound, err, "floot could not be found")
		return
	}
	if err != nil {
		a.respondError(w, http.StatusInternalServerError, err, "Could not get floot")
		return
	}

	a.respond(w, http.StatusOK, floot)
}

func (a *API) createFloot(w http.ResponseWriter, r *http.Request) {
	// Pointer fields distinguish an absent key from an empty string: an
	// empty message is accepted, a missing one is a 400.
	type request struct {
		Username *string `json:"username" validate:"required"`
		Message  *string `json:"message" validate:"required"`
	}

	var body request
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		a.respondError(w, http.StatusBadRequest, err, "Could not decode request body")
		return
	}

	if valid := a.validateBody(w, &body); !valid {
		return
	}

	floot, err := a.DB.InsertFloot(r.Context(), Floot{
		Username: *body.Username,
		Message:  *body.Message,
	})
	if err != nil {
		a.respondError(w, http.StatusInternalServerError, err, "Could not insert floot")
		return
	}

	a.dropFeed(r.Context())
	a.respond(w, http.StatusOK, floot)
}

func (a *API) deleteFloot(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Username *string `json:"username" validate:"required"`
	}

	flootID := r.PathValue("flootID")
	var body request
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		a.respondError(w, http.StatusBadRequest, err, "Could not decode request body")
		return
	}

	if valid := a.validateBody(w, &body); !valid {
		return
	}

	err := a.DB.DeleteFloot(r.Context(), flootID, *body.Username)
	switch {
	case errors.Is(err, ErrNotFound):
		a.respondError(w, http.StatusNotFound, err, "floot could not be found")
		return
	case errors.Is(err, ErrWrongUser):
		a.respondError(w, http.StatusUnauthorized, err, "user deleting is not the same as user who posted floot")
		return
	case err != nil:
		a.respondError(w, http.StatusInternalServerError, err, "Could not delete floot")
		return
	}

	a.dropFeed(r.Context())
	a.respond(w, http.StatusOK, "OK")
}

func (a *API) listComments(w http.ResponseWriter, r *http.Request) {
	flootID := r.PathValue("flootID")

	floot, err := a.DB.GetFloot(r.Context(), flootID)
	if errors.Is(err, ErrNotFound) {
		a.respondError(w, http.StatusNotFound, err, "floot could not be found")
		return
	}
	if err != nil {
		a.respondError(w, http.StatusInternalServerError, err, "Could not list comments")
		return
	}

	comments := []Comment(floot.Comments)
	if comments == nil {
		comments = []Comment{}
	}
	a.respond(w, http.StatusOK, comments)
}

func (a *API) createComment(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Username *string `json:"username" validate:"required"`
		Message  *string `json:"message" validate:"required"`
	}

	flootID := r.PathValue("flootID")
	var body request
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		a.respondError(w, http.StatusBadRequest, err, "Could not decode request body")
		return
	}

	if valid := a.validateBody(w, &body); !valid {
		return
	}

	comment, err := a.DB.InsertComment(r.Context(), flootID, Comment{
		Username: *body.Username,
		Message:  *body.Message,
	})
	switch {
	case errors.Is(err, ErrNotFound):
		a.respondError(w, http.StatusNotFound, err, "floot could not be found")
		return
	case err != nil:
		a.respondError(w, http.StatusInternalServerError, err, "Could not insert comment")
		return
	}

	a.dropFeed(r.Context())
	a.respond(w, http.StatusOK, comment)
}

func (a *API) deleteComment(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Username *string `json:"username" validate:"required"`
	}

	flootID := r.PathValue("flootID")
	commentID := r.PathValue("commentID")
	var body request
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		a.respondError(w, http.StatusBadRequest, err, "Could not decode request body")
		return
	}

	if valid := a.validateBody(w, &body); !valid {
		return
	}

	err := a.DB.DeleteComment(r.Context(), flootID, commentID, *body.Username)
	switch {
	case errors.Is(err, ErrNotFound):
		a.respondError(w, http.StatusNotFound, err, "comment could not be found")
		return
	case errors.Is(err, ErrWrongUser):
		a.respondError(w, http.StatusUnauthorized, err, "user deleting is not the same as user who posted comment")
		return
	case err != nil:
		a.respondError(w, http.StatusInternalServerError, err, "Could not delete comment")
		return
	}

	a.dropFeed(r.Context())
	a.respond(w, http.StatusOK, "OK")
}
