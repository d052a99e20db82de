package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/flutterer/flutterer/api"
	"github.com/flutterer/flutterer/api/validator"
	"github.com/flutterer/flutterer/dom"
	"github.com/flutterer/flutterer/flutterer"
	"github.com/flutterer/flutterer/jsonfile"
	"github.com/flutterer/flutterer/metrics"
	"github.com/flutterer/flutterer/postgres"
	"github.com/flutterer/flutterer/redis"
	"github.com/flutterer/flutterer/ui"
)

func main() {
	// Get key-value pairs from a .env file, if present.
	godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ctx := context.Background()

	var db api.DB
	if dsn := os.Getenv("POSTGRES_DSN"); dsn != "" {
		pg, err := postgres.Connect(ctx, dsn)
		if err != nil {
			logger.Error("Could not connect to PostgreSQL", "error", err.Error())
			os.Exit(1)
		}
		db = pg
		logger.Info("Using PostgreSQL storage")
	} else {
		path := os.Getenv("FLUTTERER_DB")
		if path == "" {
			path = "data.json"
		}
		store, err := jsonfile.Open(path)
		if err != nil {
			logger.Error("Could not open database file", "path", path, "error", err.Error())
			os.Exit(1)
		}
		db = store
		logger.Info("Using JSON file storage", "path", path)
	}

	var cache api.Cache
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		r, err := redis.Connect(ctx, addr)
		if err != nil {
			logger.Error("Could not connect to Redis", "addr", addr, "error", err.Error())
			os.Exit(1)
		}
		cache = r
		logger.Info("Feed caching enabled", "addr", addr)
	}

	a := &api.API{
		Logger: logger,
		DB:     db,
		Cache:  cache,
		Val:    validator.New(),
	}

	mux := http.NewServeMux()
	mux.Handle("/api/", a)
	mux.Handle("/metrics", metrics.Handler())

	if clientDir := os.Getenv("CLIENT_DIR"); clientDir != "" {
		mux.HandleFunc("/", serveClient(logger, clientDir))
	} else {
		mux.HandleFunc("/", serveFeedPage(logger, db))
	}

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":1066"
	}
	logger.Info("Server is starting", "addr", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 3 * time.Second,
	}
	if err := server.ListenAndServe(); err != nil {
		logger.Error("Server stopped", "error", err.Error())
		os.Exit(1)
	}
}

// serveClient serves the static client files, refusing any path that would
// escape the client directory.
func serveClient(logger *slog.Logger, dir string) http.HandlerFunc {
	root, err := filepath.Abs(dir)
	if err != nil {
		logger.Error("Could not resolve client directory", "dir", dir, "error", err.Error())
		os.Exit(1)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if path == "/" {
			path = "/index.html"
		}
		target := filepath.Join(root, filepath.Clean(path))
		if !strings.HasPrefix(target, root+string(os.PathSeparator)) {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, target)
	}
}

const pageShell = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Flutterer</title>
<link rel="stylesheet" href="https://fonts.googleapis.com/icon?family=Material+Icons">
</head>
<body>%s</body>
</html>
`

// serveFeedPage renders a read-only snapshot of the feed with the same
// component builders the interactive client uses.
func serveFeedPage(logger *slog.Logger, db api.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		floots, err := db.ListFloots(r.Context())
		if err != nil {
			logger.Error("Could not list floots", "error", err.Error())
			http.Error(w, "could not load feed", http.StatusInternalServerError)
			return
		}
		users := flutterer.DefaultUsers
		tree := ui.MainComponent(users, users[0], floots, nil, ui.NopActions{})
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, pageShell, dom.RenderHTML(tree))
	}
}
