package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"github.com/ugaemi/binsort-server/internal/asset"
	"github.com/ugaemi/binsort-server/internal/config"
	"github.com/ugaemi/binsort-server/internal/eventlog"
	"github.com/ugaemi/binsort-server/internal/game"
	"github.com/ugaemi/binsort-server/internal/handler"
	"github.com/ugaemi/binsort-server/internal/room"
	"github.com/ugaemi/binsort-server/internal/store"
	"github.com/ugaemi/binsort-server/internal/ws"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	if err := run(cfg); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tuning, err := game.LoadTuning(cfg.TuningFile)
	if err != nil {
		return fmt.Errorf("load tuning: %w", err)
	}

	results, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open result store: %w", err)
	}
	if results != nil {
		defer results.Close()
	}

	catalog, err := asset.Scan(os.DirFS(cfg.AssetDir), "/images")
	if err != nil {
		return fmt.Errorf("scan assets: %w", err)
	}
	slog.Info("assets loaded", "dir", cfg.AssetDir, "images", catalog.Stats())

	opts := room.Options{
		Tuning: tuning,
		Seed:   cfg.RNGSeed,
		Assets: catalog,
	}
	if results != nil {
		opts.Results = results
	}
	if cfg.EventLogDir != "" {
		journal := eventlog.NewJournal(cfg.EventLogDir)
		defer journal.Close()
		opts.Journal = journal
		slog.Info("event journal enabled", "dir", cfg.EventLogDir)
	}

	rm := room.NewManager(ctx, opts)
	defer rm.Shutdown()

	hub := ws.NewHub()
	router := handler.NewRouter(rm, tuning)
	hub.OnMessage = router.HandleMessage
	hub.OnDisconnect = router.HandleDisconnect
	go hub.Run(ctx)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           newHTTPRouter(cfg, hub, catalog, results),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr, "store", cfg.StoreDriver)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openStore returns nil when results are not persisted.
func openStore(ctx context.Context, cfg *config.Config) (store.ResultStore, error) {
	switch cfg.StoreDriver {
	case config.StoreSQLite:
		s, err := store.NewSQLiteStore(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.StorePostgres:
		s, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.StoreNone:
		slog.Warn("result store disabled")
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}

func newHTTPRouter(cfg *config.Config, hub *ws.Hub, catalog *asset.Catalog, results store.ResultStore) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           60 * 15,
	}))

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(cfg.AllowedOrigins),
	}

	r.Get("/health", handler.Health)
	r.Get("/ws", func(w http.ResponseWriter, req *http.Request) {
		handleWebSocket(hub, upgrader, w, req)
	})
	r.Get("/assets", handler.AssetStats(catalog))
	r.Handle("/images/*", http.StripPrefix("/images/", http.FileServer(http.Dir(cfg.AssetDir))))

	if results != nil {
		resultsHandler := handler.NewResultsHandler(results)
		r.Route("/results", func(rr chi.Router) {
			rr.Get("/", resultsHandler.List)
			rr.Get("/{id}", resultsHandler.Get)
		})
	}

	return r
}

func originChecker(allowed []string) func(*http.Request) bool {
	if slices.Contains(allowed, "*") {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowed, origin)
	}
}

func handleWebSocket(hub *ws.Hub, upgrader websocket.Upgrader, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}

	client := ws.NewClient(hub, conn)
	hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}

func setupLogger(cfg *config.Config) {
	var h slog.Handler
	opts := &slog.HandlerOptions{}

	switch cfg.LogLevel {
	case "debug":
		opts.Level = slog.LevelDebug
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	default:
		opts.Level = slog.LevelInfo
	}

	switch cfg.LogFormat {
	case "json":
		h = slog.NewJSONHandler(os.Stdout, opts)
	default:
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(h))
}
