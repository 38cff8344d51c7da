package infoboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/srb2live/infoboard/dashboard"
	"github.com/srb2live/infoboard/internal/api"
	"github.com/srb2live/infoboard/internal/fetch"
	"github.com/srb2live/infoboard/internal/highscores"
	"github.com/srb2live/infoboard/internal/page"
	"github.com/srb2live/infoboard/internal/scheduler"
	"github.com/srb2live/infoboard/internal/server"
	"github.com/srb2live/infoboard/internal/srb2query"
	"github.com/srb2live/infoboard/internal/store"
	"github.com/srb2live/infoboard/serverinfo"
)

const (
	defaultRefreshInterval = 10 * time.Second
	defaultPort            = 8080
	defaultStaticDir       = "/static"
)

// RefreshResult is the outcome of one refresh cycle, delivered to callbacks
// registered with [WithRefreshCallback].
type RefreshResult struct {
	// Info is the snapshot that was applied. Zero value when Err is set.
	Info serverinfo.ServerInfo

	// Err is the refresh failure, nil on success. A failed refresh leaves
	// the page showing its previous snapshot.
	Err error

	// Latency is the duration of the refresh pass.
	Latency time.Duration

	// CheckedAt is when the refresh completed.
	CheckedAt time.Time
}

// InfoBoard is the main orchestrator for feed refreshing and page serving.
//
// InfoBoard coordinates the periodic fetch of the server-info feed, renders
// it into the page regions, and serves the page, the SSE stream and the
// highscores API over HTTP. It is created using [New] with functional
// options and started with [InfoBoard.Start].
//
// The typical lifecycle is:
//
//	ib, err := infoboard.New(infoboard.WithAPIURL("http://localhost:8080/highscores/api"))
//	if err != nil {
//	    slog.Error("failed to create infoboard", "error", err)
//	    os.Exit(1)
//	}
//
//	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer cancel()
//
//	ib.Start(ctx) // blocks until context cancelled
type InfoBoard struct {
	title            string
	apiURL           string
	staticDir        string
	refreshInterval  time.Duration
	port             int
	gameServer       string
	databaseURL      string
	logger           *slog.Logger
	refreshCallbacks []func(RefreshResult)
}

// New creates a new [InfoBoard] instance with the given options.
//
// An API URL must be configured via [WithAPIURL]. Other options have
// sensible defaults:
//   - Refresh interval: 10 seconds
//   - Port: 8080
//   - Static dir: /static
//
// Returns an error if no API URL is configured or if any option is invalid.
func New(opts ...Option) (*InfoBoard, error) {
	cfg := &ibConfig{
		staticDir:       defaultStaticDir,
		refreshInterval: defaultRefreshInterval,
		port:            defaultPort,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.apiURL == "" {
		return nil, errors.New("an api url is required")
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	return &InfoBoard{
		title:            cfg.title,
		apiURL:           cfg.apiURL,
		staticDir:        cfg.staticDir,
		refreshInterval:  cfg.refreshInterval,
		port:             cfg.port,
		gameServer:       cfg.gameServer,
		databaseURL:      cfg.databaseURL,
		logger:           logger,
		refreshCallbacks: cfg.refreshCallbacks,
	}, nil
}

// Start begins refreshing the page and serving it over HTTP.
//
// Start is a blocking call that runs until the provided context is
// cancelled. During execution:
//
//   - The feed is fetched immediately, then at the configured interval
//   - The HTTP server starts on the configured port
//   - The page is available at http://localhost:<port>
//
// Returns nil on graceful shutdown. Returns an error if the highscores
// database cannot be reached or the HTTP server fails to start.
func (ib *InfoBoard) Start(ctx context.Context) error {
	ib.logger.Info("infoboard starting", "api_url", ib.apiURL)
	ib.logger.Info("refresh configured", "interval", ib.refreshInterval.String())
	ib.logger.Info("page available", "url", fmt.Sprintf("http://localhost:%d", ib.port))

	// check if context already cancelled
	if ctx.Err() != nil {
		return nil
	}

	var scores api.ScoreStore
	var hsStore *highscores.Store
	if ib.databaseURL != "" {
		var err error
		hsStore, err = highscores.Open(ctx, ib.databaseURL)
		if err != nil {
			return err
		}
		scores = hsStore
	}
	defer func() {
		if hsStore != nil {
			if err := hsStore.Close(); err != nil {
				ib.logger.Error("failed to close highscores database", "error", err)
			}
		}
	}()

	snapStore := store.NewMemoryStore()
	regions := page.NewRegions()

	client := fetch.NewClient()
	defer client.Close()

	updater := page.NewUpdater(client, regions, ib.apiURL, ib.staticDir)
	sched := scheduler.New(updater.Refresh, ib.refreshInterval, clock.New(), ib.logger)
	sched.Start(ctx)

	// track the results consumer goroutine to ensure clean shutdown
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for result := range sched.Results() {
			// store update first (callbacks fire after data is persisted)
			if result.Err == nil {
				snapStore.Update(serverinfo.Snapshot{
					Info:      result.Info,
					FetchedAt: result.CheckedAt,
				})
			}

			if len(ib.refreshCallbacks) > 0 {
				public := RefreshResult{
					Info:      result.Info,
					Err:       result.Err,
					Latency:   result.Latency,
					CheckedAt: result.CheckedAt,
				}
				for _, cb := range ib.refreshCallbacks {
					invokeCallbackSafe(cb, public, ib.logger)
				}
			}

			// DEBUG level for success to reduce noise
			logAttrs := []any{
				"latency_ms", result.Latency.Milliseconds(),
				"players", len(result.Info.Players),
			}
			if result.Err != nil {
				ib.logger.Warn("refresh failed, page unchanged", append(logAttrs, "error", result.Err.Error())...)
			} else {
				ib.logger.Debug("refresh applied", logAttrs...)
			}
		}
	}()

	// ensures the scheduler is stopped and all results are processed
	cleanup := func() {
		sched.Stop()
		wg.Wait()
	}

	querier := srb2query.NewClient(0)
	apiSvc := api.NewService(scores, querier, ib.gameServer, ib.logger)

	httpServer := server.NewServer(snapStore, regions, apiSvc, ib.port, dashboard.Assets, ib.title, ib.staticDir, ib.logger)
	if err := httpServer.Start(ctx); err != nil {
		cleanup()
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	<-ctx.Done()
	cleanup()
	ib.logger.Info("infoboard stopped")
	return nil
}

// APIURL returns the configured feed base URL.
func (ib *InfoBoard) APIURL() string {
	return ib.apiURL
}

// Port returns the configured HTTP port for the page server.
func (ib *InfoBoard) Port() int {
	return ib.port
}

// RefreshInterval returns the configured interval between refresh cycles.
func (ib *InfoBoard) RefreshInterval() time.Duration {
	return ib.refreshInterval
}

// invokeCallbackSafe calls a refresh callback with panic recovery.
// Panics are logged but do not propagate.
func invokeCallbackSafe(cb func(RefreshResult), result RefreshResult, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("refresh callback panicked", "panic", r)
		}
	}()
	cb(result)
}
