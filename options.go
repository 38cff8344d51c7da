package infoboard

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"
)

// ibConfig holds mutable state during InfoBoard construction.
type ibConfig struct {
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

// Option is a function that configures an [InfoBoard] instance during
// construction.
//
// Option implements the functional options pattern; options return an error
// if validation fails.
type Option func(*ibConfig) error

// WithAPIURL sets the base URL of the server-info feed. The updater fetches
// {url}/server_info every cycle.
//
// An API URL is required for [New] to succeed, and it must carry an http or
// https scheme.
func WithAPIURL(apiURL string) Option {
	return func(cfg *ibConfig) error {
		if apiURL == "" {
			return errors.New("api url cannot be empty")
		}
		parsed, err := url.Parse(apiURL)
		if err != nil {
			return fmt.Errorf("invalid api url: %w", err)
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return fmt.Errorf("api url scheme must be http or https, got %q", parsed.Scheme)
		}
		cfg.apiURL = apiURL
		return nil
	}
}

// WithStaticDir sets the URL prefix background images are resolved under;
// the page uses {staticDir}/img/{image}. Defaults to "/static".
func WithStaticDir(staticDir string) Option {
	return func(cfg *ibConfig) error {
		if staticDir == "" {
			return errors.New("static dir cannot be empty")
		}
		cfg.staticDir = staticDir
		return nil
	}
}

// WithRefreshInterval sets how often the page refreshes from the feed.
// Defaults to 10 seconds if not specified.
//
// Returns an error if the duration is zero or negative.
func WithRefreshInterval(d time.Duration) Option {
	return func(cfg *ibConfig) error {
		if d <= 0 {
			return errors.New("refresh interval must be positive")
		}
		cfg.refreshInterval = d
		return nil
	}
}

// WithPort sets the HTTP port for the page server. Defaults to 8080.
//
// Returns an error if the port is outside the valid range (1-65535).
func WithPort(port int) Option {
	return func(cfg *ibConfig) error {
		if port < 1 || port > 65535 {
			return errors.New("port must be between 1 and 65535")
		}
		cfg.port = port
		return nil
	}
}

// WithTitle sets the page title shown in the browser tab.
// Defaults to "SRB2 Live" when empty.
func WithTitle(title string) Option {
	return func(cfg *ibConfig) error {
		cfg.title = title
		return nil
	}
}

// WithGameServer sets the SRB2 server address queried by the /server_info
// API endpoint. The port defaults to 5029 when the address omits one.
//
// Optional; without it the endpoint reports that no server is configured.
func WithGameServer(address string) Option {
	return func(cfg *ibConfig) error {
		cfg.gameServer = address
		return nil
	}
}

// WithDatabaseURL sets the Postgres DSN for the highscores database.
//
// Optional; without it the highscores endpoints answer 503 while the page
// and the feed keep working.
func WithDatabaseURL(dsn string) Option {
	return func(cfg *ibConfig) error {
		cfg.databaseURL = dsn
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for the InfoBoard instance.
// If not specified, [slog.Default] is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *ibConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithRefreshCallback registers a function called after every refresh
// attempt, successful or not.
//
// Multiple callbacks may be registered; they execute in registration order.
// Callbacks must be non-blocking: they run synchronously on the result
// consumer goroutine, so long work should be dispatched elsewhere. Panics
// within callbacks are recovered and logged.
//
// Nil callbacks are silently ignored.
func WithRefreshCallback(cb func(RefreshResult)) Option {
	return func(cfg *ibConfig) error {
		if cb == nil {
			return nil
		}
		cfg.refreshCallbacks = append(cfg.refreshCallbacks, cb)
		return nil
	}
}
