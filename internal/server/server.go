package server

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/srb2live/infoboard/internal/api"
	"github.com/srb2live/infoboard/internal/page"
	"github.com/srb2live/infoboard/internal/store"
)

const (
	// sseWriteTimeout bounds a single SSE write so a stalled client cannot
	// block the handler past shutdown. Must be <= the shutdown timeout.
	sseWriteTimeout = 5 * time.Second

	// defaultTitle is used when no custom title is configured.
	defaultTitle = "SRB2 Live"
)

// pageData is the template input for the info page.
type pageData struct {
	Title      string
	StaticDir  string
	MapTitle   template.HTML
	ServerName template.HTML
	Rows       []pageRow
	Background template.CSS
}

// pageRow carries one pre-escaped players-table row into the template.
type pageRow struct {
	Name template.HTML
	Skin template.HTML
}

// Server handles HTTP requests for the info page and the highscores API.
//
// The page regions are read-only here; the updater owns writes. The server
// runs until its context is cancelled, then shuts down gracefully.
type Server struct {
	store      store.Store
	regions    *page.Regions
	api        *api.Service
	port       int
	assets     fs.FS
	title      string
	staticDir  string
	logger     *slog.Logger
	httpServer *http.Server
}

// NewServer creates the HTTP [Server]. The api service may be nil, in which
// case only the page and the event stream are served. staticDir is the URL
// prefix background images live under. The server does not listen until
// [Server.Start] is called.
func NewServer(st store.Store, regions *page.Regions, apiSvc *api.Service, port int, assets fs.FS, title, staticDir string, logger *slog.Logger) *Server {
	return &Server{
		store:     st,
		regions:   regions,
		api:       apiSvc,
		port:      port,
		assets:    assets,
		title:     title,
		staticDir: staticDir,
		logger:    logger,
	}
}

// Start begins serving in a background goroutine.
//
// Start is non-blocking and returns after the listener is bound, so a taken
// port fails synchronously. Cancelling ctx triggers a graceful shutdown with
// a five second timeout.
func (s *Server) Start(ctx context.Context) error {
	router := httprouter.New()
	router.HandlerFunc(http.MethodGet, "/", s.handleIndex)
	router.HandlerFunc(http.MethodGet, "/events", s.handleEvents)
	if s.api != nil {
		s.api.Register(router)
	}

	// create the listener first to verify port availability synchronously
	addr := fmt.Sprintf(":%d", s.port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind to port %d: %w", s.port, err)
	}

	s.httpServer = &http.Server{
		Handler: router,
		// BaseContext derives every request context from the server context,
		// so cancelling ctx also ends long-running handlers like /events.
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("http server shutdown error", "error", err)
		}
	}()

	return nil
}

// handleIndex renders the info page from the current region contents.
//
// Map title and server name are inserted raw (they are trusted server-side
// content); the player rows were escaped when the regions were written.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.assets == nil {
		http.Error(w, "Info page not found", http.StatusInternalServerError)
		return
	}

	tmpl, err := template.ParseFS(s.assets, "assets/info.html")
	if err != nil {
		s.logger.Error("failed to parse page template", "error", err)
		http.Error(w, "Info page not found", http.StatusInternalServerError)
		return
	}

	title := s.title
	if title == "" {
		title = defaultTitle
	}

	snap := s.regions.Snapshot()
	data := pageData{
		Title:      title,
		StaticDir:  s.staticDir,
		MapTitle:   template.HTML(snap.MapTitle),
		ServerName: template.HTML(snap.ServerName),
		Background: template.CSS(snap.Background),
	}
	for _, row := range snap.Rows {
		data.Rows = append(data.Rows, pageRow{
			Name: template.HTML(row.Name),
			Skin: template.HTML(row.Skin),
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		s.logger.Error("failed to render info page", "error", err)
	}
}

// handleEvents streams snapshot replacements via Server-Sent Events.
//
// Writes carry deadlines so a slow or gone client cannot leak the handler;
// without them a blocked write would mask context cancellation.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if _, ok := w.(http.Flusher); !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	rc := http.NewResponseController(w)

	// some ResponseWriter implementations cannot set write deadlines
	deadlinesSupported := true

	writeAndFlush := func(data []byte) error {
		if deadlinesSupported {
			if err := rc.SetWriteDeadline(time.Now().Add(sseWriteTimeout)); err != nil {
				s.logger.Warn("sse write deadlines not supported", "error", err)
				deadlinesSupported = false
			}
		}

		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			return err
		}
		return rc.Flush()
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	ch := s.store.Subscribe()
	defer s.store.Unsubscribe(ch)

	// send the current snapshot first so a new page is never blank until
	// the next refresh lands
	if snap, ok := s.store.Latest(); ok {
		data, err := json.Marshal(snap)
		if err == nil {
			if err := writeAndFlush(data); err != nil {
				return
			}
		}
	}

	for {
		select {
		case snap, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(snap)
			if err != nil {
				continue
			}
			if err := writeAndFlush(data); err != nil {
				return
			}

		case <-r.Context().Done():
			// fires on both client disconnect and server shutdown thanks
			// to BaseContext
			return
		}
	}
}
