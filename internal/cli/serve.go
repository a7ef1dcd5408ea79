package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"timelane/internal/config"
	"timelane/pkg/pipeline"
)

// serveCommand creates the serve command for hosting a timeline over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		schedule string
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve [source]",
		Short: "Serve a timeline over HTTP with scheduled refresh",
		Long: `Serve a timeline over HTTP with scheduled refresh.

The source is rendered once at startup and kept in memory. A cron schedule
(default every 15 minutes, configurable via [serve] refresh) re-runs the
pipeline so remote calendars stay current. Endpoints:

  GET /healthz        server and snapshot status
  GET /timeline.svg   rendered SVG
  GET /timeline.json  layout JSON (blocks, ticks, frame)
  GET /api/events     loaded events as JSON

The source argument may be omitted when [serve] source is set in the config
file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			source := cfg.Serve.Source
			if len(args) > 0 {
				source = args[0]
			}
			if source == "" {
				return fmt.Errorf("no source given and [serve] source is not set in config")
			}

			if !cmd.Flags().Changed("addr") {
				addr = cfg.Serve.Addr
			}
			if !cmd.Flags().Changed("schedule") {
				schedule = cfg.Serve.Refresh
			}
			if _, err := cron.ParseStandard(schedule); err != nil {
				return fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
			}

			opts := optionsFromConfig(cfg)
			opts.Source = cfg.ResolveSource(source)
			// Both artifact endpoints must work regardless of the configured
			// render formats.
			opts.Formats = []string{pipeline.FormatSVG, pipeline.FormatJSON}

			return c.runServe(cmd.Context(), cfg, opts, addr, schedule, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (host:port)")
	cmd.Flags().StringVar(&schedule, "schedule", "", "refresh cron schedule (5-field)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runServe renders the initial snapshot, starts the cron refresher, and
// serves until the context is cancelled.
func (c *CLI) runServe(ctx context.Context, cfg *config.Config, opts pipeline.Options, addr, schedule string, noCache bool) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	srv := newTimelineServer(runner, opts, logger)

	// First render happens before we accept traffic so a bad source fails
	// fast instead of serving 503s.
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", opts.Source))
	spinner.Start()
	if err := srv.refresh(ctx); err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	cr := cron.New()
	if _, err := cr.AddFunc(schedule, func() {
		if err := srv.refresh(ctx); err != nil {
			logger.Error("scheduled refresh failed", "source", opts.Source, "error", err)
		}
	}); err != nil {
		return fmt.Errorf("schedule refresh: %w", err)
	}
	cr.Start()
	defer cr.Stop()

	printSuccess("Serving %s", opts.Source)
	printDetail("Listening on http://%s", addr)
	printDetail("Refresh schedule: %s", schedule)
	printNewline()

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen on %s: %w", addr, err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", "addr", addr)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	<-errCh
	return nil
}

// =============================================================================
// Timeline Server - In-Memory Snapshot Behind HTTP
// =============================================================================

// snapshot is one complete pipeline result plus the time it was taken.
// Handlers read whole snapshots so a refresh can never serve an SVG from one
// render and a layout from another.
type snapshot struct {
	result     *pipeline.Result
	renderedAt time.Time
}

// timelineServer owns the latest snapshot and the handlers that expose it.
type timelineServer struct {
	runner *pipeline.Runner
	opts   pipeline.Options
	logger *log.Logger

	mu      sync.RWMutex
	snap    *snapshot
	lastErr error
}

func newTimelineServer(runner *pipeline.Runner, opts pipeline.Options, logger *log.Logger) *timelineServer {
	return &timelineServer{
		runner: runner,
		opts:   opts,
		logger: logger,
	}
}

// refresh runs the full pipeline and swaps in the new snapshot. On failure
// the previous snapshot keeps serving and the error is reported by /healthz.
func (s *timelineServer) refresh(ctx context.Context) error {
	opts := s.opts
	opts.Refresh = true // pull fresh upstream data on every tick

	result, err := s.runner.Execute(ctx, opts)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
	if err != nil {
		return err
	}
	s.snap = &snapshot{result: result, renderedAt: time.Now()}
	s.logger.Info("snapshot refreshed",
		"source", opts.Source,
		"events", result.Stats.EventCount,
		"lanes", result.Stats.LaneCount)
	return nil
}

// current returns the latest snapshot and the sticky refresh error.
func (s *timelineServer) current() (*snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap, s.lastErr
}

func (s *timelineServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Get("/timeline.svg", s.handleSVG)
	r.Get("/timeline.json", s.handleLayout)
	r.Get("/api/events", s.handleEvents)

	return r
}

// logRequests logs each request at debug level with its status and duration.
func (s *timelineServer) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}

// healthResponse is the JSON shape of /healthz.
type healthResponse struct {
	Status     string    `json:"status"`
	Source     string    `json:"source"`
	RenderedAt time.Time `json:"rendered_at,omitempty"`
	Events     int       `json:"events,omitempty"`
	Lanes      int       `json:"lanes,omitempty"`
	LastError  string    `json:"last_error,omitempty"`
}

func (s *timelineServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	snap, lastErr := s.current()

	resp := healthResponse{Status: "ok", Source: s.opts.Source}
	if lastErr != nil {
		resp.Status = "degraded"
		resp.LastError = lastErr.Error()
	}
	if snap == nil {
		resp.Status = "starting"
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	resp.RenderedAt = snap.renderedAt
	resp.Events = snap.result.Stats.EventCount
	resp.Lanes = snap.result.Stats.LaneCount
	writeJSON(w, http.StatusOK, resp)
}

func (s *timelineServer) handleSVG(w http.ResponseWriter, r *http.Request) {
	snap, _ := s.current()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, "no snapshot yet")
		return
	}
	data, ok := snap.result.Artifacts[pipeline.FormatSVG]
	if !ok {
		writeError(w, http.StatusInternalServerError, "svg artifact missing")
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *timelineServer) handleLayout(w http.ResponseWriter, r *http.Request) {
	snap, _ := s.current()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, "no snapshot yet")
		return
	}
	data, ok := snap.result.Artifacts[pipeline.FormatJSON]
	if !ok {
		writeError(w, http.StatusInternalServerError, "layout artifact missing")
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handleEvents returns the loaded document. The document hash doubles as an
// ETag so polling clients can cheaply detect unchanged calendars.
func (s *timelineServer) handleEvents(w http.ResponseWriter, r *http.Request) {
	snap, _ := s.current()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, "no snapshot yet")
		return
	}

	if hash := snap.result.DocumentHash; hash != "" {
		etag := `"` + hash + `"`
		w.Header().Set("ETag", etag)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}
	writeJSON(w, http.StatusOK, snap.result.Document)
}

// =============================================================================
// Response Helpers
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to write JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
