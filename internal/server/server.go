package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"mcp-business-go/internal/docstore"
	"mcp-business-go/internal/files"
	"mcp-business-go/internal/mcp"
	"mcp-business-go/internal/store"
	"mcp-business-go/internal/tasks"
	"mcp-business-go/internal/telemetry"
	"mcp-business-go/internal/tools"
	"mcp-business-go/internal/tools/admin"
	"mcp-business-go/internal/tools/assistant"
	"mcp-business-go/internal/tools/docs"
	"mcp-business-go/internal/tools/inventory"
	"mcp-business-go/internal/tools/report"
	"mcp-business-go/internal/tools/sales"
)

// Version is reported by GET /.
const Version = "1.0.0"

// Server holds the assembled HTTP handler and the components behind it.
type Server struct {
	cfg       Config
	logger    zerolog.Logger
	router    chi.Router
	tables    *store.Store
	files     *files.Store
	registry  *tools.Registry
	metrics   *telemetry.Metrics
	collector *telemetry.SystemMetricsCollector
}

// New creates the server: it opens the tables, registers every tool and
// mounts the HTTP routes.
func New(cfg Config, logger zerolog.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tables, err := store.Open(cfg.DataDir, cfg.SeedDemo, logger)
	if err != nil {
		return nil, fmt.Errorf("server: open tables: %w", err)
	}
	fileStore, err := files.NewStore(cfg.FilesDir, logger)
	if err != nil {
		return nil, fmt.Errorf("server: open files: %w", err)
	}
	corpus := docstore.New(cfg.DocsDir, logger)
	if cfg.SeedDemo {
		if _, err := corpus.SeedDemo(); err != nil {
			return nil, fmt.Errorf("server: seed docs: %w", err)
		}
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := telemetry.NewMetrics(promRegistry)

	registry, err := tools.NewRegistry(
		sales.NewSummaryTool(tables),
		sales.NewTopTool(tables),
		inventory.NewStatusTool(tables),
		inventory.NewReorderTool(tables),
		report.NewTool(tables, fileStore),
		docs.NewSearchTool(corpus),
		assistant.NewAskTool(tables, corpus),
		admin.NewIngestTool(tables,
			admin.WithMaxBytes(cfg.MaxIngestBytes),
			admin.WithObserver(metrics.RecordIngest),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("server: register tools: %w", err)
	}
	for _, name := range registry.Names() {
		logger.Debug().Str("tool", name).Msg("Registered tool")
	}
	logger.Info().Int("count", registry.Len()).Msg("Tools registered")

	dispatcher := telemetry.NewInstrumentedDispatcher(tools.NewDispatcher(registry, logger), metrics)
	mcpHandler := mcp.NewHandler(dispatcher, logger,
		mcp.WithMaxBodyBytes(bodyLimit(cfg.MaxIngestBytes)),
		mcp.WithIntentHook(metrics.RecordIntent),
	)

	taskManager := tasks.NewManager(tasks.NewMemoryStore(logger), logger,
		tasks.WithDoneHook(metrics.RecordTaskDone),
	)
	taskHandler := tasks.NewHandler(taskManager, logger)

	s := &Server{
		cfg:       cfg,
		logger:    logger.With().Str("component", "server").Logger(),
		tables:    tables,
		files:     fileStore,
		registry:  registry,
		metrics:   metrics,
		collector: telemetry.NewSystemMetricsCollector(metrics, tables, logger, cfg.MetricsInterval),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(telemetry.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(telemetry.HTTPMetricsMiddleware(metrics))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Content-Disposition", "Content-Type", "Cache-Control", "Connection"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	r.Get("/", s.info)
	r.Get("/health", s.health)
	r.Handle("/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	r.Get("/files/{name}", s.download)

	r.Mount("/mcp", mcpHandler.Routes())
	r.Get("/sse", mcpHandler.SSE)
	r.Post("/sse", mcpHandler.SSE)

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/process", taskHandler.Routes())
	})

	s.router = r
	return s, nil
}

// bodyLimit leaves room for the base64 expansion of an ingest payload.
func bodyLimit(maxIngest int) int64 {
	n := int64(maxIngest)/3*4 + 64<<10
	if n < mcp.DefaultMaxBodyBytes {
		return mcp.DefaultMaxBodyBytes
	}
	return n
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves on cfg.Addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	collectorCtx, stopCollector := context.WithCancel(ctx)
	defer stopCollector()
	go s.collector.Start(collectorCtx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.cfg.Addr).Msg("Starting server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: listen: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info().Dur("timeout", s.cfg.ShutdownTimeout).Msg("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

func (s *Server) info(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{
		"name":    "mcp-business-go",
		"version": Version,
		"tools":   s.registry.Names(),
		"endpoints": []string{
			"GET /health",
			"GET /metrics",
			"GET /mcp/tools/list",
			"POST /mcp/tools/call",
			"POST /mcp/ask",
			"GET|POST /sse",
			"GET /files/{name}",
			"POST /api/v1/process/run",
			"GET /api/v1/process/status/{taskID}",
		},
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	counts := s.tables.Counts()
	render.JSON(w, r, map[string]any{
		"status": "healthy",
		"rows": map[string]int{
			"sales":     counts[store.KindSales],
			"inventory": counts[store.KindInventory],
		},
		"time": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) download(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	f, info, err := s.files.Open(name)
	switch {
	case errors.Is(err, files.ErrInvalidName):
		http.Error(w, "nombre de archivo inválido", http.StatusBadRequest)
		return
	case errors.Is(err, files.ErrNotFound):
		http.Error(w, "archivo no encontrado", http.StatusNotFound)
		return
	case err != nil:
		s.logger.Error().Err(err).Str("file", name).Msg("Failed to open file")
		http.Error(w, "error interno", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	http.ServeContent(w, r, name, info.ModTime(), f)
}
