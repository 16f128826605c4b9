package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	shellhttp "github.com/GriffinCanCode/microshell/internal/api/http"
	"github.com/GriffinCanCode/microshell/internal/api/middleware"
	"github.com/GriffinCanCode/microshell/internal/api/ws"
	"github.com/GriffinCanCode/microshell/internal/domain/descriptor"
	"github.com/GriffinCanCode/microshell/internal/domain/registry"
	"github.com/GriffinCanCode/microshell/internal/domain/routes"
	"github.com/GriffinCanCode/microshell/internal/domain/session"
	"github.com/GriffinCanCode/microshell/internal/domain/shell"
	"github.com/GriffinCanCode/microshell/internal/infrastructure/config"
	"github.com/GriffinCanCode/microshell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/microshell/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/microshell/internal/infrastructure/probe"
	"github.com/GriffinCanCode/microshell/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/microshell/internal/shared/types"
)

const (
	shutdownTimeout  = 10 * time.Second
	limiterSweep     = time.Minute
	remoteRetries    = 2
	minSweepInterval = time.Second
)

// Server wraps the HTTP server and dependencies
type Server struct {
	engine   *gin.Engine
	registry *registry.Manager
	provider *descriptor.Provider
	router   *routes.Router
	sessions *session.Manager
	prober   *probe.Prober
	limiter  *middleware.RateLimiter
	watcher  *descriptor.Watcher
	tracer   *tracing.Tracer
	logger   *logging.Logger
	config   *config.Config
	metrics  *monitoring.Metrics

	rebuildMu sync.Mutex
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	logCfg := logging.DefaultConfig()
	if cfg.Logging.Development {
		logCfg = logging.DevelopmentConfig()
	}
	if cfg.Logging.Level != "" {
		logCfg.Level = cfg.Logging.Level
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	logger.Info("Initializing shell server",
		zap.String("port", cfg.Server.Port),
		zap.String("env", cfg.Shell.Environment),
		zap.String("home", cfg.Shell.HomePath),
	)

	s := &Server{
		logger:  logger,
		config:  cfg,
		metrics: monitoring.NewMetrics(),
	}
	s.tracer = tracing.New("microshell", logger.Component("tracing"))

	// Registry
	s.registry = registry.NewManager(registry.Options{
		Environment: cfg.Shell.Environment,
		HomePath:    cfg.Shell.HomePath,
	})
	seeder := registry.NewSeeder(s.registry, cfg.Shell.AppsDir, logger.Component("registry"))
	if _, err := seeder.Seed(); err != nil {
		logger.Warn("Failed to seed applications", zap.Error(err))
	}
	s.metrics.SetRegistryApps(len(s.registry.List()))

	// Navigation descriptor
	var source descriptor.Source
	if cfg.Shell.MenuURL != "" {
		source = descriptor.NewRemoteSource(cfg.Shell.MenuURL, remoteRetries, cfg.Probe.Timeout)
	} else {
		source = descriptor.NewFileSource(cfg.Shell.MenuFile)
	}
	s.provider = descriptor.NewProvider(source, logger.Component("descriptor"))
	loadErr := s.provider.Reload(context.Background())
	s.metrics.RecordDescriptorReload(loadErr)
	if loadErr != nil {
		logger.Warn("Starting without a navigation descriptor", zap.Error(loadErr))
	}

	// Route table
	s.router = routes.NewRouter(nil)
	if err := s.rebuildRoutes(); err != nil {
		return nil, err
	}

	// Sessions
	s.sessions = session.NewManager(s.newShell, session.Options{
		TTL:    cfg.Shell.SessionTTL,
		Logger: logger.Component("session"),
		OnEvict: func(string) {
			s.metrics.IncSessionsEvicted()
			s.metrics.SetSessionsActive(s.sessions.Len())
		},
	})

	// Entry prober
	s.prober = probe.New(probe.Options{
		Timeout:     cfg.Probe.Timeout,
		Retries:     cfg.Probe.Retries,
		Concurrency: cfg.Probe.Concurrency,
		Logger:      logger.Component("probe"),
		OnResult: func(r probe.Result, elapsed time.Duration) {
			s.metrics.RecordProbe(r.App, string(r.Status), elapsed)
		},
	})

	if cfg.Shell.Watch && cfg.Shell.MenuURL == "" {
		w, err := descriptor.NewWatcher(cfg.Shell.MenuFile, s.provider, descriptor.DefaultDebounce,
			s.onWatchReload, logger.Component("watcher"))
		if err != nil {
			logger.Warn("Descriptor hot reload disabled", zap.Error(err))
		} else {
			s.watcher = w
		}
	}

	s.engine = s.newEngine()
	logger.Info("Server initialized successfully",
		zap.Int("apps", len(s.registry.List())),
		zap.Int("routes", s.router.Table().Len()),
	)
	return s, nil
}

func (s *Server) newEngine() *gin.Engine {
	cfg := s.config
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(s.tracer.Middleware(), tracing.RequestIDMiddleware())
	router.Use(middleware.Logger(s.logger.Component("http")))
	router.Use(monitoring.Middleware(s.metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.Server.CORSOrigins...)))
	if cfg.RateLimit.Enabled {
		s.logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		s.limiter = middleware.NewRateLimiter(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		})
		router.Use(s.limiter.Middleware())
	}
	// promhttp negotiates its own compression
	router.Use(middleware.Gzip(gzip.DefaultCompression, "/metrics"))

	handlers := shellhttp.NewHandlers(shellhttp.Options{
		Registry: s.registry,
		Menu:     s.provider,
		Router:   s.router,
		Sessions: s.sessions,
		Prober:   s.prober,
		Reload:   s.reload,
		Metrics:  shellhttp.NewHandlerMetrics(s.metrics),
		Tracer:   s.tracer,
		Logger:   s.logger.Component("api"),
	})
	handlers.Register(router)

	stream := ws.NewHandler(s.sessions, ws.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		Metrics:        s.metrics,
		Logger:         s.logger.Component("ws"),
	})
	router.GET("/sessions/:id/stream", stream.Stream)

	aggregator := shellhttp.NewMetricsAggregator(s.metrics, s.registry, s.sessions, s.prober)
	router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	router.GET("/metrics/json", aggregator.GetAggregatedMetrics)

	return router
}

// newShell builds the shell of a new session
func (s *Server) newShell(id string) *shell.Shell {
	log := s.logger.Session(id)
	sh := shell.New(s.registry, s.provider, s.router, shell.Options{
		HomePath:     s.config.Shell.HomePath,
		MainPrefixes: s.config.Shell.MainPrefixes,
		Logger:       log,
	})
	sh.AfterEach(func(tr types.Transition) {
		log.Debug("Navigated",
			zap.String("from", tr.From),
			zap.String("to", tr.Path),
			zap.String("app", tr.App),
			zap.String("degraded", tr.Degraded),
			zap.Uint64("version", tr.Version),
		)
	})
	return sh
}

// rebuildRoutes compiles the table from the current registry and
// descriptor. Views are re-indexed on every rebuild.
func (s *Server) rebuildRoutes() error {
	s.rebuildMu.Lock()
	defer s.rebuildMu.Unlock()

	var resolver routes.ViewResolver
	if dir := s.config.Shell.ViewsDir; dir != "" {
		views, err := routes.NewDirViews(dir, s.config.Shell.ViewPattern)
		if err != nil {
			s.logger.Warn("View index unavailable, using placeholders", zap.Error(err))
		} else {
			resolver = views
		}
	}

	compiler := routes.NewCompiler(resolver, routes.DefaultPlaceholder, s.logger.Component("routes"))
	table, err := s.router.Rebuild(compiler,
		routes.BaseRoutes(s.config.Shell.HomePath),
		s.provider.Current(),
		s.registry.List(),
	)
	if err != nil {
		return fmt.Errorf("failed to compile routes: %w", err)
	}

	s.metrics.SetRouteRecords(table.Len())
	s.logger.Info("Route table compiled", zap.Int("records", table.Len()))
	return nil
}

// reload reloads the descriptor and recompiles routes
func (s *Server) reload(ctx context.Context) error {
	err := s.provider.Reload(ctx)
	if err == nil {
		err = s.rebuildRoutes()
	}
	s.metrics.RecordDescriptorReload(err)
	return err
}

func (s *Server) onWatchReload(err error) {
	if err == nil {
		err = s.rebuildRoutes()
	}
	s.metrics.RecordDescriptorReload(err)
	if err != nil {
		s.logger.Warn("Hot reload rejected", zap.Error(err))
	}
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves HTTP and runs background workers until ctx is done, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	addr := s.config.Server.Host + ":" + s.config.Server.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	if ttl := s.config.Shell.SessionTTL; ttl > 0 {
		interval := max(ttl/4, minSweepInterval)
		g.Go(func() error {
			s.sessions.Run(gctx, interval)
			return nil
		})
	}
	if s.limiter != nil {
		g.Go(func() error {
			s.limiter.Run(gctx, limiterSweep)
			return nil
		})
	}
	if s.watcher != nil {
		g.Go(func() error {
			s.watcher.Start(gctx)
			return nil
		})
	}

	g.Go(func() error {
		s.logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Close releases background resources
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")

	if s.watcher != nil {
		if err := s.watcher.Stop(); err != nil {
			s.logger.Error("Failed to stop descriptor watcher", zap.Error(err))
		}
	}
	if err := s.tracer.Close(); err != nil {
		s.logger.Error("Failed to flush traces", zap.Error(err))
	}

	_ = s.logger.Sync()
	return nil
}
