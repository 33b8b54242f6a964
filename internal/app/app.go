package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"interviewcheck/internal/config"
	apierrors "interviewcheck/internal/errors"
	"interviewcheck/internal/evaluation"
	"interviewcheck/internal/infrastructure"
	customMiddleware "interviewcheck/internal/middleware"
	"interviewcheck/internal/roster"
	"interviewcheck/internal/services"
	handlers "interviewcheck/internal/transport/http"
	"interviewcheck/internal/validation"
	ws "interviewcheck/internal/websocket"
	"interviewcheck/pkg/contracts"
)

const (
	AppName    = "Interview Check"
	Executable = "interviewcheck-web"
)

// Application represents the main application container
type Application struct {
	Config   *config.Config
	Paths    *config.Paths
	Router   *chi.Mux
	Server   *http.Server
	Logger   *slog.Logger
	Metrics  *infrastructure.Metrics
	Tracing  *infrastructure.Tracing
	Services *ServiceContainer
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Interview *services.InterviewService
	Merge     *services.MergeService
	Health    *services.HealthService
}

// NewApplication wires the roster, services and router for cfg. Relative
// paths in cfg are resolved against paths.BaseDir.
func NewApplication(cfg *config.Config, paths *config.Paths, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", contracts.Version),
		slog.String("executable", Executable))

	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	tracing, err := infrastructure.InitializeTracing(cfg.Tracing, contracts.Version, nil, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	app := &Application{
		Config:  cfg,
		Paths:   paths,
		Logger:  logger,
		Metrics: infrastructure.NewMetrics(),
		Tracing: tracing,
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices loads the roster and builds the services on top of it
func (a *Application) initializeServices() error {
	ic := a.Config.Interview

	if err := validation.NewFileValidator(a.Logger).ValidateExcelFile(a.Paths.RosterFile); err != nil {
		return fmt.Errorf("failed to load roster %s: %w", a.Paths.RosterFile, err)
	}
	r, err := roster.Load(a.Paths.RosterFile, roster.Options{
		CohortPrefix:   ic.CohortPrefix,
		PinnedPrefixes: ic.PinnedPrefixes,
	}, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to load roster %s: %w", a.Paths.RosterFile, err)
	}
	for _, w := range r.Warnings {
		a.Logger.Warn("Roster warning", slog.String("warning", w))
	}
	a.Logger.Info("Roster loaded",
		slog.String("path", a.Paths.RosterFile),
		slog.Int("candidates", r.Len()))

	interview := services.NewInterviewService(r, evaluation.NewStore(a.Logger), services.InterviewSettings{
		OutputDir:      a.Paths.OutputDir,
		ResultFilename: ic.ResultFilename,
		TimerLength:    ic.TimerLength(),
		ConfirmTTL:     ic.ConfirmTTL,
	}, a.Metrics, a.Logger)

	a.Services = &ServiceContainer{
		Interview: interview,
		Merge:     services.NewMergeService(a.Paths.OutputDir, ic.ResultFilename, a.Metrics, a.Logger),
		Health: services.NewHealthService(
			contracts.Info(),
			a.Paths.RosterFile,
			a.Paths.OutputDir,
			r.Len,
			a.Logger,
		),
	}
	return nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()
	errorHandler := apierrors.NewErrorHandler(a.Logger, a.Config.Logging.Development)

	// Tracing → RequestID → RealIP → Logger → Recoverer → headers → CORS → rate limit
	r.Use(customMiddleware.NewTracing(a.Tracing.Provider()).Handler)
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(errorHandler))
	r.Use(customMiddleware.SecurityHeaders)
	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(a.getCORSConfig()))
	}
	if a.Config.Security.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
			errorHandler,
		).Handler)
	}

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	r.Handle("/metrics", a.Metrics.Handler())

	a.setupAPIRoutes(r, errorHandler)
	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router, errorHandler *apierrors.ErrorHandler) {
	validator := customMiddleware.NewValidationMiddleware(a.Logger, errorHandler)
	upgrader := ws.NewUpgrader(a.Config.WebSocket, a.Config.Security.AllowedOrigins, a.Logger)
	stream := ws.StreamConfig{
		TickInterval: a.Config.WebSocket.TickInterval,
		WriteWait:    a.Config.WebSocket.WriteWait,
	}

	r.Route("/api", func(r chi.Router) {
		healthHandler := handlers.NewHealthHandler(a.Services.Health, a.Logger)
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/ready", healthHandler.ReadinessCheck)
		r.Get("/health/live", healthHandler.LivenessCheck)
		r.Get("/version", healthHandler.Version)

		r.Mount("/roster", handlers.NewRosterHandler(a.Services.Interview, validator, a.Logger, errorHandler).Routes())
		r.Mount("/interviewers", handlers.NewInterviewerHandler(
			a.Services.Interview, validator, upgrader, stream, a.Logger, errorHandler,
		).Routes())
		r.Mount("/merge", handlers.NewMergeHandler(
			a.Services.Merge, validator, a.Config.Interview.MaxUploadMB<<20, a.Logger, errorHandler,
		).Routes())
	})
}

func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			customMiddleware.RequestIDHeader,
		},
		ExposedHeaders: []string{
			customMiddleware.RequestIDHeader,
			"Content-Disposition",
		},
		MaxAge: 300,
		Logger: a.Logger,
	}
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           a.Config.Server.Addr(),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Serve serves on ln until ctx is done, then shuts down gracefully within
// the configured timeout.
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfoContext(gctx, "Server listening",
			slog.String("address", ln.Addr().String()),
			slog.String("output_dir", a.Paths.OutputDir))
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return a.Stop(context.Background())
	})

	return g.Wait()
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	if err := a.Tracing.Shutdown(shutdownCtx); err != nil {
		a.Logger.WarnContext(ctx, "Tracing shutdown failed", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run listens on the configured address and serves until SIGINT or SIGTERM
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}

	a.Logger.InfoContext(ctx, "Application started",
		slog.String("address", fmt.Sprintf("http://%s", ln.Addr())),
		slog.String("level", a.Config.Logging.Level))

	return a.Serve(ctx, ln)
}
