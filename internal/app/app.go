// Package app wires a ChemDraw AI process together: infrastructure clients,
// the AI services, the session store and the HTTP surface.  Both the API
// server binary and `chemdraw serve` build their process through New.
package app

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/ChemDraw-AI/internal/application/chemdraw"
	"github.com/turtacn/ChemDraw-AI/internal/config"
	"github.com/turtacn/ChemDraw-AI/internal/infrastructure/database/redis"
	"github.com/turtacn/ChemDraw-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemDraw-AI/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/ChemDraw-AI/internal/infrastructure/storage/minio"
	"github.com/turtacn/ChemDraw-AI/internal/intelligence/llm"
	httpserver "github.com/turtacn/ChemDraw-AI/internal/interfaces/http"
	"github.com/turtacn/ChemDraw-AI/internal/interfaces/http/handlers"
	"github.com/turtacn/ChemDraw-AI/internal/interfaces/http/middleware"
	pkgerrors "github.com/turtacn/ChemDraw-AI/pkg/errors"
)

type options struct {
	version      string
	model        llm.Model
	httpClient   *http.Client
	secureCookie bool
}

// Option customises New.
type Option func(*options)

// WithVersion sets the version reported by the health endpoints.
func WithVersion(v string) Option {
	return func(o *options) { o.version = v }
}

// WithModel replaces the provider selected by the intelligence config.
func WithModel(m llm.Model) Option {
	return func(o *options) { o.model = m }
}

// WithDownloadClient sets the HTTP client used to fetch diagrams.
func WithDownloadClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithSecureCookie marks the page session cookie Secure.
func WithSecureCookie(secure bool) Option {
	return func(o *options) { o.secureCookie = secure }
}

// App owns every long-lived component of the process.
type App struct {
	cfg    *config.Config
	logger logging.Logger

	collector prometheus.MetricsCollector
	metrics   *prometheus.AppMetrics

	redis *redis.Client
	minio *minio.MinIOClient

	Generation chemdraw.GenerationService
	Correction chemdraw.CorrectionService
	Policy     *chemdraw.ImagePolicy
	Downloader *chemdraw.Downloader
	Sessions   *chemdraw.SessionStore

	rateLimit     *middleware.RateLimitMiddleware
	router        http.Handler
	server        *httpserver.Server
	metricsServer *httpserver.Server
}

// New builds the application described by cfg.  The caller owns logger and
// must call Close once the App is no longer used.
func New(ctx context.Context, cfg *config.Config, logger logging.Logger, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, pkgerrors.New(pkgerrors.ErrCodeInvalidConfig, "configuration is required")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	o := options{version: "dev"}
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{cfg: cfg, logger: logger}
	if err := a.initMetrics(); err != nil {
		return nil, err
	}
	if err := a.initInfrastructure(); err != nil {
		_ = a.Close()
		return nil, err
	}
	if err := a.initServices(ctx, o); err != nil {
		_ = a.Close()
		return nil, err
	}
	a.initHTTP(o)

	logger.Info("application initialized",
		logging.String("version", o.version),
		logging.String("output_mode", string(cfg.Intelligence.OutputMode)),
		logging.Bool("cache", a.redis != nil),
		logging.Bool("archive", a.minio != nil),
	)
	return a, nil
}

func (a *App) initMetrics() error {
	if !a.cfg.Metrics.Enabled {
		a.collector = prometheus.NewNoopCollector()
		a.metrics = prometheus.NewNoopAppMetrics()
		return nil
	}
	c, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            a.cfg.Metrics.Namespace,
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, a.logger)
	if err != nil {
		return pkgerrors.Wrap(err, pkgerrors.ErrCodeInvalidConfig, "failed to create metrics collector")
	}
	a.collector = c
	a.metrics = prometheus.NewAppMetrics(c)
	return nil
}

func (a *App) initInfrastructure() error {
	if a.cfg.Cache.Enabled {
		c, err := redis.NewClient(a.cfg.Cache, a.logger.Named("redis"))
		if err != nil {
			return err
		}
		a.redis = c
	}
	if a.cfg.Storage.Enabled {
		c, err := minio.NewMinIOClient(a.cfg.Storage, a.logger.Named("minio"))
		if err != nil {
			return err
		}
		a.minio = c
	}
	return nil
}

func (a *App) initServices(ctx context.Context, o options) error {
	model := o.model
	if model == nil {
		m, err := llm.NewModel(ctx, a.cfg.Intelligence, a.logger.Named("llm"))
		if err != nil {
			return err
		}
		model = m
	}

	svcOpts := []chemdraw.ServiceOption{
		chemdraw.WithTemperature(a.cfg.Intelligence.Temperature),
		chemdraw.WithMetrics(a.metrics),
		chemdraw.WithLogger(a.logger),
	}
	genOpts := append([]chemdraw.ServiceOption{}, svcOpts...)
	if a.redis != nil {
		cache := redis.NewRedisCache(a.redis, a.logger,
			redis.WithPrefix(a.cfg.Cache.KeyPrefix),
			redis.WithDefaultTTL(a.cfg.Cache.TTL),
		)
		genOpts = append(genOpts, chemdraw.WithCache(cache, a.cfg.Cache.TTL))
	}

	var err error
	if a.Generation, err = chemdraw.NewGenerationService(model, a.cfg.Intelligence.OutputMode, genOpts...); err != nil {
		return err
	}
	if a.Correction, err = chemdraw.NewCorrectionService(model, svcOpts...); err != nil {
		return err
	}

	a.Policy = chemdraw.NewImagePolicy(a.cfg.Images)
	dlOpts := []chemdraw.DownloaderOption{
		chemdraw.WithDownloadMetrics(a.metrics),
		chemdraw.WithDownloadLogger(a.logger),
	}
	if o.httpClient != nil {
		dlOpts = append(dlOpts, chemdraw.WithHTTPClient(o.httpClient))
	}
	if a.minio != nil {
		dlOpts = append(dlOpts, chemdraw.WithArchive(minio.NewArchive(a.minio, a.logger)))
	}
	a.Downloader = chemdraw.NewDownloader(a.cfg.Download, a.Policy, dlOpts...)

	a.Sessions = chemdraw.NewSessionStore(chemdraw.Dependencies{
		Generation: a.Generation,
		Correction: a.Correction,
		Policy:     a.Policy,
		Downloader: a.Downloader,
		Viewer:     a.cfg.Viewer,
		Metrics:    a.metrics,
		Logger:     a.logger,
	}, a.cfg.Server.SessionTTL)
	return nil
}

func (a *App) initHTTP(o options) {
	cors := middleware.DefaultCORSConfig()
	if len(a.cfg.Server.CORSOrigins) > 0 {
		cors.AllowedOrigins = a.cfg.Server.CORSOrigins
		for _, origin := range a.cfg.Server.CORSOrigins {
			if strings.HasPrefix(origin, "*.") {
				cors.AllowWildcard = true
			}
		}
	}

	rl := middleware.DefaultRateLimitConfig()
	rl.RequestsPerSecond = a.cfg.Server.RateLimitRPS
	rl.BurstSize = a.cfg.Server.RateLimitBurst
	rl.SkipPaths = []string{"/healthz", "/readyz", a.cfg.Metrics.Path}
	a.rateLimit = middleware.NewRateLimitMiddleware(rl)

	var checkers []handlers.HealthChecker
	if a.redis != nil {
		checkers = append(checkers, a.redis)
	}
	if a.minio != nil {
		checkers = append(checkers, a.minio)
	}

	routerCfg := httpserver.RouterConfig{
		ChemHandler:         handlers.NewChemHandler(a.Generation, a.Correction, a.logger),
		SessionHandler:      handlers.NewSessionHandler(a.Sessions, a.logger),
		PageHandler:         handlers.NewPageHandler(a.Sessions, a.cfg.Viewer, a.logger, handlers.WithSecureCookie(o.secureCookie)),
		HealthHandler:       handlers.NewHealthHandler(o.version, a.metrics, a.logger, checkers...),
		CORSMiddleware:      middleware.NewCORSMiddleware(cors),
		LoggingMiddleware:   middleware.NewLoggingMiddleware(a.logger, a.metrics, middleware.DefaultLoggingConfig()),
		RateLimitMiddleware: a.rateLimit,
		MaxBodySize:         a.cfg.Server.MaxBodySize,
	}

	if a.cfg.Metrics.Enabled {
		if a.cfg.Metrics.Port == 0 {
			routerCfg.MetricsCollector = a.collector
			routerCfg.MetricsPath = a.cfg.Metrics.Path
		} else {
			mr := chi.NewRouter()
			mr.Handle(a.cfg.Metrics.Path, a.collector.Handler())
			a.metricsServer = httpserver.NewServer(config.ServerConfig{
				Port:            a.cfg.Metrics.Port,
				ReadTimeout:     a.cfg.Server.ReadTimeout,
				WriteTimeout:    a.cfg.Server.ReadTimeout,
				ShutdownTimeout: a.cfg.Server.ShutdownTimeout,
			}, mr, a.logger.Named("metrics"))
		}
	}

	a.router = httpserver.NewRouter(routerCfg)
	a.server = httpserver.NewServer(a.cfg.Server, a.router, a.logger)
}

// Handler returns the API route tree.
func (a *App) Handler() http.Handler { return a.router }

// Close releases the infrastructure clients.
func (a *App) Close() error {
	var errs []error
	if a.minio != nil {
		if err := a.minio.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

//Personal.AI order the ending
