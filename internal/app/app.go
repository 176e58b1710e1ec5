package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/riskibarqy/cricket-hub/external/cricketapi"
	"github.com/riskibarqy/cricket-hub/internal/config"
	"github.com/riskibarqy/cricket-hub/internal/interfaces/httpapi"
	"github.com/riskibarqy/cricket-hub/internal/platform/logging"
	"github.com/riskibarqy/cricket-hub/internal/platform/ratelimit"
	"github.com/riskibarqy/cricket-hub/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	idgen "github.com/riskibarqy/cricket-hub/internal/platform/id"
)

const syncWorkers = 4

// App owns the HTTP server and the background sync scheduler.
type App struct {
	Server *http.Server

	sync         *usecase.SyncService
	syncInterval time.Duration
	autoSync     bool
	scheduler    gocron.Scheduler
	stores       *stores
	logger       *logging.Logger
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	repos, err := openStores(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	limiter := ratelimit.New(ratelimit.Config{
		MaxPerMinute:   cfg.RateLimitMaxPerMinute,
		MaxPerHour:     cfg.RateLimitMaxPerHour,
		RetryDelay:     cfg.RateLimitRetryDelay,
		MaxRetries:     cfg.RateLimitMaxRetries,
		ConnRetryDelay: cfg.RateLimitConnRetryDelay,
		Timeout:        cfg.UpstreamTimeout,
		AllowedHosts:   cfg.UpstreamHosts(),
	}, &http.Client{
		Timeout:   cfg.UpstreamTimeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}, logger.Named("ratelimit"))

	feed := cricketapi.NewClient(cricketapi.ClientConfig{
		Key:         cfg.RapidAPIKey,
		Host:        cfg.RapidAPIHost,
		LiveURL:     cfg.RapidAPILiveURL,
		RecentURL:   cfg.RapidAPIRecentURL,
		UpcomingURL: cfg.RapidAPIUpcomingURL,
		InfoURL:     cfg.RapidAPIInfoURL,
		SeriesURL:   cfg.RapidAPISeriesURL,
		Logger:      logger.Named("cricketapi"),
	}, limiter)

	flags := usecase.NewFeatureFlags(featureFlagsFromConfig(cfg))
	matchService := usecase.NewMatchService(feed, repos.matches, flags, idgen.NewUUIDGenerator(), logger)
	seriesService := usecase.NewSeriesService(repos.series, feed, flags, logger)
	adminService := usecase.NewAdminService(flags, limiter, usecase.CacheTTLs{
		Enabled:       cfg.CacheEnabled,
		SeriesList:    cfg.CacheSeriesListTTL,
		SeriesDetails: cfg.CacheSeriesDetailsTTL,
		MatchDetails:  cfg.CacheMatchDetailsTTL,
		LiveMatches:   cfg.CacheLiveMatchTTL,
	})

	handler := httpapi.NewHandler(matchService, seriesService, adminService, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	scheduler, err := newSyncScheduler()
	if err != nil {
		_ = repos.Close()
		return nil, err
	}

	return &App{
		Server: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		sync:         usecase.NewSyncService(matchService, seriesService, flags, syncWorkers, logger),
		syncInterval: cfg.SyncInterval,
		autoSync:     cfg.FeatureAutoSync,
		scheduler:    scheduler,
		stores:       repos,
		logger:       logger,
	}, nil
}

// StartSync registers the periodic refresh job. The job runs regardless of
// the startup value of the auto-sync flag; each run checks the live flag.
func (a *App) StartSync(ctx context.Context) error {
	if err := scheduleSync(ctx, a.scheduler, a.sync, a.syncInterval, a.logger); err != nil {
		return err
	}
	if a.stores != nil && a.stores.cache != nil {
		if err := scheduleCacheSweep(ctx, a.scheduler, a.stores.cache, a.logger); err != nil {
			return err
		}
	}
	a.scheduler.Start()
	a.logger.Info("background sync scheduled", "interval", a.syncInterval.String(), "enabled", a.autoSync)
	return nil
}

// Close stops the scheduler and releases store connections.
func (a *App) Close() error {
	var errs []error
	if a.scheduler != nil {
		if err := a.scheduler.Shutdown(); err != nil {
			errs = append(errs, fmt.Errorf("shutdown scheduler: %w", err))
		}
	}
	if a.stores != nil {
		if err := a.stores.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func featureFlagsFromConfig(cfg config.Config) map[usecase.Flag]bool {
	return map[usecase.Flag]bool{
		usecase.FlagLiveMatches:     cfg.FeatureLiveMatches,
		usecase.FlagRecentMatches:   cfg.FeatureRecentMatches,
		usecase.FlagUpcomingMatches: cfg.FeatureUpcomingMatches,
		usecase.FlagMatchDetails:    cfg.FeatureMatchDetails,
		usecase.FlagSeries:          cfg.FeatureSeries,
		usecase.FlagAutoSync:        cfg.FeatureAutoSync,
	}
}
