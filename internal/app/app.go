package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fxconvert/internal/adapters"
	"fxconvert/internal/adapters/cache"
	"fxconvert/internal/adapters/httpclient"
	"fxconvert/internal/adapters/postgres"
	"fxconvert/internal/api"
	"fxconvert/internal/config"
	"fxconvert/internal/converter"
	"fxconvert/internal/platform/db"
	httpserver "fxconvert/internal/platform/http"
	"fxconvert/internal/platform/metrics"
	"fxconvert/internal/rate"
	"fxconvert/internal/rate/handler"

	"github.com/sirupsen/logrus"
)

// Run wires the application components, starts HTTP server and scheduler
func Run(configPath string) error {
	appCfg, err := config.Init(configPath)
	if err != nil {
		return err
	}
	// Logger
	logrus.SetOutput(os.Stdout)
	if parsedLvl, parseErr := logrus.ParseLevel(appCfg.Logging.Level); parseErr != nil {
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetLevel(parsedLvl)
	}
	logrus.Info("✅ Config initialization successful")

	// Root context bound to OS signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Bounded context for startup operations (DB connect, migrations, initial reads)
	startupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	appMetrics := metrics.New()

	quoteCache, err := cache.NewQuoteCache(appCfg.Cache.MaxQuotes)
	if err != nil {
		return err
	}
	defer quoteCache.Close()
	conv := converter.New(converter.WithQuoteCache(quoteCache))

	// Rate store is optional: without a database rates live in memory only
	var store adapters.RateStore
	if appCfg.DbServer.Enabled() {
		if err = db.Migrate(startupCtx, appCfg.DbServer.GetConnectionStr()); err != nil {
			logrus.WithError(err).Error("Error migrating db")
			return err
		}
		pool, poolErr := db.CreatePoolAndPing(startupCtx, appCfg.DbServer)
		if poolErr != nil {
			logrus.WithError(poolErr).Error("Error connecting to db")
			return poolErr
		}
		defer pool.Close()
		store = postgres.NewRateRepository(pool)
		logrus.Info("✅ Postgres connection successful")
	} else {
		logrus.Warn("No database configured, rates are kept in memory only")
	}

	rateService := rate.NewService(conv, store, appMetrics)
	loaded, err := rateService.Bootstrap(startupCtx)
	if err != nil {
		logrus.WithError(err).Error("Failed to load stored rates")
		return err
	}
	logrus.Infof("✅ %d stored rates loaded", loaded)

	var syncer handler.Syncer
	if appCfg.RateAPI.Enabled() {
		rateSyncer, scheduler := newRateSync(appCfg, rateService, appMetrics)
		// Ensure scheduler stops before DB pool closes
		defer func() {
			if shutDownErr := scheduler.Shutdown(); shutDownErr != nil {
				logrus.Errorf("Scheduler shutdown error: %v", shutDownErr)
			}
		}()
		if startErr := scheduler.Start(ctx); startErr != nil {
			logrus.WithError(startErr).Error("Failed to start scheduler")
			return startErr
		}
		syncer = rateSyncer
		logrus.Info("✅ Scheduler activation successful")
	} else {
		logrus.Warn("Rate API is not configured, rates only change through the API")
	}

	// Handlers and router
	rateHandler := handler.NewRateHandler(rate.NewValidator(), rateService, syncer)
	router := api.NewRouter(rateHandler, appMetrics.Handler())

	logrus.Info("Starting http server")
	// Block until context is canceled, then perform graceful shutdown.
	if serverErr := httpserver.Start(ctx, appCfg.HTTPServer, router); serverErr != nil {
		// Cancel the root context to stop scheduler and other in-flight work
		stop()
		logrus.Errorf("HTTP server error: %v", serverErr)
		return fmt.Errorf("http server: %w", serverErr)
	}
	return nil
}

func newRateSync(appCfg *config.AppConfig, rateService *rate.Service, recorder rate.Recorder) (*rate.Syncer, *rate.Scheduler) {
	// Base HTTP client (configurable timeout)
	httpTimeout := time.Duration(appCfg.HTTPClient.TimeoutSeconds) * time.Second
	if httpTimeout <= 0 {
		httpTimeout = 10 * time.Second
	}
	baseHTTPClient := &http.Client{Timeout: httpTimeout}

	rateClient := httpclient.NewExchangeRateClient(baseHTTPClient, appCfg.RateAPI.LatestURL())
	syncer := rate.NewSyncer(rateClient, rateService, appCfg.RateAPI.Bases, appCfg.Scheduler.Workers, recorder)
	scheduler := rate.NewScheduler(syncer, time.Duration(appCfg.Scheduler.JobDurationSec)*time.Second)
	return syncer, scheduler
}
