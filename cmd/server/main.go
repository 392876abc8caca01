package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/junlennon0516/DongSeo-WebProject/internal/adapters/estimateapi"
	"github.com/junlennon0516/DongSeo-WebProject/internal/adapters/gemini"
	httpadapter "github.com/junlennon0516/DongSeo-WebProject/internal/adapters/http"
	pg "github.com/junlennon0516/DongSeo-WebProject/internal/adapters/postgres"
	"github.com/junlennon0516/DongSeo-WebProject/internal/config"
	"github.com/junlennon0516/DongSeo-WebProject/internal/logging"
	"github.com/junlennon0516/DongSeo-WebProject/internal/metrics"
	"github.com/junlennon0516/DongSeo-WebProject/internal/ports"
	"github.com/junlennon0516/DongSeo-WebProject/internal/services/estimator"
	"github.com/junlennon0516/DongSeo-WebProject/internal/services/pricing"
	"github.com/junlennon0516/DongSeo-WebProject/internal/services/retrieval"
)

func main() {
	cfg, cfgErr := config.Load()

	log, err := logging.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()
	if cfgErr != nil {
		log.Warn("config", zap.Error(cfgErr))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := pg.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("db config", zap.Error(err))
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	storeUp := db.Ping(pingCtx) == nil
	cancel()
	if !storeUp {
		log.Warn("catalog store unreachable at startup, retrieval and local pricing will degrade",
			zap.String("fallback", cfg.CatalogFallback))
	}

	if cfg.MigrateOnStart {
		switch err := db.Migrate(ctx); {
		case err == nil:
			log.Info("migrations applied")
		case storeUp:
			log.Fatal("migrate", zap.Error(err))
		default:
			log.Warn("migrations skipped", zap.Error(err))
		}
	}

	var (
		_ ports.CatalogRepository = db
		_ ports.PriceRepository   = db
	)

	reg := metrics.NewRegistry()

	retrievalOpts := retrieval.Options{Limit: cfg.CatalogLimit}
	if cfg.CatalogFallback == config.FallbackBuiltin {
		retrievalOpts.Fallback = retrieval.BuiltinCatalog()
	}
	catalog := retrieval.New(db, log.Named("retrieval"), retrievalOpts)

	gen, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatal("gemini client", zap.Error(err))
	}

	remote := estimateapi.New(cfg.PricingBaseURL, &http.Client{Timeout: cfg.PricingTimeout})
	resolver := pricing.New(remote, db, log.Named("pricing"), pricing.Options{
		RemoteTimeout: cfg.PricingTimeout,
		Concurrency:   cfg.PricingConcurrency,
		Metrics:       reg,
	})

	est := estimator.New(catalog, gen, resolver, log.Named("estimator"), estimator.Options{
		Model:             cfg.GeminiModel,
		ExtractionTimeout: cfg.ExtractionTimeout,
		Metrics:           reg,
	})

	srv := httpadapter.New(est, catalog, db, reg.Handler(), log.Named("http"))
	httpSrv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           h2c.NewHandler(srv.Routes(), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()
	log.Info("listening", zap.String("addr", cfg.ListenAddr), zap.String("model", gen.Name()))

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("shutdown", zap.Error(err))
	}
}
