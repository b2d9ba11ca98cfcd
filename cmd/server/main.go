// Server entrypoint: reads configuration, wires stores and services, and
// runs the HTTP server until interrupted. Business logic lives in the
// internal service packages; this file only connects them.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"solidario/internal/audit"
	authhandler "solidario/internal/auth/handler"
	authservice "solidario/internal/auth/service"
	authstore "solidario/internal/auth/store"
	cataloghandler "solidario/internal/catalog/handler"
	catalogservice "solidario/internal/catalog/service"
	catalogstore "solidario/internal/catalog/store"
	contenthandler "solidario/internal/content/handler"
	contentservice "solidario/internal/content/service"
	contentstore "solidario/internal/content/store"
	deliveryhandler "solidario/internal/delivery/handler"
	deliveryservice "solidario/internal/delivery/service"
	deliverystore "solidario/internal/delivery/store"
	jwttoken "solidario/internal/jwt_token"
	"solidario/internal/platform/config"
	"solidario/internal/platform/database"
	"solidario/internal/platform/health"
	"solidario/internal/platform/kafka/producer"
	"solidario/internal/platform/logger"
	"solidario/internal/platform/metrics"
	"solidario/internal/platform/redis"
	"solidario/internal/ratelimit"
	"solidario/internal/registry"
	registrymetrics "solidario/internal/registry/metrics"
	registryservice "solidario/internal/registry/service"
	registrystore "solidario/internal/registry/store"
	"solidario/internal/seeder"
	httptransport "solidario/internal/transport/http"
)

const (
	shutdownTimeout = 10 * time.Second
	purgeInterval   = 10 * time.Minute
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("initializing solidario portal",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
	)

	m := metrics.New()
	probes := health.New(cfg.Environment)

	dbCfg := database.DefaultConfig()
	dbCfg.URL = cfg.DatabaseURL
	pool, err := database.New(dbCfg)
	if err != nil {
		return err
	}
	if pool != nil {
		defer pool.Close()
		probes.RegisterCheck("database", checkWithTimeout(pool.Health))
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
	}

	rdb, err := redis.New(cfg.RedisURL)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
		probes.RegisterCheck("redis", checkWithTimeout(rdb.Health))
	}

	var events *producer.Producer
	if cfg.KafkaBrokers != "" {
		producerCfg := producer.DefaultConfig()
		producerCfg.Brokers = cfg.KafkaBrokers
		events, err = producer.New(producerCfg, log)
		if err != nil {
			return err
		}
		defer events.Close()
	}

	// Stores: postgres when a database is configured, memory otherwise.
	var (
		staffStore    authstore.Store
		catalogStore  catalogstore.Store
		contentStore  contentstore.Store
		deliveryStore deliverystore.DeliveryStore
		auditStore    audit.Store
	)
	if pool != nil {
		staffStore = authstore.NewPostgresStore(pool.DB())
		catalogStore = catalogstore.NewPostgresStore(pool.DB())
		contentStore = contentstore.NewPostgresStore(pool.DB())
		deliveryStore = deliverystore.NewPostgresDelivery(pool.DB())
		auditStore = audit.NewPostgresStore(pool.DB())
	} else {
		staffStore = authstore.NewInMemoryStore()
		catalogStore = catalogstore.NewInMemoryStore()
		contentStore = contentstore.NewInMemoryStore()
		deliveryStore = deliverystore.NewInMemoryDelivery()
		auditStore = audit.NewInMemoryStore()
	}

	// Registration sessions are transient form state and always live in
	// memory; losing them on restart only sends the operator back to the
	// identifier step.
	sessions := deliverystore.NewInMemorySession()

	auditOpts := []audit.PublisherOption{
		audit.WithAsyncBuffer(256),
		audit.WithPublisherLogger(log),
	}
	if events != nil {
		auditOpts = append(auditOpts, audit.WithSink(audit.NewKafkaSink(events)))
	}
	auditor := audit.NewPublisher(auditStore, auditOpts...)
	defer auditor.Close()

	var cache registrystore.CacheStore
	if rdb != nil {
		cache = registrystore.NewRedisCache(rdb.Client, cfg.RegistryCacheTTL)
	} else {
		cache = registrystore.NewInMemory(cfg.RegistryCacheTTL)
	}
	if cfg.RegistryBaseURL == "" {
		log.Warn("REGISTRY_BASE_URL not set, registry lookups will fail upstream")
	}
	registryOpts := []registryservice.Option{
		registryservice.WithLogger(log),
		registryservice.WithMetrics(registrymetrics.New()),
	}
	if cfg.RegistryFallbackCUI != "" {
		log.Warn("registry fallback CUI enabled, do not use in production")
		registryOpts = append(registryOpts, registryservice.WithFallbackCUI(cfg.RegistryFallbackCUI))
	}
	lookup := registryservice.New(registry.NewHTTPClient(cfg.RegistryBaseURL), cache, registryOpts...)

	tokens := jwttoken.NewService(cfg.JWTSigningKey, cfg.TokenTTL)
	lockout := ratelimit.New(
		ratelimit.WithThreshold(cfg.LockoutThreshold),
		ratelimit.WithWindow(cfg.LockoutWindow),
	)

	catalog := catalogservice.New(catalogStore, catalogservice.WithLogger(log))
	content := contentservice.New(contentStore,
		contentservice.WithLogger(log),
		contentservice.WithAuditPublisher(auditor),
		contentservice.WithMetrics(m),
	)
	auth := authservice.New(staffStore, tokens,
		authservice.WithLogger(log),
		authservice.WithLockout(lockout),
		authservice.WithAuditPublisher(auditor),
		authservice.WithMetrics(m),
	)
	deliveryOpts := []deliveryservice.Option{
		deliveryservice.WithLogger(log),
		deliveryservice.WithAuditPublisher(auditor),
		deliveryservice.WithMetrics(m),
		deliveryservice.WithSessionTTL(cfg.SessionTTL),
	}
	if events != nil {
		deliveryOpts = append(deliveryOpts, deliveryservice.WithEventProducer(events))
	}
	delivery := deliveryservice.New(sessions, deliveryStore, lookup, catalog, deliveryOpts...)

	if cfg.Environment == "development" && pool == nil {
		if err := seeder.New(staffStore, catalogStore, contentStore, seeder.WithLogger(log)).Seed(ctx); err != nil {
			return err
		}
	}

	router := httptransport.NewRouter(httptransport.Deps{
		Auth:           authhandler.New(auth, log),
		Catalog:        cataloghandler.New(catalog, log),
		Content:        contenthandler.New(content, log),
		Delivery:       deliveryhandler.New(delivery, log),
		Health:         probes,
		TokenValidator: jwttoken.NewMiddlewareAdapter(tokens),
		Metrics:        m,
		Logger:         log,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	// Housekeeping: expired sessions, stale lockout records, pool gauges.
	g.Go(func() error {
		ticker := time.NewTicker(purgeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if n := sessions.PurgeExpired(); n > 0 {
					log.Debug("purged expired sessions", "count", n)
				}
				lockout.Purge()
				if rdb != nil {
					rdb.RecordPoolStats()
				}
			}
		}
	})

	err = g.Wait()
	log.Info("server stopped")
	return err
}

// checkWithTimeout adapts a context-aware health probe to the readiness
// handler's CheckFunc.
func checkWithTimeout(probe func(ctx context.Context) error) health.CheckFunc {
	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return probe(ctx)
	}
}
