// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"shopfolio/internal/admin"
	"shopfolio/internal/catalog"
	"shopfolio/internal/docstore"
	"shopfolio/internal/email"
	"shopfolio/internal/identity/directory"
	"shopfolio/internal/platform/config"
	"shopfolio/internal/platform/httpserver"
	"shopfolio/internal/platform/logger"
	"shopfolio/internal/platform/metrics"
	"shopfolio/internal/platform/redis"
	"shopfolio/internal/ratelimit"
	httptransport "shopfolio/internal/transport/http"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// User store: Postgres when a DSN is configured, in-memory otherwise.
	var users directory.Store = directory.NewInMemoryStore()
	if cfg.Postgres.DSN != "" {
		db, err := sql.Open("postgres", cfg.Postgres.DSN)
		if err != nil {
			log.Error("postgres open failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Error("postgres ping failed", "error", err)
			os.Exit(1)
		}
		users = directory.NewPostgres(db)
		log.Info("user store: postgres")
	} else {
		log.Info("user store: in-memory")
	}

	mailer := email.New(cfg.Email, log, m)
	provider := directory.New(users, cfg.JWTSigningKey, log, directory.WithMailer(mailer))

	// Redis backs cross-device cart sync and the shared auth limiter.
	// Both degrade to in-memory equivalents when it is not configured.
	var docs docstore.Store = docstore.NewInMemory()
	var limitStore ratelimit.Store = ratelimit.NewMemory()
	if redisClient, err := redis.New(cfg.Redis); err != nil {
		log.Error("redis connect failed", "error", err)
		os.Exit(1)
	} else if redisClient != nil {
		defer redisClient.Close()
		docs = docstore.NewRedis(redisClient)
		limitStore = ratelimit.NewRedis(redisClient)
		log.Info("document store: redis")
	} else {
		log.Info("document store: in-memory")
	}
	limiter := ratelimit.NewMiddleware(limitStore,
		ratelimit.DefaultAuthLimit, ratelimit.DefaultAuthWindow, log)

	router := httptransport.NewRouter(httptransport.Deps{
		Provider:   provider,
		Tokens:     provider,
		Docs:       docs,
		Email:      mailer,
		Admin:      admin.New(users, log),
		Catalog:    catalog.Default(),
		AdminToken: cfg.AdminToken,
		Limiter:    limiter,
		Logger:     log,
		Metrics:    m,
	})

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting shopfolio", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
