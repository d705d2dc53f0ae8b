package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"shoeshop/internal/config"
	"shoeshop/internal/db"
	"shoeshop/internal/httpserver"
	"shoeshop/internal/repository"
	memoryrepo "shoeshop/internal/repository/memory"
	postgresrepo "shoeshop/internal/repository/postgres"
	"shoeshop/internal/seed"
	authsvc "shoeshop/internal/service/auth"
	catalogsvc "shoeshop/internal/service/catalog"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()

	var repo repository.Repository
	var dbpool *pgxpool.Pool
	switch cfg.Repository {
	case config.BackendPostgres:
		pool, err := db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			logger.Fatalf("connect to db: %v", err)
		}
		defer pool.Close()
		dbpool = pool
		repo = postgresrepo.New(pool, logger)
	case config.BackendMemory:
		repo = memoryrepo.New(logger)
	default:
		logger.Fatalf("unknown repository backend %q", cfg.Repository)
	}

	if cfg.SeedOnStart {
		if err := seed.Apply(ctx, repo); err != nil {
			logger.Fatalf("seed catalog: %v", err)
		}
		logger.Printf("demo catalog seeded into %s backend", cfg.Repository)
	}

	catalogService := catalogsvc.New(repo)
	authService := authsvc.New(repo)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		CatalogSvc: catalogService,
		AuthSvc:    authService,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
