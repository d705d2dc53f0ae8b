// Command seed loads the demo catalog into the postgres backend. Run it once
// against a migrated, empty database.
package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"shoeshop/internal/config"
	"shoeshop/internal/db"
	postgresrepo "shoeshop/internal/repository/postgres"
	"shoeshop/internal/seed"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	repo := postgresrepo.New(pool, logger)
	if err := seed.Apply(ctx, repo); err != nil {
		logger.Fatalf("seed catalog: %v", err)
	}

	logger.Println("demo catalog seeded")
}
