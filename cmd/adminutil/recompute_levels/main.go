package main

import (
	"context"
	"fmt"
	"log"

	"github.com/sudo-init-do/ecosync/internal/config"
	"github.com/sudo-init-do/ecosync/internal/db"
	"github.com/sudo-init-do/ecosync/internal/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	ctx := context.Background()

	// Levels are derived columns; make sure the schema is current first.
	if err := db.Migrate(ctx, cfg.DSN()); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}
	pool, err := db.Connect(ctx, cfg.DSN(), logger)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer pool.Close()

	n, err := user.NewRepo(pool).RecomputeLevels(ctx)
	if err != nil {
		log.Fatalf("failed to recompute levels: %v", err)
	}
	fmt.Printf("Updated level of %d user(s).\n", n)
}
