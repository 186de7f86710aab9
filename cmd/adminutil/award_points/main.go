package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/sudo-init-do/ecosync/internal/config"
	"github.com/sudo-init-do/ecosync/internal/db"
	"github.com/sudo-init-do/ecosync/internal/user"
	"github.com/sudo-init-do/ecosync/internal/wallet"
)

func main() {
	email := flag.String("email", "", "Email of the user to credit")
	points := flag.Int("points", 0, "Eco points to add (negative to revoke)")
	note := flag.String("note", "", "Reference stored on the ledger entry")
	flag.Parse()

	if *email == "" || *points == 0 {
		log.Fatalf("usage: go run ./cmd/adminutil/award_points -email user@example.com -points 50")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DSN(), logger)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer pool.Close()

	users := user.NewRepo(pool)
	u, err := users.GetByEmail(ctx, *email)
	if err != nil {
		log.Fatalf("no user found with email %s: %v", *email, err)
	}

	updated, err := users.AddPoints(ctx, u.ID, *points, wallet.ReasonAdjustment, *note)
	if err != nil {
		log.Fatalf("failed to adjust points: %v", err)
	}
	fmt.Printf("User %s now has %d eco points (%s).\n", updated.Email, updated.EcoPoints, updated.Level)
}
