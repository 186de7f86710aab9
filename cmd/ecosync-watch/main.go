// Command ecosync-watch logs in to an EcoSync server and prints the caller's
// notifications every time they are refreshed.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/sudo-init-do/ecosync/internal/alerts"
	"github.com/sudo-init-do/ecosync/internal/client"
)

func main() {
	server := flag.String("server", "http://localhost:5000", "EcoSync base URL")
	email := flag.String("email", "", "Account e-mail")
	interval := flag.Duration("interval", alerts.DefaultInterval, "Refresh interval")
	flag.Parse()

	password := os.Getenv("ECOSYNC_PASSWORD")
	if *email == "" || password == "" {
		log.Fatalf("usage: ECOSYNC_PASSWORD=... ecosync-watch -email user@example.com")
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := client.New(*server)
	loginCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	me, err := c.Login(loginCtx, *email, password)
	cancel()
	if err != nil {
		logger.Fatal("login failed", zap.Error(err))
	}

	session := alerts.NewSession(me.ID, c, logger,
		alerts.WithInterval(*interval),
		alerts.OnRefresh(func(list []alerts.Notification) {
			if len(list) == 0 {
				logger.Info("no notifications")
				return
			}
			for _, n := range list {
				logger.Info(n.Message, zap.String("id", n.ID), zap.String("kind", string(n.Kind)))
			}
		}),
	)
	if err := session.Start(ctx); err != nil {
		logger.Fatal("start session", zap.Error(err))
	}
	<-ctx.Done()
	session.Stop()
}
