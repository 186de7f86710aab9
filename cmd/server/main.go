package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sudo-init-do/ecosync/internal/ai"
	"github.com/sudo-init-do/ecosync/internal/alerts"
	"github.com/sudo-init-do/ecosync/internal/auth"
	"github.com/sudo-init-do/ecosync/internal/config"
	"github.com/sudo-init-do/ecosync/internal/db"
	"github.com/sudo-init-do/ecosync/internal/marketplace"
	"github.com/sudo-init-do/ecosync/internal/metrics"
	mware "github.com/sudo-init-do/ecosync/internal/middleware"
	"github.com/sudo-init-do/ecosync/internal/requests"
	"github.com/sudo-init-do/ecosync/internal/user"
	"github.com/sudo-init-do/ecosync/internal/utils"
	"github.com/sudo-init-do/ecosync/internal/wallet"
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
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := db.Migrate(ctx, cfg.DSN()); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}
	pool, err := db.Connect(ctx, cfg.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	tokens := utils.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	users := user.NewRepo(pool)
	items := marketplace.NewItemRepo(pool)
	orders := marketplace.NewOrderRepo(pool)
	reqs := requests.NewRepo(pool)

	var model ai.Model
	if cfg.AIEnabled() {
		model = ai.NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiBaseURL, cfg.AITimeout)
		logger.Info("generative AI enabled", zap.String("model", cfg.GeminiModel))
	} else {
		logger.Warn("GEMINI_API_KEY not set; AI endpoints return defaults")
	}

	authH := auth.NewHandler(users, tokens, logger)
	userH := user.NewHandler(users, logger)
	walletH := wallet.NewHandler(pool, logger)
	itemH := marketplace.NewItemHandler(items, logger)
	orderH := marketplace.NewOrderHandler(marketplace.NewOrderService(pool, logger), logger)
	reqH := requests.NewHandler(reqs, logger)
	alertH := alerts.NewHandler(alerts.StoreSource{Orders: orders, Requests: reqs, Items: items}, logger)
	aiH := ai.NewHandler(ai.NewService(model, logger), users, items, orders, logger)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(mware.RequestLogger(logger))
	e.Use(metrics.Middleware())
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit(cfg.BodyLimit))

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"message": "EcoSync API is running"})
	})
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/ready", func(c echo.Context) error {
		if err := pool.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "not_ready", "error": "db unreachable"})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ready"})
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	jwt := mware.JWTMiddleware(tokens)
	// per-IP limit on credential endpoints
	limiter := middleware.RateLimiter(middleware.NewRateLimiterMemoryStoreWithConfig(
		middleware.RateLimiterMemoryStoreConfig{Rate: rate.Limit(cfg.AuthRateLimit), ExpiresIn: 3 * time.Minute},
	))

	api := e.Group("/api")

	authG := api.Group("/auth")
	authG.POST("/register", authH.Register, limiter)
	authG.POST("/login", authH.Login, limiter)
	authG.GET("/me", authH.Me, jwt)

	usersG := api.Group("/users")
	usersG.POST("/register", authH.Register, limiter)
	usersG.POST("/login", authH.Login, limiter)
	usersG.GET("/:id", userH.GetPublicProfile)
	usersG.PATCH("/:id", userH.UpdateProfile, jwt, mware.RequireSelf("id"))
	usersG.PATCH("/:id/points", userH.AddPoints, jwt, mware.RequireSelf("id"))

	walletG := api.Group("/wallet", jwt)
	walletG.GET("/balance", walletH.Balance)
	walletG.GET("/ledger", walletH.History)

	itemsG := api.Group("/items")
	itemsG.GET("", itemH.List)
	itemsG.GET("/nearby", itemH.Nearby)
	itemsG.GET("/:id", itemH.Get)
	itemsG.POST("", itemH.Create, jwt)
	itemsG.PATCH("/:id", itemH.Update, jwt)
	itemsG.DELETE("/:id", itemH.Delete, jwt)

	reqG := api.Group("/requests")
	reqG.GET("", reqH.List)
	reqG.GET("/nearby", reqH.Nearby)
	reqG.POST("", reqH.Create, jwt)
	reqG.PATCH("/:id", reqH.UpdateStatus, jwt)
	reqG.DELETE("/:id", reqH.Delete, jwt)

	txG := api.Group("/transactions", jwt)
	txG.GET("", orderH.List)
	txG.GET("/user/:userId", orderH.ListForUser, mware.RequireSelf("userId"))
	txG.POST("", orderH.Create)
	txG.PATCH("/:id", orderH.Update)
	txG.POST("/:id/accept", orderH.Accept)
	txG.POST("/:id/decline", orderH.Decline)
	txG.POST("/:id/review", orderH.Review)

	api.GET("/notifications", alertH.List, jwt)

	aiG := api.Group("/ai")
	aiG.GET("/recommendations", aiH.Recommendations, jwt)
	aiG.GET("/insights", aiH.Insights, jwt)
	aiG.GET("/achievement-summary", aiH.AchievementSummary, jwt)
	aiG.GET("/smart-badges", aiH.SmartBadges, jwt)
	aiG.POST("/analyze-image", aiH.AnalyzeImage, jwt)
	aiG.POST("/profile-suggestions", aiH.ProfileSuggestions, jwt)
	aiG.POST("/chat", aiH.Chat, mware.OptionalJWT(tokens))

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Port))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}
