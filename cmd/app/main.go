package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"crewdeck/internal/catalog"
	"crewdeck/internal/config"
	"crewdeck/internal/db"
	"crewdeck/internal/game"
	httpserver "crewdeck/internal/http"
	"crewdeck/internal/http/middleware"
	"crewdeck/internal/logger"
	"crewdeck/internal/ws"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	log := logger.Get()

	cat := catalog.Builtin()
	if cfg.DatabaseURL != "" {
		pool := db.Connect(cfg.DatabaseURL)
		defer pool.Close()

		loaded, err := catalog.NewRepository(pool).Load(context.Background())
		if err != nil {
			logger.Fatal("failed to load task catalog", "error", err)
		}
		cat = loaded
	}
	log.Info("task catalog ready", "entries", cat.Len())

	sessions := game.NewRegistry(cat, cfg.Game, log)
	sessions.StartCleanup(cfg.CleanupInterval, cfg.CleanupMaxAge)

	lobby := game.NewLobby(cfg.Game, sessions, log)
	defer lobby.Close()

	hub := ws.NewHub(lobby, sessions, log)

	middleware.InitRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	httpserver.RegisterRoutes(r, hub, cfg)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		log.Info("server started", "port", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", "error", err)
	}
	log.Info("server exited")
}
