package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crewdeck/internal/config"
	"crewdeck/internal/http/middleware"
	"crewdeck/internal/ws"
)

func RegisterRoutes(r *gin.Engine, hub *ws.Hub, cfg *config.Config) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"lobby":    len(hub.Lobby().Players()),
			"sessions": hub.Sessions().Len(),
		})
	})

	r.GET("/ws",
		middleware.RedisRateLimit(cfg.WSRateLimit, cfg.WSRateWindow),
		ws.Handle(hub, cfg.AllowedOrigin),
	)
}
