package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/wepodcaster-backend/ws"
)

// Pinger là *sql.DB, nil khi chạy STORE_DRIVER=memory
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthController struct {
	db  Pinger
	hub *ws.Hub
}

func NewHealthController(db Pinger, hub *ws.Hub) *HealthController {
	return &HealthController{db: db, hub: hub}
}

func (hc *HealthController) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

func (hc *HealthController) HealthCheck(c *gin.Context) {
	response := gin.H{
		"status":    "ok",
		"message":   "Service is healthy",
		"timestamp": time.Now().Unix(),
		"db":        "ok",
		"websocket": gin.H{
			"enabled": true,
			"stats":   hc.hub.GetStats(),
		},
	}

	if hc.db == nil {
		response["db"] = "memory"
		c.JSON(http.StatusOK, response)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := hc.db.PingContext(ctx); err != nil {
		response["db"] = "error: cannot connect to DB"
		response["status"] = "degraded"
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}
	c.JSON(http.StatusOK, response)
}
