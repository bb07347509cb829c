package handler

import (
	"context"
	"net/http"
	"time"

	"evidencias/internal/infra"
	"evidencias/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health is the liveness probe. It touches no dependency.
func Health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "timestamp": time.Now().UTC()})
	}
}

// Readiness checks DB and, when configured, Redis connectivity.
// Never exposes credentials or internals.
func Readiness(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		body := gin.H{}
		ok := true

		body["db"] = "connected"
		if err := infra.PingDatabase(ctx, db); err != nil {
			body["db"] = "error"
			ok = false
		}

		if rdb != nil {
			body["redis"] = "connected"
			if rdb.Ping(ctx).Err() != nil {
				body["redis"] = "error"
				ok = false
			} else if n, err := worker.DLQLength(ctx, rdb, worker.QueueEmail); err == nil {
				body["dlq_email"] = n
			}
		}

		status := http.StatusOK
		body["status"] = "OK"
		if !ok {
			status = http.StatusServiceUnavailable
			body["status"] = "ERROR"
		}
		c.JSON(status, body)
	}
}
