package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health reporta el estado del proceso y de sus dos dependencias. Devuelve
// 503 si Postgres o Redis no responden dentro del timeout, para que el
// balanceador saque la instancia de rotación sin apagarla.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		estado := gin.H{"db": "ok", "redis": "ok"}
		sano := true

		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			estado["db"] = "sin conexión"
			sano = false
		}
		if rdb.Ping(ctx).Err() != nil {
			estado["redis"] = "sin conexión"
			sano = false
		}

		estado["ok"] = sano
		code := http.StatusOK
		if !sano {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, estado)
	}
}
