package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/Juan-JM/proyecto2/internal/apierror"

	"github.com/gin-gonic/gin"
)

// rateEntry acumula requests por IP dentro de una ventana deslizante.
type rateEntry struct {
	count     int
	windowEnd time.Time
	mu        sync.Mutex
}

var (
	rateMap   = make(map[string]*rateEntry)
	rateMapMu sync.Mutex
)

// RateLimiter limita requests por IP con ventana deslizante simple en
// memoria. Suficiente para una instancia; con varias réplicas el límite es
// por réplica.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		rateMapMu.Lock()
		entry, exists := rateMap[ip]
		if !exists {
			entry = &rateEntry{}
			rateMap[ip] = entry
		}
		rateMapMu.Unlock()

		entry.mu.Lock()
		defer entry.mu.Unlock()

		now := time.Now()
		if now.After(entry.windowEnd) {
			entry.count = 0
			entry.windowEnd = now.Add(window)
		}

		entry.count++
		if entry.count > limit {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiadas solicitudes. Intente más tarde."))
			return
		}
		c.Next()
	}
}
