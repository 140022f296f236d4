package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedis abre el cliente a partir de REDIS_URL y verifica la conexión con
// un ping acotado. Falla al arranque en vez de dejar que el worker de alertas
// y el caché de disponibilidad descubran el problema en caliente.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("REDIS_URL inválida: %w", err)
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis no responde: %w", err)
	}

	return rdb, nil
}
