package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hypernova-labs/cashier-service/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrCacheMiss indica que la clave no está en caché
var ErrCacheMiss = errors.New("cache miss")

// Redis representa la conexión a Redis
type Redis struct {
	*redis.Client
	prefix string
}

// ConnectRedis establece la conexión a Redis
func ConnectRedis(cfg *config.Config) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     5,
		MaxRetries:   3,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("error pinging Redis: %w", err)
	}

	return NewRedis(client, cfg.Inngest.AppID), nil
}

// NewRedis envuelve un cliente existente; prefix separa las claves por aplicación
func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{Client: client, prefix: prefix}
}

// Close cierra la conexión a Redis
func (r *Redis) Close() error {
	return r.Client.Close()
}

// HealthCheck verifica la salud de Redis
func (r *Redis) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.Ping(ctx).Err()
}

func (r *Redis) key(key string) string {
	if r.prefix == "" {
		return key
	}
	return r.prefix + ":" + key
}

// SetJSON guarda value serializado como JSON con TTL
func (r *Redis) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("error encoding cache value: %w", err)
	}
	return r.Client.Set(ctx, r.key(key), raw, ttl).Err()
}

// GetJSON lee la clave y la decodifica en dest. Retorna ErrCacheMiss si no existe.
func (r *Redis) GetJSON(ctx context.Context, key string, dest interface{}) error {
	raw, err := r.Client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("error decoding cache value: %w", err)
	}
	return nil
}

// Delete elimina una clave
func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.Client.Del(ctx, r.key(key)).Err()
}

// LogStats registra las estadísticas de memoria de Redis
func (r *Redis) LogStats(ctx context.Context, logger *logrus.Logger) {
	stats := map[string]interface{}{}
	if mem, err := r.Info(ctx, "memory").Result(); err == nil {
		stats["memory"] = mem
	}
	logger.WithFields(logrus.Fields(stats)).Info("Redis statistics")
}
