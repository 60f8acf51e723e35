package clientstate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Supermercado-api/internal/application/session"
)

// DefaultPrefix prefijo de las claves en Redis.
const DefaultPrefix = "sm"

// Redis guarda el estado de cada cliente en claves prefix:clientID:key con TTL.
type Redis struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedis ttl<=0 significa sin expiración.
func NewRedis(rdb *redis.Client, prefix string, ttl time.Duration) *Redis {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Redis{rdb: rdb, prefix: prefix, ttl: ttl}
}

// Ping comprueba la conexión.
func (r *Redis) Ping(ctx context.Context) error {
	if err := r.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// ForClient vista del estado de un cliente.
func (r *Redis) ForClient(clientID string) session.LocalState {
	return &redisClientState{r: r, clientID: clientID}
}

func (r *Redis) key(clientID string, k session.Key) string {
	return r.prefix + ":" + clientID + ":" + string(k)
}

type redisClientState struct {
	r        *Redis
	clientID string
}

func (s *redisClientState) Get(ctx context.Context, k session.Key) (string, bool, error) {
	v, err := s.r.rdb.Get(ctx, s.r.key(s.clientID, k)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", k, err)
	}
	return v, true, nil
}

func (s *redisClientState) Set(ctx context.Context, k session.Key, value string) error {
	if err := s.r.rdb.Set(ctx, s.r.key(s.clientID, k), value, s.r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", k, err)
	}
	return nil
}

func (s *redisClientState) Delete(ctx context.Context, keys ...session.Key) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.r.key(s.clientID, k)
	}
	if err := s.r.rdb.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
