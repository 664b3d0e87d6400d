package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/Tienda-api/internal/application/ports"
	"github.com/jhoicas/Tienda-api/pkg/config"
)

var _ ports.StatsCache = (*RedisStatsCache)(nil)

const (
	keyPrefix  = "tienda:stats:"
	versionKey = keyPrefix + "version"
)

// RedisStatsCache caché de estadísticas en Redis. Las claves incluyen un número de versión:
// Invalidate incrementa la versión y las entradas anteriores quedan huérfanas hasta su TTL.
type RedisStatsCache struct {
	rdb *goredis.Client
	ttl time.Duration
}

// NewRedisStatsCache conecta con Redis y verifica la conexión con PING.
func NewRedisStatsCache(ctx context.Context, cfg config.RedisConfig) (*RedisStatsCache, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	ttl := cfg.StatsTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisStatsCache{rdb: rdb, ttl: ttl}, nil
}

// Get lee la entrada de la versión vigente y devuelve esa versión para el Set posterior.
func (c *RedisStatsCache) Get(ctx context.Context, key string, dst any) (int64, bool, error) {
	v, err := c.version(ctx)
	if err != nil {
		return 0, false, err
	}
	raw, err := c.rdb.Get(ctx, versionedKey(v, key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return v, false, nil
	}
	if err != nil {
		return v, false, fmt.Errorf("redis get: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return v, false, fmt.Errorf("decode cached stats: %w", err)
	}
	return v, true, nil
}

// Set guarda bajo la versión leída en Get. Si hubo un Invalidate entretanto la clave
// queda huérfana y expira con su TTL.
func (c *RedisStatsCache) Set(ctx context.Context, version int64, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	return c.rdb.Set(ctx, versionedKey(version, key), raw, c.ttl).Err()
}

func (c *RedisStatsCache) Invalidate(ctx context.Context) error {
	return c.rdb.Incr(ctx, versionKey).Err()
}

// Close cierra el cliente de Redis.
func (c *RedisStatsCache) Close() error {
	return c.rdb.Close()
}

// version lee la versión vigente; 0 si aún no se ha invalidado nunca.
func (c *RedisStatsCache) version(ctx context.Context) (int64, error) {
	s, err := c.rdb.Get(ctx, versionKey).Result()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get version: %w", err)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("versión de caché inválida %q: %w", s, err)
	}
	return n, nil
}

func versionedKey(version int64, key string) string {
	return keyPrefix + "v" + strconv.FormatInt(version, 10) + ":" + key
}
