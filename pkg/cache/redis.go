package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/ghuser/auctionhouse/pkg/config"
)

// RedisClient is the shared Redis connection: highest-bid read model,
// sessions and the realtime pub/sub channel all go through it.
type RedisClient struct {
	client *redis.Client
}

// NewRedisClient parses cfg.RedisURL, applies pool settings and pings.
func NewRedisClient(cfg *config.Config) (*RedisClient, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	// Bid placement touches Redis once per request; pub/sub holds its own connection.
	opts.PoolSize = cfg.RedisPoolSize
	opts.MinIdleConns = 2
	opts.MaxRetries = 3
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = cfg.DependencyTimeout
	opts.WriteTimeout = cfg.DependencyTimeout
	opts.PoolTimeout = cfg.DependencyTimeout + time.Second
	opts.ClientName = cfg.ServiceName

	return Connect(opts)
}

// Connect builds a RedisClient from explicit options and pings it within
// two seconds. Integration tests use it with a testcontainers address.
func Connect(opts *redis.Options) (*RedisClient, error) {
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisClient{client: rdb}, nil
}

// RegisterPoolMetrics exposes the connection pool counters on reg.
func (r *RedisClient) RegisterPoolMetrics(reg prometheus.Registerer) error {
	stats := func(pick func(*redis.PoolStats) uint32) func() float64 {
		return func() float64 { return float64(pick(r.client.PoolStats())) }
	}
	collectors := []prometheus.Collector{
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "redis_pool_hits_total", Help: "Free connections found in the pool.",
		}, stats(func(s *redis.PoolStats) uint32 { return s.Hits })),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "redis_pool_misses_total", Help: "Requests that had to dial a new connection.",
		}, stats(func(s *redis.PoolStats) uint32 { return s.Misses })),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "redis_pool_timeouts_total", Help: "Waits for a pool connection that timed out.",
		}, stats(func(s *redis.PoolStats) uint32 { return s.Timeouts })),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "redis_pool_connections", Help: "Open connections in the pool.",
		}, stats(func(s *redis.PoolStats) uint32 { return s.TotalConns })),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "redis_pool_idle_connections", Help: "Idle connections in the pool.",
		}, stats(func(s *redis.PoolStats) uint32 { return s.IdleConns })),
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return fmt.Errorf("register redis pool metrics: %w", err)
		}
	}
	return nil
}

// Ping checks the Redis connection health.
func (r *RedisClient) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Close shuts down the connection pool. Closing an unopened client is a no-op.
func (r *RedisClient) Close() error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Close(); err != nil {
		return fmt.Errorf("redis close: %w", err)
	}
	return nil
}

// Client returns the underlying redis.Client.
func (r *RedisClient) Client() *redis.Client {
	return r.client
}
