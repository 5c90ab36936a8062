// backend/pkg/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"elearn-quiz/internal/models"

	"github.com/go-redis/redis/v8"
)

// RedisCache stores per-instructor quiz dashboards.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(addr string, ttl time.Duration) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return NewRedisCacheWithClient(client, ttl)
}

func NewRedisCacheWithClient(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: client,
		ttl:    ttl,
	}
}

func versionKey(instructorID uint) string {
	return fmt.Sprintf("dashboard:instructor:%d:version", instructorID)
}

// dashboardKey names one version of a dashboard. Superseded versions are
// never read again and expire with the TTL.
func dashboardKey(instructorID uint, version int64) string {
	return fmt.Sprintf("dashboard:instructor:%d:v%d", instructorID, version)
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// DashboardVersion is 0 until the first invalidation.
func (c *RedisCache) DashboardVersion(ctx context.Context, instructorID uint) (int64, error) {
	version, err := c.client.Get(ctx, versionKey(instructorID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return version, err
}

func (c *RedisCache) SetDashboard(ctx context.Context, instructorID uint, version int64, quizzes []models.QuizWithStats) error {
	data, err := json.Marshal(quizzes)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, dashboardKey(instructorID, version), data, c.ttl).Err()
}

// GetDashboard returns redis.Nil when nothing is cached.
func (c *RedisCache) GetDashboard(ctx context.Context, instructorID uint, version int64) ([]models.QuizWithStats, error) {
	data, err := c.client.Get(ctx, dashboardKey(instructorID, version)).Bytes()
	if err != nil {
		return nil, err
	}

	var quizzes []models.QuizWithStats
	err = json.Unmarshal(data, &quizzes)
	return quizzes, err
}

// InvalidateDashboard bumps the version so readers move to an empty key.
func (c *RedisCache) InvalidateDashboard(ctx context.Context, instructorID uint) error {
	return c.client.Incr(ctx, versionKey(instructorID)).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
