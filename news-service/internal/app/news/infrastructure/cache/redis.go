package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pustakago/news-service/internal/app/news/entity"

	"github.com/redis/go-redis/v9"
)

const trendingCacheKey = "news:trending"

type RedisClient struct {
	client *redis.Client
}

func NewRedisClient(addr, password string, db int) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisClient{client: client}, nil
}

// NewRedisClientWithClient оборачивает готовый клиент (используется в тестах)
func NewRedisClientWithClient(client *redis.Client) *RedisClient {
	return &RedisClient{client: client}
}

// SetTrending кеширует список трендовых новостей
func (r *RedisClient) SetTrending(ctx context.Context, news []entity.News, ttl time.Duration) error {
	data, err := json.Marshal(news)
	if err != nil {
		return fmt.Errorf("failed to marshal news: %w", err)
	}

	if err := r.client.Set(ctx, trendingCacheKey, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set trending news in cache: %w", err)
	}

	return nil
}

// GetTrending получает трендовые новости из кеша; (nil, nil) при промахе
func (r *RedisClient) GetTrending(ctx context.Context) ([]entity.News, error) {
	data, err := r.client.Get(ctx, trendingCacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get trending news from cache: %w", err)
	}

	var news []entity.News
	if err := json.Unmarshal(data, &news); err != nil {
		return nil, fmt.Errorf("failed to unmarshal news: %w", err)
	}

	return news, nil
}

// DeleteTrending инвалидирует кеш трендовых новостей
func (r *RedisClient) DeleteTrending(ctx context.Context) error {
	if err := r.client.Del(ctx, trendingCacheKey).Err(); err != nil {
		return fmt.Errorf("failed to delete trending news from cache: %w", err)
	}
	return nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}
