package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pustakago/library-service/internal/app/library/entity"

	"github.com/redis/go-redis/v9"
)

const (
	catalogCacheKey   = "books:catalog"
	markedBooksPrefix = "marklist:" // marklist:<userID>
)

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

// SetCatalog кеширует список книг каталога
func (r *RedisClient) SetCatalog(ctx context.Context, books []entity.Book, ttl time.Duration) error {
	return r.setBooks(ctx, catalogCacheKey, books, ttl)
}

// GetCatalog получает каталог из кеша; (nil, nil) при промахе
func (r *RedisClient) GetCatalog(ctx context.Context) ([]entity.Book, error) {
	return r.getBooks(ctx, catalogCacheKey)
}

// DeleteCatalog инвалидирует кеш каталога
func (r *RedisClient) DeleteCatalog(ctx context.Context) error {
	if err := r.client.Del(ctx, catalogCacheKey).Err(); err != nil {
		return fmt.Errorf("failed to delete catalog from cache: %w", err)
	}
	return nil
}

// SetMarkedBooks кеширует снапшот книг в закладках пользователя
func (r *RedisClient) SetMarkedBooks(ctx context.Context, userID string, books []entity.Book, ttl time.Duration) error {
	return r.setBooks(ctx, markedBooksPrefix+userID, books, ttl)
}

// GetMarkedBooks получает снапшот закладок из кеша; (nil, nil) при промахе
func (r *RedisClient) GetMarkedBooks(ctx context.Context, userID string) ([]entity.Book, error) {
	return r.getBooks(ctx, markedBooksPrefix+userID)
}

// DeleteMarkedBooks инвалидирует снапшот закладок пользователя
func (r *RedisClient) DeleteMarkedBooks(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, markedBooksPrefix+userID).Err(); err != nil {
		return fmt.Errorf("failed to delete marked books from cache: %w", err)
	}
	return nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}

func (r *RedisClient) setBooks(ctx context.Context, key string, books []entity.Book, ttl time.Duration) error {
	data, err := json.Marshal(books)
	if err != nil {
		return fmt.Errorf("failed to marshal books: %w", err)
	}

	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set books in cache: %w", err)
	}

	return nil
}

func (r *RedisClient) getBooks(ctx context.Context, key string) ([]entity.Book, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get books from cache: %w", err)
	}

	var books []entity.Book
	if err := json.Unmarshal(data, &books); err != nil {
		return nil, fmt.Errorf("failed to unmarshal books: %w", err)
	}

	return books, nil
}
