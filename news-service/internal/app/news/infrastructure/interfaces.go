package infrastructure

import (
	"context"
	"time"

	"pustakago/news-service/internal/app/news/entity"
)

// NewsCache интерфейс для работы с Redis кешем
// Используется для dependency injection и упрощения тестирования
type NewsCache interface {
	SetTrending(ctx context.Context, news []entity.News, ttl time.Duration) error
	GetTrending(ctx context.Context) ([]entity.News, error)
	DeleteTrending(ctx context.Context) error
	Close() error
}
