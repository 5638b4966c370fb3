package infrastructure

import (
	"context"
	"time"

	"pustakago/library-service/internal/app/library/entity"
)

// MessagePublisher интерфейс для отправки сообщений в очередь (Kafka)
// Используется для dependency injection и упрощения тестирования
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}

// LibraryCache интерфейс для работы с Redis кешем
// Используется для dependency injection и упрощения тестирования
type LibraryCache interface {
	SetCatalog(ctx context.Context, books []entity.Book, ttl time.Duration) error
	GetCatalog(ctx context.Context) ([]entity.Book, error)
	DeleteCatalog(ctx context.Context) error

	SetMarkedBooks(ctx context.Context, userID string, books []entity.Book, ttl time.Duration) error
	GetMarkedBooks(ctx context.Context, userID string) ([]entity.Book, error)
	DeleteMarkedBooks(ctx context.Context, userID string) error

	Close() error
}
