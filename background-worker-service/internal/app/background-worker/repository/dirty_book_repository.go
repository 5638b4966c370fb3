package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// dirtyBooksKey - Redis set книг, затронутых событиями отзывов
const dirtyBooksKey = "worker:dirty_books"

// dirtyBookRepository реализует DirtyBookRepository поверх Redis set.
// Set дедуплицирует повторные события по одной книге между запусками сверки
type dirtyBookRepository struct {
	client *redis.Client
}

// NewDirtyBookRepository создает репозиторий очереди сверки
func NewDirtyBookRepository(client *redis.Client) DirtyBookRepository {
	return &dirtyBookRepository{
		client: client,
	}
}

// MarkDirty добавляет книгу в очередь сверки
func (r *dirtyBookRepository) MarkDirty(ctx context.Context, bookID string) error {
	if err := r.client.SAdd(ctx, dirtyBooksKey, bookID).Err(); err != nil {
		return fmt.Errorf("failed to mark book dirty: %w", err)
	}
	return nil
}

// PopDirty атомарно забирает до limit книг из очереди.
// SPOP гарантирует, что две параллельные сверки не получат одну книгу дважды
func (r *dirtyBookRepository) PopDirty(ctx context.Context, limit int) ([]string, error) {
	ids, err := r.client.SPopN(ctx, dirtyBooksKey, int64(limit)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to pop dirty books: %w", err)
	}
	return ids, nil
}

// Backlog возвращает количество книг, ожидающих сверки
func (r *dirtyBookRepository) Backlog(ctx context.Context) (int64, error) {
	size, err := r.client.SCard(ctx, dirtyBooksKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get dirty backlog size: %w", err)
	}
	return size, nil
}
