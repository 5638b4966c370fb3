package repository

import (
	"context"

	"pustakago/background-worker-service/internal/app/background-worker/entity"
)

// BookAggregateRepository интерфейс для работы с агрегатами рейтинга книг в MongoDB
type BookAggregateRepository interface {
	// GetAggregate получает денормализованный агрегат рейтинга книги
	GetAggregate(ctx context.Context, bookID string) (*entity.BookAggregate, error)

	// ReplaceAggregate перезаписывает поля агрегата книги пересчитанными значениями
	ReplaceAggregate(ctx context.Context, bookID string, summary entity.RatingSummary) error
}

// ReviewSummaryRepository интерфейс для пересчета агрегата по коллекции reviews
type ReviewSummaryRepository interface {
	// Summarize пересчитывает сумму, количество и гистограмму оценок книги
	Summarize(ctx context.Context, bookID string) (entity.RatingSummary, error)
}

// DirtyBookRepository интерфейс очереди книг, ожидающих сверки (Redis set)
type DirtyBookRepository interface {
	// MarkDirty добавляет книгу в очередь сверки
	MarkDirty(ctx context.Context, bookID string) error

	// PopDirty атомарно забирает до limit книг из очереди
	PopDirty(ctx context.Context, limit int) ([]string, error)

	// Backlog возвращает количество книг в очереди
	Backlog(ctx context.Context) (int64, error)
}
