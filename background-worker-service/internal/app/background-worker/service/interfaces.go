package service

import (
	"context"

	"pustakago/background-worker-service/internal/app/background-worker/entity"
)

// ReconcileServiceInterface определяет интерфейс сверки агрегатов рейтинга
type ReconcileServiceInterface interface {
	// ProcessReviewEvent обрабатывает событие отзыва из Kafka
	ProcessReviewEvent(ctx context.Context, event *entity.ReviewEvent) error
	// ReconcileDirtyBooks сверяет агрегаты всех книг из очереди
	ReconcileDirtyBooks(ctx context.Context) error
	// ReconcileBook пересчитывает и при расхождении чинит агрегат одной книги
	ReconcileBook(ctx context.Context, bookID string) (bool, error)
	// Backlog возвращает количество книг, ожидающих сверки
	Backlog(ctx context.Context) (int64, error)
}
