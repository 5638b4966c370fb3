package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pustakago/background-worker-service/internal/app/background-worker/entity"
	"pustakago/background-worker-service/internal/app/background-worker/repository"
	"pustakago/pkg/logger"
	"pustakago/pkg/metrics"
)

// ReconcileService сверяет денормализованные агрегаты рейтинга книг
// с коллекцией reviews и чинит расхождения.
// Инкрементальные обновления Library Service могут разойтись с истиной
// при сбоях между записью отзыва и применением дельты - сверка
// возвращает агрегат к пересчитанному значению
type ReconcileService struct {
	bookRepo   repository.BookAggregateRepository
	reviewRepo repository.ReviewSummaryRepository
	dirtyRepo  repository.DirtyBookRepository
	batchSize  int
}

// NewReconcileService создает сервис сверки агрегатов
func NewReconcileService(
	bookRepo repository.BookAggregateRepository,
	reviewRepo repository.ReviewSummaryRepository,
	dirtyRepo repository.DirtyBookRepository,
	batchSize int,
) *ReconcileService {
	return &ReconcileService{
		bookRepo:   bookRepo,
		reviewRepo: reviewRepo,
		dirtyRepo:  dirtyRepo,
		batchSize:  batchSize,
	}
}

// ProcessReviewEvent помечает книгу из события как ожидающую сверки.
// Сам пересчет выполняется батчем по расписанию cron
func (s *ReconcileService) ProcessReviewEvent(ctx context.Context, event *entity.ReviewEvent) error {
	if event.BookID == "" {
		return fmt.Errorf("review event %s has empty book_id", event.EventType)
	}

	if err := s.dirtyRepo.MarkDirty(ctx, event.BookID); err != nil {
		return fmt.Errorf("failed to queue book for reconciliation: %w", err)
	}

	logger.Debug().
		Str("book_id", event.BookID).
		Str("event_type", event.EventType).
		Msg("Book queued for reconciliation")

	return nil
}

// ReconcileDirtyBooks забирает батч книг из очереди и сверяет каждую.
// Ошибка по одной книге не прерывает обработку остальных
func (s *ReconcileService) ReconcileDirtyBooks(ctx context.Context) error {
	bookIDs, err := s.dirtyRepo.PopDirty(ctx, s.batchSize)
	if err != nil {
		metrics.WorkerReconcileRuns.WithLabelValues("failed").Inc()
		return fmt.Errorf("failed to pop dirty books: %w", err)
	}

	if len(bookIDs) == 0 {
		metrics.WorkerReconcileRuns.WithLabelValues("success").Inc()
		logger.Debug().Msg("No books awaiting reconciliation")
		return nil
	}

	var repaired, failed int
	for _, bookID := range bookIDs {
		wasRepaired, err := s.ReconcileBook(ctx, bookID)
		if err != nil {
			failed++
			logger.Error().
				Err(err).
				Str("book_id", bookID).
				Msg("Failed to reconcile book")
			// Возвращаем книгу в очередь, чтобы не потерять сверку
			if markErr := s.dirtyRepo.MarkDirty(ctx, bookID); markErr != nil {
				logger.Error().
					Err(markErr).
					Str("book_id", bookID).
					Msg("Failed to re-queue book after reconcile error")
			}
			continue
		}
		if wasRepaired {
			repaired++
		}
	}

	status := "success"
	if failed > 0 {
		status = "failed"
	}
	metrics.WorkerReconcileRuns.WithLabelValues(status).Inc()

	logger.Info().
		Int("checked", len(bookIDs)).
		Int("repaired", repaired).
		Int("failed", failed).
		Msg("Reconciliation run completed")

	if failed > 0 {
		return fmt.Errorf("reconciliation failed for %d of %d books", failed, len(bookIDs))
	}

	return nil
}

// ReconcileBook пересчитывает агрегат рейтинга книги по коллекции reviews
// и перезаписывает документ книги при расхождении.
// Возвращает true, если агрегат был починен
func (s *ReconcileService) ReconcileBook(ctx context.Context, bookID string) (bool, error) {
	start := time.Now()
	defer func() {
		metrics.WorkerReconcileDuration.Observe(time.Since(start).Seconds())
	}()

	summary, err := s.reviewRepo.Summarize(ctx, bookID)
	if err != nil {
		return false, fmt.Errorf("failed to summarize reviews: %w", err)
	}

	stored, err := s.bookRepo.GetAggregate(ctx, bookID)
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			// Книга удалена из каталога: сверять нечего
			logger.Warn().
				Str("book_id", bookID).
				Msg("Book not found during reconciliation, skipping")
			return false, nil
		}
		return false, fmt.Errorf("failed to get stored aggregate: %w", err)
	}

	if aggregateMatches(stored, summary) {
		return false, nil
	}

	if err := s.bookRepo.ReplaceAggregate(ctx, bookID, summary); err != nil {
		return false, fmt.Errorf("failed to repair aggregate: %w", err)
	}

	metrics.WorkerAggregatesRepaired.Inc()
	logger.Warn().
		Str("book_id", bookID).
		Int("stored_sum", stored.RatingSum).
		Int("stored_count", stored.ReviewCount).
		Int("actual_sum", summary.Sum).
		Int("actual_count", summary.Count).
		Msg("Repaired diverged rating aggregate")

	return true, nil
}

// Backlog возвращает количество книг, ожидающих сверки
func (s *ReconcileService) Backlog(ctx context.Context) (int64, error) {
	return s.dirtyRepo.Backlog(ctx)
}

// aggregateMatches true если хранимый агрегат совпадает с пересчитанным
func aggregateMatches(stored *entity.BookAggregate, summary entity.RatingSummary) bool {
	if stored.RatingSum != summary.Sum || stored.ReviewCount != summary.Count {
		return false
	}
	if stored.LatestReviewText != summary.LatestText {
		return false
	}
	return histogramsEqual(stored.RatingHistogram, summary.Histogram)
}

// histogramsEqual сравнивает гистограммы, игнорируя нулевые корзины
func histogramsEqual(a, b map[string]int) bool {
	for bucket, count := range a {
		if count != 0 && b[bucket] != count {
			return false
		}
	}
	for bucket, count := range b {
		if count != 0 && a[bucket] != count {
			return false
		}
	}
	return true
}
