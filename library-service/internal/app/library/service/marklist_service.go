package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pustakago/library-service/internal/app/library/entity"
	"pustakago/library-service/internal/app/library/infrastructure"
	"pustakago/library-service/internal/app/library/repository"
	"pustakago/pkg/eventbus"
	"pustakago/pkg/logger"
	"pustakago/pkg/metrics"
)

// Таймаут обработки одного события шины
const marklistEventTimeout = 10 * time.Second

// MarklistService держит актуальный снапшот закладок пользователя.
// Подписывается на шину событий закладок и реагирует на изменения:
//   - BOOKMARK_ADDED: перечитывает список из хранилища
//   - BOOKMARK_REMOVED: сразу убирает книгу из кешированного снапшота,
//     затем перечитывает список для согласованности
type MarklistService struct {
	bookmarkRepo repository.BookmarkRepository
	bookRepo     repository.BookRepository
	cache        infrastructure.LibraryCache
	bus          eventbus.Bus
	cacheTTL     time.Duration

	sub *eventbus.Subscription
	wg  sync.WaitGroup
}

// NewMarklistService создает новый сервис списка закладок с внедрением зависимостей
func NewMarklistService(
	bookmarkRepo repository.BookmarkRepository,
	bookRepo repository.BookRepository,
	cache infrastructure.LibraryCache,
	bus eventbus.Bus,
	cacheTTL time.Duration,
) *MarklistService {
	return &MarklistService{
		bookmarkRepo: bookmarkRepo,
		bookRepo:     bookRepo,
		cache:        cache,
		bus:          bus,
		cacheTTL:     cacheTTL,
	}
}

// Start подписывается на шину и запускает цикл обработки событий
// Доставляются только события, опубликованные после подписки
func (s *MarklistService) Start() {
	s.sub = s.bus.Subscribe()

	s.wg.Add(1)
	go s.consume()

	logger.Info().Msg("marklist service subscribed to bookmark events")
}

// Stop отменяет подписку и дожидается завершения цикла обработки
func (s *MarklistService) Stop() {
	if s.sub == nil {
		return
	}
	s.sub.Cancel()
	s.wg.Wait()

	logger.Info().Msg("marklist service stopped")
}

// GetMarkedBooks получает книги в закладках пользователя с кешированием
func (s *MarklistService) GetMarkedBooks(ctx context.Context, userID string) ([]entity.Book, error) {
	books, err := s.cache.GetMarkedBooks(ctx, userID)
	if err == nil && books != nil {
		metrics.RecordCacheHit(serviceName, "marklist")
		return books, nil
	}
	if err != nil {
		metrics.RecordRedisError(serviceName, "get")
		logger.Error().Err(err).Str("user_id", userID).Msg("failed to read marklist cache")
	}
	metrics.RecordCacheMiss(serviceName, "marklist")

	books, err = s.fetchMarkedBooks(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetMarkedBooks(ctx, userID, books, s.cacheTTL); err != nil {
		metrics.RecordRedisError(serviceName, "set")
		logger.Error().Err(err).Str("user_id", userID).Msg("failed to cache marked books")
	}

	return books, nil
}

// consume читает события подписки до её отмены или остановки шины
func (s *MarklistService) consume() {
	defer s.wg.Done()

	for event := range s.sub.Events() {
		s.handleEvent(event)
	}
}

// handleEvent обрабатывает одно событие; паника обработчика не роняет
// цикл подписки и не затрагивает других подписчиков шины
func (s *MarklistService) handleEvent(event eventbus.Event) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().
				Interface("panic", r).
				Str("event_type", string(event.Type)).
				Str("user_id", event.UserID).
				Msg("panic while handling bookmark event")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), marklistEventTimeout)
	defer cancel()

	switch event.Type {
	case eventbus.BookmarkAdded:
		s.refresh(ctx, event.UserID)
	case eventbus.BookmarkRemoved:
		// Оптимистичное удаление: книга исчезает из снапшота сразу,
		// не дожидаясь похода в хранилище
		s.dropFromSnapshot(ctx, event.UserID, event.BookID)
		s.refresh(ctx, event.UserID)
	default:
		logger.Warn().Str("event_type", string(event.Type)).Msg("unknown bookmark event type")
	}
}

// refresh перечитывает список закладок из хранилища и обновляет кеш
func (s *MarklistService) refresh(ctx context.Context, userID string) {
	books, err := s.fetchMarkedBooks(ctx, userID)
	if err != nil {
		metrics.MarklistRefreshes.WithLabelValues("failed").Inc()
		logger.Error().Err(err).Str("user_id", userID).Msg("failed to refresh marked books")
		return
	}

	if err := s.cache.SetMarkedBooks(ctx, userID, books, s.cacheTTL); err != nil {
		metrics.MarklistRefreshes.WithLabelValues("failed").Inc()
		metrics.RecordRedisError(serviceName, "set")
		logger.Error().Err(err).Str("user_id", userID).Msg("failed to cache marked books")
		return
	}

	metrics.MarklistRefreshes.WithLabelValues("success").Inc()
}

// dropFromSnapshot убирает книгу из кешированного снапшота, если он есть
func (s *MarklistService) dropFromSnapshot(ctx context.Context, userID, bookID string) {
	books, err := s.cache.GetMarkedBooks(ctx, userID)
	if err != nil || books == nil {
		return
	}

	filtered := make([]entity.Book, 0, len(books))
	for _, book := range books {
		if book.ID != bookID {
			filtered = append(filtered, book)
		}
	}

	if err := s.cache.SetMarkedBooks(ctx, userID, filtered, s.cacheTTL); err != nil {
		metrics.RecordRedisError(serviceName, "set")
		logger.Error().Err(err).Str("user_id", userID).Msg("failed to update marklist snapshot")
	}
}

// fetchMarkedBooks загружает книги в закладках из хранилища,
// сохраняя порядок добавления закладок (новые сверху)
func (s *MarklistService) fetchMarkedBooks(ctx context.Context, userID string) ([]entity.Book, error) {
	bookIDs, err := s.bookmarkRepo.ListBookIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}

	if len(bookIDs) == 0 {
		return []entity.Book{}, nil
	}

	books, err := s.bookRepo.GetByIDs(ctx, bookIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get marked books: %w", err)
	}

	return books, nil
}
