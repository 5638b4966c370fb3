package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pustakago/library-service/internal/app/library/entity"
	"pustakago/library-service/internal/app/library/infrastructure"
	"pustakago/library-service/internal/app/library/rating"
	"pustakago/library-service/internal/app/library/repository"
	"pustakago/pkg/logger"
	"pustakago/pkg/metrics"
)

// ReviewService обрабатывает бизнес-логику отзывов
// Отвечает за инвариант: один пользователь - один отзыв на книгу.
// Повторная отправка заменяет прежнюю оценку, а не добавляет новую
type ReviewService struct {
	reviewRepo    repository.ReviewRepository
	bookRepo      repository.BookRepository
	kafkaProducer infrastructure.MessagePublisher
	cache         infrastructure.LibraryCache
	kafkaTopic    string
}

// NewReviewService создает новый сервис отзывов с внедрением зависимостей
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	bookRepo repository.BookRepository,
	kafkaProducer infrastructure.MessagePublisher,
	cache infrastructure.LibraryCache,
	kafkaTopic string,
) *ReviewService {
	return &ReviewService{
		reviewRepo:    reviewRepo,
		bookRepo:      bookRepo,
		kafkaProducer: kafkaProducer,
		cache:         cache,
		kafkaTopic:    kafkaTopic,
	}
}

// SubmitReview создает отзыв или заменяет прежний отзыв того же пользователя
// 1. Проверяет оценку до любой записи: при невалидной оценке хранилище не меняется
// 2. Сохраняет отзыв в MongoDB
// 3. Атомарно применяет дельту к агрегату рейтинга книги
// 4. Отправляет событие REVIEW_CREATED / REVIEW_UPDATED в Kafka
func (s *ReviewService) SubmitReview(ctx context.Context, userID, userName string, req *entity.SubmitReviewRequest) (*entity.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}

	// Проверяем существование книги
	if _, err := s.bookRepo.GetByID(ctx, req.BookID); err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to verify book: %w", err)
	}

	existing, err := s.reviewRepo.GetByUserAndBook(ctx, userID, req.BookID)
	if err != nil && !errors.Is(err, repository.ErrReviewNotFound) {
		return nil, fmt.Errorf("failed to look up existing review: %w", err)
	}

	var review *entity.Review
	if existing == nil {
		review, err = s.createReview(ctx, userID, userName, req)
	} else {
		review, err = s.replaceReview(ctx, existing, req)
	}
	if err != nil {
		return nil, err
	}

	// Инвалидируем кеш каталога: средний рейтинг книги изменился
	if err := s.cache.DeleteCatalog(ctx); err != nil {
		metrics.RecordRedisError(serviceName, "del")
		logger.Error().Err(err).Msg("failed to invalidate catalog cache")
	}

	return review, nil
}

// createReview режим добавления: первый отзыв пользователя о книге
func (s *ReviewService) createReview(ctx context.Context, userID, userName string, req *entity.SubmitReviewRequest) (*entity.Review, error) {
	now := time.Now()
	review := &entity.Review{
		BookID:    req.BookID,
		UserID:    userID,
		UserName:  userName,
		Rating:    req.Rating,
		Text:      req.Text,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	delta, err := rating.AddDelta(req.Rating)
	if err != nil {
		return nil, ErrInvalidRating
	}

	if err := s.bookRepo.ApplyRatingDelta(ctx, req.BookID, delta, req.Text); err != nil {
		return nil, fmt.Errorf("failed to apply rating delta: %w", err)
	}

	metrics.ReviewsCreated.Inc()
	metrics.ReviewsRating.Observe(float64(req.Rating))

	event := entity.ReviewEvent{
		EventType: entity.ReviewEventCreated,
		ReviewID:  review.ID.Hex(),
		BookID:    review.BookID,
		UserID:    review.UserID,
		Rating:    review.Rating,
		Timestamp: time.Now(),
	}
	if err := s.publishReviewEvent(ctx, event); err != nil {
		// Отзыв уже создан, проблемы с Kafka не критичны
		logger.Error().Err(err).Str("book_id", review.BookID).Msg("failed to publish review created event")
	}

	return review, nil
}

// replaceReview режим замены: прежний вклад пользователя снимается,
// новая оценка добавляется. Количество отзывов книги не меняется
func (s *ReviewService) replaceReview(ctx context.Context, existing *entity.Review, req *entity.SubmitReviewRequest) (*entity.Review, error) {
	oldRating := existing.Rating

	delta, err := rating.ReplaceDelta(oldRating, req.Rating)
	if err != nil {
		return nil, ErrInvalidRating
	}

	existing.Rating = req.Rating
	existing.Text = req.Text
	existing.UpdatedAt = time.Now()

	if err := s.reviewRepo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}

	if err := s.bookRepo.ApplyRatingDelta(ctx, existing.BookID, delta, req.Text); err != nil {
		return nil, fmt.Errorf("failed to apply rating delta: %w", err)
	}

	metrics.ReviewsReplaced.Inc()
	metrics.ReviewsRating.Observe(float64(req.Rating))

	event := entity.ReviewEvent{
		EventType: entity.ReviewEventUpdated,
		ReviewID:  existing.ID.Hex(),
		BookID:    existing.BookID,
		UserID:    existing.UserID,
		Rating:    existing.Rating,
		OldRating: oldRating,
		Timestamp: time.Now(),
	}
	if err := s.publishReviewEvent(ctx, event); err != nil {
		logger.Error().Err(err).Str("book_id", existing.BookID).Msg("failed to publish review updated event")
	}

	return existing, nil
}

// GetBookReviews получает все отзывы по книге, новые сверху
func (s *ReviewService) GetBookReviews(ctx context.Context, bookID string) ([]entity.Review, error) {
	reviews, err := s.reviewRepo.GetByBookID(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews: %w", err)
	}

	return reviews, nil
}

// GetUserReview получает отзыв пользователя о книге, если он есть
func (s *ReviewService) GetUserReview(ctx context.Context, userID, bookID string) (*entity.Review, error) {
	review, err := s.reviewRepo.GetByUserAndBook(ctx, userID, bookID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	return review, nil
}

// DeleteReview удаляет отзыв с проверкой прав доступа
func (s *ReviewService) DeleteReview(ctx context.Context, reviewID, userID string) error {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("failed to get review: %w", err)
	}

	// Проверяем что пользователь является автором отзыва
	if review.UserID != userID {
		return ErrUnauthorized
	}

	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	// Снимаем вклад удаленного отзыва с агрегата книги
	delta := rating.Delta{
		Sum:     -review.Rating,
		Count:   -1,
		Buckets: map[string]int{rating.Bucket(review.Rating): -1},
	}
	if err := s.bookRepo.ApplyRatingDelta(ctx, review.BookID, delta, ""); err != nil {
		return fmt.Errorf("failed to apply rating delta: %w", err)
	}

	if err := s.cache.DeleteCatalog(ctx); err != nil {
		metrics.RecordRedisError(serviceName, "del")
		logger.Error().Err(err).Msg("failed to invalidate catalog cache")
	}

	return nil
}

// publishReviewEvent отправляет событие об отзыве в Kafka
// Key - это BookID: события по одной книге попадают в одну партицию
// и обрабатываются по порядку
func (s *ReviewService) publishReviewEvent(ctx context.Context, event entity.ReviewEvent) error {
	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal review event: %w", err)
	}

	if err := s.kafkaProducer.PublishMessage(ctx, event.BookID, eventData); err != nil {
		metrics.RecordKafkaError(serviceName, s.kafkaTopic, "produce")
		return fmt.Errorf("failed to publish to kafka: %w", err)
	}

	metrics.RecordKafkaMessageProduced(serviceName, s.kafkaTopic)
	return nil
}
