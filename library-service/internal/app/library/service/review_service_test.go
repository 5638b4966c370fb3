package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"pustakago/library-service/internal/app/library/entity"
	"pustakago/library-service/internal/app/library/rating"
	"pustakago/library-service/internal/app/library/repository"
	"pustakago/library-service/internal/app/library/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testTopic = "review_events"

func newReviewServiceForTest() (*ReviewService, *mocks.MockReviewRepository, *mocks.MockBookRepository, *mocks.MockMessagePublisher, *mocks.MockLibraryCache) {
	reviewRepo := new(mocks.MockReviewRepository)
	bookRepo := new(mocks.MockBookRepository)
	producer := &mocks.MockMessagePublisher{Messages: make([][]byte, 0)}
	cache := new(mocks.MockLibraryCache)
	svc := NewReviewService(reviewRepo, bookRepo, producer, cache, testTopic)
	return svc, reviewRepo, bookRepo, producer, cache
}

func TestSubmitReview_CreatesFirstReview(t *testing.T) {
	svc, reviewRepo, bookRepo, producer, cache := newReviewServiceForTest()

	ctx := context.Background()
	req := &entity.SubmitReviewRequest{BookID: "book-1", Rating: 5, Text: "Cerita yang sangat menginspirasi."}

	bookRepo.On("GetByID", ctx, "book-1").Return(&entity.Book{ID: "book-1"}, nil)
	reviewRepo.On("GetByUserAndBook", ctx, "user-1", "book-1").Return(nil, repository.ErrReviewNotFound)
	reviewRepo.On("Create", ctx, mock.AnythingOfType("*entity.Review")).Return(nil).Run(func(args mock.Arguments) {
		review := args.Get(1).(*entity.Review)
		review.ID = primitive.NewObjectID()
	})
	bookRepo.On("ApplyRatingDelta", ctx, "book-1",
		rating.Delta{Sum: 5, Count: 1, Buckets: map[string]int{"5": 1}},
		req.Text,
	).Return(nil)
	producer.On("PublishMessage", ctx, "book-1", mock.Anything).Return(nil)
	cache.On("DeleteCatalog", ctx).Return(nil)

	result, err := svc.SubmitReview(ctx, "user-1", "Andi", req)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "user-1", result.UserID)
	assert.Equal(t, "Andi", result.UserName)
	assert.Equal(t, 5, result.Rating)
	bookRepo.AssertExpectations(t)

	// Проверяем событие REVIEW_CREATED в Kafka
	assert.Len(t, producer.Messages, 1)
	var event entity.ReviewEvent
	assert.NoError(t, json.Unmarshal(producer.Messages[0], &event))
	assert.Equal(t, entity.ReviewEventCreated, event.EventType)
	assert.Equal(t, 5, event.Rating)
}

func TestSubmitReview_ReplacesExistingReview(t *testing.T) {
	svc, reviewRepo, bookRepo, producer, cache := newReviewServiceForTest()

	ctx := context.Background()
	existing := &entity.Review{
		ID:     primitive.NewObjectID(),
		BookID: "book-1",
		UserID: "user-1",
		Rating: 3,
		Text:   "Lumayan bagus untuk dibaca.",
	}
	req := &entity.SubmitReviewRequest{BookID: "book-1", Rating: 5, Text: "Setelah dibaca ulang, ternyata luar biasa."}

	bookRepo.On("GetByID", ctx, "book-1").Return(&entity.Book{ID: "book-1"}, nil)
	reviewRepo.On("GetByUserAndBook", ctx, "user-1", "book-1").Return(existing, nil)
	reviewRepo.On("Update", ctx, mock.AnythingOfType("*entity.Review")).Return(nil)
	// Прежний вклад снимается, новый добавляется, количество отзывов не меняется
	bookRepo.On("ApplyRatingDelta", ctx, "book-1",
		rating.Delta{Sum: 2, Count: 0, Buckets: map[string]int{"3": -1, "5": 1}},
		req.Text,
	).Return(nil)
	producer.On("PublishMessage", ctx, "book-1", mock.Anything).Return(nil)
	cache.On("DeleteCatalog", ctx).Return(nil)

	result, err := svc.SubmitReview(ctx, "user-1", "Andi", req)

	assert.NoError(t, err)
	assert.Equal(t, 5, result.Rating)
	reviewRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	bookRepo.AssertExpectations(t)

	var event entity.ReviewEvent
	assert.NoError(t, json.Unmarshal(producer.Messages[0], &event))
	assert.Equal(t, entity.ReviewEventUpdated, event.EventType)
	assert.Equal(t, 3, event.OldRating)
	assert.Equal(t, 5, event.Rating)
}

func TestSubmitReview_SameRatingKeepsAggregate(t *testing.T) {
	svc, reviewRepo, bookRepo, producer, cache := newReviewServiceForTest()

	ctx := context.Background()
	existing := &entity.Review{ID: primitive.NewObjectID(), BookID: "book-1", UserID: "user-1", Rating: 4}
	req := &entity.SubmitReviewRequest{BookID: "book-1", Rating: 4, Text: "Teks diperbarui, penilaian tetap sama."}

	bookRepo.On("GetByID", ctx, "book-1").Return(&entity.Book{ID: "book-1"}, nil)
	reviewRepo.On("GetByUserAndBook", ctx, "user-1", "book-1").Return(existing, nil)
	reviewRepo.On("Update", ctx, mock.Anything).Return(nil)
	// Нулевая дельта: меняется только latestReviewText
	bookRepo.On("ApplyRatingDelta", ctx, "book-1",
		rating.Delta{Buckets: map[string]int{}},
		req.Text,
	).Return(nil)
	producer.On("PublishMessage", ctx, "book-1", mock.Anything).Return(nil)
	cache.On("DeleteCatalog", ctx).Return(nil)

	_, err := svc.SubmitReview(ctx, "user-1", "Andi", req)

	assert.NoError(t, err)
	bookRepo.AssertExpectations(t)
}

func TestSubmitReview_InvalidRatingRejectedBeforeWrite(t *testing.T) {
	svc, reviewRepo, bookRepo, _, _ := newReviewServiceForTest()

	ctx := context.Background()

	for _, stars := range []int{0, 6, -1, 100} {
		req := &entity.SubmitReviewRequest{BookID: "book-1", Rating: stars, Text: "Penilaian di luar jangkauan."}

		result, err := svc.SubmitReview(ctx, "user-1", "Andi", req)

		assert.ErrorIs(t, err, ErrInvalidRating)
		assert.Nil(t, result)
	}

	// Невалидная оценка отклоняется до любого обращения к хранилищу
	bookRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	reviewRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	bookRepo.AssertNotCalled(t, "ApplyRatingDelta", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitReview_BookNotFound(t *testing.T) {
	svc, _, bookRepo, _, _ := newReviewServiceForTest()

	ctx := context.Background()
	req := &entity.SubmitReviewRequest{BookID: "missing", Rating: 4, Text: "Buku ini tidak ada di katalog."}

	bookRepo.On("GetByID", ctx, "missing").Return(nil, repository.ErrBookNotFound)

	result, err := svc.SubmitReview(ctx, "user-1", "Andi", req)

	assert.ErrorIs(t, err, ErrBookNotFound)
	assert.Nil(t, result)
}

func TestSubmitReview_CreateRepoError(t *testing.T) {
	svc, reviewRepo, bookRepo, _, _ := newReviewServiceForTest()

	ctx := context.Background()
	req := &entity.SubmitReviewRequest{BookID: "book-1", Rating: 4, Text: "Tidak akan tersimpan karena db error."}

	bookRepo.On("GetByID", ctx, "book-1").Return(&entity.Book{ID: "book-1"}, nil)
	reviewRepo.On("GetByUserAndBook", ctx, "user-1", "book-1").Return(nil, repository.ErrReviewNotFound)
	reviewRepo.On("Create", ctx, mock.Anything).Return(errors.New("db error"))

	result, err := svc.SubmitReview(ctx, "user-1", "Andi", req)

	assert.Error(t, err)
	assert.Nil(t, result)
	// Агрегат книги не трогается, если отзыв не сохранился
	bookRepo.AssertNotCalled(t, "ApplyRatingDelta", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitReview_KafkaErrorIgnored(t *testing.T) {
	svc, reviewRepo, bookRepo, producer, cache := newReviewServiceForTest()

	ctx := context.Background()
	req := &entity.SubmitReviewRequest{BookID: "book-1", Rating: 3, Text: "Kafka sedang tidak tersedia."}

	bookRepo.On("GetByID", ctx, "book-1").Return(&entity.Book{ID: "book-1"}, nil)
	reviewRepo.On("GetByUserAndBook", ctx, "user-1", "book-1").Return(nil, repository.ErrReviewNotFound)
	reviewRepo.On("Create", ctx, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		review := args.Get(1).(*entity.Review)
		review.ID = primitive.NewObjectID()
	})
	bookRepo.On("ApplyRatingDelta", ctx, "book-1", mock.Anything, mock.Anything).Return(nil)
	producer.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(errors.New("kafka error"))
	cache.On("DeleteCatalog", ctx).Return(nil)

	result, err := svc.SubmitReview(ctx, "user-1", "Andi", req)

	assert.NoError(t, err)
	assert.NotNil(t, result)
}

func TestSubmitReview_CacheErrorIgnored(t *testing.T) {
	svc, reviewRepo, bookRepo, producer, cache := newReviewServiceForTest()

	ctx := context.Background()
	req := &entity.SubmitReviewRequest{BookID: "book-1", Rating: 5, Text: "Redis sedang tidak tersedia."}

	bookRepo.On("GetByID", ctx, "book-1").Return(&entity.Book{ID: "book-1"}, nil)
	reviewRepo.On("GetByUserAndBook", ctx, "user-1", "book-1").Return(nil, repository.ErrReviewNotFound)
	reviewRepo.On("Create", ctx, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		review := args.Get(1).(*entity.Review)
		review.ID = primitive.NewObjectID()
	})
	bookRepo.On("ApplyRatingDelta", ctx, "book-1", mock.Anything, mock.Anything).Return(nil)
	producer.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(nil)
	cache.On("DeleteCatalog", ctx).Return(errors.New("redis error"))

	result, err := svc.SubmitReview(ctx, "user-1", "Andi", req)

	assert.NoError(t, err)
	assert.NotNil(t, result)
}

func TestGetBookReviews_Success(t *testing.T) {
	svc, reviewRepo, _, _, _ := newReviewServiceForTest()

	ctx := context.Background()
	reviews := []entity.Review{
		{ID: primitive.NewObjectID(), BookID: "book-1", UserID: "user-1", Rating: 5},
		{ID: primitive.NewObjectID(), BookID: "book-1", UserID: "user-2", Rating: 4},
	}

	reviewRepo.On("GetByBookID", ctx, "book-1").Return(reviews, nil)

	result, err := svc.GetBookReviews(ctx, "book-1")

	assert.NoError(t, err)
	assert.Len(t, result, 2)
}

func TestGetUserReview_NotFound(t *testing.T) {
	svc, reviewRepo, _, _, _ := newReviewServiceForTest()

	ctx := context.Background()
	reviewRepo.On("GetByUserAndBook", ctx, "user-1", "book-1").Return(nil, repository.ErrReviewNotFound)

	result, err := svc.GetUserReview(ctx, "user-1", "book-1")

	assert.ErrorIs(t, err, ErrReviewNotFound)
	assert.Nil(t, result)
}

func TestDeleteReview_Success(t *testing.T) {
	svc, reviewRepo, bookRepo, _, cache := newReviewServiceForTest()

	ctx := context.Background()
	reviewID := primitive.NewObjectID()
	review := &entity.Review{ID: reviewID, BookID: "book-1", UserID: "user-1", Rating: 4}

	reviewRepo.On("GetByID", ctx, reviewID.Hex()).Return(review, nil)
	reviewRepo.On("Delete", ctx, reviewID.Hex()).Return(nil)
	// Вклад удаленного отзыва снимается с агрегата
	bookRepo.On("ApplyRatingDelta", ctx, "book-1",
		rating.Delta{Sum: -4, Count: -1, Buckets: map[string]int{"4": -1}},
		"",
	).Return(nil)
	cache.On("DeleteCatalog", ctx).Return(nil)

	err := svc.DeleteReview(ctx, reviewID.Hex(), "user-1")

	assert.NoError(t, err)
	bookRepo.AssertExpectations(t)
}

func TestDeleteReview_Unauthorized(t *testing.T) {
	svc, reviewRepo, bookRepo, _, _ := newReviewServiceForTest()

	ctx := context.Background()
	reviewID := primitive.NewObjectID()
	review := &entity.Review{ID: reviewID, BookID: "book-1", UserID: "owner-user", Rating: 4}

	reviewRepo.On("GetByID", ctx, reviewID.Hex()).Return(review, nil)

	err := svc.DeleteReview(ctx, reviewID.Hex(), "another-user")

	assert.ErrorIs(t, err, ErrUnauthorized)
	reviewRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	bookRepo.AssertNotCalled(t, "ApplyRatingDelta", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteReview_NotFound(t *testing.T) {
	svc, reviewRepo, _, _, _ := newReviewServiceForTest()

	ctx := context.Background()
	reviewID := primitive.NewObjectID().Hex()

	reviewRepo.On("GetByID", ctx, reviewID).Return(nil, repository.ErrReviewNotFound)

	err := svc.DeleteReview(ctx, reviewID, "user-1")

	assert.ErrorIs(t, err, ErrReviewNotFound)
}
