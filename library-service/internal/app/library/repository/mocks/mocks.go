package mocks

import (
	"context"
	"time"

	"pustakago/library-service/internal/app/library/entity"
	"pustakago/library-service/internal/app/library/rating"

	"github.com/stretchr/testify/mock"
)

// MockBookRepository мок для BookRepository
type MockBookRepository struct {
	mock.Mock
}

func (m *MockBookRepository) GetAll(ctx context.Context) ([]entity.Book, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Book), args.Error(1)
}

func (m *MockBookRepository) GetByID(ctx context.Context, id string) (*entity.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Book), args.Error(1)
}

func (m *MockBookRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.Book, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Book), args.Error(1)
}

func (m *MockBookRepository) GetByCategory(ctx context.Context, category string) ([]entity.Book, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Book), args.Error(1)
}

func (m *MockBookRepository) Search(ctx context.Context, query string) ([]entity.Book, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Book), args.Error(1)
}

func (m *MockBookRepository) ApplyRatingDelta(ctx context.Context, bookID string, delta rating.Delta, latestReviewText string) error {
	args := m.Called(ctx, bookID, delta, latestReviewText)
	return args.Error(0)
}

// MockReviewRepository мок для ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *entity.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) GetByBookID(ctx context.Context, bookID string) ([]entity.Review, error) {
	args := m.Called(ctx, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Review), args.Error(1)
}

func (m *MockReviewRepository) GetByID(ctx context.Context, id string) (*entity.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *MockReviewRepository) GetByUserAndBook(ctx context.Context, userID, bookID string) (*entity.Review, error) {
	args := m.Called(ctx, userID, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *MockReviewRepository) Update(ctx context.Context, review *entity.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockBookmarkRepository мок для BookmarkRepository
type MockBookmarkRepository struct {
	mock.Mock
}

func (m *MockBookmarkRepository) Add(ctx context.Context, userID, bookID string) (bool, error) {
	args := m.Called(ctx, userID, bookID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookmarkRepository) Remove(ctx context.Context, userID, bookID string) error {
	args := m.Called(ctx, userID, bookID)
	return args.Error(0)
}

func (m *MockBookmarkRepository) ListBookIDs(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockBookmarkRepository) Exists(ctx context.Context, userID, bookID string) (bool, error) {
	args := m.Called(ctx, userID, bookID)
	return args.Bool(0), args.Error(1)
}

// MockBookPageRepository мок для BookPageRepository
type MockBookPageRepository struct {
	mock.Mock
}

func (m *MockBookPageRepository) GetByBookID(ctx context.Context, bookID string) ([]entity.BookPage, error) {
	args := m.Called(ctx, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.BookPage), args.Error(1)
}

func (m *MockBookPageRepository) GetPage(ctx context.Context, bookID string, pageNumber int) (*entity.BookPage, error) {
	args := m.Called(ctx, bookID, pageNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.BookPage), args.Error(1)
}

// MockMessagePublisher мок для Kafka MessagePublisher
type MockMessagePublisher struct {
	mock.Mock
	Messages [][]byte
}

func (m *MockMessagePublisher) PublishMessage(ctx context.Context, key string, value []byte) error {
	m.Messages = append(m.Messages, value)
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockMessagePublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockLibraryCache мок для Redis кеша
type MockLibraryCache struct {
	mock.Mock
}

func (m *MockLibraryCache) SetCatalog(ctx context.Context, books []entity.Book, ttl time.Duration) error {
	args := m.Called(ctx, books, ttl)
	return args.Error(0)
}

func (m *MockLibraryCache) GetCatalog(ctx context.Context) ([]entity.Book, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Book), args.Error(1)
}

func (m *MockLibraryCache) DeleteCatalog(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockLibraryCache) SetMarkedBooks(ctx context.Context, userID string, books []entity.Book, ttl time.Duration) error {
	args := m.Called(ctx, userID, books, ttl)
	return args.Error(0)
}

func (m *MockLibraryCache) GetMarkedBooks(ctx context.Context, userID string) ([]entity.Book, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Book), args.Error(1)
}

func (m *MockLibraryCache) DeleteMarkedBooks(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockLibraryCache) Close() error {
	args := m.Called()
	return args.Error(0)
}
