package mocks

import (
	"context"

	"pustakago/background-worker-service/internal/app/background-worker/entity"

	"github.com/stretchr/testify/mock"
)

// MockBookAggregateRepository мок репозитория агрегатов книг
type MockBookAggregateRepository struct {
	mock.Mock
}

func (m *MockBookAggregateRepository) GetAggregate(ctx context.Context, bookID string) (*entity.BookAggregate, error) {
	args := m.Called(ctx, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.BookAggregate), args.Error(1)
}

func (m *MockBookAggregateRepository) ReplaceAggregate(ctx context.Context, bookID string, summary entity.RatingSummary) error {
	args := m.Called(ctx, bookID, summary)
	return args.Error(0)
}

// MockReviewSummaryRepository мок репозитория пересчета по отзывам
type MockReviewSummaryRepository struct {
	mock.Mock
}

func (m *MockReviewSummaryRepository) Summarize(ctx context.Context, bookID string) (entity.RatingSummary, error) {
	args := m.Called(ctx, bookID)
	return args.Get(0).(entity.RatingSummary), args.Error(1)
}

// MockDirtyBookRepository мок очереди сверки
type MockDirtyBookRepository struct {
	mock.Mock
}

func (m *MockDirtyBookRepository) MarkDirty(ctx context.Context, bookID string) error {
	args := m.Called(ctx, bookID)
	return args.Error(0)
}

func (m *MockDirtyBookRepository) PopDirty(ctx context.Context, limit int) ([]string, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockDirtyBookRepository) Backlog(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
