package mocks

import (
	"context"
	"time"

	"pustakago/news-service/internal/app/news/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockNewsRepository мок для NewsRepository
type MockNewsRepository struct {
	mock.Mock
}

func (m *MockNewsRepository) GetAll(ctx context.Context) ([]entity.News, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.News), args.Error(1)
}

func (m *MockNewsRepository) GetLatest(ctx context.Context, limit int) ([]entity.News, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.News), args.Error(1)
}

func (m *MockNewsRepository) GetBreaking(ctx context.Context) ([]entity.News, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.News), args.Error(1)
}

func (m *MockNewsRepository) GetTrending(ctx context.Context, limit int) ([]entity.News, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.News), args.Error(1)
}

func (m *MockNewsRepository) GetByCategory(ctx context.Context, category string) ([]entity.News, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.News), args.Error(1)
}

func (m *MockNewsRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.News, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.News), args.Error(1)
}

func (m *MockNewsRepository) Search(ctx context.Context, query string) ([]entity.News, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.News), args.Error(1)
}

func (m *MockNewsRepository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockNewsCache мок для Redis кеша
type MockNewsCache struct {
	mock.Mock
}

func (m *MockNewsCache) SetTrending(ctx context.Context, news []entity.News, ttl time.Duration) error {
	args := m.Called(ctx, news, ttl)
	return args.Error(0)
}

func (m *MockNewsCache) GetTrending(ctx context.Context) ([]entity.News, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.News), args.Error(1)
}

func (m *MockNewsCache) DeleteTrending(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockNewsCache) Close() error {
	args := m.Called()
	return args.Error(0)
}
