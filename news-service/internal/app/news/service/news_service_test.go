package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"pustakago/news-service/internal/app/news/entity"
	"pustakago/news-service/internal/app/news/repository"
	"pustakago/news-service/internal/app/news/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const testCacheTTL = 5 * time.Minute

func newNewsServiceForTest() (*NewsService, *mocks.MockNewsRepository, *mocks.MockNewsCache) {
	newsRepo := new(mocks.MockNewsRepository)
	cache := new(mocks.MockNewsCache)
	svc := NewNewsService(newsRepo, cache, testCacheTTL)
	return svc, newsRepo, cache
}

func TestGetTrendingNews_CacheHit(t *testing.T) {
	svc, newsRepo, cache := newNewsServiceForTest()

	ctx := context.Background()
	news := []entity.News{{ID: uuid.New(), Title: "Festival Sastra Jakarta", ViewCount: 120}}

	cache.On("GetTrending", ctx).Return(news, nil)

	result, err := svc.GetTrendingNews(ctx)

	assert.NoError(t, err)
	assert.Equal(t, news, result)
	// При попадании в кеш БД не трогается
	newsRepo.AssertNotCalled(t, "GetTrending", mock.Anything, mock.Anything)
}

func TestGetTrendingNews_CacheMissLoadsFromDb(t *testing.T) {
	svc, newsRepo, cache := newNewsServiceForTest()

	ctx := context.Background()
	news := []entity.News{
		{ID: uuid.New(), Title: "Festival Sastra Jakarta", ViewCount: 120},
		{ID: uuid.New(), Title: "Novel Baru Andrea Hirata", ViewCount: 90},
	}

	cache.On("GetTrending", ctx).Return(nil, nil)
	newsRepo.On("GetTrending", ctx, trendingLimit).Return(news, nil)
	cache.On("SetTrending", ctx, news, testCacheTTL).Return(nil)

	result, err := svc.GetTrendingNews(ctx)

	assert.NoError(t, err)
	assert.Len(t, result, 2)
	cache.AssertExpectations(t)
}

func TestGetTrendingNews_CacheErrorIgnored(t *testing.T) {
	svc, newsRepo, cache := newNewsServiceForTest()

	ctx := context.Background()
	news := []entity.News{{ID: uuid.New(), Title: "Festival Sastra Jakarta"}}

	cache.On("GetTrending", ctx).Return(nil, errors.New("redis error"))
	newsRepo.On("GetTrending", ctx, trendingLimit).Return(news, nil)
	cache.On("SetTrending", ctx, news, testCacheTTL).Return(errors.New("redis error"))

	result, err := svc.GetTrendingNews(ctx)

	assert.NoError(t, err)
	assert.Len(t, result, 1)
}

func TestGetNews_IncrementsViewCount(t *testing.T) {
	svc, newsRepo, _ := newNewsServiceForTest()

	ctx := context.Background()
	newsID := uuid.New()
	news := &entity.News{ID: newsID, Title: "Festival Sastra Jakarta", ViewCount: 5}

	newsRepo.On("GetByID", ctx, newsID).Return(news, nil)
	newsRepo.On("IncrementViewCount", ctx, newsID).Return(nil)

	result, err := svc.GetNews(ctx, newsID)

	assert.NoError(t, err)
	assert.Equal(t, newsID, result.ID)
	newsRepo.AssertExpectations(t)
}

func TestGetNews_ViewCountErrorIgnored(t *testing.T) {
	svc, newsRepo, _ := newNewsServiceForTest()

	ctx := context.Background()
	newsID := uuid.New()
	news := &entity.News{ID: newsID, Title: "Festival Sastra Jakarta"}

	newsRepo.On("GetByID", ctx, newsID).Return(news, nil)
	newsRepo.On("IncrementViewCount", ctx, newsID).Return(errors.New("db error"))

	result, err := svc.GetNews(ctx, newsID)

	assert.NoError(t, err)
	assert.NotNil(t, result)
}

func TestGetNews_NotFound(t *testing.T) {
	svc, newsRepo, _ := newNewsServiceForTest()

	ctx := context.Background()
	newsID := uuid.New()

	newsRepo.On("GetByID", ctx, newsID).Return(nil, repository.ErrNewsNotFound)

	result, err := svc.GetNews(ctx, newsID)

	assert.ErrorIs(t, err, ErrNewsNotFound)
	assert.Nil(t, result)
	newsRepo.AssertNotCalled(t, "IncrementViewCount", mock.Anything, mock.Anything)
}

func TestGetLatestNews_UsesLimit(t *testing.T) {
	svc, newsRepo, _ := newNewsServiceForTest()

	ctx := context.Background()
	newsRepo.On("GetLatest", ctx, latestLimit).Return([]entity.News{}, nil)

	result, err := svc.GetLatestNews(ctx)

	assert.NoError(t, err)
	assert.Empty(t, result)
	newsRepo.AssertExpectations(t)
}

func TestGetBreakingNews_Success(t *testing.T) {
	svc, newsRepo, _ := newNewsServiceForTest()

	ctx := context.Background()
	news := []entity.News{{ID: uuid.New(), Title: "Penulis Indonesia Raih Penghargaan", IsBreaking: true}}

	newsRepo.On("GetBreaking", ctx).Return(news, nil)

	result, err := svc.GetBreakingNews(ctx)

	assert.NoError(t, err)
	assert.Len(t, result, 1)
	assert.True(t, result[0].IsBreaking)
}

func TestSearchNews_Success(t *testing.T) {
	svc, newsRepo, _ := newNewsServiceForTest()

	ctx := context.Background()
	news := []entity.News{{ID: uuid.New(), Title: "Festival Sastra Jakarta"}}

	newsRepo.On("Search", ctx, "sastra").Return(news, nil)

	result, err := svc.SearchNews(ctx, "sastra")

	assert.NoError(t, err)
	assert.Len(t, result, 1)
}
