package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pustakago/news-service/internal/app/news/entity"
	"pustakago/news-service/internal/app/news/infrastructure"
	"pustakago/news-service/internal/app/news/repository"
	"pustakago/pkg/logger"
	"pustakago/pkg/metrics"

	"github.com/google/uuid"
)

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrNewsNotFound = errors.New("news not found")
)

const (
	serviceName   = "news-service"
	latestLimit   = 10
	trendingLimit = 10
)

// NewsService обрабатывает бизнес-логику новостной ленты
// Координирует работу репозитория и Redis кеша трендовых новостей
type NewsService struct {
	newsRepo repository.NewsRepository
	cache    infrastructure.NewsCache
	cacheTTL time.Duration
}

// NewNewsService создает новый сервис новостей с внедрением зависимостей
func NewNewsService(
	newsRepo repository.NewsRepository,
	cache infrastructure.NewsCache,
	cacheTTL time.Duration,
) *NewsService {
	return &NewsService{
		newsRepo: newsRepo,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// GetAllNews получает все новости, свежие сверху
func (s *NewsService) GetAllNews(ctx context.Context) ([]entity.News, error) {
	news, err := s.newsRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get news: %w", err)
	}

	return news, nil
}

// GetLatestNews получает последние новости для главного экрана
func (s *NewsService) GetLatestNews(ctx context.Context) ([]entity.News, error) {
	news, err := s.newsRepo.GetLatest(ctx, latestLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest news: %w", err)
	}

	return news, nil
}

// GetBreakingNews получает срочные новости
func (s *NewsService) GetBreakingNews(ctx context.Context) ([]entity.News, error) {
	news, err := s.newsRepo.GetBreaking(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get breaking news: %w", err)
	}

	return news, nil
}

// GetTrendingNews получает самые просматриваемые новости с кешированием
// Список пересчитывается из БД только после истечения TTL кеша
func (s *NewsService) GetTrendingNews(ctx context.Context) ([]entity.News, error) {
	news, err := s.cache.GetTrending(ctx)
	if err == nil && news != nil {
		metrics.RecordCacheHit(serviceName, "news:trending")
		return news, nil
	}
	if err != nil {
		metrics.RecordRedisError(serviceName, "get")
		logger.Error().Err(err).Msg("failed to read trending cache")
	}
	metrics.RecordCacheMiss(serviceName, "news:trending")

	news, err = s.newsRepo.GetTrending(ctx, trendingLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get trending news: %w", err)
	}

	if err := s.cache.SetTrending(ctx, news, s.cacheTTL); err != nil {
		// Данные получены из БД, проблемы с кешем не критичны
		metrics.RecordRedisError(serviceName, "set")
		logger.Error().Err(err).Msg("failed to cache trending news")
	}

	return news, nil
}

// GetNewsByCategory получает новости указанной категории
func (s *NewsService) GetNewsByCategory(ctx context.Context, category string) ([]entity.News, error) {
	news, err := s.newsRepo.GetByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to get news by category: %w", err)
	}

	return news, nil
}

// GetNews получает новость по ID и увеличивает счетчик просмотров
func (s *NewsService) GetNews(ctx context.Context, id uuid.UUID) (*entity.News, error) {
	news, err := s.newsRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNewsNotFound) {
			return nil, ErrNewsNotFound
		}
		return nil, fmt.Errorf("failed to get news: %w", err)
	}

	// Счетчик просмотров инкрементируется атомарно на стороне БД
	if err := s.newsRepo.IncrementViewCount(ctx, id); err != nil {
		// Новость уже получена, ошибка счетчика не критична
		logger.Error().Err(err).Str("news_id", id.String()).Msg("failed to increment view count")
	} else {
		metrics.NewsViews.Inc()
	}

	return news, nil
}

// SearchNews ищет новости по заголовку и содержимому
func (s *NewsService) SearchNews(ctx context.Context, query string) ([]entity.News, error) {
	news, err := s.newsRepo.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search news: %w", err)
	}

	return news, nil
}
