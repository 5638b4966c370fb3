package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pustakago/library-service/internal/app/library/entity"
	"pustakago/library-service/internal/app/library/infrastructure"
	"pustakago/library-service/internal/app/library/repository"
	"pustakago/pkg/logger"
	"pustakago/pkg/metrics"
)

// BookService обрабатывает бизнес-логику каталога книг
// Координирует работу репозиториев и Redis кеша
type BookService struct {
	bookRepo repository.BookRepository
	pageRepo repository.BookPageRepository
	cache    infrastructure.LibraryCache
	cacheTTL time.Duration
}

// NewBookService создает новый сервис каталога с внедрением зависимостей
func NewBookService(
	bookRepo repository.BookRepository,
	pageRepo repository.BookPageRepository,
	cache infrastructure.LibraryCache,
	cacheTTL time.Duration,
) *BookService {
	return &BookService{
		bookRepo: bookRepo,
		pageRepo: pageRepo,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// GetCatalog получает все книги с кешированием в Redis
// Сначала проверяет кеш, если нет - загружает из MongoDB и кеширует
func (s *BookService) GetCatalog(ctx context.Context) ([]entity.Book, error) {
	// Пытаемся получить из кеша Redis
	books, err := s.cache.GetCatalog(ctx)
	if err == nil && books != nil {
		metrics.RecordCacheHit(serviceName, "books:catalog")
		return books, nil
	}
	if err != nil {
		metrics.RecordRedisError(serviceName, "get")
		logger.Error().Err(err).Msg("failed to read catalog cache")
	}
	metrics.RecordCacheMiss(serviceName, "books:catalog")

	// Cache miss - загружаем из MongoDB
	books, err = s.bookRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get books: %w", err)
	}

	// Сохраняем в кеш для последующих запросов
	if err := s.cache.SetCatalog(ctx, books, s.cacheTTL); err != nil {
		// Данные получены из БД, проблемы с кешем не критичны
		metrics.RecordRedisError(serviceName, "set")
		logger.Error().Err(err).Msg("failed to cache catalog")
	}

	return books, nil
}

// GetBook получает книгу по ID
// Не использует кеш, так как запрашивается конкретная книга
func (s *BookService) GetBook(ctx context.Context, id string) (*entity.Book, error) {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	return book, nil
}

// GetBooksByCategory получает книги указанной категории
func (s *BookService) GetBooksByCategory(ctx context.Context, category string) ([]entity.Book, error) {
	books, err := s.bookRepo.GetByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to get books by category: %w", err)
	}

	return books, nil
}

// SearchBooks ищет книги по названию или автору
func (s *BookService) SearchBooks(ctx context.Context, query string) ([]entity.Book, error) {
	books, err := s.bookRepo.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search books: %w", err)
	}

	return books, nil
}

// GetBookPages получает все страницы книги для режима чтения
func (s *BookService) GetBookPages(ctx context.Context, bookID string) ([]entity.BookPage, error) {
	pages, err := s.pageRepo.GetByBookID(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to get book pages: %w", err)
	}

	return pages, nil
}

// GetBookPage получает одну страницу книги по номеру
func (s *BookService) GetBookPage(ctx context.Context, bookID string, pageNumber int) (*entity.BookPage, error) {
	page, err := s.pageRepo.GetPage(ctx, bookID, pageNumber)
	if err != nil {
		if errors.Is(err, repository.ErrPageNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, fmt.Errorf("failed to get book page: %w", err)
	}

	return page, nil
}
