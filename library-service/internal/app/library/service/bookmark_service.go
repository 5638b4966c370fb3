package service

import (
	"context"
	"errors"
	"fmt"

	"pustakago/library-service/internal/app/library/repository"
	"pustakago/pkg/eventbus"
	"pustakago/pkg/metrics"
)

// BookmarkService обрабатывает бизнес-логику закладок
// Сначала изменение сохраняется в MongoDB, и только после успеха
// публикуется событие в шину: при ошибке записи событий не бывает
type BookmarkService struct {
	bookmarkRepo repository.BookmarkRepository
	bookRepo     repository.BookRepository
	bus          eventbus.Bus
}

// NewBookmarkService создает новый сервис закладок с внедрением зависимостей
func NewBookmarkService(
	bookmarkRepo repository.BookmarkRepository,
	bookRepo repository.BookRepository,
	bus eventbus.Bus,
) *BookmarkService {
	return &BookmarkService{
		bookmarkRepo: bookmarkRepo,
		bookRepo:     bookRepo,
		bus:          bus,
	}
}

// AddBookmark добавляет книгу в закладки пользователя
// Повторное добавление идемпотентно: если закладка уже была,
// состояние не изменилось и событие не публикуется
func (s *BookmarkService) AddBookmark(ctx context.Context, userID, bookID string) error {
	// Проверяем существование книги
	if _, err := s.bookRepo.GetByID(ctx, bookID); err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return ErrBookNotFound
		}
		return fmt.Errorf("failed to verify book: %w", err)
	}

	inserted, err := s.bookmarkRepo.Add(ctx, userID, bookID)
	if err != nil {
		return fmt.Errorf("failed to add bookmark: %w", err)
	}
	if !inserted {
		return nil
	}

	metrics.BookmarksToggled.WithLabelValues("add").Inc()

	s.publish(eventbus.Event{
		Type:   eventbus.BookmarkAdded,
		UserID: userID,
		BookID: bookID,
	})

	return nil
}

// RemoveBookmark убирает книгу из закладок пользователя
func (s *BookmarkService) RemoveBookmark(ctx context.Context, userID, bookID string) error {
	if err := s.bookmarkRepo.Remove(ctx, userID, bookID); err != nil {
		if errors.Is(err, repository.ErrBookmarkNotFound) {
			return ErrBookmarkNotFound
		}
		return fmt.Errorf("failed to remove bookmark: %w", err)
	}

	metrics.BookmarksToggled.WithLabelValues("remove").Inc()

	s.publish(eventbus.Event{
		Type:   eventbus.BookmarkRemoved,
		UserID: userID,
		BookID: bookID,
	})

	return nil
}

// ToggleBookmark переключает состояние закладки
// Возвращает новое состояние: true если книга теперь в закладках
func (s *BookmarkService) ToggleBookmark(ctx context.Context, userID, bookID string) (bool, error) {
	exists, err := s.bookmarkRepo.Exists(ctx, userID, bookID)
	if err != nil {
		return false, fmt.Errorf("failed to check bookmark: %w", err)
	}

	if exists {
		if err := s.RemoveBookmark(ctx, userID, bookID); err != nil {
			return false, err
		}
		return false, nil
	}

	if err := s.AddBookmark(ctx, userID, bookID); err != nil {
		return false, err
	}
	return true, nil
}

// IsBookmarked проверяет, есть ли книга в закладках пользователя
func (s *BookmarkService) IsBookmarked(ctx context.Context, userID, bookID string) (bool, error) {
	exists, err := s.bookmarkRepo.Exists(ctx, userID, bookID)
	if err != nil {
		return false, fmt.Errorf("failed to check bookmark: %w", err)
	}

	return exists, nil
}

func (s *BookmarkService) publish(event eventbus.Event) {
	s.bus.Publish(event)
	metrics.BookmarkEventsPublished.WithLabelValues(string(event.Type)).Inc()
}
