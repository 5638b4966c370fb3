package repository

import (
	"context"

	"pustakago/library-service/internal/app/library/entity"
	"pustakago/library-service/internal/app/library/rating"
)

// BookRepository определяет методы для работы с книгами в MongoDB
type BookRepository interface {
	GetAll(ctx context.Context) ([]entity.Book, error)
	GetByID(ctx context.Context, id string) (*entity.Book, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.Book, error)
	GetByCategory(ctx context.Context, category string) ([]entity.Book, error)
	Search(ctx context.Context, query string) ([]entity.Book, error)
	// ApplyRatingDelta атомарно применяет дельту агрегата рейтинга к документу
	// книги одним update'ом; latestReviewText перезаписывается если не пуст
	ApplyRatingDelta(ctx context.Context, bookID string, delta rating.Delta, latestReviewText string) error
}

// ReviewRepository определяет методы для работы с отзывами в MongoDB
type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	GetByBookID(ctx context.Context, bookID string) ([]entity.Review, error)
	GetByID(ctx context.Context, id string) (*entity.Review, error)
	GetByUserAndBook(ctx context.Context, userID, bookID string) (*entity.Review, error)
	Update(ctx context.Context, review *entity.Review) error
	Delete(ctx context.Context, id string) error
}

// BookmarkRepository определяет методы для работы с закладками пользователей
type BookmarkRepository interface {
	// Add добавляет закладку; возвращает true если закладка была создана,
	// false если книга уже была в закладках
	Add(ctx context.Context, userID, bookID string) (bool, error)
	Remove(ctx context.Context, userID, bookID string) error
	ListBookIDs(ctx context.Context, userID string) ([]string, error)
	Exists(ctx context.Context, userID, bookID string) (bool, error)
}

// BookPageRepository определяет методы для чтения страниц книг
type BookPageRepository interface {
	GetByBookID(ctx context.Context, bookID string) ([]entity.BookPage, error)
	GetPage(ctx context.Context, bookID string, pageNumber int) (*entity.BookPage, error)
}
