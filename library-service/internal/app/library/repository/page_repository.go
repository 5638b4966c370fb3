package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pustakago/library-service/internal/app/library/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrPageNotFound = errors.New("book page not found")
)

type bookPageRepository struct {
	collection *mongo.Collection
}

// NewBookPageRepository создает новый репозиторий страниц книг
func NewBookPageRepository(db *mongo.Database) BookPageRepository {
	collection := db.Collection("books_pages")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "booksId", Value: 1},
			{Key: "pageNumber", Value: 1},
		},
		Options: options.Index().SetName("book_page_idx"),
	}

	_, err := collection.Indexes().CreateOne(ctx, indexModel)
	if err != nil {
		fmt.Printf("Warning: failed to create index on booksId, pageNumber: %v\n", err)
	}

	return &bookPageRepository{
		collection: collection,
	}
}

// GetByBookID получает все страницы книги в порядке номеров
func (r *bookPageRepository) GetByBookID(ctx context.Context, bookID string) ([]entity.BookPage, error) {
	filter := bson.M{"booksId": bookID}
	opts := options.Find().SetSort(bson.D{{Key: "pageNumber", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find book pages: %w", err)
	}
	defer cursor.Close(ctx)

	var pages []entity.BookPage
	if err := cursor.All(ctx, &pages); err != nil {
		return nil, fmt.Errorf("failed to decode book pages: %w", err)
	}

	return pages, nil
}

// GetPage получает одну страницу книги по номеру
func (r *bookPageRepository) GetPage(ctx context.Context, bookID string, pageNumber int) (*entity.BookPage, error) {
	filter := bson.M{"booksId": bookID, "pageNumber": pageNumber}

	var page entity.BookPage
	err := r.collection.FindOne(ctx, filter).Decode(&page)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPageNotFound
		}
		return nil, fmt.Errorf("failed to get book page: %w", err)
	}

	return &page, nil
}
