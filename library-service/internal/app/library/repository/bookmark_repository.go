package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrBookmarkNotFound = errors.New("bookmark not found")
)

type bookmarkRepository struct {
	collection *mongo.Collection
}

// NewBookmarkRepository создает новый репозиторий закладок
// Уникальный индекс (user_id, book_id) делает добавление идемпотентным
func NewBookmarkRepository(db *mongo.Database) BookmarkRepository {
	collection := db.Collection("bookmarks")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "book_id", Value: 1},
		},
		Options: options.Index().SetName("user_book_idx").SetUnique(true),
	}

	_, err := collection.Indexes().CreateOne(ctx, indexModel)
	if err != nil {
		fmt.Printf("Warning: failed to create index on user_id, book_id: %v\n", err)
	}

	return &bookmarkRepository{
		collection: collection,
	}
}

// Add добавляет закладку; повторное добавление той же книги не ошибка.
// По UpsertedCount видно, вставился ли новый документ или закладка уже была
func (r *bookmarkRepository) Add(ctx context.Context, userID, bookID string) (bool, error) {
	filter := bson.M{"user_id": userID, "book_id": bookID}
	update := bson.M{
		"$setOnInsert": bson.M{
			"user_id":    userID,
			"book_id":    bookID,
			"created_at": time.Now(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, fmt.Errorf("failed to add bookmark: %w", err)
	}

	return result.UpsertedCount > 0, nil
}

// Remove удаляет закладку пользователя
func (r *bookmarkRepository) Remove(ctx context.Context, userID, bookID string) error {
	filter := bson.M{"user_id": userID, "book_id": bookID}

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to remove bookmark: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrBookmarkNotFound
	}

	return nil
}

// ListBookIDs получает ID всех книг в закладках пользователя, свежие первыми
func (r *bookmarkRepository) ListBookIDs(ctx context.Context, userID string) ([]string, error) {
	filter := bson.M{"user_id": userID}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookmarks: %w", err)
	}
	defer cursor.Close(ctx)

	var bookIDs []string
	for cursor.Next(ctx) {
		var bookmark struct {
			BookID string `bson:"book_id"`
		}
		if err := cursor.Decode(&bookmark); err != nil {
			return nil, fmt.Errorf("failed to decode bookmark: %w", err)
		}
		bookIDs = append(bookIDs, bookmark.BookID)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookmarks: %w", err)
	}

	return bookIDs, nil
}

// Exists проверяет, есть ли книга в закладках пользователя
func (r *bookmarkRepository) Exists(ctx context.Context, userID, bookID string) (bool, error) {
	filter := bson.M{"user_id": userID, "book_id": bookID}

	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check bookmark: %w", err)
	}

	return count > 0, nil
}
