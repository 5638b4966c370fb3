package repository

import (
	"context"
	"errors"
	"fmt"

	"pustakago/background-worker-service/internal/app/background-worker/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrBookNotFound - книга отсутствует в коллекции books
	ErrBookNotFound = errors.New("book not found")
)

type bookAggregateRepository struct {
	collection *mongo.Collection
}

// NewBookAggregateRepository создает репозиторий агрегатов рейтинга книг
func NewBookAggregateRepository(db *mongo.Database) BookAggregateRepository {
	return &bookAggregateRepository{
		collection: db.Collection("books"),
	}
}

// GetAggregate получает поля агрегата рейтинга из документа книги
func (r *bookAggregateRepository) GetAggregate(ctx context.Context, bookID string) (*entity.BookAggregate, error) {
	var aggregate entity.BookAggregate
	err := r.collection.FindOne(ctx, bson.M{"_id": bookID}).Decode(&aggregate)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book aggregate: %w", err)
	}

	return &aggregate, nil
}

// ReplaceAggregate перезаписывает агрегат книги значениями, пересчитанными
// по коллекции reviews. В отличие от инкрементального пути Library Service
// здесь выполняется полный $set: сверка владеет истиной целиком
func (r *bookAggregateRepository) ReplaceAggregate(ctx context.Context, bookID string, summary entity.RatingSummary) error {
	histogram := summary.Histogram
	if histogram == nil {
		histogram = map[string]int{}
	}

	update := bson.M{"$set": bson.M{
		"ratingSum":        summary.Sum,
		"reviewCount":      summary.Count,
		"ratingHistogram":  histogram,
		"averageRating":    summary.Average(),
		"latestReviewText": summary.LatestText,
	}}

	result, err := r.collection.UpdateByID(ctx, bookID, update)
	if err != nil {
		return fmt.Errorf("failed to replace book aggregate: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrBookNotFound
	}

	return nil
}
