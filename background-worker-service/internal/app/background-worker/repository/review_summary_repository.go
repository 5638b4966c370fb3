package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"pustakago/background-worker-service/internal/app/background-worker/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type reviewSummaryRepository struct {
	collection *mongo.Collection
}

// NewReviewSummaryRepository создает репозиторий пересчета агрегатов по отзывам
func NewReviewSummaryRepository(db *mongo.Database) ReviewSummaryRepository {
	return &reviewSummaryRepository{
		collection: db.Collection("reviews"),
	}
}

// ratingBucket результат $group по значению оценки
type ratingBucket struct {
	Rating int `bson:"_id"`
	Count  int `bson:"count"`
}

// Summarize пересчитывает агрегат рейтинга книги по коллекции reviews.
// Группировка выполняется на стороне MongoDB: по сети передается не больше
// пяти корзин вместо всех отзывов книги
func (r *reviewSummaryRepository) Summarize(ctx context.Context, bookID string) (entity.RatingSummary, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"book_id": bookID}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   "$rating",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return entity.RatingSummary{}, fmt.Errorf("failed to aggregate reviews: %w", err)
	}
	defer cursor.Close(ctx)

	var buckets []ratingBucket
	if err := cursor.All(ctx, &buckets); err != nil {
		return entity.RatingSummary{}, fmt.Errorf("failed to decode rating buckets: %w", err)
	}

	summary := entity.RatingSummary{Histogram: map[string]int{}}
	for _, bucket := range buckets {
		summary.Sum += bucket.Rating * bucket.Count
		summary.Count += bucket.Count
		summary.Histogram[strconv.Itoa(bucket.Rating)] = bucket.Count
	}

	if summary.Count > 0 {
		latest, err := r.latestReviewText(ctx, bookID)
		if err != nil {
			return entity.RatingSummary{}, err
		}
		summary.LatestText = latest
	}

	return summary, nil
}

// latestReviewText текст последнего по времени отзыва о книге
func (r *reviewSummaryRepository) latestReviewText(ctx context.Context, bookID string) (string, error) {
	opts := options.FindOne().
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetProjection(bson.M{"text": 1})

	var review struct {
		Text string `bson:"text"`
	}
	err := r.collection.FindOne(ctx, bson.M{"book_id": bookID}, opts).Decode(&review)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get latest review: %w", err)
	}

	return review.Text, nil
}
