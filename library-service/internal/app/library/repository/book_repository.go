package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"pustakago/library-service/internal/app/library/entity"
	"pustakago/library-service/internal/app/library/rating"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// Стандартные ошибки репозитория для обработки в service layer
	ErrBookNotFound = errors.New("book not found")
)

type bookRepository struct {
	collection *mongo.Collection
}

// NewBookRepository создает новый репозиторий книг
// Автоматически создает индекс по category для выборки по жанру
func NewBookRepository(db *mongo.Database) BookRepository {
	collection := db.Collection("books")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "category", Value: 1},
		},
		Options: options.Index().SetName("category_idx"),
	}

	_, err := collection.Indexes().CreateOne(ctx, indexModel)
	if err != nil {
		// Логируем ошибку, но не прерываем работу - индекс может уже существовать
		fmt.Printf("Warning: failed to create index on category: %v\n", err)
	}

	return &bookRepository{
		collection: collection,
	}
}

// GetAll получает все книги каталога
func (r *bookRepository) GetAll(ctx context.Context) ([]entity.Book, error) {
	opts := options.Find().SetSort(bson.D{{Key: "title", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find books: %w", err)
	}
	defer cursor.Close(ctx)

	var books []entity.Book
	if err := cursor.All(ctx, &books); err != nil {
		return nil, fmt.Errorf("failed to decode books: %w", err)
	}

	return books, nil
}

// GetByID получает книгу по ID документа
func (r *bookRepository) GetByID(ctx context.Context, id string) (*entity.Book, error) {
	var book entity.Book
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&book)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	return &book, nil
}

// GetByIDs получает книги по списку ID, порядок входного списка сохраняется
func (r *bookRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.Book, error) {
	if len(ids) == 0 {
		return []entity.Book{}, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to find books by ids: %w", err)
	}
	defer cursor.Close(ctx)

	var found []entity.Book
	if err := cursor.All(ctx, &found); err != nil {
		return nil, fmt.Errorf("failed to decode books: %w", err)
	}

	byID := make(map[string]entity.Book, len(found))
	for _, book := range found {
		byID[book.ID] = book
	}

	books := make([]entity.Book, 0, len(ids))
	for _, id := range ids {
		if book, ok := byID[id]; ok {
			books = append(books, book)
		}
	}

	return books, nil
}

// GetByCategory получает книги, относящиеся к жанру
// Использует индекс category_idx
func (r *bookRepository) GetByCategory(ctx context.Context, category string) ([]entity.Book, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"category": category})
	if err != nil {
		return nil, fmt.Errorf("failed to find books by category: %w", err)
	}
	defer cursor.Close(ctx)

	var books []entity.Book
	if err := cursor.All(ctx, &books); err != nil {
		return nil, fmt.Errorf("failed to decode books: %w", err)
	}

	return books, nil
}

// Search ищет книги по подстроке в названии или авторе без учета регистра
func (r *bookRepository) Search(ctx context.Context, query string) ([]entity.Book, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{
		"$or": []bson.M{
			{"title": pattern},
			{"author": pattern},
		},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search books: %w", err)
	}
	defer cursor.Close(ctx)

	var books []entity.Book
	if err := cursor.All(ctx, &books); err != nil {
		return nil, fmt.Errorf("failed to decode books: %w", err)
	}

	return books, nil
}

// ApplyRatingDelta применяет дельту агрегата рейтинга одним атомарным
// update-пайплайном: инкременты ratingSum, reviewCount и корзин гистограммы
// плюс пересчет averageRating из хранимой целочисленной суммы.
// Никакого read-modify-write всего документа - конкурентные оценки
// не затирают друг друга
func (r *bookRepository) ApplyRatingDelta(ctx context.Context, bookID string, delta rating.Delta, latestReviewText string) error {
	if delta.IsZero() && latestReviewText == "" {
		return nil
	}

	increments := bson.D{
		{Key: "ratingSum", Value: addExpr("$ratingSum", delta.Sum)},
		{Key: "reviewCount", Value: addExpr("$reviewCount", delta.Count)},
	}
	for bucket, inc := range delta.Buckets {
		if inc == 0 {
			continue
		}
		field := "ratingHistogram." + bucket
		increments = append(increments, bson.E{Key: field, Value: addExpr("$"+field, inc)})
	}
	if latestReviewText != "" {
		increments = append(increments, bson.E{
			Key:   "latestReviewText",
			Value: bson.D{{Key: "$literal", Value: latestReviewText}},
		})
	}

	// Второй $set видит уже обновленные ratingSum и reviewCount
	average := bson.D{{Key: "averageRating", Value: bson.D{{Key: "$cond", Value: bson.A{
		bson.D{{Key: "$gt", Value: bson.A{"$reviewCount", 0}}},
		bson.D{{Key: "$divide", Value: bson.A{"$ratingSum", "$reviewCount"}}},
		0,
	}}}}}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$set", Value: increments}},
		bson.D{{Key: "$set", Value: average}},
	}

	result, err := r.collection.UpdateByID(ctx, bookID, pipeline)
	if err != nil {
		return fmt.Errorf("failed to apply rating delta: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrBookNotFound
	}

	return nil
}

// addExpr выражение field + inc с подстановкой 0 вместо отсутствующего поля
func addExpr(fieldPath string, inc int) bson.D {
	return bson.D{{Key: "$add", Value: bson.A{
		bson.D{{Key: "$ifNull", Value: bson.A{fieldPath, 0}}},
		inc,
	}}}
}
