package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Book документ книги в коллекции books.
// Поля агрегата рейтинга (averageRating, reviewCount, ratingHistogram,
// latestReviewText) именуются как в существующих документах хранилища;
// ratingSum - целочисленная сумма оценок, из которой выводится среднее
type Book struct {
	ID               string         `json:"id" bson:"_id,omitempty"`
	Title            string         `json:"title" bson:"title"`
	Author           string         `json:"author" bson:"author"`
	Year             int            `json:"year" bson:"year"`
	Pages            int            `json:"pages" bson:"pages"`
	Description      string         `json:"description" bson:"description"`
	ImageURL         string         `json:"image_url" bson:"imageUrl"`
	Categories       []string       `json:"categories" bson:"category"`
	AverageRating    float64        `json:"average_rating" bson:"averageRating"`
	RatingSum        int            `json:"rating_sum" bson:"ratingSum"`
	ReviewCount      int            `json:"review_count" bson:"reviewCount"`
	RatingHistogram  map[string]int `json:"rating_histogram" bson:"ratingHistogram"`
	LatestReviewText string         `json:"latest_review_text" bson:"latestReviewText"`
}

// Review отзыв пользователя о книге, отдельная коллекция reviews
type Review struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	BookID    string             `json:"book_id" bson:"book_id"`
	UserID    string             `json:"user_id" bson:"user_id"`
	UserName  string             `json:"user_name" bson:"user_name"`
	Rating    int                `json:"rating" bson:"rating"` // Оценка от 1 до 5
	Text      string             `json:"text" bson:"text"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// Bookmark закладка пользователя на книгу
type Bookmark struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    string             `json:"user_id" bson:"user_id"`
	BookID    string             `json:"book_id" bson:"book_id"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// BookPage страница книги из коллекции books_pages
// (имена bson-полей сохранены как в существующих документах)
type BookPage struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	BookID     string             `json:"book_id" bson:"booksId"`
	Chapter    string             `json:"chapter" bson:"chapter"`
	Title      string             `json:"title" bson:"title"`
	Content    string             `json:"content" bson:"content"`
	PageNumber int                `json:"page_number" bson:"pageNumber"`
}

// ReviewEvent событие об отзыве для Kafka (топик review_events)
type ReviewEvent struct {
	EventType string    `json:"event_type"` // REVIEW_CREATED или REVIEW_UPDATED
	ReviewID  string    `json:"review_id"`
	BookID    string    `json:"book_id"`
	UserID    string    `json:"user_id"`
	Rating    int       `json:"rating"`
	OldRating int       `json:"old_rating,omitempty"` // прежняя оценка при REVIEW_UPDATED
	Timestamp time.Time `json:"timestamp"`
}

const (
	ReviewEventCreated = "REVIEW_CREATED"
	ReviewEventUpdated = "REVIEW_UPDATED"
)
