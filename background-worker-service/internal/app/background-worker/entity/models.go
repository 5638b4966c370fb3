package entity

import "time"

// ReviewEvent событие об отзыве из Kafka (топик review_events)
// Формат совпадает с событиями, которые публикует Library Service
type ReviewEvent struct {
	EventType string    `json:"event_type"` // REVIEW_CREATED или REVIEW_UPDATED
	ReviewID  string    `json:"review_id"`
	BookID    string    `json:"book_id"`
	UserID    string    `json:"user_id"`
	Rating    int       `json:"rating"`
	OldRating int       `json:"old_rating,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	ReviewEventCreated = "REVIEW_CREATED"
	ReviewEventUpdated = "REVIEW_UPDATED"
)

// BookAggregate денормализованный агрегат рейтинга книги из коллекции books.
// Имена bson-полей совпадают с документами Library Service
type BookAggregate struct {
	ID               string         `bson:"_id"`
	AverageRating    float64        `bson:"averageRating"`
	RatingSum        int            `bson:"ratingSum"`
	ReviewCount      int            `bson:"reviewCount"`
	RatingHistogram  map[string]int `bson:"ratingHistogram"`
	LatestReviewText string         `bson:"latestReviewText"`
}

// RatingSummary пересчитанный по коллекции reviews агрегат рейтинга:
// источник истины, с которым сверяется денормализованный документ книги
type RatingSummary struct {
	Sum        int
	Count      int
	Histogram  map[string]int
	LatestText string
}

// Average среднее значение рейтинга в диапазоне [0, 5]
func (s RatingSummary) Average() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.Sum) / float64(s.Count)
}
