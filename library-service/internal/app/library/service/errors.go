package service

import "errors"

// Ошибки бизнес-логики для обработки в handlers
var (
	ErrBookNotFound     = errors.New("book not found")
	ErrPageNotFound     = errors.New("book page not found")
	ErrReviewNotFound   = errors.New("review not found")
	ErrBookmarkNotFound = errors.New("bookmark not found")
	ErrInvalidRating    = errors.New("rating must be between 1 and 5")
	ErrUnauthorized     = errors.New("unauthorized access to review")
)

const serviceName = "library-service"
