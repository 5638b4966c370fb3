package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pustakago/library-service/internal/app/library/entity"
	"pustakago/library-service/internal/app/library/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) SubmitReview(ctx context.Context, userID, userName string, req *entity.SubmitReviewRequest) (*entity.Review, error) {
	args := m.Called(ctx, userID, userName, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *MockReviewService) GetBookReviews(ctx context.Context, bookID string) ([]entity.Review, error) {
	args := m.Called(ctx, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Review), args.Error(1)
}

func (m *MockReviewService) GetUserReview(ctx context.Context, userID, bookID string) (*entity.Review, error) {
	args := m.Called(ctx, userID, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *MockReviewService) DeleteReview(ctx context.Context, reviewID, userID string) error {
	args := m.Called(ctx, reviewID, userID)
	return args.Error(0)
}

// fakeAuth подставляет пользователя в контекст вместо проверки JWT
func fakeAuth(userID, displayName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("display_name", displayName)
		c.Next()
	}
}

func setupReviewRouter(mockService *MockReviewService, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewReviewHandler(mockService)

	authed := router.Group("")
	if userID != "" {
		authed.Use(fakeAuth(userID, "Andi"))
	}
	authed.POST("/reviews", h.SubmitReview)
	authed.GET("/books/:book_id/reviews", h.GetBookReviews)
	authed.GET("/books/:book_id/reviews/me", h.GetMyReview)
	authed.DELETE("/reviews/:review_id", h.DeleteReview)

	return router
}

func TestSubmitReviewHandler_Created(t *testing.T) {
	mockService := new(MockReviewService)
	router := setupReviewRouter(mockService, "user-1")

	review := &entity.Review{
		ID:        primitive.NewObjectID(),
		BookID:    "book-1",
		UserID:    "user-1",
		UserName:  "Andi",
		Rating:    5,
		Text:      "Cerita yang sangat menginspirasi.",
		CreatedAt: time.Now(),
	}
	mockService.On("SubmitReview", mock.Anything, "user-1", "Andi", mock.AnythingOfType("*entity.SubmitReviewRequest")).Return(review, nil)

	body, _ := json.Marshal(entity.SubmitReviewRequest{BookID: "book-1", Rating: 5, Text: "Cerita yang sangat menginspirasi."})
	req, _ := http.NewRequest(http.MethodPost, "/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var result entity.Review
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 5, result.Rating)
}

func TestSubmitReviewHandler_Unauthorized(t *testing.T) {
	mockService := new(MockReviewService)
	router := setupReviewRouter(mockService, "")

	body, _ := json.Marshal(entity.SubmitReviewRequest{BookID: "book-1", Rating: 5, Text: "Cerita yang sangat menginspirasi."})
	req, _ := http.NewRequest(http.MethodPost, "/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertNotCalled(t, "SubmitReview", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitReviewHandler_ValidationFailsOnBadRating(t *testing.T) {
	mockService := new(MockReviewService)
	router := setupReviewRouter(mockService, "user-1")

	// Оценка вне диапазона отклоняется валидатором до вызова сервиса
	body, _ := json.Marshal(entity.SubmitReviewRequest{BookID: "book-1", Rating: 6, Text: "Penilaian di luar jangkauan."})
	req, _ := http.NewRequest(http.MethodPost, "/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "SubmitReview", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitReviewHandler_ShortTextRejected(t *testing.T) {
	mockService := new(MockReviewService)
	router := setupReviewRouter(mockService, "user-1")

	body, _ := json.Marshal(entity.SubmitReviewRequest{BookID: "book-1", Rating: 4, Text: "Bagus"})
	req, _ := http.NewRequest(http.MethodPost, "/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitReviewHandler_BookNotFound(t *testing.T) {
	mockService := new(MockReviewService)
	router := setupReviewRouter(mockService, "user-1")

	mockService.On("SubmitReview", mock.Anything, "user-1", "Andi", mock.Anything).Return(nil, service.ErrBookNotFound)

	body, _ := json.Marshal(entity.SubmitReviewRequest{BookID: "missing", Rating: 4, Text: "Buku ini tidak ada di katalog."})
	req, _ := http.NewRequest(http.MethodPost, "/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetBookReviewsHandler_Success(t *testing.T) {
	mockService := new(MockReviewService)
	router := setupReviewRouter(mockService, "user-1")

	reviews := []entity.Review{
		{ID: primitive.NewObjectID(), BookID: "book-1", Rating: 5},
		{ID: primitive.NewObjectID(), BookID: "book-1", Rating: 4},
	}
	mockService.On("GetBookReviews", mock.Anything, "book-1").Return(reviews, nil)

	req, _ := http.NewRequest(http.MethodGet, "/books/book-1/reviews", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response entity.ReviewListResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 2, response.Total)
}

func TestGetMyReviewHandler_NotFound(t *testing.T) {
	mockService := new(MockReviewService)
	router := setupReviewRouter(mockService, "user-1")

	mockService.On("GetUserReview", mock.Anything, "user-1", "book-1").Return(nil, service.ErrReviewNotFound)

	req, _ := http.NewRequest(http.MethodGet, "/books/book-1/reviews/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteReviewHandler_Forbidden(t *testing.T) {
	mockService := new(MockReviewService)
	router := setupReviewRouter(mockService, "user-1")

	reviewID := primitive.NewObjectID().Hex()
	mockService.On("DeleteReview", mock.Anything, reviewID, "user-1").Return(service.ErrUnauthorized)

	req, _ := http.NewRequest(http.MethodDelete, "/reviews/"+reviewID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteReviewHandler_Success(t *testing.T) {
	mockService := new(MockReviewService)
	router := setupReviewRouter(mockService, "user-1")

	reviewID := primitive.NewObjectID().Hex()
	mockService.On("DeleteReview", mock.Anything, reviewID, "user-1").Return(nil)

	req, _ := http.NewRequest(http.MethodDelete, "/reviews/"+reviewID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
