package handler

import (
	"context"
	"errors"
	"net/http"

	"pustakago/library-service/internal/app/library/entity"
	"pustakago/library-service/internal/app/library/service"

	"github.com/gin-gonic/gin"
)

type BookmarkServiceInterface interface {
	AddBookmark(ctx context.Context, userID, bookID string) error
	RemoveBookmark(ctx context.Context, userID, bookID string) error
	ToggleBookmark(ctx context.Context, userID, bookID string) (bool, error)
	IsBookmarked(ctx context.Context, userID, bookID string) (bool, error)
}

type MarklistServiceInterface interface {
	GetMarkedBooks(ctx context.Context, userID string) ([]entity.Book, error)
}

type BookmarkHandler struct {
	bookmarkService BookmarkServiceInterface
	marklistService MarklistServiceInterface
}

func NewBookmarkHandler(bookmarkService BookmarkServiceInterface, marklistService MarklistServiceInterface) *BookmarkHandler {
	return &BookmarkHandler{
		bookmarkService: bookmarkService,
		marklistService: marklistService,
	}
}

// AddBookmark добавляет книгу в закладки текущего пользователя
func (h *BookmarkHandler) AddBookmark(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	bookID := c.Param("book_id")
	if bookID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Book ID is required"})
		return
	}

	if err := h.bookmarkService.AddBookmark(c.Request.Context(), userID, bookID); err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add bookmark"})
		return
	}

	c.JSON(http.StatusCreated, entity.BookmarkStatusResponse{
		BookID:     bookID,
		Bookmarked: true,
	})
}

// RemoveBookmark убирает книгу из закладок текущего пользователя
func (h *BookmarkHandler) RemoveBookmark(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	bookID := c.Param("book_id")
	if bookID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Book ID is required"})
		return
	}

	if err := h.bookmarkService.RemoveBookmark(c.Request.Context(), userID, bookID); err != nil {
		if errors.Is(err, service.ErrBookmarkNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Bookmark not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove bookmark"})
		return
	}

	c.JSON(http.StatusOK, entity.BookmarkStatusResponse{
		BookID:     bookID,
		Bookmarked: false,
	})
}

// ToggleBookmark переключает состояние закладки
func (h *BookmarkHandler) ToggleBookmark(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	bookID := c.Param("book_id")
	if bookID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Book ID is required"})
		return
	}

	marked, err := h.bookmarkService.ToggleBookmark(c.Request.Context(), userID, bookID)
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle bookmark"})
		return
	}

	c.JSON(http.StatusOK, entity.BookmarkStatusResponse{
		BookID:     bookID,
		Bookmarked: marked,
	})
}

// GetBookmarkStatus проверяет, есть ли книга в закладках пользователя
func (h *BookmarkHandler) GetBookmarkStatus(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	bookID := c.Param("book_id")
	if bookID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Book ID is required"})
		return
	}

	marked, err := h.bookmarkService.IsBookmarked(c.Request.Context(), userID, bookID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check bookmark"})
		return
	}

	c.JSON(http.StatusOK, entity.BookmarkStatusResponse{
		BookID:     bookID,
		Bookmarked: marked,
	})
}

// GetMarkedBooks возвращает книги в закладках текущего пользователя
func (h *BookmarkHandler) GetMarkedBooks(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	books, err := h.marklistService.GetMarkedBooks(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get marked books"})
		return
	}

	c.JSON(http.StatusOK, entity.BookListResponse{
		Books: books,
		Total: len(books),
	})
}
