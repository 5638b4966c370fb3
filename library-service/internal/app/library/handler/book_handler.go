package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"pustakago/library-service/internal/app/library/entity"
	"pustakago/library-service/internal/app/library/service"

	"github.com/gin-gonic/gin"
)

type BookServiceInterface interface {
	GetCatalog(ctx context.Context) ([]entity.Book, error)
	GetBook(ctx context.Context, id string) (*entity.Book, error)
	GetBooksByCategory(ctx context.Context, category string) ([]entity.Book, error)
	SearchBooks(ctx context.Context, query string) ([]entity.Book, error)
	GetBookPages(ctx context.Context, bookID string) ([]entity.BookPage, error)
	GetBookPage(ctx context.Context, bookID string, pageNumber int) (*entity.BookPage, error)
}

type BookHandler struct {
	bookService BookServiceInterface
}

func NewBookHandler(bookService BookServiceInterface) *BookHandler {
	return &BookHandler{
		bookService: bookService,
	}
}

// GetCatalog возвращает все книги каталога
func (h *BookHandler) GetCatalog(c *gin.Context) {
	books, err := h.bookService.GetCatalog(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get books"})
		return
	}

	c.JSON(http.StatusOK, entity.BookListResponse{
		Books: books,
		Total: len(books),
	})
}

// GetBook возвращает книгу по ID
func (h *BookHandler) GetBook(c *gin.Context) {
	bookID := c.Param("book_id")
	if bookID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Book ID is required"})
		return
	}

	book, err := h.bookService.GetBook(c.Request.Context(), bookID)
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get book"})
		return
	}

	c.JSON(http.StatusOK, book)
}

// GetByCategory возвращает книги указанной категории
func (h *BookHandler) GetByCategory(c *gin.Context) {
	category := c.Param("category")
	if category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category is required"})
		return
	}

	books, err := h.bookService.GetBooksByCategory(c.Request.Context(), category)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get books"})
		return
	}

	c.JSON(http.StatusOK, entity.BookListResponse{
		Books: books,
		Total: len(books),
	})
}

// Search ищет книги по названию или автору
func (h *BookHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search query is required"})
		return
	}

	books, err := h.bookService.SearchBooks(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search books"})
		return
	}

	c.JSON(http.StatusOK, entity.BookListResponse{
		Books: books,
		Total: len(books),
	})
}

// GetPages возвращает все страницы книги для режима чтения
func (h *BookHandler) GetPages(c *gin.Context) {
	bookID := c.Param("book_id")
	if bookID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Book ID is required"})
		return
	}

	pages, err := h.bookService.GetBookPages(c.Request.Context(), bookID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get book pages"})
		return
	}

	c.JSON(http.StatusOK, entity.PageListResponse{
		Pages: pages,
		Total: len(pages),
	})
}

// GetPage возвращает одну страницу книги по номеру
func (h *BookHandler) GetPage(c *gin.Context) {
	bookID := c.Param("book_id")
	if bookID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Book ID is required"})
		return
	}

	pageNumber, err := strconv.Atoi(c.Param("page_number"))
	if err != nil || pageNumber < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page number"})
		return
	}

	page, err := h.bookService.GetBookPage(c.Request.Context(), bookID, pageNumber)
	if err != nil {
		if errors.Is(err, service.ErrPageNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Page not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get page"})
		return
	}

	c.JSON(http.StatusOK, page)
}
