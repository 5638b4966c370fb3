package handler

import (
	"context"
	"errors"
	"net/http"

	"pustakago/news-service/internal/app/news/entity"
	"pustakago/news-service/internal/app/news/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type NewsServiceInterface interface {
	GetAllNews(ctx context.Context) ([]entity.News, error)
	GetLatestNews(ctx context.Context) ([]entity.News, error)
	GetBreakingNews(ctx context.Context) ([]entity.News, error)
	GetTrendingNews(ctx context.Context) ([]entity.News, error)
	GetNewsByCategory(ctx context.Context, category string) ([]entity.News, error)
	GetNews(ctx context.Context, id uuid.UUID) (*entity.News, error)
	SearchNews(ctx context.Context, query string) ([]entity.News, error)
}

type NewsHandler struct {
	newsService NewsServiceInterface
}

func NewNewsHandler(newsService NewsServiceInterface) *NewsHandler {
	return &NewsHandler{
		newsService: newsService,
	}
}

// GetAll возвращает все новости
func (h *NewsHandler) GetAll(c *gin.Context) {
	news, err := h.newsService.GetAllNews(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get news"})
		return
	}

	c.JSON(http.StatusOK, entity.NewsListResponse{News: news, Total: len(news)})
}

// GetLatest возвращает последние новости
func (h *NewsHandler) GetLatest(c *gin.Context) {
	news, err := h.newsService.GetLatestNews(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get latest news"})
		return
	}

	c.JSON(http.StatusOK, entity.NewsListResponse{News: news, Total: len(news)})
}

// GetBreaking возвращает срочные новости
func (h *NewsHandler) GetBreaking(c *gin.Context) {
	news, err := h.newsService.GetBreakingNews(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get breaking news"})
		return
	}

	c.JSON(http.StatusOK, entity.NewsListResponse{News: news, Total: len(news)})
}

// GetTrending возвращает самые просматриваемые новости (кеш Redis)
func (h *NewsHandler) GetTrending(c *gin.Context) {
	news, err := h.newsService.GetTrendingNews(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get trending news"})
		return
	}

	c.JSON(http.StatusOK, entity.NewsListResponse{News: news, Total: len(news)})
}

// GetByCategory возвращает новости указанной категории
func (h *NewsHandler) GetByCategory(c *gin.Context) {
	category := c.Param("category")
	if category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category is required"})
		return
	}

	news, err := h.newsService.GetNewsByCategory(c.Request.Context(), category)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get news"})
		return
	}

	c.JSON(http.StatusOK, entity.NewsListResponse{News: news, Total: len(news)})
}

// GetByID возвращает новость по ID и учитывает просмотр
func (h *NewsHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("news_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid news ID"})
		return
	}

	news, err := h.newsService.GetNews(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNewsNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "News not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get news"})
		return
	}

	c.JSON(http.StatusOK, news)
}

// Search ищет новости по заголовку и содержимому
func (h *NewsHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search query is required"})
		return
	}

	news, err := h.newsService.SearchNews(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search news"})
		return
	}

	c.JSON(http.StatusOK, entity.NewsListResponse{News: news, Total: len(news)})
}
