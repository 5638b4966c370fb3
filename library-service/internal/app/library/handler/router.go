package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pustakago/pkg/logger"
	"pustakago/pkg/metrics"
)

// SetupRoutes настраивает все маршруты Library Service с использованием Gin
func SetupRoutes(
	bookHandler *BookHandler,
	reviewHandler *ReviewHandler,
	bookmarkHandler *BookmarkHandler,
	authMiddleware *AuthMiddleware,
) *gin.Engine {
	router := gin.New()

	// Recovery middleware для обработки panic
	router.Use(gin.Recovery())

	// JSON logging middleware для HTTP-запросов
	router.Use(logger.GinLoggerMiddleware())

	// Prometheus metrics middleware
	router.Use(metrics.GinPrometheusMiddleware("library-service"))

	// CORS настройки
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposeHeaders:    []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "library-service",
		})
	})

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Books endpoints - каталог доступен всем аутентифицированным пользователям
	books := router.Group("/books")
	books.Use(authMiddleware.Authenticate())
	{
		books.GET("", bookHandler.GetCatalog)                          // Каталог книг (кеш Redis)
		books.GET("/search", bookHandler.Search)                       // Поиск по названию и автору
		books.GET("/category/:category", bookHandler.GetByCategory)    // Книги категории
		books.GET("/:book_id", bookHandler.GetBook)                    // Книга по ID
		books.GET("/:book_id/pages", bookHandler.GetPages)             // Страницы для режима чтения
		books.GET("/:book_id/pages/:page_number", bookHandler.GetPage) // Одна страница
		books.GET("/:book_id/reviews", reviewHandler.GetBookReviews)   // Отзывы о книге
		books.GET("/:book_id/reviews/me", reviewHandler.GetMyReview)   // Отзыв текущего пользователя
	}

	// Reviews endpoints
	reviews := router.Group("/reviews")
	reviews.Use(authMiddleware.Authenticate())
	{
		reviews.POST("", reviewHandler.SubmitReview) // Создать или заменить отзыв
		reviews.DELETE("/:review_id", reviewHandler.DeleteReview)
	}

	// Bookmarks endpoints
	bookmarks := router.Group("/bookmarks")
	bookmarks.Use(authMiddleware.Authenticate())
	{
		bookmarks.GET("", bookmarkHandler.GetMarkedBooks) // Книги в закладках
		bookmarks.POST("/:book_id", bookmarkHandler.AddBookmark)
		bookmarks.DELETE("/:book_id", bookmarkHandler.RemoveBookmark)
		bookmarks.POST("/:book_id/toggle", bookmarkHandler.ToggleBookmark)
		bookmarks.GET("/:book_id/status", bookmarkHandler.GetBookmarkStatus)
	}

	return router
}
