package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pustakago/pkg/logger"
	"pustakago/pkg/metrics"
)

// SetupRoutes настраивает все маршруты News Service с использованием Gin
func SetupRoutes(newsHandler *NewsHandler, authMiddleware *AuthMiddleware) *gin.Engine {
	router := gin.New()

	// Recovery middleware для обработки panic
	router.Use(gin.Recovery())

	// JSON logging middleware для HTTP-запросов
	router.Use(logger.GinLoggerMiddleware())

	// Prometheus metrics middleware
	router.Use(metrics.GinPrometheusMiddleware("news-service"))

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
			"service": "news-service",
		})
	})

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// News endpoints
	news := router.Group("/news")
	news.Use(authMiddleware.Authenticate())
	{
		news.GET("", newsHandler.GetAll)
		news.GET("/latest", newsHandler.GetLatest)
		news.GET("/breaking", newsHandler.GetBreaking)
		news.GET("/trending", newsHandler.GetTrending) // Кеш Redis
		news.GET("/search", newsHandler.Search)
		news.GET("/category/:category", newsHandler.GetByCategory)
		news.GET("/:news_id", newsHandler.GetByID) // Увеличивает счетчик просмотров
	}

	return router
}
