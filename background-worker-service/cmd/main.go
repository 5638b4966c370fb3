package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pustakago/background-worker-service/internal/app/background-worker/config"
	"pustakago/background-worker-service/internal/app/background-worker/handler"
	"pustakago/background-worker-service/internal/app/background-worker/processor"
	"pustakago/background-worker-service/internal/app/background-worker/repository"
	"pustakago/background-worker-service/internal/app/background-worker/service"
	"pustakago/pkg/logger"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logger.Init("background-worker-service", logLevel)
	logger.Info().Msg("Starting Background Worker Service...")

	// Создаем основной контекст приложения
	ctx := context.Background()

	// === ПОДКЛЮЧЕНИЕ К MONGODB ===
	// Используем БД Library Service для сверки агрегатов рейтинга
	mongoClient, err := connectMongoDB(ctx, cfg.MongoDB)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer mongoClient.Disconnect(ctx)
	db := mongoClient.Database(cfg.MongoDB.Database)
	logger.Info().Str("database", cfg.MongoDB.Database).Msg("Connected to MongoDB")

	// === ПОДКЛЮЧЕНИЕ К REDIS ===
	// Redis хранит очередь книг, ожидающих сверки
	redisClient, err := connectRedis(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()
	logger.Info().Str("addr", cfg.Redis.Address()).Msg("Connected to Redis")

	// === ИНИЦИАЛИЗАЦИЯ РЕПОЗИТОРИЕВ ===
	bookRepo := repository.NewBookAggregateRepository(db)
	reviewRepo := repository.NewReviewSummaryRepository(db)
	dirtyRepo := repository.NewDirtyBookRepository(redisClient)

	// === ИНИЦИАЛИЗАЦИЯ СЕРВИСОВ ===
	reconcileSvc := service.NewReconcileService(
		bookRepo,
		reviewRepo,
		dirtyRepo,
		cfg.CronSchedule.BatchSize,
	)

	// === ИНИЦИАЛИЗАЦИЯ KAFKA CONSUMER ===
	kafkaConsumer := processor.NewKafkaConsumer(
		cfg.Kafka.Brokers,
		cfg.Kafka.Topic,
		cfg.Kafka.GroupID,
		cfg.Kafka.MinBytes,
		cfg.Kafka.MaxBytes,
		reconcileSvc,
	)

	// Запускаем Kafka consumer
	kafkaConsumer.Start(ctx)
	defer kafkaConsumer.Stop()
	logger.Info().
		Str("topic", cfg.Kafka.Topic).
		Str("group", cfg.Kafka.GroupID).
		Msg("Kafka consumer started")

	// === ИНИЦИАЛИЗАЦИЯ CRON SCHEDULER ===
	cronScheduler := processor.NewCronScheduler(reconcileSvc)

	// Запускаем cron для периодической сверки агрегатов
	if err := cronScheduler.Start(ctx, cfg.CronSchedule.Reconcile); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start cron scheduler")
	}
	defer cronScheduler.Stop()
	logger.Info().Str("schedule", cfg.CronSchedule.Reconcile).Msg("Cron scheduler started")

	// === ИНИЦИАЛИЗАЦИЯ HEALTHCHECK HTTP СЕРВЕРА ===
	healthHandler := handler.NewHealthCheckHandler(mongoClient, redisClient, reconcileSvc)

	mux := http.NewServeMux()
	healthHandler.RegisterRoutes(mux)

	// Prometheus metrics endpoint
	mux.Handle("/metrics", promhttp.Handler())

	httpServer := &http.Server{
		Addr:    ":" + cfg.Health.Port,
		Handler: mux,
	}

	// Запускаем HTTP сервер в отдельной горутине
	go func() {
		logger.Info().Str("port", cfg.Health.Port).Msg("Starting healthcheck HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("HTTP server error")
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	// === ЗАПУСК ЗАВЕРШЕН ===
	logger.Info().Msg("Background Worker Service is running")
	logger.Info().Msg("Waiting for review events from Kafka...")

	// === GRACEFUL SHUTDOWN ===
	// Ожидаем сигнала завершения (SIGINT или SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Background Worker Service...")
}

// connectMongoDB устанавливает соединение с MongoDB с retry logic
func connectMongoDB(ctx context.Context, cfg config.MongoDBConfig) (*mongo.Client, error) {
	var client *mongo.Client
	var err error

	for i := 0; i < 10; i++ {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		client, err = mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
		if err == nil {
			err = client.Ping(connectCtx, nil)
		}
		cancel()

		if err == nil {
			return client, nil
		}

		logger.Warn().
			Int("attempt", i+1).
			Err(err).
			Msg("Failed to connect to MongoDB, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect to MongoDB after 10 attempts: %w", err)
}

// connectRedis устанавливает соединение с Redis
func connectRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	// Проверяем соединение с retry logic
	for i := 0; i < 10; i++ {
		if err := client.Ping(ctx).Err(); err == nil {
			return client, nil
		}
		logger.Warn().Int("attempt", i+1).Msg("Failed to connect to Redis, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect to Redis after 10 attempts")
}
