package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// HTTP Метрики (общие для всех сервисов)
// =============================================================================

// HttpRequestsTotal - счётчик всех HTTP запросов
// Labels: service, method, path, status
var HttpRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	},
	[]string{"service", "method", "path", "status"},
)

// HttpRequestDuration - гистограмма времени ответа
// Пример: histogram_quantile(0.95, rate(http_request_duration_seconds_bucket[5m]))
var HttpRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name: "http_request_duration_seconds",
		Help: "Duration of HTTP requests in seconds",
		// Бакеты от 1ms до 10s
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	},
	[]string{"service", "method", "path"},
)

// HttpRequestsInFlight - текущее количество обрабатываемых запросов
var HttpRequestsInFlight = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Current number of HTTP requests being processed",
	},
	[]string{"service"},
)

// =============================================================================
// Database Метрики (MongoDB и PostgreSQL)
// =============================================================================

// DbQueryDuration - время выполнения запросов к базе
var DbQueryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database queries in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	},
	[]string{"service", "operation", "collection"},
)

// DbErrors - счётчик ошибок базы данных
var DbErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "db_errors_total",
		Help: "Total number of database errors",
	},
	[]string{"service", "operation"},
)

// =============================================================================
// Redis Метрики
// =============================================================================

// RedisCacheHits - попадания в кеш
var RedisCacheHits = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_cache_hits_total",
		Help: "Total number of Redis cache hits",
	},
	[]string{"service", "key_prefix"},
)

// RedisCacheMisses - промахи кеша
var RedisCacheMisses = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_cache_misses_total",
		Help: "Total number of Redis cache misses",
	},
	[]string{"service", "key_prefix"},
)

// RedisErrors - ошибки Redis
var RedisErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_errors_total",
		Help: "Total number of Redis errors",
	},
	[]string{"service", "operation"},
)

// =============================================================================
// Kafka Метрики
// =============================================================================

// KafkaMessagesProduced - отправленные сообщения
var KafkaMessagesProduced = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_messages_produced_total",
		Help: "Total number of Kafka messages produced",
	},
	[]string{"service", "topic"},
)

// KafkaMessagesConsumed - полученные сообщения
var KafkaMessagesConsumed = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_messages_consumed_total",
		Help: "Total number of Kafka messages consumed",
	},
	[]string{"service", "topic", "group"},
)

// KafkaErrors - ошибки Kafka
var KafkaErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_errors_total",
		Help: "Total number of Kafka errors",
	},
	[]string{"service", "topic", "operation"}, // operation: produce, consume
)

// =============================================================================
// Business Метрики (специфичные для Pustakago)
// =============================================================================

// --- Library Service ---

// ReviewsCreated - созданные отзывы
var ReviewsCreated = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "reviews_created_total",
		Help: "Total number of reviews created",
	},
)

// ReviewsReplaced - отзывы, заменившие прежнюю оценку того же пользователя
var ReviewsReplaced = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "reviews_replaced_total",
		Help: "Total number of reviews that replaced a prior rating",
	},
)

// ReviewsRating - распределение оценок
var ReviewsRating = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "reviews_rating",
		Help:    "Distribution of review ratings",
		Buckets: []float64{1, 2, 3, 4, 5},
	},
)

// BookmarksToggled - операции с закладками
var BookmarksToggled = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "bookmarks_toggled_total",
		Help: "Total number of bookmark add/remove operations",
	},
	[]string{"action"}, // add, remove
)

// BookmarkEventsPublished - события, отправленные во внутреннюю шину
var BookmarkEventsPublished = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "bookmark_events_published_total",
		Help: "Total number of bookmark events published to the in-process bus",
	},
	[]string{"type"}, // BOOKMARK_ADDED, BOOKMARK_REMOVED
)

// MarklistRefreshes - перечитывания списка закладок по событиям шины
var MarklistRefreshes = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "marklist_refreshes_total",
		Help: "Total number of marked-books snapshot refreshes",
	},
	[]string{"status"}, // success, failed
)

// --- News Service ---

// NewsViews - просмотры новостей
var NewsViews = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "news_views_total",
		Help: "Total number of news article views",
	},
)

// --- Background Worker ---

// WorkerReconcileRuns - запуски сверки агрегатов рейтинга
var WorkerReconcileRuns = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "worker_reconcile_runs_total",
		Help: "Total number of rating aggregate reconciliation runs",
	},
	[]string{"status"}, // success, failed
)

// WorkerAggregatesRepaired - исправленные расхождения агрегатов
var WorkerAggregatesRepaired = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "worker_aggregates_repaired_total",
		Help: "Total number of book rating aggregates repaired",
	},
)

// WorkerReconcileDuration - время сверки одной книги
var WorkerReconcileDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "worker_reconcile_duration_seconds",
		Help:    "Duration of a single book reconciliation",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
	},
)
