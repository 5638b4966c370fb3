package config

import (
	"os"
	"strconv"
)

// Config содержит все настройки приложения Background Worker Service
// Включает конфигурацию для MongoDB, Redis, Kafka и расписания сверки агрегатов
type Config struct {
	MongoDB      MongoDBConfig
	Redis        RedisConfig
	Kafka        KafkaConfig
	CronSchedule CronScheduleConfig
	Health       HealthConfig
}

// MongoDBConfig - настройки подключения к MongoDB Library Service
// Используется для пересчета и починки агрегатов рейтинга книг
type MongoDBConfig struct {
	URI      string // URI подключения к MongoDB
	Database string // Имя базы данных (pustakago)
}

// RedisConfig - настройки подключения к Redis
// Используется для множества книг, ожидающих сверки агрегата
type RedisConfig struct {
	Host     string // Хост Redis
	Port     string // Порт Redis
	Password string // Пароль Redis
	DB       int    // Номер БД Redis (обычно 0)
}

// KafkaConfig - настройки Kafka для подписки на события
// Слушает топик review_events для обработки REVIEW_CREATED/REVIEW_UPDATED
type KafkaConfig struct {
	Brokers  []string // Список брокеров Kafka (формат: host:port)
	Topic    string   // Топик для прослушивания (review_events)
	GroupID  string   // ID группы потребителей для распределения нагрузки
	MinBytes int      // Минимум байт для fetch запроса
	MaxBytes int      // Максимум байт для fetch запроса
}

// CronScheduleConfig - настройки расписания cron задач
type CronScheduleConfig struct {
	Reconcile string // Расписание сверки агрегатов (например, "*/10 * * * *" каждые 10 минут)
	BatchSize int    // Сколько книг забирать из очереди за один запуск
}

// HealthConfig - настройки HTTP сервера healthcheck/metrics
type HealthConfig struct {
	Port string // Порт HTTP сервера
}

// Load загружает конфигурацию из переменных окружения
// Возвращает ошибку, если не удалось распарсить значения
func Load() (*Config, error) {
	return &Config{
		MongoDB: MongoDBConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DATABASE", "pustakago"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 1), // Отдельная БД для очереди сверки
		},
		Kafka: KafkaConfig{
			Brokers:  []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			Topic:    getEnv("KAFKA_TOPIC", "review_events"),
			GroupID:  getEnv("KAFKA_GROUP_ID", "background-worker-group"),
			MinBytes: getEnvInt("KAFKA_MIN_BYTES", 1),    // 1 byte minimum
			MaxBytes: getEnvInt("KAFKA_MAX_BYTES", 10e6), // 10MB maximum
		},
		CronSchedule: CronScheduleConfig{
			// По умолчанию сверяем агрегаты каждые 10 минут
			Reconcile: getEnv("CRON_RECONCILE", "*/10 * * * *"),
			BatchSize: getEnvInt("RECONCILE_BATCH_SIZE", 100),
		},
		Health: HealthConfig{
			Port: getEnv("HEALTH_PORT", "8083"),
		},
	}, nil
}

// Address возвращает адрес Redis в формате host:port
func (c *RedisConfig) Address() string {
	return c.Host + ":" + c.Port
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает значение переменной окружения как int
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
