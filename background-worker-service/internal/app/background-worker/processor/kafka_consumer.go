package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pustakago/background-worker-service/internal/app/background-worker/entity"
	"pustakago/background-worker-service/internal/app/background-worker/service"
	"pustakago/pkg/logger"
	"pustakago/pkg/metrics"

	"github.com/segmentio/kafka-go"
)

const consumerServiceName = "background-worker-service"

// KafkaConsumer обрабатывает события из Kafka топика review_events
type KafkaConsumer struct {
	reader       *kafka.Reader
	reconcileSvc service.ReconcileServiceInterface
	topic        string
	groupID      string
	stopChan     chan struct{}
	doneChan     chan struct{}
}

// NewKafkaConsumer создает новый Kafka consumer
func NewKafkaConsumer(
	brokers []string,
	topic string,
	groupID string,
	minBytes int,
	maxBytes int,
	reconcileSvc service.ReconcileServiceInterface,
) *KafkaConsumer {
	// Настраиваем Kafka reader
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		Topic:       topic,
		GroupID:     groupID,
		MinBytes:    minBytes,         // Минимум байт для fetch запроса
		MaxBytes:    maxBytes,         // Максимум байт для fetch запроса
		StartOffset: kafka.LastOffset, // Начинаем читать с последнего сообщения
		// Настройки для автоматического коммита offset
		CommitInterval: time.Second,
		// Таймауты
		ReadBackoffMin: 100 * time.Millisecond,
		ReadBackoffMax: 1 * time.Second,
	})

	return &KafkaConsumer{
		reader:       reader,
		reconcileSvc: reconcileSvc,
		topic:        topic,
		groupID:      groupID,
		stopChan:     make(chan struct{}),
		doneChan:     make(chan struct{}),
	}
}

// Start запускает consumer в отдельной горутине
func (c *KafkaConsumer) Start(ctx context.Context) {
	logger.Info().
		Str("topic", c.topic).
		Str("group", c.groupID).
		Msg("Starting Kafka consumer")

	go c.consume(ctx)
}

// Stop останавливает consumer
func (c *KafkaConsumer) Stop() {
	logger.Info().Msg("Stopping Kafka consumer...")
	close(c.stopChan)
	<-c.doneChan
	c.reader.Close()
	logger.Info().Msg("Kafka consumer stopped")
}

// consume читает и обрабатывает сообщения из Kafka
func (c *KafkaConsumer) consume(ctx context.Context) {
	defer close(c.doneChan)

	for {
		select {
		case <-c.stopChan:
			return
		default:
			// Читаем сообщение с таймаутом
			readCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			message, err := c.reader.FetchMessage(readCtx)
			cancel()

			if err != nil {
				// Если контекст был отменен, выходим
				if ctx.Err() != nil {
					return
				}

				// Логируем ошибку и продолжаем
				logger.Error().Err(err).Msg("Error fetching message")
				metrics.RecordKafkaError(consumerServiceName, c.topic, "consume")
				time.Sleep(time.Second)
				continue
			}

			// Обрабатываем сообщение
			if err := c.processMessage(ctx, message); err != nil {
				logger.Error().
					Err(err).
					Int64("offset", message.Offset).
					Msg("Error processing message")
				metrics.RecordKafkaError(consumerServiceName, c.topic, "consume")
				// Не коммитим offset при ошибке - сообщение будет повторно обработано
			} else {
				metrics.RecordKafkaMessageConsumed(consumerServiceName, c.topic, c.groupID)
				// Коммитим offset после успешной обработки
				if err := c.reader.CommitMessages(ctx, message); err != nil {
					logger.Error().Err(err).Msg("Error committing message")
				}
			}
		}
	}
}

// processMessage обрабатывает одно сообщение из Kafka
func (c *KafkaConsumer) processMessage(ctx context.Context, message kafka.Message) error {
	// Парсим событие отзыва
	var event entity.ReviewEvent
	if err := json.Unmarshal(message.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal review event: %w", err)
	}

	logger.Info().
		Str("event_type", event.EventType).
		Str("book_id", event.BookID).
		Int64("offset", message.Offset).
		Int("partition", message.Partition).
		Msg("Received review event")

	// Обрабатываем событие
	if err := c.reconcileSvc.ProcessReviewEvent(ctx, &event); err != nil {
		return fmt.Errorf("failed to process review event: %w", err)
	}

	return nil
}

// GetStats возвращает статистику consumer
func (c *KafkaConsumer) GetStats() kafka.ReaderStats {
	return c.reader.Stats()
}
