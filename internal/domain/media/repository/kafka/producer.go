// Package kafka contains the download event producer
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"

	"github.com/yourusername/media-saver-bot/config"
	"github.com/yourusername/media-saver-bot/internal/domain/media/deps"
	"github.com/yourusername/media-saver-bot/internal/domain/media/dto"
	"github.com/yourusername/media-saver-bot/internal/domain/media/entities"
)

// Topics for download lifecycle events
const (
	TopicDownloadsCompleted = "downloads.completed"
	TopicDownloadsFailed    = "downloads.failed"
)

// Producer implements deps.DownloadEventProducer over a sarama sync
// producer. Event publishing is best-effort analytics: the pipeline never
// blocks on it.
type Producer struct {
	producer sarama.SyncProducer
	logger   zerolog.Logger
}

// NewProducer creates a Kafka producer, or a disabled no-op one when no
// brokers are configured.
func NewProducer(cfg *config.KafkaConfig, logger zerolog.Logger) (deps.DownloadEventProducer, error) {
	if len(cfg.Brokers) == 0 {
		logger.Info().Msg("No Kafka brokers configured, download events disabled")
		return &noopProducer{}, nil
	}

	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Compression = sarama.CompressionSnappy

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Info().Strs("brokers", cfg.Brokers).Msg("Kafka producer initialized successfully")

	return &Producer{
		producer: producer,
		logger:   logger,
	}, nil
}

// SendDownloadCompleted publishes a successful download event
func (p *Producer) SendDownloadCompleted(ctx context.Context, download *entities.Download) error {
	event := dto.DownloadCompletedEvent{
		ChatID:      download.ChatID,
		MediaURL:    download.MediaURL,
		Status:      download.Status,
		MediaCount:  download.MediaCount,
		MediaTypes:  download.MediaTypes,
		FileSizesMB: download.FileSizesMB,
		CompletedAt: time.Now().UTC().Format(time.RFC3339),
	}
	return p.sendEvent(ctx, TopicDownloadsCompleted, event)
}

// SendDownloadFailed publishes a failed download event
func (p *Producer) SendDownloadFailed(ctx context.Context, download *entities.Download) error {
	event := dto.DownloadFailedEvent{
		ChatID:   download.ChatID,
		MediaURL: download.MediaURL,
		Status:   download.Status,
		Error:    download.ErrorMessage,
		FailedAt: time.Now().UTC().Format(time.RFC3339),
	}
	return p.sendEvent(ctx, TopicDownloadsFailed, event)
}

// Close closes the producer
func (p *Producer) Close() error {
	return p.producer.Close()
}

// sendEvent sends an event to the specified Kafka topic
func (p *Producer) sendEvent(_ context.Context, topic string, event interface{}) error {
	jsonData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event to JSON: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(jsonData),
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		p.logger.Error().Err(err).Str("topic", topic).Msg("Failed to send Kafka message")
		return err
	}

	p.logger.Debug().
		Str("topic", topic).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("Kafka message sent")

	return nil
}

// noopProducer satisfies deps.DownloadEventProducer when Kafka is not
// configured
type noopProducer struct{}

func (*noopProducer) SendDownloadCompleted(context.Context, *entities.Download) error { return nil }
func (*noopProducer) SendDownloadFailed(context.Context, *entities.Download) error    { return nil }
func (*noopProducer) Close() error                                                    { return nil }
