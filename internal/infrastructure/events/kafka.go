package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"petchef/internal/infrastructure/config"
	"petchef/internal/pkg/common"
)

// KafkaPublisher 以 sarama SyncProducer 發佈事件，key 為實體 id
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaPublisher 連線 Kafka
func NewKafkaPublisher(cfg config.EventsConfig) (*KafkaPublisher, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Producer.Retry.Backoff = 100 * time.Millisecond
	saramaConfig.Producer.Return.Successes = true // SyncProducer 必須為 true
	saramaConfig.Net.DialTimeout = 10 * time.Second
	saramaConfig.Net.ReadTimeout = 10 * time.Second
	saramaConfig.Net.WriteTimeout = 10 * time.Second

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	common.LogInfo("Kafka publisher created",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic", cfg.Topic),
	)
	return NewKafkaPublisherWithProducer(producer, cfg.Topic), nil
}

// NewKafkaPublisherWithProducer 使用既有的 producer
func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

// Publish 送出事件
func (k *KafkaPublisher) Publish(ctx context.Context, ev Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	partition, offset, err := k.producer.SendMessage(&sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(ev.EntityID),
		Value: sarama.ByteEncoder(msg),
	})
	if err != nil {
		return fmt.Errorf("failed to send event to topic %s: %w", k.topic, err)
	}

	common.LogDebug("Event published",
		zap.String("type", string(ev.Type)),
		zap.String("entity_id", ev.EntityID),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset),
	)
	return nil
}

// Close 關閉 producer
func (k *KafkaPublisher) Close() error {
	return k.producer.Close()
}

// NewPublisher 依設定建立發佈者
func NewPublisher(cfg config.EventsConfig) (Publisher, error) {
	if !cfg.Enabled {
		return NoopPublisher{}, nil
	}
	kp, err := NewKafkaPublisher(cfg)
	if err != nil {
		return nil, err
	}
	return kp, nil
}
