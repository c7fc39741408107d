package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Publisher интерфейс публикации событий
type Publisher interface {
	Publish(ctx context.Context, event Envelope) error
	Close() error
}

// KafkaPublisher публикует события записи в Kafka.
// Публикация best-effort: запись уже зафиксирована в БД, и ошибка
// брокера не должна откатывать бизнес-операцию. Вызывающий код
// логирует ошибку и продолжает работу.
type KafkaPublisher struct {
	writer *kafka.Writer
	log    Logger
}

// NewKafkaPublisher создает издателя событий для указанных брокеров и топика
func NewKafkaPublisher(brokers []string, topic string, log Logger) *KafkaPublisher {
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:      brokers,
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		WriteTimeout: 5 * time.Second,
	})

	return &KafkaPublisher{
		writer: writer,
		log:    log,
	}
}

// Publish отправляет событие в Kafka.
// Ключ сообщения - service_id, чтобы события по одной услуге
// попадали в одну партицию и сохраняли порядок.
func (p *KafkaPublisher) Publish(ctx context.Context, event Envelope) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events: marshal event %s: %w", event.EventType, err)
	}

	key := []byte(strconv.FormatInt(event.Payload.ServiceID, 10))

	msg := kafka.Message{
		Key:   key,
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.EventID)},
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("events: write message %s: %w", event.EventType, err)
	}

	p.log.Info("Published event %s id=%s", event.EventType, event.EventID)
	return nil
}

// Close закрывает соединение с брокерами
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher заглушка для окружений без Kafka
type NoopPublisher struct{}

// NewNoopPublisher создает издателя, который ничего не публикует
func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

func (p *NoopPublisher) Publish(_ context.Context, _ Envelope) error {
	return nil
}

func (p *NoopPublisher) Close() error {
	return nil
}
