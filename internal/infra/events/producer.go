package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

// Producer публикует доменные события в Kafka
type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer создает синхронного продюсера для топика
func NewProducer(brokers []string, topic string, writeTimeout time.Duration) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		// Публикация синхронная и идёт по одному событию, поэтому батч не копится
		BatchSize:    1,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: writeTimeout,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}

	return &Producer{writer: writer, topic: topic}
}

// Publish отправляет событие
func (p *Producer) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncodeEvent, err)
	}

	message := kafka.Message{
		Key:   []byte(event.Key()),
		Value: data,
		Time:  event.OccurredAt,
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("%w: topic=%s type=%s: %v", ErrPublish, p.topic, event.Type, err)
	}

	return nil
}

// Close дожидается отправки буфера и закрывает соединения
func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
