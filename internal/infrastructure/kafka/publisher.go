package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/afroo/afroo-hold-service/internal/domain"
	"github.com/segmentio/kafka-go"
)

type KafkaPublisher struct {
	writer *kafka.Writer
}

var _ domain.PublisherPort = (*KafkaPublisher)(nil)

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (k *KafkaPublisher) Publish(topic string, msgs ...domain.Message) error {
	var km []kafka.Message
	for _, m := range msgs {
		km = append(km, kafka.Message{
			Key:   m.Key,
			Value: m.Value,
			Time:  time.Now(),
		})
	}

	return k.writer.WriteMessages(context.Background(), km...)
}

func (k *KafkaPublisher) PublishHold(event HoldEvent) error {
	msg, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return k.writer.WriteMessages(context.Background(), kafka.Message{
		Key:   []byte(event.UserID),
		Value: msg,
		Time:  time.Now(),
	})
}
