// Package events announces stored profile revisions on a Kafka topic.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/expertprofile/internal/logging"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const TypeProfileUpdated = "profile.updated"

type ProfileUpdated struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	Version    int64     `json:"version"`
	OccurredAt time.Time `json:"occurred_at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
	now    func() time.Time
}

func NewKafkaPublisher(brokers []string, topic string, logger logging.Logger) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		MaxAttempts:  3,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		Logger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Debug(context.Background(), fmt.Sprintf(msg, args...))
		}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Error(context.Background(), fmt.Sprintf(msg, args...))
		}),
	}
	return &KafkaPublisher{writer: w, now: time.Now}
}

// PublishProfileUpdated keys the message by user id so revisions of one
// user land on the same partition in order.
func (p *KafkaPublisher) PublishProfileUpdated(ctx context.Context, userID string, version int64) error {
	ev := ProfileUpdated{
		EventID:    uuid.NewString(),
		Type:       TypeProfileUpdated,
		UserID:     userID,
		Version:    version,
		OccurredAt: p.now().UTC(),
	}
	value, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(userID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(TypeProfileUpdated)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

type Nop struct{}

func (Nop) PublishProfileUpdated(context.Context, string, int64) error { return nil }
func (Nop) Close() error                                               { return nil }
