// internal/app/system/notify/kafka.go
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Audiences of a published notice.
const (
	AudienceAdmins = "admins"
	AudienceUser   = "user"
)

// Message is the JSON value written to the topic. Key is the related
// document id so all events of one document land on one partition.
type Message struct {
	ID           string    `json:"id"`
	Audience     string    `json:"audience"`
	Recipient    string    `json:"recipient,omitempty"`
	Type         string    `json:"type"`
	Title        string    `json:"title"`
	Message      string    `json:"message"`
	RelatedID    string    `json:"related_id,omitempty"`
	RelatedModel string    `json:"related_model,omitempty"`
	Priority     string    `json:"priority,omitempty"`
	At           time.Time `json:"at"`
}

// MessageWriter is satisfied by *kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaConfig configures the publisher.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// KafkaPublisher streams notices to a Kafka topic for downstream consumers
// (email, push, analytics).
type KafkaPublisher struct {
	w MessageWriter
}

// NewKafkaPublisher builds a synchronous writer that waits for all
// in-sync replicas.
func NewKafkaPublisher(cfg KafkaConfig) *KafkaPublisher {
	return NewKafkaPublisherWithWriter(&kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
		Async:        false,
	})
}

func NewKafkaPublisherWithWriter(w MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{w: w}
}

func (p *KafkaPublisher) NotifyAdmins(ctx context.Context, n Notice) error {
	return p.publish(ctx, AudienceAdmins, primitive.NilObjectID, n)
}

func (p *KafkaPublisher) NotifyUser(ctx context.Context, user primitive.ObjectID, n Notice) error {
	return p.publish(ctx, AudienceUser, user, n)
}

// Close flushes and closes the writer.
func (p *KafkaPublisher) Close() error {
	if p == nil || p.w == nil {
		return nil
	}
	return p.w.Close()
}

func (p *KafkaPublisher) publish(ctx context.Context, audience string, recipient primitive.ObjectID, n Notice) error {
	m := Message{
		ID:           uuid.NewString(),
		Audience:     audience,
		Type:         n.Type,
		Title:        n.Title,
		Message:      n.Message,
		RelatedModel: n.RelatedModel,
		Priority:     n.Priority,
		At:           time.Now().UTC(),
	}
	if !recipient.IsZero() {
		m.Recipient = recipient.Hex()
	}
	if !n.RelatedID.IsZero() {
		m.RelatedID = n.RelatedID.Hex()
	}

	value, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode notice: %w", err)
	}
	key := m.RelatedID
	if key == "" {
		key = m.ID
	}
	if err := p.w.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: value}); err != nil {
		return fmt.Errorf("publish notice: %w", err)
	}
	return nil
}
