package producer

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"ecoharmony-park/backend/internal/logging"
	"ecoharmony-park/backend/internal/telemetry"
)

const writeTimeout = 5 * time.Second

// recordProducer is the part of *kgo.Client used by KafkaProducer.
type recordProducer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

// KafkaProducer implements Producer using twmb/franz-go.
type KafkaProducer struct {
	client    recordProducer
	topic     string
	closeOnce sync.Once
}

// NewKafkaProducer creates a Kafka producer that writes purchase events to topic.
// It returns (nil, nil) when brokers or topic are empty so callers can treat Kafka as optional.
// Call Close when shutting down.
func NewKafkaProducer(brokers []string, topic string) (*KafkaProducer, error) {
	if len(brokers) == 0 || topic == "" {
		return nil, nil
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerLinger(50*time.Millisecond),
	)
	if err != nil {
		return nil, err
	}
	return &KafkaProducer{client: client, topic: topic}, nil
}

// Emit serializes the event as JSON and writes it to the topic, keyed by event type.
// The email is redacted before it leaves the process.
func (p *KafkaProducer) Emit(ctx context.Context, event *telemetry.PurchaseEvent) error {
	if p == nil || p.client == nil || event == nil {
		return nil
	}
	out := *event
	if out.Email != "" {
		out.Email = logging.RedactEmail(out.Email)
	}
	payload, err := json.Marshal(out)
	if err != nil {
		return err
	}
	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	rec := &kgo.Record{Topic: p.topic, Key: []byte(out.Type), Value: payload}
	if err := p.client.ProduceSync(writeCtx, rec).FirstErr(); err != nil {
		log.Printf("telemetry: kafka emit failed: %v", err)
		return err
	}
	return nil
}

// Close closes the Kafka client. Safe to call multiple times.
func (p *KafkaProducer) Close() error {
	if p == nil || p.client == nil {
		return nil
	}
	p.closeOnce.Do(p.client.Close)
	return nil
}
