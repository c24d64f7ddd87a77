// Worker consumes purchase events from Kafka and pushes them to Loki.
// Set KAFKA_BROKERS, PURCHASE_EVENTS_TOPIC, KAFKA_GROUP_ID, and LOKI_URL.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"ecoharmony-park/backend/internal/config"
	"ecoharmony-park/backend/internal/telemetry/loki"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	brokers := cfg.KafkaBrokersList()
	if len(brokers) == 0 {
		log.Fatal("worker: KAFKA_BROKERS is required")
	}
	if cfg.LokiURL == "" {
		log.Fatal("worker: LOKI_URL is required")
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ConsumerGroup(cfg.KafkaGroupID),
		kgo.ConsumeTopics(cfg.PurchaseEventsTopic),
		kgo.AutoCommitInterval(time.Second),
	)
	if err != nil {
		log.Fatalf("worker: kafka client: %v", err)
	}
	defer client.Close()

	lokiClient := loki.NewClient(cfg.LokiURL, nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("worker: consuming from %s (group %s), pushing to %s", cfg.PurchaseEventsTopic, cfg.KafkaGroupID, cfg.LokiURL)

	for {
		fetches := client.PollFetches(ctx)
		if ctx.Err() != nil || fetches.IsClientClosed() {
			log.Println("worker: stopped")
			return
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			log.Printf("worker: kafka fetch error on %s/%d: %v", topic, partition, err)
		})
		fetches.EachRecord(func(rec *kgo.Record) {
			pushCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			if err := lokiClient.PushEventJSON(pushCtx, rec.Value); err != nil {
				log.Printf("worker: loki push failed: %v", err)
			}
		})
	}
}
