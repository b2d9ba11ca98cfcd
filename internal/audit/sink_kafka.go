package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"solidario/internal/platform/kafka/producer"
)

// TopicAuditEvents is the Kafka topic audit events are mirrored to for
// downstream consumers (analytics, institutional reporting).
const TopicAuditEvents = "solidario.audit.events"

// KafkaSink mirrors audit events to Kafka. Delivery is fire-and-forget: the
// durable record is the store, the topic is a feed.
type KafkaSink struct {
	producer *producer.Producer
}

func NewKafkaSink(p *producer.Producer) *KafkaSink {
	return &KafkaSink{producer: p}
}

func (s *KafkaSink) Send(_ context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal audit event: %w", err)
	}
	return s.producer.ProduceAsync(&producer.Message{
		Topic: TopicAuditEvents,
		Key:   []byte(event.ActorID),
		Value: payload,
		Headers: map[string]string{
			"action": string(event.Action),
		},
	})
}

var _ Sink = (*KafkaSink)(nil)
