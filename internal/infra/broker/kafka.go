package broker

import (
	"context"

	"reservation-engine/internal/infra/outbox"
	"reservation-engine/internal/pkg/config"
	"reservation-engine/internal/pkg/errs"

	"github.com/IBM/sarama"
)

const eventSource = "app://reservation-engine"

// KafkaPublisher sends outbox messages to one topic, keyed by resource so per-resource order holds.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

func NewKafkaPublisher(cfg config.KafkaConfig) (*KafkaPublisher, error) {
	sc := sarama.NewConfig()
	sc.ClientID = cfg.ClientID
	sc.Producer.RequiredAcks = sarama.WaitForAll
	sc.Producer.Idempotent = true
	sc.Producer.Return.Successes = true
	sc.Net.MaxOpenRequests = 1

	producer, err := sarama.NewSyncProducer(cfg.Brokers, sc)
	if err != nil {
		return nil, errs.Wrap(err, "create kafka producer")
	}
	return NewKafkaPublisherWithProducer(producer, cfg.Topic), nil
}

func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) Publish(_ context.Context, msg outbox.Message) error {
	pm := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(msg.Key),
		Value:     sarama.ByteEncoder(msg.Payload),
		Headers:   Headers(msg),
		Timestamp: msg.OccurredAt,
	}
	if _, _, err := p.producer.SendMessage(pm); err != nil {
		return errs.Wrapf(err, "publish %s %s", msg.EventType, msg.ID)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	if p.producer == nil {
		return nil
	}
	return p.producer.Close()
}

// Headers carries the CloudEvents binary-mode attributes.
func Headers(msg outbox.Message) []sarama.RecordHeader {
	return []sarama.RecordHeader{
		{Key: []byte("ce_specversion"), Value: []byte("1.0")},
		{Key: []byte("ce_id"), Value: []byte(msg.ID.String())},
		{Key: []byte("ce_type"), Value: []byte(msg.EventType)},
		{Key: []byte("ce_source"), Value: []byte(eventSource)},
		{Key: []byte("ce_subject"), Value: []byte(msg.AggregateID)},
		{Key: []byte("ce_time"), Value: []byte(msg.OccurredAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"))},
		{Key: []byte("content-type"), Value: []byte("application/json")},
	}
}
