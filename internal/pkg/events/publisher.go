// Package events publishes payroll domain events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fresco-hris/payroll-backend/internal/domain/payroll"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

const EventTypePayslipIssued = "payslip.issued"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

// NewKafkaWriter builds the writer used by KafkaPublisher.
func NewKafkaWriter(brokers []string) *kafkago.Writer {
	return &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
}

func NewKafkaPublisher(writer messageWriter, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, topic: topic}
}

// PublishPayslipIssued keys the message by user so one employee's events
// stay ordered on a single partition.
func (p *KafkaPublisher) PublishPayslipIssued(ctx context.Context, evt payroll.PayslipIssuedEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode payslip event: %w", err)
	}

	msg := kafkago.Message{
		Topic: p.topic,
		Key:   []byte(evt.UserID),
		Value: payload,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(EventTypePayslipIssued)},
			{Key: "event_id", Value: []byte(uuid.NewString())},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish payslip event: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishPayslipIssued(context.Context, payroll.PayslipIssuedEvent) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }
