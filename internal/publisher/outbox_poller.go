package publisher

import (
	"context"
	"log"
	"time"

	"github.com/gourav6746-ai/Thulodeal/internal/orders"
	"github.com/segmentio/kafka-go"
)

const topic = "order-events"

// EventWriter is satisfied by *kafka.Writer.
type EventWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// OutboxPoller drains the order outbox into Kafka. Rows are marked
// processed only after a successful publish, so a crash between the two
// re-delivers rather than drops.
type OutboxPoller struct {
	tick   time.Duration
	repo   orders.OrderRepository
	writer EventWriter
}

func NewOutboxPoller(repo orders.OrderRepository, brokers ...string) *OutboxPoller {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &OutboxPoller{tick: time.Second, repo: repo, writer: w}
}

func (p *OutboxPoller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.processUnpublishedEvents(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (p *OutboxPoller) Close() {
	if w, ok := p.writer.(*kafka.Writer); ok {
		if err := w.Close(); err != nil {
			log.Printf("error closing kafka writer: %v", err)
		}
	}
}

func (p *OutboxPoller) processUnpublishedEvents(ctx context.Context) {
	events, err := p.repo.GetUnprocessedEvents(ctx, 100)
	if err != nil {
		log.Printf("failed to fetch outbox events %v", err)
		return
	}

	for _, event := range events {
		if errPublish := p.publish(ctx, event); errPublish != nil {
			log.Printf("failed to publish event id = %v with error %v", event.ID, errPublish)
			continue
		}

		if errMark := p.repo.MarkEventAsProcessed(ctx, event.ID); errMark != nil {
			log.Printf("failed to mark event as processed id = %v with error %v", event.ID, errMark)
			continue
		}
	}
}

func (p *OutboxPoller) publish(ctx context.Context, event *orders.OutboxEvent) error {
	msg := kafka.Message{
		Key:   []byte(event.AggregateId), // order_id for ordering
		Value: event.Payload,             // Already JSON from database
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}

	return p.writer.WriteMessages(ctx, msg)
}
