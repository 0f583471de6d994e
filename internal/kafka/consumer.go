package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Domenick1991/farescope/internal/logging"
	"github.com/segmentio/kafka-go"
)

type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, groupID, topic string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// ConsumeSearchEvents blocks until ctx is done or handle fails. Messages that
// are not search events are logged and skipped.
func (c *Consumer) ConsumeSearchEvents(ctx context.Context, handle func(context.Context, SearchEvent) error) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}

		event, ok := DecodeSearchEvent(msg.Value)
		if !ok {
			logging.Warn("skipping undecodable kafka message", "topic", msg.Topic, "offset", msg.Offset)
			continue
		}

		if err := handle(ctx, event); err != nil {
			return err
		}
	}
}

func DecodeSearchEvent(data []byte) (SearchEvent, bool) {
	var event SearchEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return SearchEvent{}, false
	}
	if event.Type != EventSearchCompleted {
		return SearchEvent{}, false
	}
	return event, true
}
