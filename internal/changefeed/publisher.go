package changefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nimasrn/record-shop/pkg/redis"
)

type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
}

// NoopPublisher drops every event. It is used when Redis is not configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, ...Event) error { return nil }

type StreamConfig struct {
	Stream string
	MaxLen int64
}

// StreamPublisher appends events to a Redis stream, one entry per event.
type StreamPublisher struct {
	adapter redis.RedisAdapter
	config  StreamConfig
}

func NewStreamPublisher(adapter redis.RedisAdapter, config StreamConfig) (*StreamPublisher, error) {
	if config.Stream == "" {
		return nil, fmt.Errorf("stream name is required")
	}
	return &StreamPublisher{adapter: adapter, config: config}, nil
}

func (p *StreamPublisher) Publish(ctx context.Context, events ...Event) error {
	for _, ev := range events {
		body, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("failed to marshal event %s: %w", ev, err)
		}

		values := map[string]interface{}{
			"data":        string(body),
			"timestamp":   ev.OccurredAt.Format(time.RFC3339Nano),
			"meta_entity": ev.Entity,
			"meta_action": string(ev.Action),
		}
		if _, err := p.adapter.XAdd(ctx, p.config.Stream, p.config.MaxLen, values); err != nil {
			return fmt.Errorf("failed to publish event %s: %w", ev, err)
		}
	}
	return nil
}
