package changefeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nimasrn/record-shop/pkg/logger"
	"github.com/nimasrn/record-shop/pkg/redis"
)

// Message is one delivery of an event. Attempts counts earlier deliveries
// that were not acknowledged.
type Message struct {
	StreamID string
	Event    Event
	Attempts int64
}

// Handler processes one message. A nil error acknowledges it; any other
// error leaves it pending so it is redelivered after the visibility timeout.
type Handler func(ctx context.Context, msg *Message) error

type ConsumerConfig struct {
	Stream            string
	Group             string
	Consumer          string
	MaxRetries        int64
	VisibilityTimeout time.Duration
	PollInterval      time.Duration
	BatchSize         int64
	EnableDLQ         bool
}

type Consumer struct {
	adapter redis.RedisAdapter
	config  ConsumerConfig
	handler Handler
	wg      sync.WaitGroup
}

// NewConsumer fills config defaults and makes sure the consumer group exists.
func NewConsumer(ctx context.Context, adapter redis.RedisAdapter, config ConsumerConfig) (*Consumer, error) {
	if config.Stream == "" {
		return nil, fmt.Errorf("stream name is required")
	}
	if config.Group == "" {
		config.Group = "default-group"
	}
	if config.Consumer == "" {
		config.Consumer = fmt.Sprintf("consumer-%d", time.Now().UnixNano())
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	if config.VisibilityTimeout == 0 {
		config.VisibilityTimeout = 30 * time.Second
	}
	if config.PollInterval == 0 {
		config.PollInterval = time.Second
	}
	if config.BatchSize == 0 {
		config.BatchSize = 10
	}

	if err := adapter.XGroupCreateMkStream(ctx, config.Stream, config.Group, "0"); err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &Consumer{adapter: adapter, config: config}, nil
}

// Start consumes in the background until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context, handler Handler) error {
	if handler == nil {
		return fmt.Errorf("message handler is required")
	}
	c.handler = handler

	c.wg.Add(1)
	go c.consumeLoop(ctx)
	return nil
}

func (c *Consumer) consumeLoop(ctx context.Context) {
	defer c.wg.Done()

	for ctx.Err() == nil {
		c.processNew(ctx)
		c.claimStuck(ctx)
	}
}

// Wait blocks until the consume loop has returned. In-flight handlers
// finish first.
func (c *Consumer) Wait() {
	c.wg.Wait()
}

func (c *Consumer) processNew(ctx context.Context) {
	entries, err := c.adapter.XReadGroup(ctx, c.config.Group, c.config.Consumer, c.config.Stream, c.config.BatchSize, c.config.PollInterval)
	if err != nil {
		if !errors.Is(err, redis.NilError) && ctx.Err() == nil {
			logger.Warn("changefeed read failed", "stream", c.config.Stream, "error", err)
			sleep(ctx, c.config.PollInterval)
		}
		return
	}

	for _, entry := range entries {
		c.handle(ctx, entry, 0)
	}
}

func (c *Consumer) claimStuck(ctx context.Context) {
	pending, err := c.adapter.XPendingExt(ctx, c.config.Stream, c.config.Group, 100)
	if err != nil || len(pending) == 0 {
		return
	}

	for _, p := range pending {
		if p.Idle < c.config.VisibilityTimeout {
			continue
		}

		claimed, err := c.adapter.XClaim(ctx, c.config.Stream, c.config.Group, c.config.Consumer, c.config.VisibilityTimeout, p.ID)
		if err != nil || len(claimed) == 0 {
			continue
		}

		// RetryCount is the number of deliveries so far
		if p.RetryCount >= c.config.MaxRetries {
			c.deadLetter(ctx, claimed[0], p.RetryCount)
			continue
		}
		c.handle(ctx, claimed[0], p.RetryCount)
	}
}

func (c *Consumer) handle(ctx context.Context, entry redis.StreamMessage, attempts int64) {
	ev, err := decodeEntry(entry)
	if err != nil {
		logger.Error("dropping undecodable changefeed entry", "stream_id", entry.ID, "error", err)
		c.deadLetter(ctx, entry, attempts)
		return
	}

	hctx, cancel := context.WithTimeout(ctx, c.config.VisibilityTimeout)
	defer cancel()

	msg := &Message{StreamID: entry.ID, Event: ev, Attempts: attempts}
	if err := c.handler(hctx, msg); err != nil {
		logger.Warn("changefeed handler failed", "event", ev.String(), "attempts", attempts, "error", err)
		return
	}

	if err := c.adapter.XAck(ctx, c.config.Stream, c.config.Group, entry.ID); err != nil {
		logger.Error("changefeed ack failed", "stream_id", entry.ID, "error", err)
	}
}

func (c *Consumer) deadLetter(ctx context.Context, entry redis.StreamMessage, attempts int64) {
	if c.config.EnableDLQ {
		values := map[string]interface{}{
			"original_id":    entry.ID,
			"attempts":       attempts,
			"failed_at":      time.Now().Unix(),
			"original_queue": c.config.Stream,
		}
		if data, ok := entry.Values["data"]; ok {
			values["data"] = data
		}
		if _, err := c.adapter.XAdd(ctx, c.config.Stream+":dlq", 0, values); err != nil {
			logger.Error("changefeed dead letter failed", "stream_id", entry.ID, "error", err)
			return
		}
	}
	_ = c.adapter.XAck(ctx, c.config.Stream, c.config.Group, entry.ID)
}

func decodeEntry(entry redis.StreamMessage) (Event, error) {
	var ev Event
	raw, ok := entry.Values["data"].(string)
	if !ok {
		return ev, fmt.Errorf("entry %s has no data field", entry.ID)
	}
	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		return ev, fmt.Errorf("entry %s: %w", entry.ID, err)
	}
	return ev, nil
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
