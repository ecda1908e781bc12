package services

import (
	"context"
	"errors"
	"time"

	"github.com/nimasrn/record-shop/internal/changefeed"
	"github.com/nimasrn/record-shop/pkg/logger"
	"github.com/nimasrn/record-shop/pkg/prom"
)

// changes collects the events of one operation. They are published only
// after the transaction commits.
type changes struct {
	events []changefeed.Event
}

func (c *changes) add(entity string, action changefeed.Action, id int64, data any) {
	ev, err := changefeed.NewEvent(entity, action, id, data)
	if err != nil {
		logger.Warn("failed to build change event", "entity", entity, "id", id, "error", err)
		return
	}
	c.events = append(c.events, ev)
}

// publish never fails the caller: the write is already committed.
func publish(ctx context.Context, feed changefeed.Publisher, c *changes) {
	if feed == nil || len(c.events) == 0 {
		return
	}
	if err := feed.Publish(ctx, c.events...); err != nil {
		logger.Warn("failed to publish change events", "count", len(c.events), "error", err)
	}
}

func observe(entity, operation string, start time.Time, err error) {
	prom.ObserveEntityOperation(entity, operation, outcome(err), time.Since(start).Seconds())
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	var svcErr *Error
	if errors.As(err, &svcErr) {
		switch svcErr.Kind {
		case ErrValidation:
			return "validation"
		case ErrNotFound:
			return "not_found"
		case ErrReference:
			return "reference"
		case ErrConflict:
			return "conflict"
		}
	}
	return "internal"
}
