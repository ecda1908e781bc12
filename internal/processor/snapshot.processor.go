package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nimasrn/record-shop/internal/changefeed"
	"github.com/nimasrn/record-shop/pkg/logger"
	"github.com/nimasrn/record-shop/pkg/redis"
)

const DefaultSnapshotPrefix = "snapshot:"

// Snapshot is the latest known state of one entity. Deleted snapshots are
// kept as tombstones so a late update cannot bring the row back.
type Snapshot struct {
	Entity     string            `json:"entity"`
	EntityID   int64             `json:"entity_id"`
	Action     changefeed.Action `json:"action"`
	EventID    string            `json:"event_id"`
	OccurredAt time.Time         `json:"occurred_at"`
	Data       json.RawMessage   `json:"data,omitempty"`
}

func (s Snapshot) Deleted() bool {
	return s.Action == changefeed.ActionDeleted
}

// SnapshotProcessor folds change events into one Redis key per entity row.
type SnapshotProcessor struct {
	redis       redis.RedisAdapter
	idempotency *IdempotencyService
	prefix      string
	ttl         time.Duration
}

func NewSnapshotProcessor(redisAdapter redis.RedisAdapter, idempotency *IdempotencyService, ttl time.Duration) *SnapshotProcessor {
	return &SnapshotProcessor{
		redis:       redisAdapter,
		idempotency: idempotency,
		prefix:      DefaultSnapshotPrefix,
		ttl:         ttl,
	}
}

func (p *SnapshotProcessor) GetType() string {
	return "snapshot"
}

// Process returns ErrAlreadyProcessed for a redelivered event; the caller
// acknowledges it.
func (p *SnapshotProcessor) Process(ctx context.Context, msg *changefeed.Message) error {
	ev := msg.Event

	procCtx, err := p.idempotency.AcquireProcessingLock(ctx, ev.ID, msg.Attempts)
	if err != nil {
		return err
	}
	defer func() {
		_ = p.idempotency.ReleaseLock(ctx, procCtx)
	}()

	logger.Info("applying change event",
		"event", ev.String(),
		"event_id", ev.ID,
		"occurred_at", ev.OccurredAt,
		"attempts", msg.Attempts)

	if err := p.apply(ctx, ev); err != nil {
		return err
	}

	if err := p.idempotency.MarkSuccess(ctx, procCtx); err != nil {
		// applying again is harmless, so this is not a failure
		logger.Warn("failed to mark event processed", "event_id", ev.ID, "error", err)
	}
	return nil
}

// applySnapshot stores ARGV[2] under field "data" unless the stored version
// is newer than ARGV[1]. Versions are fixed-width so string order is time
// order. ARGV[3] is the TTL in milliseconds, 0 for none.
var applySnapshot = redis.NewScript(`
local current = redis.call('HGET', KEYS[1], 'version')
if current and current > ARGV[1] then
	return 0
end
redis.call('HSET', KEYS[1], 'version', ARGV[1], 'data', ARGV[2])
if tonumber(ARGV[3]) > 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[3])
end
return 1
`)

func snapshotVersion(t time.Time) string {
	return fmt.Sprintf("%020d", t.UnixNano())
}

// apply runs as one script, so concurrent workers cannot let an older event
// overwrite a newer snapshot.
func (p *SnapshotProcessor) apply(ctx context.Context, ev changefeed.Event) error {
	key := p.key(ev.Entity, ev.EntityID)

	raw, err := json.Marshal(Snapshot{
		Entity:     ev.Entity,
		EntityID:   ev.EntityID,
		Action:     ev.Action,
		EventID:    ev.ID,
		OccurredAt: ev.OccurredAt,
		Data:       ev.Data,
	})
	if err != nil {
		return fmt.Errorf("marshal snapshot %s: %w", key, err)
	}

	res, err := p.redis.RunScript(ctx, applySnapshot, []string{key}, snapshotVersion(ev.OccurredAt), string(raw), p.ttl.Milliseconds())
	if err != nil {
		return fmt.Errorf("apply snapshot %s: %w", key, err)
	}
	if n, _ := res.(int64); n == 0 {
		logger.Debug("ignoring stale change event", "event", ev.String())
	}
	return nil
}

// Get returns nil when no event for the row has been applied.
func (p *SnapshotProcessor) Get(ctx context.Context, entity string, id int64) (*Snapshot, error) {
	raw, err := p.redis.HGet(ctx, p.key(entity, id), "data")
	if errors.Is(err, redis.NilError) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var s Snapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot %s:%d: %w", entity, id, err)
	}
	return &s, nil
}

func (p *SnapshotProcessor) key(entity string, id int64) string {
	return fmt.Sprintf("%s%s:%d", p.prefix, entity, id)
}
