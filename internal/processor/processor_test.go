package processor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nimasrn/record-shop/internal/changefeed"
	"github.com/nimasrn/record-shop/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func event(t *testing.T, entity string, action changefeed.Action, id int64, data any) changefeed.Event {
	t.Helper()
	ev, err := changefeed.NewEvent(entity, action, id, data)
	require.NoError(t, err)
	return ev
}

func TestSnapshotProcessor_Process(t *testing.T) {
	adapter, _ := setupTestRedis(t)
	p := NewSnapshotProcessor(adapter, NewIdempotencyService(adapter, DefaultIdempotencyConfig()), 0)
	ctx := context.Background()

	created := event(t, changefeed.EntityCustomer, changefeed.ActionCreated, 1, model.Customer{ID: 1, Name: "Jane"})
	require.NoError(t, p.Process(ctx, &changefeed.Message{Event: created}))

	snap, err := p.Get(ctx, changefeed.EntityCustomer, 1)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.False(t, snap.Deleted())
	assert.JSONEq(t, `{"id":1,"name":"Jane","email":"","phone_number":null,"address":null}`, string(snap.Data))

	t.Run("redelivery is skipped", func(t *testing.T) {
		err := p.Process(ctx, &changefeed.Message{Event: created, Attempts: 1})
		assert.ErrorIs(t, err, ErrAlreadyProcessed)
	})

	deleted := event(t, changefeed.EntityCustomer, changefeed.ActionDeleted, 1, model.Customer{ID: 1, Name: "Jane"})
	require.NoError(t, p.Process(ctx, &changefeed.Message{Event: deleted}))

	t.Run("stale update does not resurrect", func(t *testing.T) {
		stale := event(t, changefeed.EntityCustomer, changefeed.ActionUpdated, 1, model.Customer{ID: 1, Name: "Old"})
		stale.OccurredAt = created.OccurredAt
		require.NoError(t, p.Process(ctx, &changefeed.Message{Event: stale}))

		snap, err := p.Get(ctx, changefeed.EntityCustomer, 1)
		require.NoError(t, err)
		assert.True(t, snap.Deleted())
		assert.Equal(t, deleted.ID, snap.EventID)
	})

	missing, err := p.Get(ctx, changefeed.EntityOrder, 42)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSnapshotProcessor_ConcurrentEventsKeepNewest(t *testing.T) {
	adapter, _ := setupTestRedis(t)
	p := NewSnapshotProcessor(adapter, NewIdempotencyService(adapter, DefaultIdempotencyConfig()), 0)
	ctx := context.Background()
	base := time.Now()

	for id := int64(1); id <= 50; id++ {
		deleted := event(t, changefeed.EntityRecord, changefeed.ActionDeleted, id, nil)
		deleted.OccurredAt = base.Add(time.Second)
		updated := event(t, changefeed.EntityRecord, changefeed.ActionUpdated, id, nil)
		updated.OccurredAt = base

		var wg sync.WaitGroup
		for _, ev := range []changefeed.Event{updated, deleted} {
			wg.Add(1)
			go func(ev changefeed.Event) {
				defer wg.Done()
				assert.NoError(t, p.Process(ctx, &changefeed.Message{Event: ev}))
			}(ev)
		}
		wg.Wait()

		snap, err := p.Get(ctx, changefeed.EntityRecord, id)
		require.NoError(t, err)
		require.NotNil(t, snap)
		assert.True(t, snap.Deleted(), "record %d", id)
		assert.Equal(t, deleted.ID, snap.EventID)
	}
}

func TestSnapshotProcessor_TTL(t *testing.T) {
	adapter, mr := setupTestRedis(t)
	p := NewSnapshotProcessor(adapter, NewIdempotencyService(adapter, DefaultIdempotencyConfig()), time.Minute)
	ctx := context.Background()

	ev := event(t, changefeed.EntitySupplier, changefeed.ActionCreated, 3, nil)
	require.NoError(t, p.Process(ctx, &changefeed.Message{Event: ev}))

	mr.FastForward(2 * time.Minute)
	snap, err := p.Get(ctx, changefeed.EntitySupplier, 3)
	require.NoError(t, err)
	assert.Nil(t, snap)
}

type failingProcessor struct{}

func (failingProcessor) Process(context.Context, *changefeed.Message) error {
	return errors.New("boom")
}

func (failingProcessor) GetType() string { return "failing" }

func testConfig() Config {
	return Config{
		Stream:            "test:changes",
		Group:             "test-group",
		Consumer:          "test",
		Consumers:         2,
		Workers:           4,
		MaxRetries:        1,
		VisibilityTimeout: 50 * time.Millisecond,
		PollInterval:      10 * time.Millisecond,
		BatchSize:         10,
		EnableDLQ:         true,
	}
}

func TestProcessorService_EndToEnd(t *testing.T) {
	adapter, _ := setupTestRedis(t)
	config := testConfig()

	snapshots := NewSnapshotProcessor(adapter, NewIdempotencyService(adapter, DefaultIdempotencyConfig()), time.Hour)
	service := NewProcessorService(adapter, config)
	service.RegisterProcessor(snapshots)
	require.NoError(t, service.Start())
	defer service.Stop()

	pub, err := changefeed.NewStreamPublisher(adapter, changefeed.StreamConfig{Stream: config.Stream})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, pub.Publish(ctx,
		event(t, changefeed.EntityRecord, changefeed.ActionCreated, 1, model.Record{ID: 1, Title: "Blue"}),
		event(t, changefeed.EntityRecord, changefeed.ActionCreated, 2, model.Record{ID: 2, Title: "Kind of Blue"}),
		event(t, changefeed.EntitySupplier, changefeed.ActionCreated, 1, model.Supplier{ID: 1, Name: "acme"}),
	))

	require.Eventually(t, func() bool {
		return service.Metrics().Snapshot().Processed == 3
	}, 2*time.Second, 10*time.Millisecond)

	for _, id := range []int64{1, 2} {
		snap, err := snapshots.Get(ctx, changefeed.EntityRecord, id)
		require.NoError(t, err)
		require.NotNil(t, snap)
	}
	stats := service.Metrics().Snapshot()
	assert.Equal(t, int64(2), stats.ByEntity[changefeed.EntityRecord])
	assert.Equal(t, int64(1), stats.ByEntity[changefeed.EntitySupplier])
}

func TestProcessorService_FailuresGoToDLQ(t *testing.T) {
	adapter, _ := setupTestRedis(t)
	config := testConfig()
	config.Consumers = 1

	service := NewProcessorService(adapter, config)
	service.RegisterProcessor(failingProcessor{})
	require.NoError(t, service.Start())
	defer service.Stop()

	pub, err := changefeed.NewStreamPublisher(adapter, changefeed.StreamConfig{Stream: config.Stream})
	require.NoError(t, err)
	require.NoError(t, pub.Publish(context.Background(), event(t, changefeed.EntityOrder, changefeed.ActionCreated, 1, nil)))

	require.Eventually(t, func() bool {
		n, err := adapter.XLen(context.Background(), config.Stream+":dlq")
		return err == nil && n == 1
	}, 3*time.Second, 20*time.Millisecond)
	assert.GreaterOrEqual(t, service.Metrics().Snapshot().Failed, int64(1))
}

func TestProcessorService_StartWithoutProcessor(t *testing.T) {
	adapter, _ := setupTestRedis(t)
	service := NewProcessorService(adapter, testConfig())
	assert.Error(t, service.Start())
}
