package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nimasrn/record-shop/pkg/logger"
	"github.com/nimasrn/record-shop/pkg/redis"
)

var (
	ErrAlreadyProcessed  = errors.New("event already processed")
	ErrLockAcquireFailed = errors.New("failed to acquire processing lock")
)

type IdempotencyConfig struct {
	LockTTL time.Duration

	ProcessedTTL time.Duration

	LockKeyPrefix string

	ProcessedKeyPrefix string
}

func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		LockTTL:            30 * time.Second,
		ProcessedTTL:       24 * time.Hour,
		LockKeyPrefix:      "changefeed:lock:",
		ProcessedKeyPrefix: "changefeed:processed:",
	}
}

// IdempotencyService makes a redelivered change event a no-op once it has
// been applied. Keys are event ids, not stream ids, so an event published
// twice is also applied once.
type IdempotencyService struct {
	redis  redis.RedisAdapter
	config IdempotencyConfig
}

func NewIdempotencyService(redisAdapter redis.RedisAdapter, config IdempotencyConfig) *IdempotencyService {
	return &IdempotencyService{
		redis:  redisAdapter,
		config: config,
	}
}

type ProcessingContext struct {
	EventID      string
	Attempts     int64
	lockAcquired bool
}

func (s *IdempotencyService) AcquireProcessingLock(ctx context.Context, eventID string, attempts int64) (*ProcessingContext, error) {
	processed, err := s.IsProcessed(ctx, eventID)
	if err != nil {
		// a failed check only risks applying twice; the snapshot write is idempotent
		logger.Warn("failed to check processed marker", "event_id", eventID, "error", err)
	} else if processed {
		return nil, ErrAlreadyProcessed
	}

	lockValue := []byte(fmt.Sprintf("%d", time.Now().UnixNano()))
	acquired, err := s.redis.SetNX(ctx, s.config.LockKeyPrefix+eventID, lockValue, s.config.LockTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLockAcquireFailed, err)
	}
	if !acquired {
		return nil, ErrLockAcquireFailed
	}

	logger.Debug("processing lock acquired", "event_id", eventID, "attempts", attempts, "lock_ttl", s.config.LockTTL)
	return &ProcessingContext{
		EventID:      eventID,
		Attempts:     attempts,
		lockAcquired: true,
	}, nil
}

// MarkSuccess sets the processed marker and drops the lock.
func (s *IdempotencyService) MarkSuccess(ctx context.Context, pc *ProcessingContext) error {
	if err := s.redis.Set(ctx, s.config.ProcessedKeyPrefix+pc.EventID, []byte("1"), s.config.ProcessedTTL); err != nil {
		return fmt.Errorf("failed to mark as processed: %w", err)
	}
	return s.ReleaseLock(ctx, pc)
}

func (s *IdempotencyService) ReleaseLock(ctx context.Context, pc *ProcessingContext) error {
	if pc == nil || !pc.lockAcquired {
		return nil
	}
	if err := s.redis.Del(ctx, s.config.LockKeyPrefix+pc.EventID); err != nil {
		logger.Warn("failed to release lock", "event_id", pc.EventID, "error", err)
		return err
	}
	pc.lockAcquired = false
	return nil
}

func (s *IdempotencyService) IsProcessed(ctx context.Context, eventID string) (bool, error) {
	_, err := s.redis.Get(ctx, s.config.ProcessedKeyPrefix+eventID)
	if errors.Is(err, redis.NilError) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
