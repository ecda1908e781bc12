package processor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nimasrn/record-shop/internal/changefeed"
	"github.com/nimasrn/record-shop/pkg/logger"
	"github.com/nimasrn/record-shop/pkg/prom"
	"github.com/nimasrn/record-shop/pkg/redis"
	"github.com/nimasrn/record-shop/pkg/worker"
)

const ProcessingTimeout = time.Second * 5
const HealthInterval = time.Second * 30
const ReportInterval = time.Second * 30

type Config struct {
	Stream            string
	Group             string
	Consumer          string
	Consumers         int
	Workers           int
	BufferSize        int
	MaxRetries        int64
	VisibilityTimeout time.Duration
	PollInterval      time.Duration
	BatchSize         int64
	EnableDLQ         bool
}

// Processor applies one change event.
type Processor interface {
	Process(ctx context.Context, msg *changefeed.Message) error
	GetType() string
}

// ProcessorService reads the change feed with several consumers of one
// group and hands every message to a shared worker pool.
type ProcessorService struct {
	adapter   redis.RedisAdapter
	config    Config
	consumers []*changefeed.Consumer
	processor Processor
	metrics   *ServiceMetrics
	worker    *worker.WorkerManager
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewProcessorService(adapter redis.RedisAdapter, config Config) *ProcessorService {
	if config.Consumers <= 0 {
		config.Consumers = 1
	}
	if config.Workers <= 0 {
		config.Workers = 10
	}
	if config.BufferSize <= 0 {
		config.BufferSize = config.Workers * 10
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &ProcessorService{
		adapter: adapter,
		config:  config,
		metrics: NewServiceMetrics(),
		worker:  worker.NewWorkerManager(config.BufferSize, config.Workers),
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (s *ProcessorService) RegisterProcessor(processor Processor) {
	s.processor = processor
	logger.Info("registered processor", "type", processor.GetType())
}

func (s *ProcessorService) Metrics() *ServiceMetrics {
	return s.metrics
}

func (s *ProcessorService) Start() error {
	if s.processor == nil {
		return errors.New("no processor registered")
	}
	logger.Info("starting processor service", "stream", s.config.Stream, "group", s.config.Group)

	s.worker.SetWorker(s.workerHandler)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.worker.Start(s.ctx); err != nil && !errors.Is(err, worker.ErrStopped) {
			logger.Error("worker manager stopped", "error", err)
		}
	}()

	for i := 0; i < s.config.Consumers; i++ {
		c, err := changefeed.NewConsumer(s.ctx, s.adapter, changefeed.ConsumerConfig{
			Stream:            s.config.Stream,
			Group:             s.config.Group,
			Consumer:          fmt.Sprintf("%s-instance-%d", s.config.Consumer, i),
			MaxRetries:        s.config.MaxRetries,
			VisibilityTimeout: s.config.VisibilityTimeout,
			PollInterval:      s.config.PollInterval,
			BatchSize:         s.config.BatchSize,
			EnableDLQ:         s.config.EnableDLQ,
		})
		if err != nil {
			s.cancel()
			return fmt.Errorf("failed to create consumer %d: %w", i, err)
		}
		if err := c.Start(s.ctx, s.messageHandler); err != nil {
			s.cancel()
			return fmt.Errorf("failed to start consumer %d: %w", i, err)
		}
		s.consumers = append(s.consumers, c)
	}

	s.wg.Add(2)
	go s.every(ReportInterval, s.reportMetrics)
	go s.every(HealthInterval, s.performHealthCheck)

	logger.Info("processor service started", "consumers", len(s.consumers), "workers", s.config.Workers)
	return nil
}

func (s *ProcessorService) every(interval time.Duration, fn func()) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			fn()
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *ProcessorService) reportMetrics() {
	stats := s.metrics.Snapshot()
	logger.Info("processor metrics",
		"processed", stats.Processed,
		"failed", stats.Failed,
		"skipped", stats.Skipped,
		"rate_per_second", stats.RatePerSecond,
		"avg_duration_ms", stats.AvgDuration.Milliseconds(),
		"uptime_seconds", int64(stats.Uptime.Seconds()),
		"by_entity", stats.ByEntity,
		"queued", s.worker.GetUnreadCount())
}

func (s *ProcessorService) performHealthCheck() {
	ctx, cancel := context.WithTimeout(s.ctx, 2*time.Second)
	defer cancel()

	if err := s.adapter.Ping(ctx); err != nil {
		logger.Error("health check failed: redis unreachable", "error", err)
		return
	}
	n, err := s.adapter.XLen(ctx, s.config.Stream)
	if err != nil {
		logger.Warn("health check: stream length unavailable", "error", err)
		return
	}
	prom.ObserveStreamLength(s.config.Stream, n)
	logger.Debug("health check ok", "stream_length", n)
}

// Stop cancels the consumers, waits for in-flight events and logs a final report.
func (s *ProcessorService) Stop() {
	logger.Info("shutting down processor service")

	s.cancel()
	for _, c := range s.consumers {
		c.Wait()
	}
	s.worker.Exit()
	s.wg.Wait()

	s.reportMetrics()
	logger.Info("processor service stopped")
}

type jobResult struct {
	msg        *changefeed.Message
	resultChan chan error
	ctx        context.Context
}

// messageHandler runs on a consumer goroutine and blocks until a worker has
// processed the message, so the consumer acks only finished work.
func (s *ProcessorService) messageHandler(ctx context.Context, msg *changefeed.Message) error {
	msgCtx, cancel := context.WithTimeout(ctx, ProcessingTimeout)
	defer cancel()

	job := &jobResult{
		msg:        msg,
		resultChan: make(chan error, 1),
		ctx:        msgCtx,
	}
	if err := s.worker.Enqueue(msgCtx, job); err != nil {
		return fmt.Errorf("enqueue %s: %w", msg.Event.String(), err)
	}

	select {
	case err := <-job.resultChan:
		return err
	case <-msgCtx.Done():
		return fmt.Errorf("timeout waiting for worker: %w", msgCtx.Err())
	}
}

func (s *ProcessorService) workerHandler(workerIndex int, job interface{}) {
	jobRes, ok := job.(*jobResult)
	if !ok {
		logger.Error("invalid job type in worker", "worker", workerIndex)
		return
	}
	if jobRes.ctx.Err() != nil {
		return
	}

	ev := jobRes.msg.Event
	start := time.Now()
	err := s.processor.Process(jobRes.ctx, jobRes.msg)
	elapsed := time.Since(start)

	switch {
	case err == nil:
		s.metrics.RecordSuccess(ev.Entity, elapsed)
		prom.ObserveEvent(ev.Entity, string(ev.Action), "ok", elapsed.Seconds())
	case errors.Is(err, ErrAlreadyProcessed):
		s.metrics.RecordSkipped()
		prom.ObserveEvent(ev.Entity, string(ev.Action), "skipped", elapsed.Seconds())
		err = nil
	default:
		s.metrics.RecordFailure()
		prom.ObserveEvent(ev.Entity, string(ev.Action), "failed", elapsed.Seconds())
		logger.Error("failed to process change event", "worker", workerIndex, "event", ev.String(), "error", err)
	}

	// resultChan is buffered, so this never blocks
	jobRes.resultChan <- err
}
