package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/nimasrn/record-shop/internal/config"
	"github.com/nimasrn/record-shop/internal/processor"
	"github.com/nimasrn/record-shop/pkg/logger"
	"github.com/nimasrn/record-shop/pkg/prom"
	"github.com/nimasrn/record-shop/pkg/redis"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	err := config.Load(config.EnvPathFromArgs(os.Args))
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}
	cfg := config.Get()
	if err := logger.Configure(cfg.LogEnv, cfg.LogLevel); err != nil {
		logger.Error("failed to configure logger", "error", err)
	}
	defer logger.Sync()
	logger.Info("starting change feed processor", "version", version, "commit", commit, "date", date)

	if !cfg.RedisEnabled() {
		logger.Error("REDIS_ADDR is required to consume the change feed")
		return
	}

	redisAdap, err := redis.NewRedisAdapter("default", cfg.RedisUniversalKeyPrefix, &redis.Options{
		Addrs:      []string{cfg.RedisAddr},
		ClientName: cfg.AppName + "-processor",
		DB:         cfg.RedisDatabase,
		Username:   cfg.RedisUsername,
		Password:   cfg.RedisPassword,
	})
	if err != nil {
		logger.Error("failed connecting to redis", "error", err)
		return
	}
	defer redis.Close()

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	err = prom.Create(hostname, cfg.AppEnv, cfg.PromNamespace)
	if err != nil {
		logger.Error("failed to create prometheus metrics", "error", err)
		return
	}
	if cfg.MetricsListenAddr != "" {
		go prom.ListenAndServer(cfg.MetricsListenAddr, cfg.MetricsURI)
	}

	idempotencyService := processor.NewIdempotencyService(redisAdap, processor.DefaultIdempotencyConfig())

	service := processor.NewProcessorService(redisAdap, processor.Config{
		Stream:            cfg.ChangefeedStream,
		Group:             cfg.ChangefeedGroup,
		Consumer:          cfg.ChangefeedConsumer + "-" + hostname,
		Consumers:         cfg.ChangefeedConsumers,
		Workers:           cfg.ChangefeedWorkers,
		MaxRetries:        cfg.ChangefeedMaxRetries,
		VisibilityTimeout: cfg.ChangefeedVisibilityTimeout,
		PollInterval:      cfg.ChangefeedPollInterval,
		BatchSize:         cfg.ChangefeedBatchSize,
		EnableDLQ:         cfg.ChangefeedEnableDLQ,
	})
	service.RegisterProcessor(processor.NewSnapshotProcessor(redisAdap, idempotencyService, cfg.SnapshotTTL))

	if err := service.Start(); err != nil {
		logger.Error("failed to start processor", "error", err)
		return
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	service.Stop()
}
