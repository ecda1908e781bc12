package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/nimasrn/record-shop/internal/changefeed"
	"github.com/nimasrn/record-shop/internal/config"
	"github.com/nimasrn/record-shop/internal/handlers"
	"github.com/nimasrn/record-shop/internal/idempotency"
	"github.com/nimasrn/record-shop/internal/server"
	xhttp "github.com/nimasrn/record-shop/pkg/http"
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
	logger.Info("starting record-shop api", "version", version, "commit", commit, "date", date, "driver", cfg.DBDriver)

	db, err := cfg.OpenDB()
	if err != nil {
		logger.Error("failed connecting to database", "driver", cfg.DBDriver, "error", err)
		return
	}
	defer db.Close()

	health := map[string]handlers.Pinger{"database": db}
	var feed changefeed.Publisher = changefeed.NoopPublisher{}
	var idem *idempotency.Store

	if cfg.RedisEnabled() {
		redisAdap, err := redis.NewRedisAdapter("default", cfg.RedisUniversalKeyPrefix, &redis.Options{
			Addrs:      []string{cfg.RedisAddr},
			ClientName: cfg.AppName,
			DB:         cfg.RedisDatabase,
			Username:   cfg.RedisUsername,
			Password:   cfg.RedisPassword,
		})
		if err != nil {
			logger.Error("failed connecting to redis", "error", err)
			return
		}
		defer redis.Close()

		feed, err = changefeed.NewStreamPublisher(redisAdap, changefeed.StreamConfig{
			Stream: cfg.ChangefeedStream,
			MaxLen: cfg.ChangefeedMaxLen,
		})
		if err != nil {
			logger.Error("failed creating change feed publisher", "error", err)
			return
		}
		idem = idempotency.NewStore(redisAdap, idempotency.Config{TTL: cfg.IdempotencyTTL})
		health["redis"] = redisAdap
	} else {
		logger.Warn("REDIS_ADDR is not set: change feed and idempotency keys are disabled")
	}

	if cfg.MetricsListenAddr != "" {
		startMetrics(cfg)
	}

	s := server.New(server.Options{
		HTTP: xhttp.ServerOption{
			Name:               cfg.AppName,
			ReadTimeout:        cfg.HttpReadTimeout,
			WriteTimeout:       cfg.HttpWriteTimeout,
			IdleTimeout:        cfg.HttpIdleTimeout,
			MaxRequestBodySize: cfg.HttpMaxBodySize,
		},
		RequestTimeout: cfg.HttpRequestTimeout,
		CompressLevel:  cfg.HttpCompressLevel,
		Idempotency:    idem,
		Health:         health,
	}, server.NewServices(db, feed))

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		var err error
		if cfg.HttpPrefork {
			err = s.PreforkListenAndServe(cfg.HttpListenAddr)
		} else {
			err = s.ListenAndServe(cfg.HttpListenAddr)
		}
		if err != nil {
			logger.Error("error in running http-server", "error", err)
			c <- syscall.SIGTERM
		}
	}()

	<-c
	s.Shutdown()
}

func startMetrics(cfg *config.Config) {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	if err := prom.Create(hostname, cfg.AppEnv, cfg.PromNamespace); err != nil {
		logger.Error("failed to create prometheus metrics", "error", err)
		return
	}
	go prom.ListenAndServer(cfg.MetricsListenAddr, cfg.MetricsURI)
}
