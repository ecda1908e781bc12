package config

import (
	"os"
	"strings"
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/nimasrn/record-shop/pkg/logger"
	"github.com/nimasrn/record-shop/pkg/pg"
	"github.com/pkg/errors"
)

const (
	DriverPostgres = "postgres"
	DriverSqlite   = "sqlite"
)

var config *Config

// Config holds every setting of the api, processor and cli binaries.
// Nothing else in the module reads the environment directly.
type Config struct {
	AppEnv  string `env:"APP_ENV,default=dev"`
	AppName string `env:"APP_NAME,default=record_shop"`

	HttpListenAddr     string        `env:"HTTP_LISTEN_ADDR,default=:8080"`
	HttpRequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT,default=5s"`
	HttpPrefork        bool          `env:"HTTP_PREFORK,default=false"`
	HttpCompressLevel  int           `env:"HTTP_COMPRESS_LEVEL,default=6"`
	HttpReadTimeout    time.Duration `env:"HTTP_READ_TIMEOUT,default=2500ms"`
	HttpWriteTimeout   time.Duration `env:"HTTP_WRITE_TIMEOUT,default=2500ms"`
	HttpIdleTimeout    time.Duration `env:"HTTP_IDLE_TIMEOUT,default=10s"`
	HttpMaxBodySize    int           `env:"HTTP_MAX_BODY_SIZE,default=4194304"`

	DBDriver   string `env:"DB_DRIVER,default=postgres"`
	SqlitePath string `env:"SQLITE_PATH,default=record_shop.db"`
	DBDebug    bool   `env:"DB_DEBUG,default=false"`

	PostgresReadHost     string `env:"POSTGRES_READ_HOST"`
	PostgresReadPort     string `env:"POSTGRES_READ_PORT,default=5432"`
	PostgresReadUser     string `env:"POSTGRES_READ_USER"`
	PostgresReadPassword string `env:"POSTGRES_READ_PASSWORD"`
	PostgresReadDatabase string `env:"POSTGRES_READ_DBNAME"`

	PostgresWriteHost     string `env:"POSTGRES_WRITE_HOST"`
	PostgresWritePort     string `env:"POSTGRES_WRITE_PORT,default=5432"`
	PostgresWriteUser     string `env:"POSTGRES_WRITE_USER"`
	PostgresWritePassword string `env:"POSTGRES_WRITE_PASSWORD"`
	PostgresWriteDatabase string `env:"POSTGRES_WRITE_DBNAME"`

	RedisAddr               string `env:"REDIS_ADDR"`
	RedisUsername           string `env:"REDIS_USER"`
	RedisPassword           string `env:"REDIS_PASS"`
	RedisDatabase           int    `env:"REDIS_DATABASE,default=0"`
	RedisUniversalKeyPrefix string `env:"REDIS_UNIVERSAL_KEY_PREFIX,default=record_shop:"`

	ChangefeedStream            string        `env:"CHANGEFEED_STREAM,default=changefeed"`
	ChangefeedMaxLen            int64         `env:"CHANGEFEED_MAX_LEN,default=100000"`
	ChangefeedGroup             string        `env:"CHANGEFEED_GROUP,default=record-shop-processor"`
	ChangefeedConsumer          string        `env:"CHANGEFEED_CONSUMER,default=processor"`
	ChangefeedConsumers         int           `env:"CHANGEFEED_CONSUMERS,default=2"`
	ChangefeedWorkers           int           `env:"CHANGEFEED_WORKERS,default=10"`
	ChangefeedMaxRetries        int64         `env:"CHANGEFEED_MAX_RETRIES,default=3"`
	ChangefeedVisibilityTimeout time.Duration `env:"CHANGEFEED_VISIBILITY_TIMEOUT,default=30s"`
	ChangefeedPollInterval      time.Duration `env:"CHANGEFEED_POLL_INTERVAL,default=1s"`
	ChangefeedBatchSize         int64         `env:"CHANGEFEED_BATCH_SIZE,default=10"`
	ChangefeedEnableDLQ         bool          `env:"CHANGEFEED_ENABLE_DLQ,default=true"`
	SnapshotTTL                 time.Duration `env:"SNAPSHOT_TTL,default=0s"`

	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL,default=24h"`

	PromNamespace     string `env:"PROM_NAMESPACE,default=record_shop"`
	MetricsListenAddr string `env:"METRICS_LISTEN_ADDR"`
	MetricsURI        string `env:"METRICS_URI,default=/metrics"`

	LogEnv   string `env:"LOG_ENV"`
	LogLevel string `env:"LOG_LEVEL"`
}

// Load reads path into the environment when it is set, then maps the
// environment onto a fresh Config.
func Load(path string) error {
	logger.Info("loading configs..", "path", path)
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return errors.Wrapf(err, "failed to load configuration file %s", path)
		}
	}

	c, err := FromEnviron()
	if err != nil {
		return err
	}
	config = c
	return nil
}

// FromEnviron parses and validates the current environment without touching
// the package-level config.
func FromEnviron() (*Config, error) {
	c := &Config{}
	if _, err := env.UnmarshalFromEnviron(c); err != nil {
		return nil, errors.Wrap(err, "failed to map env variables to Configuration object")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	c.DBDriver = strings.ToLower(c.DBDriver)
	switch c.DBDriver {
	case DriverSqlite:
		if c.SqlitePath == "" {
			return errors.New("SQLITE_PATH is required when DB_DRIVER is sqlite")
		}
	case DriverPostgres:
		if c.PostgresWriteHost == "" || c.PostgresWriteDatabase == "" {
			return errors.New("POSTGRES_WRITE_HOST and POSTGRES_WRITE_DBNAME are required when DB_DRIVER is postgres")
		}
	default:
		return errors.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}
	if c.HttpRequestTimeout <= 0 {
		return errors.New("HTTP_REQUEST_TIMEOUT must be positive")
	}
	return nil
}

// RedisEnabled reports whether the change feed and idempotency store can run.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

func (c *Config) IsDev() bool {
	return c.AppEnv == "dev"
}

// OpenDB connects to the configured driver.
func (c *Config) OpenDB() (*pg.DB, error) {
	if c.DBDriver == DriverSqlite {
		return pg.CreateSqlite(c.SqlitePath, c.DBDebug)
	}
	return pg.CreateReadWrite(c.ReadDB(), c.WriteDB(), c.DBDebug)
}

// WriteDB returns the primary connection settings.
func (c *Config) WriteDB() pg.Config {
	return pg.Config{
		User:     c.PostgresWriteUser,
		Host:     c.PostgresWriteHost,
		Port:     c.PostgresWritePort,
		Password: c.PostgresWritePassword,
		Database: c.PostgresWriteDatabase,
	}
}

// ReadDB returns the replica settings, falling back to the primary when no
// replica host is configured.
func (c *Config) ReadDB() pg.Config {
	if c.PostgresReadHost == "" {
		return c.WriteDB()
	}
	return pg.Config{
		User:     c.PostgresReadUser,
		Host:     c.PostgresReadHost,
		Port:     c.PostgresReadPort,
		Password: c.PostgresReadPassword,
		Database: c.PostgresReadDatabase,
	}
}

func Get() *Config {
	if config == nil {
		logger.Panic("Config is not initialized")
	}
	return config
}

// EnvPathFromArgs returns the value of a --env=path argument when the file
// exists.
func EnvPathFromArgs(args []string) string {
	for _, v := range args {
		if !strings.HasPrefix(v, "--env=") {
			continue
		}
		p := strings.TrimPrefix(v, "--env=")
		if _, err := os.Stat(p); err != nil {
			logger.Error("failed to open the passed env file", "path", p, "error", err)
			return ""
		}
		return p
	}
	return ""
}
