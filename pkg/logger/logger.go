package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger interface {
	Info(msg string, values ...any)
	Warn(msg string, values ...any)
	Error(msg string, values ...any)
	Debug(msg string, values ...any)
	Panic(message string, values ...any)
	Fatal(error error, values ...any)
	Printf(format string, args ...any)
}

// init builds the process logger from LOG_ENV and LOG_LEVEL so that packages
// can log before config is loaded.
func init() {
	_, err := NewLogger(configFromEnv(os.Getenv("LOG_ENV"), os.Getenv("LOG_LEVEL")))
	if err != nil {
		panic(err)
	}
}

func configFromEnv(env, level string) zap.Config {
	var config zap.Config
	if env == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
	}

	if level != "" {
		var l zapcore.Level
		if err := l.UnmarshalText([]byte(strings.ToLower(level))); err == nil {
			config.Level = zap.NewAtomicLevelAt(l)
		}
	}
	return config
}

// Configure rebuilds the process logger once the application config is known.
func Configure(env, level string) error {
	_, err := NewLogger(configFromEnv(env, level))
	return err
}

func Info(msg string, values ...any)  { sugared().Infow(msg, values...) }
func Warn(msg string, values ...any)  { sugared().Warnw(msg, values...) }
func Error(msg string, values ...any) { sugared().Errorw(msg, values...) }
func Debug(msg string, values ...any) { sugared().Debugw(msg, values...) }
func Panic(msg string, values ...any) { sugared().Panicw(msg, values...) }

func Fatal(err error, values ...any) {
	sugared().Fatalw(err.Error(), values...)
}

// Sync flushes buffered entries; call it before the process exits.
func Sync() {
	_ = sugared().Sync()
}
