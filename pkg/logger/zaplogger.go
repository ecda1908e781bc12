package logger

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// ZapLogger adapts a sugared zap logger to Logger. It also satisfies
// fasthttp.Logger through Printf.
type ZapLogger struct {
	log *zap.SugaredLogger
}

var (
	current atomic.Pointer[ZapLogger]
	// global backs the package-level helpers, which sit one frame deeper.
	global atomic.Pointer[zap.SugaredLogger]
)

// NewLogger builds a logger from config and installs it as the process logger.
func NewLogger(config zap.Config) (*ZapLogger, error) {
	base, err := config.Build()
	if err != nil {
		return nil, err
	}
	l := &ZapLogger{log: base.WithOptions(zap.AddCallerSkip(1)).Sugar()}
	current.Store(l)
	global.Store(base.WithOptions(zap.AddCallerSkip(2)).Sugar())
	return l, nil
}

func GetLogger() *ZapLogger {
	l := current.Load()
	if l == nil {
		panic("logger not initialized")
	}
	return l
}

func sugared() *zap.SugaredLogger {
	s := global.Load()
	if s == nil {
		panic("logger not initialized")
	}
	return s
}

// With returns a child logger that attaches the key/value pairs to every entry.
func (l *ZapLogger) With(values ...any) *ZapLogger {
	return &ZapLogger{log: l.log.With(values...)}
}

// Named adds a dot-separated segment to the logger name.
func (l *ZapLogger) Named(name string) *ZapLogger {
	return &ZapLogger{log: l.log.Named(name)}
}

func (l *ZapLogger) Info(message string, values ...any)  { l.log.Infow(message, values...) }
func (l *ZapLogger) Warn(message string, values ...any)  { l.log.Warnw(message, values...) }
func (l *ZapLogger) Error(message string, values ...any) { l.log.Errorw(message, values...) }
func (l *ZapLogger) Debug(message string, values ...any) { l.log.Debugw(message, values...) }
func (l *ZapLogger) Panic(message string, values ...any) { l.log.Panicw(message, values...) }

func (l *ZapLogger) Fatal(err error, values ...any) {
	l.log.Fatalw(err.Error(), values...)
}

func (l *ZapLogger) Printf(format string, args ...any) {
	l.log.Infof(format, args...)
}

func (l *ZapLogger) Sync() error {
	return l.log.Sync()
}
