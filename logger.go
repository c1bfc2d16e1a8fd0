package main

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the small logging surface the converter uses. The converter
// works correctly with NewNopLogger attached; nothing in the pipeline
// depends on log output.
type Logger interface {
	Infof(format string, args ...interface{})
	Successf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Summary(result *AggregateResult)
}

type zapLogger struct {
	log *zap.SugaredLogger
}

// NewLogger creates a console logger. Debug mode lowers the level and keeps
// caller annotations; normal mode prints bare messages.
func NewLogger(debug bool) Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	if !debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		cfg.DisableCaller = true
		cfg.DisableStacktrace = true
	}

	log, err := cfg.Build()
	if err != nil {
		// zap.NewDevelopmentConfig only fails on invalid user config,
		// which cannot happen here.
		panic(err)
	}

	return &zapLogger{log: log.Sugar()}
}

func (l *zapLogger) Infof(format string, args ...interface{}) {
	l.log.Infof(format, args...)
}

func (l *zapLogger) Successf(format string, args ...interface{}) {
	l.log.Infof("✓ "+format, args...)
}

func (l *zapLogger) Warnf(format string, args ...interface{}) {
	l.log.Warnf(format, args...)
}

func (l *zapLogger) Errorf(format string, args ...interface{}) {
	l.log.Errorf("✗ "+format, args...)
}

func (l *zapLogger) Summary(result *AggregateResult) {
	l.log.Infof("done in %s: %d converted, %d skipped, %d failed",
		result.Duration.Round(time.Millisecond), result.Converted, result.Skipped, result.Failed)
	for _, e := range result.Errors {
		l.log.Errorf("  %s: %v", e.Slug, e.Err)
	}
}

type nopLogger struct{}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() Logger { return nopLogger{} }

func (nopLogger) Infof(string, ...interface{})    {}
func (nopLogger) Successf(string, ...interface{}) {}
func (nopLogger) Warnf(string, ...interface{})    {}
func (nopLogger) Errorf(string, ...interface{})   {}
func (nopLogger) Summary(*AggregateResult)        {}
