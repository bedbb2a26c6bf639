// Package logging provides the structured logger used across vget.
package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger provides structured logging with key-value pairs.
// Packages accept a Logger so callers can plug in their own implementation.
type Logger interface {
	// Debug logs debug-level messages with optional key-value pairs.
	Debug(msg string, keysAndValues ...interface{})

	// Info logs info-level messages with optional key-value pairs.
	Info(msg string, keysAndValues ...interface{})

	// Warn logs warning-level messages with optional key-value pairs.
	Warn(msg string, keysAndValues ...interface{})

	// Error logs error-level messages with optional key-value pairs.
	Error(msg string, keysAndValues ...interface{})
}

// noopLogger is a Logger implementation that does nothing.
type noopLogger struct{}

func (n *noopLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (n *noopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (n *noopLogger) Warn(msg string, keysAndValues ...interface{})  {}
func (n *noopLogger) Error(msg string, keysAndValues ...interface{}) {}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return &noopLogger{}
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return Nop()
	}
	return l
}

// zapLogger adapts a zap.SugaredLogger to Logger.
type zapLogger struct {
	sugar *zap.SugaredLogger
}

func (z *zapLogger) Debug(msg string, keysAndValues ...interface{}) {
	z.sugar.Debugw(msg, keysAndValues...)
}

func (z *zapLogger) Info(msg string, keysAndValues ...interface{}) {
	z.sugar.Infow(msg, keysAndValues...)
}

func (z *zapLogger) Warn(msg string, keysAndValues ...interface{}) {
	z.sugar.Warnw(msg, keysAndValues...)
}

func (z *zapLogger) Error(msg string, keysAndValues ...interface{}) {
	z.sugar.Errorw(msg, keysAndValues...)
}

// Options configures New.
type Options struct {
	// Verbose enables debug-level output. Otherwise only warnings and errors are written.
	Verbose bool
	// Output receives log lines. Defaults to os.Stderr.
	Output io.Writer
}

// New creates a zap-backed Logger writing human-readable lines.
// The returned sync function flushes buffered entries and should be deferred.
func New(opts Options) (Logger, func() error) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	level := zapcore.WarnLevel
	if opts.Verbose {
		level = zapcore.DebugLevel
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = ""
	if !opts.Verbose {
		encoderConfig.CallerKey = ""
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(out),
		level,
	)

	logger := zap.New(core)
	if opts.Verbose {
		logger = logger.WithOptions(zap.AddCaller(), zap.AddCallerSkip(1))
	}

	return &zapLogger{sugar: logger.Sugar()}, logger.Sync
}

// With returns a Logger that adds keysAndValues to every entry.
// Loggers that are not zap-backed are returned unchanged.
func With(l Logger, keysAndValues ...interface{}) Logger {
	if z, ok := l.(*zapLogger); ok {
		return &zapLogger{sugar: z.sugar.With(keysAndValues...)}
	}
	return OrNop(l)
}
