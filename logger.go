package hdlcore

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger receives build diagnostics and section warnings.
type Logger interface {
	Info(msg string)
	Warn(msg string)
}

// LogOptions controls the logger built by NewLogger.
type LogOptions struct {
	Verbose bool   // Log at debug level
	File    string // Optional rotating log file, in addition to stderr
}

// NewLogger creates a zap logger writing human-readable lines to stderr and,
// when opts.File is set, JSON lines to a rotating log file.
func NewLogger(opts LogOptions) *zap.Logger {
	level := zap.InfoLevel
	if opts.Verbose {
		level = zap.DebugLevel
	}

	consoleCfg := zap.NewDevelopmentEncoderConfig()
	consoleCfg.TimeKey = zapcore.OmitKey
	consoleCfg.CallerKey = zapcore.OmitKey
	consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.Lock(os.Stderr), level),
	}

	if opts.File != "" {
		_ = os.MkdirAll(filepath.Dir(opts.File), 0o755)
		w := zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    50, // MB
			MaxBackups: 3,
			MaxAge:     7, // days
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), w, level))
	}

	return zap.New(zapcore.NewTee(cores...))
}

// ZapLogger adapts a zap logger to Logger.
func ZapLogger(l *zap.Logger) Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return zapLogger{l: l}
}

// NopLogger returns a Logger that discards everything.
func NopLogger() Logger {
	return zapLogger{l: zap.NewNop()}
}

type zapLogger struct {
	l *zap.Logger
}

func (z zapLogger) Info(msg string) { z.l.Info(msg) }
func (z zapLogger) Warn(msg string) { z.l.Warn(msg) }
