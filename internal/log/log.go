package log

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu     sync.Mutex
	logger = zap.NewNop().Sugar()
)

// Configure (re)builds the process logger. Level is one of trace, debug,
// info, warn, error; format is "console" or "json". When file is non-empty
// every entry is also written to that file through a rotating writer, so
// repeated runs never grow a single log without bound.
func Configure(level, format, file string) {
	mu.Lock()
	defer mu.Unlock()

	enab := parseLevel(level)

	var enc zapcore.Encoder
	if format == "json" {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(cfg)
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(cfg)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(enc, zapcore.Lock(os.Stderr), enab),
	}

	if file != "" {
		fileCfg := zap.NewProductionEncoderConfig()
		fileCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		sink := zapcore.AddSync(&lumberjack.Logger{
			Filename:   file,
			MaxSize:    10, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), sink, enab))
	}

	logger = zap.New(zapcore.NewTee(cores...)).Sugar()
}

// parseLevel maps a level name to a zap level, defaulting to info.
func parseLevel(level string) zapcore.Level {
	switch level {
	case "trace", "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Debug logs a debug message with alternating key/value pairs.
func Debug(msg string, keysAndValues ...any) {
	logger.Debugw(msg, keysAndValues...)
}

// Info logs an informational message with alternating key/value pairs.
func Info(msg string, keysAndValues ...any) {
	logger.Infow(msg, keysAndValues...)
}

// Warn logs a warning with alternating key/value pairs.
func Warn(msg string, keysAndValues ...any) {
	logger.Warnw(msg, keysAndValues...)
}

// Error logs an error with alternating key/value pairs.
func Error(msg string, keysAndValues ...any) {
	logger.Errorw(msg, keysAndValues...)
}

// Sync flushes buffered entries. Call once before process exit.
func Sync() {
	mu.Lock()
	defer mu.Unlock()
	_ = logger.Sync()
}
