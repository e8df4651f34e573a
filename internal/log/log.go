package log

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

var (
	mu      sync.RWMutex
	logger  *zap.SugaredLogger
	level   = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	initOne sync.Once
)

// initLogger builds the default console logger on stderr.
func initLogger() {
	initOne.Do(func() {
		mu.Lock()
		defer mu.Unlock()
		if logger == nil {
			logger = build("console")
		}
	})
}

func build(format string) *zap.SugaredLogger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	var enc zapcore.Encoder
	if format == "json" {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(encCfg)
	}
	core := zapcore.NewCore(enc, zapcore.Lock(os.Stderr), level)
	return zap.New(core).Sugar()
}

// Configure sets level and output format ("console" or "json").
func Configure(lvl, format string) error {
	l, err := ParseLevel(lvl)
	if err != nil {
		return err
	}
	switch format {
	case "", "console", "json":
	default:
		return fmt.Errorf("unknown log format %q", format)
	}
	initLogger()
	SetLevel(l)

	mu.Lock()
	logger = build(format)
	mu.Unlock()
	return nil
}

// ParseLevel accepts level names case-insensitively; "" means INFO.
func ParseLevel(s string) (Level, error) {
	switch Level(strings.ToUpper(s)) {
	case "", LevelInfo:
		return LevelInfo, nil
	case LevelDebug:
		return LevelDebug, nil
	case LevelWarn, "WARNING":
		return LevelWarn, nil
	case LevelError:
		return LevelError, nil
	default:
		return "", fmt.Errorf("unknown log level %q", s)
	}
}

func SetLevel(l Level) {
	initLogger()
	switch l {
	case LevelDebug:
		level.SetLevel(zapcore.DebugLevel)
	case LevelWarn:
		level.SetLevel(zapcore.WarnLevel)
	case LevelError:
		level.SetLevel(zapcore.ErrorLevel)
	default:
		level.SetLevel(zapcore.InfoLevel)
	}
}

// Use replaces the backing logger, e.g. with an observer in tests.
func Use(z *zap.Logger) {
	initLogger()
	mu.Lock()
	logger = z.Sugar()
	mu.Unlock()
}

// Sync flushes buffered entries.
func Sync() {
	_ = current().Sync()
}

func Debug(msg string, kv ...any) {
	current().Debugw(msg, sanitize(kv)...)
}

func Info(msg string, kv ...any) {
	current().Infow(msg, sanitize(kv)...)
}

func Warn(msg string, kv ...any) {
	current().Warnw(msg, sanitize(kv)...)
}

func Error(msg string, err error, kv ...any) {
	// Prepend error into key-value list.
	extended := append([]any{"err", err}, kv...)
	current().Errorw(msg, sanitize(extended)...)
}

func current() *zap.SugaredLogger {
	initLogger()
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// sanitize drops a dangling key and non-string keys, which zap would
// otherwise report as DPANIC-level errors.
func sanitize(kv []any) []any {
	out := make([]any, 0, len(kv))
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		out = append(out, key, kv[i+1])
	}
	return out
}
