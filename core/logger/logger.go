package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var sugar *zap.SugaredLogger

func init() {
	Init(os.Getenv("LOG_LEVEL"))
}

// Init configures the global logger. It is called once on startup; the
// default level is info unless LOG_LEVEL says otherwise.
func Init(level string) {
	lvl := zapcore.InfoLevel
	if parsed, err := zapcore.ParseLevel(level); err == nil && level != "" {
		lvl = parsed
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		l = zap.NewNop()
	}
	sugar = l.Sugar()
}

func Debug(msg string, keysAndValues ...any) {
	sugar.Debugw(msg, normalize(keysAndValues)...)
}

func Info(msg string, keysAndValues ...any) {
	sugar.Infow(msg, normalize(keysAndValues)...)
}

func Warn(msg string, keysAndValues ...any) {
	sugar.Warnw(msg, normalize(keysAndValues)...)
}

func Error(msg string, keysAndValues ...any) {
	sugar.Errorw(msg, normalize(keysAndValues)...)
}

func Fatal(msg string, keysAndValues ...any) {
	sugar.Fatalw(msg, normalize(keysAndValues)...)
}

func Sync() {
	_ = sugar.Sync()
}

// normalize lets call sites pass a bare error as the only argument,
// e.g. logger.Error("Repo:Create", err).
func normalize(keysAndValues []any) []any {
	if len(keysAndValues) == 1 {
		if err, ok := keysAndValues[0].(error); ok {
			return []any{"error", err}
		}
	}
	return keysAndValues
}
