// Package logger builds the application's zap logger.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger holds the process-wide zap logger.
// Log is a no-op logger until Init succeeds.
type Logger struct {
	Log *zap.Logger

	file       string
	maxSizeMB  int
	maxBackups int
}

// Option configures a Logger.
type Option func(*Logger)

// WithFile additionally writes JSON logs to a size-rotated file.
func WithFile(path string, maxSizeMB, maxBackups int) Option {
	return func(l *Logger) {
		l.file = path
		l.maxSizeMB = maxSizeMB
		l.maxBackups = maxBackups
	}
}

// New returns a Logger with a no-op zap logger.
func New(opts ...Option) *Logger {
	l := &Logger{Log: zap.NewNop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Init builds the zap logger at the given level ("debug", "info", "warn", "error").
func (l *Logger) Init(level string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return err
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.Lock(os.Stdout), lvl),
	}
	if l.file != "" {
		rotating := &lumberjack.Logger{
			Filename:   l.file,
			MaxSize:    l.maxSizeMB,
			MaxBackups: l.maxBackups,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(rotating), lvl))
	}

	l.Log = zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	return nil
}
