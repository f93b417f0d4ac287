package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls where log lines go.
type Options struct {
	// Path is the JSON log file. Parent directories are created.
	Path    string
	Session string
	// Level is a zap level name; empty means info.
	Level string
	// Console mirrors logs to Stderr. The TUI leaves this off since it
	// owns the terminal.
	Console bool
	// ConsoleLevel filters the stderr mirror; empty means Level.
	ConsoleLevel string
	Stderr       io.Writer
}

// New creates a zap logger that writes JSON to opts.Path and, when
// requested, console-formatted lines to stderr. Session name and PID are
// included as initial fields.
func New(opts Options) (*zap.Logger, error) {
	level, err := parseLevel(opts.Level, zapcore.InfoLevel)
	if err != nil {
		return nil, err
	}
	consoleLevel, err := parseLevel(opts.ConsoleLevel, level)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0700); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, err
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(file), level),
	}
	if opts.Console {
		stderr := opts.Stderr
		if stderr == nil {
			stderr = os.Stderr
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(stderr), consoleLevel))
	}

	logger := zap.New(zapcore.NewTee(cores...),
		zap.Fields(
			zap.String("session", opts.Session),
			zap.Int("pid", os.Getpid()),
		),
	)
	return logger, nil
}

func parseLevel(name string, fallback zapcore.Level) (zapcore.Level, error) {
	if name == "" {
		return fallback, nil
	}
	var level zapcore.Level
	if err := level.Set(name); err != nil {
		return fallback, fmt.Errorf("parse log level: %w", err)
	}
	return level, nil
}
