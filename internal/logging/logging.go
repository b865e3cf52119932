// Package logging builds the zap logger shared by the CLI and the TUI.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects the log destinations.
type Config struct {
	// Console receives human-readable lines. Nil disables console logging,
	// which the TUI needs so log lines do not tear the screen.
	Console io.Writer
	// Verbose lowers the console level from info to debug.
	Verbose bool
	// FilePath, when set, also writes every level as JSON to that file.
	FilePath string
}

// New returns the logger and a cleanup func that syncs and closes the log file.
func New(cfg Config) (*zap.Logger, func(), error) {
	var cores []zapcore.Core
	var logFile *os.File

	if cfg.FilePath != "" {
		path, err := filepath.Abs(cfg.FilePath)
		if err != nil {
			return nil, nil, err
		}
		logFile, err = os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, nil, err
		}
		cores = append(cores, fileCore(logFile))
	}

	if cfg.Console != nil {
		cores = append(cores, consoleCore(cfg.Console, cfg.Verbose))
	}

	if len(cores) == 0 {
		return zap.NewNop(), func() {}, nil
	}

	logger := zap.New(zapcore.NewTee(cores...))
	cleanup := func() {
		_ = logger.Sync()
		if logFile != nil {
			_ = logFile.Close()
		}
	}
	return logger, cleanup, nil
}

// fileCore logs everything with time, level and message as JSON.
func fileCore(w io.Writer) zapcore.Core {
	encoder := zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		TimeKey:     "time",
		LevelKey:    "level",
		MessageKey:  "message",
		EncodeLevel: zapcore.LowercaseLevelEncoder,
		EncodeTime:  zapcore.ISO8601TimeEncoder,
	})
	return zapcore.NewCore(encoder, zapcore.AddSync(w), zapcore.DebugLevel)
}

func consoleCore(w io.Writer, verbose bool) zapcore.Core {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	encoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		LevelKey:       "level",
		MessageKey:     "message",
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	})
	return zapcore.NewCore(encoder, zapcore.AddSync(w), level)
}
