// Package logger builds the application's zap logger with file rotation.
package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New creates a logger writing to the rotated file at path. Log output goes
// to the file only unless console is set, so interactive stdout stays clean.
func New(path, level string, console bool) (*zap.Logger, error) {
	const op = "logger.New"

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid log level %q: %w", op, level, err)
	}

	sink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // MB
		MaxBackups: 5,
		MaxAge:     30, // days
	})
	if console {
		sink = zapcore.NewMultiWriteSyncer(zapcore.AddSync(os.Stderr), sink)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), sink, lvl)

	return zap.New(core, zap.AddCaller()), nil
}
