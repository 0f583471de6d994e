package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var globalLogger = zap.NewNop().Sugar()

// Init builds the global JSON logger. A non-empty file also tees output into
// a size-rotated log file.
func Init(appEnv, file string) error {
	var config zap.Config

	if appEnv == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
	}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Encoding = "json"

	logger, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if file != "" {
		rotator := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		}
		fileCore := zapcore.NewCore(
			zapcore.NewJSONEncoder(config.EncoderConfig),
			zapcore.AddSync(rotator),
			config.Level,
		)
		logger = logger.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
			return zapcore.NewTee(c, fileCore)
		}))
	}

	globalLogger = logger.Sugar()
	return nil
}

// Set replaces the global logger. Tests use it with zaptest/observer.
func Set(l *zap.SugaredLogger) {
	globalLogger = l
}

func L() *zap.SugaredLogger {
	return globalLogger
}

// Close flushes any buffered logs
func Close() error {
	return globalLogger.Sync()
}

func Info(message string, fields ...interface{}) {
	globalLogger.Infow(message, fields...)
}

func Debug(message string, fields ...interface{}) {
	globalLogger.Debugw(message, fields...)
}

func Warn(message string, fields ...interface{}) {
	globalLogger.Warnw(message, fields...)
}

func Error(message string, fields ...interface{}) {
	globalLogger.Errorw(message, fields...)
}

// Fatal logs and exits the process.
func Fatal(message string, fields ...interface{}) {
	globalLogger.Fatalw(message, fields...)
}

// WithSearch scopes a logger to one search.
func WithSearch(searchID string) *zap.SugaredLogger {
	return globalLogger.With("search_id", searchID)
}
