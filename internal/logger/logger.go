package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger — логирующая способность, передается в компоненты при создании.
// Никакого глобального состояния, владелец жизненного цикла — точка входа.
type Logger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
	Sync() error
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}

func consoleCore() zapcore.Core {
	return zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig()),
		zapcore.AddSync(os.Stdout),
		zap.InfoLevel,
	)
}

// Файловый core пишет JSON в файл с ротацией.
func fileCore(dir string) zapcore.Core {
	writer := &lumberjack.Logger{
		Filename:   filepath.Join(dir, "order-service.log"),
		MaxSize:    50, // мегабайт
		MaxBackups: 5,
		MaxAge:     30, // дней
	}
	return zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig()),
		zapcore.AddSync(writer),
		zap.DebugLevel,
	)
}

func NewConsoleLogger() Logger {
	return zap.New(consoleCore()).Sugar()
}

func NewFileLogger(dir string) (Logger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return zap.New(fileCore(dir)).Sugar(), nil
}

// NewCombinedLogger пишет и в консоль, и в файл.
func NewCombinedLogger(dir string) (Logger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	core := zapcore.NewTee(consoleCore(), fileCore(dir))
	return zap.New(core).Sugar(), nil
}
