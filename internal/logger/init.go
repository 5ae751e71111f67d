package logger

import (
	"fmt"
)

// NewLogger выбирает реализацию по номеру из конфигурации.
func NewLogger(loggerTypeInt int, logDir string) (Logger, error) {

	switch loggerTypeInt {
	case 0:
		return NewConsoleLogger(), nil
	case 1:
		logger, err := NewFileLogger(logDir)
		return logger, err
	case 2:
		logger, err := NewCombinedLogger(logDir)
		return logger, err
	default:
		return nil, fmt.Errorf("wrong n - %d. N can be only: 0,1,2", loggerTypeInt)
	}
}
