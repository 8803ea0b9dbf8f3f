package config

import (
	"strings"

	"calbuddy/pkg/logger"
)

// LoggingConfig содержит настройки логирования.
type LoggingConfig struct {
	Level string `yaml:"level" env:"CALENDAR_LOGGER_LEVEL" env-default:"info"`
	Mode  string `yaml:"mode" env:"CALENDAR_LOGGER_MODE" env-default:"development"`
}

// GetEnvironment переводит режим в окружение логгера.
func (l *LoggingConfig) GetEnvironment() logger.Environment {
	if strings.EqualFold(l.Mode, string(logger.Production)) {
		return logger.Production
	}
	return logger.Development
}
