package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	var errors []string

	// Валидация порта
	if c.Port == "" {
		errors = append(errors, "port is required")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errors = append(errors, fmt.Sprintf("invalid port: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("port must be between 1 and 65535, got %d", port))
		}
	}

	// Валидация путей
	if c.DataDir == "" {
		errors = append(errors, "data directory is required")
	}
	if c.OutputDir == "" {
		errors = append(errors, "output directory is required")
	}
	if c.RegistryPath == "" {
		errors = append(errors, "registry path is required")
	}
	if c.DatabasePath == "" {
		errors = append(errors, "database path is required")
	}

	// Валидация порога сопоставления
	if c.MatchThreshold <= 0 || c.MatchThreshold > 1 {
		errors = append(errors, fmt.Sprintf("match threshold must be in (0, 1], got %g", c.MatchThreshold))
	}

	// Валидация ограничения частоты запросов
	if c.RateLimit <= 0 {
		errors = append(errors, "rate limit must be positive")
	}
	if c.RateLimitBurst < 1 {
		errors = append(errors, "rate limit burst must be at least 1")
	}
	if c.RequestTimeout < time.Second {
		errors = append(errors, "request timeout must be at least 1 second")
	}

	// Валидация уровня логирования
	validLogLevels := []string{"DEBUG", "INFO", "WARN", "ERROR"}
	if c.LogLevel != "" {
		valid := false
		logLevelUpper := strings.ToUpper(c.LogLevel)
		for _, level := range validLogLevels {
			if logLevelUpper == level {
				valid = true
				break
			}
		}
		if !valid {
			errors = append(errors, fmt.Sprintf("invalid log level: %s (valid: %s)",
				c.LogLevel, strings.Join(validLogLevels, ", ")))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errors, "; "))
	}

	return nil
}
