// Package config конфигурация сервиса обработки отчетности
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config конфигурация сервиса
type Config struct {
	// Сервер
	Port string `json:"port"`

	// Пути к данным
	DataDir      string `json:"data_dir"`
	OutputDir    string `json:"output_dir"`
	RegistryPath string `json:"registry_path"`
	DatabasePath string `json:"database_path"`

	// Сопоставление с реестром
	MatchThreshold float64 `json:"match_threshold"`

	// Режимы итоговой книги
	IncludeSteps bool `json:"include_steps"`
	ApplyFilter  bool `json:"apply_filter"`

	// Ограничение частоты запросов
	RateLimit      float64       `json:"rate_limit"`
	RateLimitBurst int           `json:"rate_limit_burst"`
	RequestTimeout time.Duration `json:"request_timeout"`

	// Логирование
	LogLevel string `json:"log_level"`
}

// LoadConfig загружает конфигурацию: из JSON-файла, если путь задан,
// иначе из переменных окружения
func LoadConfig(configPath string) (*Config, error) {
	var config *Config

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		config = defaultConfig()
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else {
		config = &Config{
			Port: getEnv("SERVER_PORT", "9090"),

			DataDir:      getEnv("DATA_DIR", "data"),
			OutputDir:    getEnv("OUTPUT_DIR", "output"),
			RegistryPath: getEnv("REGISTRY_PATH", "data/projects_registry.json"),
			DatabasePath: getEnv("DATABASE_PATH", "mappings.db"),

			MatchThreshold: getEnvFloat("MATCH_THRESHOLD", 0.6),

			IncludeSteps: getEnv("INCLUDE_STEPS", "false") == "true",
			ApplyFilter:  getEnv("APPLY_FILTER", "false") == "true",

			RateLimit:      getEnvFloat("RATE_LIMIT", 20),
			RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 40),
			RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 60*time.Second),

			LogLevel: getEnv("LOG_LEVEL", "INFO"),
		}
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// defaultConfig значения по умолчанию для полей, не заданных в JSON
func defaultConfig() *Config {
	return &Config{
		Port:           "9090",
		DataDir:        "data",
		OutputDir:      "output",
		RegistryPath:   "data/projects_registry.json",
		DatabasePath:   "mappings.db",
		MatchThreshold: 0.6,
		RateLimit:      20,
		RateLimitBurst: 40,
		RequestTimeout: 60 * time.Second,
		LogLevel:       "INFO",
	}
}

// getEnv получает переменную окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает переменную окружения как int или возвращает значение по умолчанию
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat получает переменную окружения как float64 или возвращает значение по умолчанию
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvDuration получает переменную окружения как Duration или возвращает значение по умолчанию
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
