package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config carries every environment-derived setting. It is loaded once in
// main and handed to constructors; nothing reads the environment after
// startup.
type Config struct {
	PostgresURL        string
	MigrationsPath     string
	Port               string
	KafkaBrokers       []string
	DeliveryOffsetDays int
	OTLPEndpoint       string

	OrderServiceURL string
	EmailServiceURL string
}

func Load() (*Config, error) {
	cfg := &Config{
		PostgresURL:     os.Getenv("POSTGRES_URL"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "file://migrations"),
		Port:            getEnv("PORT", "8080"),
		OTLPEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		OrderServiceURL: os.Getenv("ORDER_SERVICE_URL"),
		EmailServiceURL: os.Getenv("EMAIL_SERVICE_URL"),
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	offset := getEnv("DELIVERY_OFFSET_DAYS", "3")
	days, err := strconv.Atoi(offset)
	if err != nil || days <= 0 {
		return nil, fmt.Errorf("invalid DELIVERY_OFFSET_DAYS %q: must be a positive integer", offset)
	}
	cfg.DeliveryOffsetDays = days

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
