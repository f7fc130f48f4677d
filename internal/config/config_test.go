package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DeliveryOffsetDays != 3 {
		t.Errorf("expected default delivery offset 3, got %d", cfg.DeliveryOffsetDays)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
}

func TestLoadMigrationsPath(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MigrationsPath != "file://migrations" {
		t.Errorf("expected default migrations path, got %s", cfg.MigrationsPath)
	}

	t.Setenv("MIGRATIONS_PATH", "file:///srv/orderdesk/migrations")

	cfg, err = Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MigrationsPath != "file:///srv/orderdesk/migrations" {
		t.Errorf("expected overridden migrations path, got %s", cfg.MigrationsPath)
	}
}

func TestLoadDeliveryOffset(t *testing.T) {
	t.Setenv("DELIVERY_OFFSET_DAYS", "7")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DeliveryOffsetDays != 7 {
		t.Errorf("expected delivery offset 7, got %d", cfg.DeliveryOffsetDays)
	}
}

func TestLoadRejectsBadOffset(t *testing.T) {
	for _, value := range []string{"zero", "0", "-2"} {
		t.Setenv("DELIVERY_OFFSET_DAYS", value)

		if _, err := Load(); err == nil {
			t.Errorf("expected error for DELIVERY_OFFSET_DAYS=%q", value)
		}
	}
}

func TestLoadKafkaBrokers(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[0] != "kafka-1:9092" {
		t.Errorf("unexpected brokers: %v", cfg.KafkaBrokers)
	}
}
