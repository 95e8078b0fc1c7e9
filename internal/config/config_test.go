package config

import (
	"testing"
	"time"
)

func TestLoad_DefaultsAndPrefixes(t *testing.T) {
	t.Setenv("POSTGRES_URL", "postgres://localhost/donations")
	t.Setenv("DONATION_TOKEN_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("PAYBOX_SITE", "1999888")
	t.Setenv("KAFKA_BOOTSTRAP_SERVERS", "localhost:9092")
	t.Setenv("RETRY_TOKEN_TTL", "2h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.Paybox.Site != "1999888" {
		t.Errorf("Paybox.Site = %q", cfg.Paybox.Site)
	}
	if cfg.Paybox.Currency != "978" {
		t.Errorf("Paybox.Currency = %q, want 978", cfg.Paybox.Currency)
	}
	if cfg.Kafka.DonationsTopic != "successful_donations" {
		t.Errorf("Kafka.DonationsTopic = %q", cfg.Kafka.DonationsTopic)
	}
	if cfg.RetryTokenTTL != 2*time.Hour {
		t.Errorf("RetryTokenTTL = %v, want 2h", cfg.RetryTokenTTL)
	}
	if cfg.CallbackTokenTTL != time.Hour {
		t.Errorf("CallbackTokenTTL = %v, want 1h", cfg.CallbackTokenTTL)
	}
	if got := cfg.CallbackURL(); got != "http://localhost:8080/donate/callback" {
		t.Errorf("CallbackURL() = %q", got)
	}
}

func TestLoad_RequiresSecrets(t *testing.T) {
	t.Setenv("POSTGRES_URL", "postgres://localhost/donations")
	t.Setenv("DONATION_TOKEN_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error without DONATION_TOKEN_SECRET")
	}
}
