package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	Port           string `env:"PORT" envDefault:"8080"`
	AppBaseURL     string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	PostgresURL    string `env:"POSTGRES_URL,required,notEmpty"`
	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"file://db/migrations"`

	DonationTokenSecret string        `env:"DONATION_TOKEN_SECRET,required,notEmpty,unset"`
	CallbackTokenTTL    time.Duration `env:"CALLBACK_TOKEN_TTL" envDefault:"1h"`
	RetryTokenTTL       time.Duration `env:"RETRY_TOKEN_TTL" envDefault:"24h"`
	JWTSecret           string        `env:"JWT_SECRET,unset"`

	Paybox PayboxConfig `envPrefix:"PAYBOX_"`
	SMTP   SMTPConfig   `envPrefix:"SMTP_"`
	Kafka  KafkaConfig  `envPrefix:"KAFKA_"`

	MapboxAccessToken string `env:"MAPBOX_ACCESS_TOKEN"`
}

type PayboxConfig struct {
	Site        string `env:"SITE"`
	Rang        string `env:"RANG"`
	Identifiant string `env:"IDENTIFIANT"`
	Key         string `env:"KEY,unset"`
	URL         string `env:"URL" envDefault:"https://preprod-tpeweb.paybox.com/cgi/MYchoix_pagepaiement.cgi"`
	Currency    string `env:"CURRENCY" envDefault:"978"`
}

type SMTPConfig struct {
	Host     string `env:"HOST"`
	Port     int    `env:"PORT" envDefault:"587"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD,unset"`
	From     string `env:"FROM"`
	FromName string `env:"FROM_NAME" envDefault:"Donations"`
	UseSSL   bool   `env:"USE_SSL" envDefault:"false"`
}

type KafkaConfig struct {
	BootstrapServers string `env:"BOOTSTRAP_SERVERS"`
	DonationsTopic   string `env:"DONATIONS_TOPIC" envDefault:"successful_donations"`
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file loaded")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) CallbackURL() string {
	return c.AppBaseURL + "/donate/callback"
}
