package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"shuttle-service/internal/timeutil"
)

type HTTPConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type AuthConfig struct {
	AccessSecret string
}

type ScheduleConfig struct {
	Timezone        string
	RefreshInterval time.Duration
}

type NATSConfig struct {
	URL           string
	SubjectPrefix string
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	Schedule    ScheduleConfig
	NATS        NATSConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")

	v.AutomaticEnv()

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		Schedule: ScheduleConfig{
			Timezone:        v.GetString("SHUTTLE_TIMEZONE"),
			RefreshInterval: v.GetDuration("REFRESH_INTERVAL"),
		},
		NATS: NATSConfig{
			URL:           v.GetString("NATS_URL"),
			SubjectPrefix: v.GetString("NATS_SUBJECT_PREFIX"),
		},
	}

	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 7090
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.Schedule.Timezone == "" {
		cfg.Schedule.Timezone = timeutil.DefaultTimezone
	}
	if cfg.Schedule.RefreshInterval <= 0 {
		cfg.Schedule.RefreshInterval = 30 * time.Second
	}
	if cfg.NATS.SubjectPrefix == "" {
		cfg.NATS.SubjectPrefix = "shuttle"
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Location resolves the configured schedule timezone.
func (c *Config) Location() (*time.Location, error) {
	return timeutil.LoadLocation(c.Schedule.Timezone)
}

func validate(cfg *Config) error {
	if cfg.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if _, err := cfg.Location(); err != nil {
		return fmt.Errorf("invalid SHUTTLE_TIMEZONE: %w", err)
	}
	return nil
}
