package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime string
}

type AuthConfig struct {
	AccessSecret string
}

type NotifyConfig struct {
	Driver       string
	WebhookURL   string
	Timeout      time.Duration
	RedisAddr    string
	RedisChannel string
}

type ContractsConfig struct {
	CodeLength      int
	CodeMaxAttempts int
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	Notify      NotifyConfig
	Contracts   ContractsConfig
}

const (
	NotifyDriverNone    = "none"
	NotifyDriverWebhook = "webhook"
	NotifyDriverRedis   = "redis"
)

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

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host:           v.GetString("HTTP_HOST"),
			Port:           v.GetInt("HTTP_PORT"),
			AllowedOrigins: parseList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetString("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		Notify: NotifyConfig{
			Driver:       strings.ToLower(strings.TrimSpace(v.GetString("NOTIFY_DRIVER"))),
			WebhookURL:   v.GetString("NOTIFY_WEBHOOK_URL"),
			Timeout:      v.GetDuration("NOTIFY_TIMEOUT"),
			RedisAddr:    v.GetString("REDIS_ADDR"),
			RedisChannel: v.GetString("REDIS_CHANNEL"),
		},
		Contracts: ContractsConfig{
			CodeLength:      v.GetInt("CONTRACT_CODE_LENGTH"),
			CodeMaxAttempts: v.GetInt("CONTRACT_CODE_MAX_ATTEMPTS"),
		},
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 7090
	}
	if cfg.Notify.Driver == "" {
		cfg.Notify.Driver = NotifyDriverNone
	}
	if cfg.Notify.Timeout <= 0 {
		cfg.Notify.Timeout = 5 * time.Second
	}
	if cfg.Notify.RedisChannel == "" {
		cfg.Notify.RedisChannel = "contract-notifications"
	}
	if cfg.Contracts.CodeLength <= 0 {
		cfg.Contracts.CodeLength = 8
	}
	if cfg.Contracts.CodeMaxAttempts <= 0 {
		cfg.Contracts.CodeMaxAttempts = 20
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	switch cfg.Notify.Driver {
	case NotifyDriverNone:
	case NotifyDriverWebhook:
		if cfg.Notify.WebhookURL == "" {
			return fmt.Errorf("NOTIFY_WEBHOOK_URL is required for webhook notifications")
		}
	case NotifyDriverRedis:
		if cfg.Notify.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for redis notifications")
		}
	default:
		return fmt.Errorf("unknown NOTIFY_DRIVER %q", cfg.Notify.Driver)
	}
	if cfg.Contracts.CodeLength < 6 {
		return fmt.Errorf("CONTRACT_CODE_LENGTH must be at least 6")
	}
	return nil
}

func parseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	items := strings.Split(raw, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}
