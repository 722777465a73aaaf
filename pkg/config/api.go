package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	defaultJWTSecret     = "supersecuresecret"
	defaultAdminPassword = "1456"
	developmentEnv       = "development"
)

// APIConfig holds runtime configuration for the API service.
type APIConfig struct {
	Environment          string   `yaml:"environment" env:"APP_ENV" env-default:"development"`
	Addr                 string   `yaml:"addr" env:"API_ADDR" env-default:":3000"`
	Port                 string   `yaml:"port" env:"PORT"`
	StaticDir            string   `yaml:"static_dir" env:"STATIC_DIR" env-default:"public"`
	LogLevel             string   `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	JWTSecret            string   `yaml:"jwt_secret" env:"JWT_SECRET" env-default:"supersecuresecret"`
	AccessTokenTTLMin    int      `yaml:"access_token_ttl_min" env:"ACCESS_TOKEN_TTL_MIN" env-default:"60"`
	BcryptCost           int      `yaml:"bcrypt_cost" env:"BCRYPT_COST" env-default:"10"`
	HashConcurrency      int      `yaml:"hash_concurrency" env:"HASH_CONCURRENCY" env-default:"4"`
	AdminEmail           string   `yaml:"admin_email" env:"ADMIN_EMAIL" env-default:"Admin3@gmail.com"`
	AdminPassword        string   `yaml:"admin_password" env:"ADMIN_PASSWORD" env-default:"1456"`
	AdminUsername        string   `yaml:"admin_username" env:"ADMIN_USERNAME" env-default:"AdminTechno"`
	OpenAIAPIKey         string   `yaml:"openai_api_key" env:"OPENAI_API_KEY"`
	OpenAIBaseURL        string   `yaml:"openai_base_url" env:"OPENAI_BASE_URL"`
	OpenAIModel          string   `yaml:"openai_model" env:"OPENAI_MODEL" env-default:"gpt-3.5-turbo"`
	ChatTimeoutSeconds   int      `yaml:"chat_timeout_seconds" env:"CHAT_TIMEOUT_SECONDS" env-default:"30"`
	SettingsRedisAddr    string   `yaml:"settings_redis_addr" env:"SETTINGS_REDIS_ADDR"`
	SettingsRedisPass    string   `yaml:"settings_redis_password" env:"SETTINGS_REDIS_PASSWORD"`
	SettingsRedisDB      int      `yaml:"settings_redis_db" env:"SETTINGS_REDIS_DB" env-default:"0"`
	CORSAllowedOrigins   []string `yaml:"cors_allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"*"`
	ShutdownGraceSeconds int      `yaml:"shutdown_grace_seconds" env:"SHUTDOWN_GRACE_SECONDS" env-default:"10"`
}

// LoadAPIConfig constructs an APIConfig from the optional config file and
// environment variables.
func LoadAPIConfig() (APIConfig, error) {
	var cfg APIConfig
	if err := load(&cfg); err != nil {
		return APIConfig{}, err
	}
	if port := strings.TrimSpace(cfg.Port); port != "" {
		cfg.Addr = ":" + strings.TrimPrefix(port, ":")
	}
	return cfg, nil
}

// Validate rejects configurations that are unsafe to serve with.
func (c APIConfig) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("JWT_SECRET must be set")
	}
	if c.AccessTokenTTLMin <= 0 {
		return errors.New("ACCESS_TOKEN_TTL_MIN must be positive")
	}
	if c.IsDevelopment() {
		return nil
	}
	if c.JWTSecret == defaultJWTSecret {
		return errors.New("JWT_SECRET must not use the development default outside development")
	}
	if c.AdminPassword == defaultAdminPassword {
		return errors.New("ADMIN_PASSWORD must not use the development default outside development")
	}
	return nil
}

// IsDevelopment reports whether the service runs in the development environment.
func (c APIConfig) IsDevelopment() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), developmentEnv)
}

// AccessTokenTTL returns the lifetime of issued session tokens.
func (c APIConfig) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenTTLMin) * time.Minute
}

// ChatTimeout bounds a single upstream chat completion.
func (c APIConfig) ChatTimeout() time.Duration {
	if c.ChatTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.ChatTimeoutSeconds) * time.Second
}

// ShutdownGrace bounds graceful HTTP shutdown.
func (c APIConfig) ShutdownGrace() time.Duration {
	if c.ShutdownGraceSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.ShutdownGraceSeconds) * time.Second
}

// String returns a representation with secrets masked.
func (c APIConfig) String() string {
	return fmt.Sprintf("APIConfig{env: %s, addr: %s, static: %s, jwt: %s, openai: %s, model: %s, redis: %q, admin: %s}",
		c.Environment, c.Addr, c.StaticDir, mask(c.JWTSecret), mask(c.OpenAIAPIKey), c.OpenAIModel, c.SettingsRedisAddr, c.AdminEmail)
}
