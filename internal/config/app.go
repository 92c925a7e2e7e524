package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type HTTPServer struct {
	Port string `mapstructure:"port"`
}

type DbServer struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Pass     string `mapstructure:"pass"`
	Name     string `mapstructure:"name"`
	MaxConns int32  `mapstructure:"max_conns"`
}

func (config *DbServer) GetConnectionStr() string {
	return fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=disable",
		config.User, config.Pass, config.Host, config.Port, config.Name,
	)
}

// Enabled reports whether a database is configured. Without one rates live in memory only.
func (config *DbServer) Enabled() bool { return config.Host != "" }

type HTTPClient struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

type RateAPI struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	// Bases are the currencies whose rate tables are pulled on every sync.
	Bases []string `mapstructure:"bases"`
}

func (config *RateAPI) Enabled() bool { return config.APIKey != "" && len(config.Bases) > 0 }

func (config *RateAPI) LatestURL() string {
	return fmt.Sprintf("%s/%s/latest", strings.TrimSuffix(config.BaseURL, "/"), config.APIKey)
}

type Scheduler struct {
	JobDurationSec int `mapstructure:"job_duration_sec"`
	Workers        int `mapstructure:"workers"`
}

type Cache struct {
	MaxQuotes int64 `mapstructure:"max_quotes"`
}

type Logging struct {
	Level string `mapstructure:"level"`
}

type AppConfig struct {
	HTTPServer HTTPServer `mapstructure:"http_server"`
	DbServer   DbServer   `mapstructure:"db_server"`
	HTTPClient HTTPClient `mapstructure:"http_client"`
	RateAPI    RateAPI    `mapstructure:"rate_api"`
	Scheduler  Scheduler  `mapstructure:"scheduler"`
	Cache      Cache      `mapstructure:"cache"`
	Logging    Logging    `mapstructure:"logging"`
}

// Init reads .env (optional) and the yaml file at path (optional), then applies
// defaults and environment overrides.
func Init(path string) (*AppConfig, error) {
	var cfg AppConfig

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	v.SetDefault("http_server.port", "8080")
	v.SetDefault("db_server.max_conns", 10)
	v.SetDefault("http_client.timeout_seconds", 10)
	v.SetDefault("rate_api.base_url", "https://v6.exchangerate-api.com/v6")
	v.SetDefault("scheduler.job_duration_sec", 3600)
	v.SetDefault("scheduler.workers", 5)
	v.SetDefault("cache.max_quotes", 10000)
	v.SetDefault("logging.level", "info")

	_ = v.BindEnv("http_server.port", "HTTP_PORT")

	// db server env vars
	_ = v.BindEnv("db_server.host", "DB_HOST")
	_ = v.BindEnv("db_server.port", "DB_PORT")
	_ = v.BindEnv("db_server.user", "DB_USER")
	_ = v.BindEnv("db_server.pass", "DB_PASS")
	_ = v.BindEnv("db_server.name", "DB_NAME")
	_ = v.BindEnv("db_server.max_conns", "DB_MAX_CONNS")

	// http client env vars
	_ = v.BindEnv("http_client.timeout_seconds", "HTTP_CLIENT_TIMEOUT_SECONDS")

	_ = v.BindEnv("rate_api.base_url", "RATE_API_BASE_URL")
	_ = v.BindEnv("rate_api.api_key", "RATE_API_KEY")
	_ = v.BindEnv("logging.level", "LOG_LEVEL")

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	for i, code := range cfg.RateAPI.Bases {
		cfg.RateAPI.Bases[i] = strings.ToUpper(strings.TrimSpace(code))
	}
	return &cfg, nil
}
