package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Storage drivers supported by the record repositories.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Timer store backends.
const (
	TimerStoreMemory = "memory"
	TimerStoreRedis  = "redis"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string
	StaticDir string

	Storage  StorageConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Timer    TimerConfig
	CORS     CORSConfig
	Log      LogConfig
	Stats    StatsConfig
	Exports  ExportsConfig
	Metrics  MetricsConfig
}

// StorageConfig selects the backend for subjects and study sessions.
type StorageConfig struct {
	Driver              string
	SeedDefaultSubjects bool
	AutoMigrate         bool
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// TimerConfig controls where the active study timer is kept.
type TimerConfig struct {
	Store string
	Key   string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// StatsConfig tunes the aggregation views.
type StatsConfig struct {
	Timezone    string
	TopSubjects int
}

// ExportsConfig toggles the CSV/PDF export endpoints.
type ExportsConfig struct {
	Enabled bool
	Title   string
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
	Path    string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = "/" + strings.Trim(v.GetString("API_PREFIX"), "/")
	cfg.StaticDir = v.GetString("STATIC_DIR")

	cfg.Storage = StorageConfig{
		Driver:              strings.ToLower(v.GetString("STORAGE_DRIVER")),
		SeedDefaultSubjects: v.GetBool("SEED_DEFAULT_SUBJECTS"),
		AutoMigrate:         v.GetBool("DB_AUTO_MIGRATE"),
	}
	if cfg.Storage.Driver != StoragePostgres {
		cfg.Storage.Driver = StorageMemory
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Timer = TimerConfig{
		Store: strings.ToLower(v.GetString("TIMER_STORE")),
		Key:   v.GetString("TIMER_KEY"),
	}
	if cfg.Timer.Store != TimerStoreRedis {
		cfg.Timer.Store = TimerStoreMemory
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Stats = StatsConfig{
		Timezone:    v.GetString("STATS_TIMEZONE"),
		TopSubjects: v.GetInt("STATS_TOP_SUBJECTS"),
	}
	if cfg.Stats.TopSubjects <= 0 {
		cfg.Stats.TopSubjects = 5
	}

	cfg.Exports = ExportsConfig{
		Enabled: v.GetBool("ENABLE_EXPORTS"),
		Title:   v.GetString("EXPORTS_REPORT_TITLE"),
	}

	cfg.Metrics = MetricsConfig{
		Enabled: v.GetBool("ENABLE_METRICS"),
		Path:    v.GetString("METRICS_PATH"),
	}

	return cfg
}

// Location resolves the configured stats timezone, falling back to the host zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Stats.Timezone == "" || strings.EqualFold(c.Stats.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Stats.Timezone)
	if err != nil {
		return time.Local, err
	}
	return loc, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 5000)
	v.SetDefault("API_PREFIX", "/api")
	v.SetDefault("STATIC_DIR", "./public")

	v.SetDefault("STORAGE_DRIVER", StorageMemory)
	v.SetDefault("SEED_DEFAULT_SUBJECTS", true)
	v.SetDefault("DB_AUTO_MIGRATE", true)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "study_tracker")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("TIMER_STORE", TimerStoreMemory)
	v.SetDefault("TIMER_KEY", "study-tracker:timer")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("STATS_TIMEZONE", "Local")
	v.SetDefault("STATS_TOP_SUBJECTS", 5)

	v.SetDefault("ENABLE_EXPORTS", true)
	v.SetDefault("EXPORTS_REPORT_TITLE", "Study Report")

	v.SetDefault("ENABLE_METRICS", true)
	v.SetDefault("METRICS_PATH", "/metrics")
}

// isMissingFile covers viper returning a raw fs error when SetConfigFile points at an absent .env.
func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
