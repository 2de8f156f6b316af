package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
	AI        AIConfig
	Scheduler SchedulerConfig
	Sync      SyncConfig
	Cache     CacheConfig
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

type JWTConfig struct {
	Secret string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// AIConfig points the generator at the external text-generation service.
type AIConfig struct {
	Enabled bool
	BaseURL string
	Model   string
	Timeout time.Duration
}

// SchedulerConfig carries the engine tunables. The step size and list caps
// are deliberately configuration, not constants baked into the algorithms.
type SchedulerConfig struct {
	SlotStepMinutes       int
	MinItemMinutes        int
	MaxPendingLessons     int
	MaxPendingAssignments int

	// Fallback defaults applied when a student has no stored preferences.
	DefaultSessionMinutes   int
	DefaultBreakMinutes     int
	DefaultLongBreakMinutes int
	DefaultLongBreakEvery   int
	DefaultDayStart         string
	DefaultDayEnd           string
}

// SyncConfig governs the daily auto-schedule sweep for recurring tasks.
type SyncConfig struct {
	Enabled   bool
	At        string
	Workers   int
	QueueSize int
}

// CacheConfig tunes the day-schedule read cache.
type CacheConfig struct {
	Enabled     bool
	ScheduleTTL time.Duration
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
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

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

	cfg.JWT = JWTConfig{
		Secret: v.GetString("JWT_SECRET"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.AI = AIConfig{
		Enabled: v.GetBool("AI_ENABLED"),
		BaseURL: v.GetString("AI_BASE_URL"),
		Model:   v.GetString("AI_MODEL"),
		Timeout: parseDuration(v.GetString("AI_TIMEOUT"), 45*time.Second),
	}

	cfg.Scheduler = SchedulerConfig{
		SlotStepMinutes:         v.GetInt("SCHEDULER_SLOT_STEP_MINUTES"),
		MinItemMinutes:          v.GetInt("SCHEDULER_MIN_ITEM_MINUTES"),
		MaxPendingLessons:       v.GetInt("SCHEDULER_MAX_PENDING_LESSONS"),
		MaxPendingAssignments:   v.GetInt("SCHEDULER_MAX_PENDING_ASSIGNMENTS"),
		DefaultSessionMinutes:   v.GetInt("SCHEDULER_DEFAULT_SESSION_MINUTES"),
		DefaultBreakMinutes:     v.GetInt("SCHEDULER_DEFAULT_BREAK_MINUTES"),
		DefaultLongBreakMinutes: v.GetInt("SCHEDULER_DEFAULT_LONG_BREAK_MINUTES"),
		DefaultLongBreakEvery:   v.GetInt("SCHEDULER_DEFAULT_LONG_BREAK_EVERY"),
		DefaultDayStart:         v.GetString("SCHEDULER_DEFAULT_DAY_START"),
		DefaultDayEnd:           v.GetString("SCHEDULER_DEFAULT_DAY_END"),
	}

	cfg.Sync = SyncConfig{
		Enabled:   v.GetBool("SYNC_ENABLED"),
		At:        v.GetString("SYNC_AT"),
		Workers:   v.GetInt("SYNC_WORKERS"),
		QueueSize: v.GetInt("SYNC_QUEUE_SIZE"),
	}

	cfg.Cache = CacheConfig{
		Enabled:     v.GetBool("CACHE_ENABLED"),
		ScheduleTTL: parseDuration(v.GetString("CACHE_SCHEDULE_TTL"), 5*time.Minute),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "studyplan")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("AI_ENABLED", true)
	v.SetDefault("AI_BASE_URL", "http://localhost:11434")
	v.SetDefault("AI_MODEL", "llama3.1")
	v.SetDefault("AI_TIMEOUT", "45s")

	v.SetDefault("SCHEDULER_SLOT_STEP_MINUTES", 15)
	v.SetDefault("SCHEDULER_MIN_ITEM_MINUTES", 15)
	v.SetDefault("SCHEDULER_MAX_PENDING_LESSONS", 5)
	v.SetDefault("SCHEDULER_MAX_PENDING_ASSIGNMENTS", 5)
	v.SetDefault("SCHEDULER_DEFAULT_SESSION_MINUTES", 45)
	v.SetDefault("SCHEDULER_DEFAULT_BREAK_MINUTES", 10)
	v.SetDefault("SCHEDULER_DEFAULT_LONG_BREAK_MINUTES", 30)
	v.SetDefault("SCHEDULER_DEFAULT_LONG_BREAK_EVERY", 4)
	v.SetDefault("SCHEDULER_DEFAULT_DAY_START", "08:00")
	v.SetDefault("SCHEDULER_DEFAULT_DAY_END", "22:00")

	v.SetDefault("SYNC_ENABLED", false)
	v.SetDefault("SYNC_AT", "00:05")
	v.SetDefault("SYNC_WORKERS", 2)
	v.SetDefault("SYNC_QUEUE_SIZE", 64)

	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("CACHE_SCHEDULE_TTL", "5m")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
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
