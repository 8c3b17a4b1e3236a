package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the console.
type Config struct {
	App        AppConfig
	Backend    BackendConfig
	Storage    StorageConfig
	Redis      RedisConfig
	Logger     LoggerConfig
	UI         UIConfig
	DevBackend DevBackendConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// BackendConfig points the console at the hospital REST API.
type BackendConfig struct {
	BaseURL        string
	TimeoutSeconds int
	LoginPath      string
	ValidatePath   string
	LogoutPath     string
}

// StorageConfig selects where the session token and preferences are kept.
type StorageConfig struct {
	Driver    string
	FilePath  string
	KeyPrefix string
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// UIConfig holds presentation defaults.
type UIConfig struct {
	DefaultTheme string
	Title        string
}

// DevBackendConfig configures the local stand-in backend.
type DevBackendConfig struct {
	Host                  string
	Port                  string
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
	PostgresDSN           string
	SeedUsers             bool
}

const (
	StorageDriverFile   = "file"
	StorageDriverRedis  = "redis"
	StorageDriverMemory = "memory"
)

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "medicare-admin-console"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "127.0.0.1"),
			Port:                  getEnv("APP_PORT", "3000"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Backend: BackendConfig{
			BaseURL:        strings.TrimRight(getEnv("BACKEND_BASE_URL", "http://localhost:5000"), "/"),
			TimeoutSeconds: getEnvAsInt("BACKEND_TIMEOUT_SECONDS", 10),
			LoginPath:      getEnv("BACKEND_LOGIN_PATH", "/api/auth/login"),
			ValidatePath:   getEnv("BACKEND_VALIDATE_PATH", "/api/auth/validate-token"),
			LogoutPath:     getEnv("BACKEND_LOGOUT_PATH", "/api/auth/logout"),
		},
		Storage: StorageConfig{
			Driver:    strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverFile)),
			FilePath:  getEnv("STORAGE_FILE_PATH", defaultStatePath()),
			KeyPrefix: getEnv("STORAGE_KEY_PREFIX", "medicare:console:"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		UI: UIConfig{
			DefaultTheme: strings.ToLower(getEnv("UI_DEFAULT_THEME", "light")),
			Title:        getEnv("UI_TITLE", "MediCare Pro"),
		},
		DevBackend: DevBackendConfig{
			Host:                  getEnv("DEV_BACKEND_HOST", "127.0.0.1"),
			Port:                  getEnv("DEV_BACKEND_PORT", "5000"),
			JWTSecret:             getEnv("DEV_BACKEND_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("DEV_BACKEND_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("DEV_BACKEND_BCRYPT_COST", 10),
			PostgresDSN:           os.Getenv("DEV_BACKEND_POSTGRES_DSN"),
			SeedUsers:             getEnvAsBool("DEV_BACKEND_SEED_USERS", true),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case StorageDriverFile, StorageDriverRedis, StorageDriverMemory:
	default:
		return fmt.Errorf("invalid STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("BACKEND_BASE_URL must not be empty")
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the bound applied to every backend call.
func (b BackendConfig) Timeout() time.Duration {
	if b.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// Addr returns the dev backend bind address.
func (d DevBackendConfig) Addr() string {
	return fmt.Sprintf("%s:%s", d.Host, d.Port)
}

func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return ".medicare-console.yaml"
	}
	return filepath.Join(dir, "medicare-console", "state.yaml")
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
