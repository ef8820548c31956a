package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	AppEnv     string
	ServerPort string

	DBDriver string
	DBDSN    string

	RedisAddr string
	RedisDB   int
	RedisPass string

	JWTSecret      string
	JWTTTL         time.Duration
	BcryptCost     int
	TrashRetention time.Duration

	RabbitMQURL string
	EventsQueue string

	SwaggerHost string

	SeedAdminUsername string
	SeedAdminPassword string

	Log LogConfig
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level      string
	Format     string
	Output     string
	FilePath   string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

// Load builds Config from environment with sensible defaults. A .env file in the
// working directory is read first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AppEnv:     getEnv("APP_ENV", "development"),
		ServerPort: getEnv("SERVER_PORT", "8080"),

		DBDriver: strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		DBDSN:    getEnv("DB_DSN", "user:password@tcp(localhost:3306)/wateradmin?charset=utf8mb4&parseTime=True&loc=UTC"),

		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:   getEnvInt("REDIS_DB", 0),
		RedisPass: os.Getenv("REDIS_PASSWORD"),

		JWTSecret:      getEnv("JWT_SECRET", "change-me"),
		JWTTTL:         time.Duration(getEnvInt("JWT_TTL_MINUTES", 480)) * time.Minute,
		BcryptCost:     getEnvInt("BCRYPT_COST", 10),
		TrashRetention: time.Duration(getEnvInt("TRASH_RETENTION_DAYS", 30)) * 24 * time.Hour,

		RabbitMQURL: os.Getenv("RABBITMQ_URL"),
		EventsQueue: getEnv("EVENTS_QUEUE", "inventory.events"),

		SwaggerHost: os.Getenv("SWAGGER_HOST"),

		SeedAdminUsername: getEnv("SEED_ADMIN_USERNAME", "admin"),
		SeedAdminPassword: os.Getenv("SEED_ADMIN_PASSWORD"),

		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			Output:     getEnv("LOG_OUTPUT", "stdout"),
			FilePath:   getEnv("LOG_FILE", "logs/wateradmin.log"),
			MaxSize:    getEnvInt("LOG_MAX_SIZE_MB", 100),
			MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 3),
			MaxAge:     getEnvInt("LOG_MAX_AGE_DAYS", 7),
			Compress:   getEnvBool("LOG_COMPRESS", false),
		},
	}
}

// IsProduction reports whether internal error details must be hidden from clients.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production" || c.AppEnv == "prod"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}
