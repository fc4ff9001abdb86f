package utils

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	AMQP      AMQPConfig
	Seed      SeedConfig
	Run       RunFlags
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	MaxConns int32
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

// RedisConfig leaves Addr empty to run without cache and rate limiting.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	CacheTTL time.Duration
}

type RateLimitConfig struct {
	Enabled  bool
	Requests int
	Window   time.Duration
}

// AMQPConfig leaves URL empty to disable booking events.
type AMQPConfig struct {
	URL   string
	Queue string
}

type SeedConfig struct {
	AdminPassword string
}

// RunFlags are one-shot tasks selected on the command line.
type RunFlags struct {
	Migrate  bool
	Seed     bool
	Consumer bool
}

func LoadConfig() (*Config, error) {
	return LoadConfigFrom(".env", nil)
}

// LoadConfigFrom reads an optional dotenv file, the process environment and
// the given command-line args. A missing dotenv file is not an error.
func LoadConfigFrom(envFile string, args []string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	v := viper.New()

	// Set defaults
	v.SetDefault("APP_NAME", "theater-booking")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("JWT_EXPIRY_HOURS", 24)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL", "30s")
	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.SetDefault("RATE_LIMIT_REQUESTS", 10)
	v.SetDefault("RATE_LIMIT_WINDOW", "1m")
	v.SetDefault("AMQP_QUEUE", "booking.created")
	v.SetDefault("SEED_ADMIN_PASSWORD", "admin123")

	v.AutomaticEnv()

	flags := pflag.NewFlagSet("theater-booking", pflag.ContinueOnError)
	flags.Bool("migrate", false, "apply database schema and exit")
	flags.Bool("seed", false, "insert sample movies, seats and users and exit")
	flags.Bool("consumer", false, "run the booking event consumer alongside the server")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if err := v.BindPFlags(flags); err != nil {
		return nil, err
	}

	config := &Config{
		App: AppConfig{
			Name:    v.GetString("APP_NAME"),
			Port:    v.GetString("PORT"),
			Debug:   v.GetBool("DEBUG"),
			LogPath: v.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			SSLMode:  v.GetString("DB_SSLMODE"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		JWT: JWTConfig{
			Secret:      v.GetString("JWT_SECRET"),
			ExpiryHours: v.GetInt("JWT_EXPIRY_HOURS"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			CacheTTL: v.GetDuration("CACHE_TTL"),
		},
		RateLimit: RateLimitConfig{
			Enabled:  v.GetBool("RATE_LIMIT_ENABLED"),
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Window:   v.GetDuration("RATE_LIMIT_WINDOW"),
		},
		AMQP: AMQPConfig{
			URL:   v.GetString("AMQP_URL"),
			Queue: v.GetString("AMQP_QUEUE"),
		},
		Seed: SeedConfig{
			AdminPassword: v.GetString("SEED_ADMIN_PASSWORD"),
		},
		Run: RunFlags{
			Migrate:  v.GetBool("migrate"),
			Seed:     v.GetBool("seed"),
			Consumer: v.GetBool("consumer"),
		},
	}

	if strings.TrimSpace(config.JWT.Secret) == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return config, nil
}
