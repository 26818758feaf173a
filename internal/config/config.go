package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig `envPrefix:"DB_"`
	Redis    RedisConfig    `envPrefix:"REDIS_"`
	App      AppConfig
	Dares    DareConfig `envPrefix:"DARE_"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string        `env:"SERVER_PORT" envDefault:"8080"`
	AllowedOrigins  []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
	GinMode         string        `env:"GIN_MODE" envDefault:"debug"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver     string `env:"DRIVER" envDefault:"postgres"`
	Host       string `env:"HOST" envDefault:"localhost"`
	Port       string `env:"PORT" envDefault:"5432"`
	User       string `env:"USER" envDefault:"postgres"`
	Password   string `env:"PASSWORD"`
	DBName     string `env:"NAME" envDefault:"love_dice"`
	SSLMode    string `env:"SSLMODE" envDefault:"disable"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"love_dice.db"`
}

// RedisConfig enables token revocation when Addr is set
type RedisConfig struct {
	Addr     string `env:"ADDR"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

// AppConfig holds application-specific settings
type AppConfig struct {
	JWTSecret   string        `env:"JWT_SECRET"`
	TokenTTL    time.Duration `env:"TOKEN_TTL" envDefault:"720h"`
	LogLevel    string        `env:"LOG_LEVEL" envDefault:"info"`
	Environment string        `env:"APP_ENV" envDefault:"development"`
}

// DareConfig controls the dare roller
type DareConfig struct {
	CatalogPath string `env:"CATALOG_PATH"`
	MaxRolls    int    `env:"MAX_ROLLS" envDefault:"0"`
}

// Load reads .env when present and parses the environment.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()
	return Parse()
}

// Parse builds a Config from the current environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.App.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.App.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.Database.Driver)
	}
	if c.Dares.MaxRolls < 0 {
		return fmt.Errorf("DARE_MAX_ROLLS must not be negative")
	}
	return nil
}

// IsProduction reports whether APP_ENV is production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDSN returns the PostgreSQL connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}
