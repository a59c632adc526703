package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const defaultTokenTTL = 60 * time.Minute

type Config struct {
	RunAddress    string        `env:"RUN_ADDRESS"`
	DatabaseDSN   string        `env:"DATABASE_URI"`
	MigrationsDir string        `env:"MIGRATIONS_DIR"`
	JWTSecret     string        `env:"JWT_SECRET"`
	TokenTTL      time.Duration `env:"TOKEN_TTL"`
	CookieSecure  bool          `env:"COOKIE_SECURE"`
	LogLevel      string        `env:"LOG_LEVEL"`
}

// String не раскрывает секреты при логировании конфига.
func (c Config) String() string {
	return fmt.Sprintf(
		"{RunAddress:%s MigrationsDir:%s TokenTTL:%s CookieSecure:%t LogLevel:%s}",
		c.RunAddress, c.MigrationsDir, c.TokenTTL, c.CookieSecure, c.LogLevel,
	)
}

// LoadConfig собирает конфиг из флагов и переменных окружения. Переменные окружения приоритетнее флагов.
// Если рядом лежит .env, он подгружается в окружение, уже выставленные переменные не перезаписываются.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()
	return load(os.Args[1:])
}

func MustLoadConfig() *Config {
	config, err := LoadConfig()
	if err != nil {
		panic(err)
	}
	return config
}

func load(args []string) (*Config, error) {
	var flagsConfig, envConfig Config

	if envParseErr := env.Parse(&envConfig); envParseErr != nil {
		return nil, fmt.Errorf("parse env config: %s", envParseErr.Error())
	}

	if flagsErr := loadFlags(&flagsConfig, args); flagsErr != nil {
		return nil, fmt.Errorf("parse flags: %w", flagsErr)
	}

	conf := mergeConfig(&envConfig, &flagsConfig)
	if conf.DatabaseDSN == "" {
		return nil, errors.New("database DSN is not set")
	}
	if conf.JWTSecret == "" {
		return nil, errors.New("jwt secret is not set")
	}
	if conf.TokenTTL <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	return conf, nil
}

func loadFlags(flagConfig *Config, args []string) error {
	fs := flag.NewFlagSet("receipts", flag.ContinueOnError)
	fs.StringVar(&flagConfig.RunAddress, "a", "localhost:8080", "Run address in format host:port")
	fs.StringVar(&flagConfig.DatabaseDSN, "d", "", "Database DSN")
	fs.StringVar(&flagConfig.MigrationsDir, "m", "internal/db/migrations", "Database migrations directory")
	fs.StringVar(&flagConfig.JWTSecret, "s", "", "Secret key for signing session tokens")
	fs.DurationVar(&flagConfig.TokenTTL, "t", defaultTokenTTL, "Session token lifetime")
	fs.BoolVar(&flagConfig.CookieSecure, "cookie-secure", false, "Send session cookie only over https")
	fs.StringVar(&flagConfig.LogLevel, "l", "info", "Log level (debug, info, warn, error)")

	return fs.Parse(args) //nolint:wrapcheck
}

func mergeConfig(envConfig, flagsConfig *Config) *Config {
	ttl := envConfig.TokenTTL
	if ttl == 0 {
		ttl = flagsConfig.TokenTTL
	}
	return &Config{
		RunAddress:    defaultIfBlank(envConfig.RunAddress, flagsConfig.RunAddress),
		DatabaseDSN:   defaultIfBlank(envConfig.DatabaseDSN, flagsConfig.DatabaseDSN),
		MigrationsDir: defaultIfBlank(envConfig.MigrationsDir, flagsConfig.MigrationsDir),
		JWTSecret:     defaultIfBlank(envConfig.JWTSecret, flagsConfig.JWTSecret),
		TokenTTL:      ttl,
		CookieSecure:  envConfig.CookieSecure || flagsConfig.CookieSecure,
		LogLevel:      defaultIfBlank(envConfig.LogLevel, flagsConfig.LogLevel),
	}
}

func defaultIfBlank(value string, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
