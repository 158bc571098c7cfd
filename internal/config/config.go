package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	GoEnv string `env:"GO_ENV" default:"development"`

	// Service
	HTTPPort int `env:"HTTP_PORT" default:"8080"`

	// Database
	MongoURI string `env:"MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDB  string `env:"MONGO_DB" default:"mangapress"`

	// Authentication. JWTSecret has no default on purpose: a process
	// started without one must not come up with a guessable secret.
	JWTSecret string `env:"JWT_SECRET" required:"true"`

	// Redis Cache
	RedisAddr     string        `env:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	CacheTTL      time.Duration `env:"CACHE_TTL" default:"1h"`

	// Payments. Both Stripe secrets are required: a placeholder webhook
	// secret would turn every forged delivery into an open credit path.
	StripeSecretKey     string `env:"STRIPE_SECRET_KEY" required:"true"`
	StripeWebhookSecret string `env:"STRIPE_WEBHOOK_SECRET" required:"true"`
	CheckoutSuccessURL  string `env:"CHECKOUT_SUCCESS_URL" default:"http://localhost:3000/coins/success"`
	CheckoutCancelURL   string `env:"CHECKOUT_CANCEL_URL" default:"http://localhost:3000/coins/cancel"`

	// Development
	CORSOrigins []string `env:"CORS_ORIGINS" default:"http://localhost:3000"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Try to load .env file from project root; system env vars still
	// apply when it is absent.
	if err := godotenv.Load(".env"); err != nil {
		fmt.Printf("Warning: .env file not found: %v\n", err)
	}

	config := &Config{}

	if err := loadEnvString(&config.GoEnv, "GO_ENV", "development"); err != nil {
		return nil, err
	}

	if err := loadEnvInt(&config.HTTPPort, "HTTP_PORT", 8080); err != nil {
		return nil, err
	}

	// Database
	if err := loadEnvString(&config.MongoURI, "MONGO_URI", "mongodb://localhost:27017"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.MongoDB, "MONGO_DB", "mangapress"); err != nil {
		return nil, err
	}

	// Authentication
	if err := loadEnvStringRequired(&config.JWTSecret, "JWT_SECRET"); err != nil {
		return nil, err
	}

	// Redis
	if err := loadEnvString(&config.RedisAddr, "REDIS_ADDR", "localhost:6379"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.RedisPassword, "REDIS_PASSWORD", ""); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.CacheTTL, "CACHE_TTL", time.Hour); err != nil {
		return nil, err
	}

	// Payments
	if err := loadEnvStringRequired(&config.StripeSecretKey, "STRIPE_SECRET_KEY"); err != nil {
		return nil, err
	}
	if err := loadEnvStringRequired(&config.StripeWebhookSecret, "STRIPE_WEBHOOK_SECRET"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.CheckoutSuccessURL, "CHECKOUT_SUCCESS_URL", "http://localhost:3000/coins/success"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.CheckoutCancelURL, "CHECKOUT_CANCEL_URL", "http://localhost:3000/coins/cancel"); err != nil {
		return nil, err
	}

	// Development
	if err := loadEnvStringSlice(&config.CORSOrigins, "CORS_ORIGINS", []string{"http://localhost:3000"}); err != nil {
		return nil, err
	}

	return config, nil
}

// Helper functions for type conversion and validation
func loadEnvString(target *string, key, defaultValue string) error {
	if value := os.Getenv(key); value != "" {
		*target = value
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvStringRequired(target *string, key string) error {
	value := os.Getenv(key)
	if value == "" {
		return fmt.Errorf("required environment variable %s is not set", key)
	}
	*target = value
	return nil
}

func loadEnvInt(target *int, key string, defaultValue int) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvDuration(target *time.Duration, key string, defaultValue time.Duration) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvStringSlice(target *[]string, key string, defaultValue []string) error {
	if value := os.Getenv(key); value != "" {
		*target = strings.Split(value, ",")
		for i, v := range *target {
			(*target)[i] = strings.TrimSpace(v)
		}
	} else {
		*target = defaultValue
	}
	return nil
}

// Validate performs validation on the loaded configuration
func (c *Config) Validate() error {
	var errors []string

	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		errors = append(errors, "HTTP_PORT must be between 1 and 65535")
	}

	// JWT secret length (at least 32 characters for security)
	if len(c.JWTSecret) < 32 {
		errors = append(errors, "JWT_SECRET should be at least 32 characters long")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errors, "; "))
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}
