package config

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Port string `mapstructure:"PORT"`

	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBSSLMode  string `mapstructure:"DB_SSLMODE"`

	JWTSecret string `mapstructure:"JWT_SECRET"`

	AnthropicAPIKey string `mapstructure:"ANTHROPIC_API_KEY"`
	AnthropicModel  string `mapstructure:"ANTHROPIC_MODEL"`
	ReviewModel     string `mapstructure:"REVIEW_MODEL"`
	ReviewEnabled   bool   `mapstructure:"REVIEW_ENABLED"`
	MockGenerator   bool   `mapstructure:"MOCK_GENERATOR"`
}

// Load reads configuration from config.yaml (if present) and the
// environment, with environment taking precedence.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "examgen_user")
	viper.SetDefault("DB_PASSWORD", "examgen_password")
	viper.SetDefault("DB_NAME", "exam_generator")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("JWT_SECRET", "exam-generator-dev-signing-key")
	viper.SetDefault("ANTHROPIC_API_KEY", "")
	viper.SetDefault("ANTHROPIC_MODEL", "claude-sonnet-4-5-20250929")
	viper.SetDefault("REVIEW_MODEL", "claude-sonnet-4-5-20250929")
	viper.SetDefault("REVIEW_ENABLED", true)
	viper.SetDefault("MOCK_GENERATOR", false)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("config.yaml not found, using environment variables and defaults")
		} else {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	viper.AutomaticEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
