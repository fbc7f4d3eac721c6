package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort     string `mapstructure:"APP_PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	Env         string `mapstructure:"ENV"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisAuthDB   int    `mapstructure:"REDIS_AUTH_DB"`

	// Terminal liveness settings.
	DeviceTimeoutMinutes int `mapstructure:"DEVICE_TIMEOUT_MINUTES"`
	SweepIntervalMinutes int `mapstructure:"SWEEP_INTERVAL_MINUTES"`

	// Registration session settings.
	RegistrationTimeoutSeconds int `mapstructure:"REGISTRATION_TIMEOUT_SECONDS"`

	// Operational escape hatch: when true, badge registration is allowed
	// even without an authorized, watching dashboard user.
	AllowRegistrationWithoutLogin bool `mapstructure:"ALLOW_REGISTRATION_WITHOUT_LOGIN"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_AUTH_DB", 1)
	viper.SetDefault("DEVICE_TIMEOUT_MINUTES", 10)
	viper.SetDefault("SWEEP_INTERVAL_MINUTES", 5)
	viper.SetDefault("REGISTRATION_TIMEOUT_SECONDS", 60)
	viper.SetDefault("ALLOW_REGISTRATION_WITHOUT_LOGIN", false)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// DeviceTimeout returns the liveness window after which a silent terminal
// is considered offline.
func DeviceTimeout() time.Duration {
	return time.Duration(AppConfig.DeviceTimeoutMinutes) * time.Minute
}

// SweepInterval returns how often the offline sweep runs.
func SweepInterval() time.Duration {
	return time.Duration(AppConfig.SweepIntervalMinutes) * time.Minute
}

// RegistrationTimeout returns the idle timeout of a registration session.
func RegistrationTimeout() time.Duration {
	return time.Duration(AppConfig.RegistrationTimeoutSeconds) * time.Second
}
