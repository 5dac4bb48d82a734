/**
 * @description
 * Configuration for the klix ledger service. Values come from the process
 * environment and an optional .env file, read through Viper.
 *
 * @dependencies
 * - github.com/spf13/viper: configuration binding.
 */

package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultRequestTimeout  = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
)

// Config holds all the configuration variables for the ledger service.
type Config struct {
	ServerPort         string `mapstructure:"SERVER_PORT"`
	DBPath             string `mapstructure:"DB_PATH"`
	LogLevel           string `mapstructure:"LOG_LEVEL"`
	LogFormat          string `mapstructure:"LOG_FORMAT"`
	LogFile            string `mapstructure:"LOG_FILE"`
	RabbitMQURL        string `mapstructure:"RABBITMQ_URL"`
	EventExchange      string `mapstructure:"LEDGER_EVENT_EXCHANGE"`
	AuditSchedule      string `mapstructure:"AUDIT_SCHEDULE"`
	CORSAllowedOrigins string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	MetricsEnabled     bool   `mapstructure:"METRICS_ENABLED"`
	RequestTimeoutRaw  string `mapstructure:"REQUEST_TIMEOUT"`
	ShutdownTimeoutRaw string `mapstructure:"SHUTDOWN_TIMEOUT"`

	RequestTimeout  time.Duration `mapstructure:"-"`
	ShutdownTimeout time.Duration `mapstructure:"-"`
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS on commas.
func (c Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.CORSAllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// LoadConfig reads configuration from environment variables and an optional
// .env file in path.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("SERVER_PORT", "4000")
	viper.SetDefault("DB_PATH", "db.json")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("LEDGER_EVENT_EXCHANGE", "klix.events")
	viper.SetDefault("AUDIT_SCHEDULE", "@every 1h")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.SetDefault("METRICS_ENABLED", true)
	viper.SetDefault("REQUEST_TIMEOUT", defaultRequestTimeout.String())
	viper.SetDefault("SHUTDOWN_TIMEOUT", defaultShutdownTimeout.String())

	// Bind explicitly so keys without defaults still show up in Unmarshal.
	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("PORT")
	_ = viper.BindEnv("DB_PATH")
	_ = viper.BindEnv("LOG_LEVEL")
	_ = viper.BindEnv("LOG_FORMAT")
	_ = viper.BindEnv("LOG_FILE")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("LEDGER_EVENT_EXCHANGE")
	_ = viper.BindEnv("AUDIT_SCHEDULE")
	_ = viper.BindEnv("CORS_ALLOWED_ORIGINS")
	_ = viper.BindEnv("METRICS_ENABLED")
	_ = viper.BindEnv("REQUEST_TIMEOUT")
	_ = viper.BindEnv("SHUTDOWN_TIMEOUT")

	if err = viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("level=warn component=config msg=\"failed to read config file; using environment values\" err=%v", err)
		}
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		config.ServerPort = port
	}
	config.ServerPort = strings.TrimSpace(config.ServerPort)
	if config.ServerPort == "" {
		config.ServerPort = "4000"
	}
	config.DBPath = strings.TrimSpace(config.DBPath)
	if config.DBPath == "" {
		config.DBPath = "db.json"
	}
	config.LogLevel = strings.TrimSpace(config.LogLevel)
	config.LogFormat = strings.TrimSpace(config.LogFormat)
	config.LogFile = strings.TrimSpace(config.LogFile)
	config.RabbitMQURL = strings.TrimSpace(config.RabbitMQURL)
	config.EventExchange = strings.TrimSpace(config.EventExchange)
	if config.EventExchange == "" {
		config.EventExchange = "klix.events"
	}
	config.AuditSchedule = strings.TrimSpace(config.AuditSchedule)
	// Viper treats an empty variable as unset; an explicit empty value disables the audit.
	if raw, ok := os.LookupEnv("AUDIT_SCHEDULE"); ok && strings.TrimSpace(raw) == "" {
		config.AuditSchedule = ""
	}

	config.RequestTimeout = parseDuration("REQUEST_TIMEOUT", config.RequestTimeoutRaw, defaultRequestTimeout)
	config.ShutdownTimeout = parseDuration("SHUTDOWN_TIMEOUT", config.ShutdownTimeoutRaw, defaultShutdownTimeout)

	return
}

func parseDuration(key, raw string, fallback time.Duration) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("level=warn component=config msg=\"invalid duration; using default\" key=%s value=%q default=%s", key, raw, fallback)
		return fallback
	}
	return d
}
