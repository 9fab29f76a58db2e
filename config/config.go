package config

import (
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Gemini configuration.
	GeminiAPIKey     string  `mapstructure:"GEMINI_API_KEY"`
	ModelName        string  `mapstructure:"MODEL_NAME"`
	ModelTemperature float64 `mapstructure:"MODEL_TEMPERATURE"`

	// Google Calendar.
	GoogleCredentialsFile string `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	CalendarID            string `mapstructure:"CALENDAR_ID"`
	CalendarTimezone      string `mapstructure:"CALENDAR_TIMEZONE"`

	// Business hours.
	BusinessStartHour int    `mapstructure:"BUSINESS_START_HOUR"`
	BusinessEndHour   int    `mapstructure:"BUSINESS_END_HOUR"`
	BusinessDays      string `mapstructure:"BUSINESS_DAYS"`

	// Appointments.
	DefaultDurationMinutes int `mapstructure:"DEFAULT_APPOINTMENT_DURATION"`
	BookingBufferMinutes   int `mapstructure:"BOOKING_BUFFER_MINUTES"`
	MaxSuggestions         int `mapstructure:"MAX_SUGGESTIONS"`
	SearchHorizonDays      int `mapstructure:"AVAILABILITY_SEARCH_DAYS"`

	// Redis configuration (conversation context cache).
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisContextDB int    `mapstructure:"REDIS_CONTEXT_DB"`
	CacheTTL       int    `mapstructure:"CACHE_TTL"`

	// Conversation archive (MongoDB).
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	SaveConversations bool   `mapstructure:"SAVE_CONVERSATIONS"`
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
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("MODEL_NAME", "models/gemini-1.5-flash")
	viper.SetDefault("MODEL_TEMPERATURE", 0.3)
	viper.SetDefault("GOOGLE_APPLICATION_CREDENTIALS", "./credentials/service-account-key.json")
	viper.SetDefault("CALENDAR_ID", "primary")
	viper.SetDefault("CALENDAR_TIMEZONE", "UTC")
	viper.SetDefault("BUSINESS_START_HOUR", 9)
	viper.SetDefault("BUSINESS_END_HOUR", 17)
	viper.SetDefault("BUSINESS_DAYS", "1,2,3,4,5")
	viper.SetDefault("DEFAULT_APPOINTMENT_DURATION", 60)
	viper.SetDefault("BOOKING_BUFFER_MINUTES", 15)
	viper.SetDefault("MAX_SUGGESTIONS", 10)
	viper.SetDefault("AVAILABILITY_SEARCH_DAYS", 7)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CONTEXT_DB", 0)
	viper.SetDefault("CACHE_TTL", 1800)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("SAVE_CONVERSATIONS", false)

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

// BusinessConfig is the immutable scheduling configuration. It is built once
// at startup and passed by reference into the availability engine and the
// dialogue orchestrator; nothing reads viper again after that point.
type BusinessConfig struct {
	StartHour         int
	EndHour           int
	Days              map[time.Weekday]bool
	DefaultDuration   time.Duration
	Buffer            time.Duration
	MaxSuggestions    int
	SearchHorizonDays int
	Location          *time.Location
}

// NewBusinessConfig derives the scheduling configuration from AppConfig.
// Weekdays use the Go convention (Sunday = 0); an unknown timezone falls
// back to UTC.
func NewBusinessConfig() *BusinessConfig {
	loc, err := time.LoadLocation(AppConfig.CalendarTimezone)
	if err != nil {
		log.Printf("Unknown calendar timezone %q, falling back to UTC", AppConfig.CalendarTimezone)
		loc = time.UTC
	}

	days := make(map[time.Weekday]bool)
	for _, part := range strings.Split(AppConfig.BusinessDays, ",") {
		d, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || d < 0 || d > 6 {
			log.Printf("Ignoring invalid business day %q", part)
			continue
		}
		days[time.Weekday(d)] = true
	}

	return &BusinessConfig{
		StartHour:         AppConfig.BusinessStartHour,
		EndHour:           AppConfig.BusinessEndHour,
		Days:              days,
		DefaultDuration:   time.Duration(AppConfig.DefaultDurationMinutes) * time.Minute,
		Buffer:            time.Duration(AppConfig.BookingBufferMinutes) * time.Minute,
		MaxSuggestions:    AppConfig.MaxSuggestions,
		SearchHorizonDays: AppConfig.SearchHorizonDays,
		Location:          loc,
	}
}
