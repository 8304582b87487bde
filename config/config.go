package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string        `mapstructure:"APP_PORT"`
	DatabaseURL       string        `mapstructure:"DATABASE_URL"`
	DatabaseName      string        `mapstructure:"DATABASE_NAME"`
	Env               string        `mapstructure:"ENV"`
	JWTSecret         string        `mapstructure:"JWT_SECRET"`
	TokenTTL          time.Duration `mapstructure:"TOKEN_TTL"`
	LogLevel          string        `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int           `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr            string `mapstructure:"REDIS_ADDR"`
	RedisPassword        string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB         int    `mapstructure:"REDIS_CACHE_DB"`
	RedisAuthDB          int    `mapstructure:"REDIS_AUTH_DB"`
	RedisBookingDB       int    `mapstructure:"REDIS_BOOKING_DB"`
	RedisReminderQueueDB int    `mapstructure:"REDIS_REMINDER_QUEUE_DB"`

	// Backend REST API.
	BackendBaseURL string        `mapstructure:"BACKEND_BASE_URL"`
	BackendTimeout time.Duration `mapstructure:"BACKEND_TIMEOUT"`

	// Booking form.
	BookingTimezone         string        `mapstructure:"BOOKING_TIMEZONE"`
	BookingLeadDays         int           `mapstructure:"BOOKING_LEAD_DAYS"`
	BookingSessionTTL       time.Duration `mapstructure:"BOOKING_SESSION_TTL"`
	ValidationDisplayWindow time.Duration `mapstructure:"VALIDATION_DISPLAY_WINDOW"`
	ListCacheTTL            time.Duration `mapstructure:"LIST_CACHE_TTL"`
	GateSessionTTL          time.Duration `mapstructure:"GATE_SESSION_TTL"`
	ReminderLead            time.Duration `mapstructure:"REMINDER_LEAD"`
	CommChannel             string        `mapstructure:"COMM_CHANNEL"`

	// Telegram.
	TelegramBotToken string        `mapstructure:"TELEGRAM_BOT_TOKEN"`
	TelegramBotName  string        `mapstructure:"TELEGRAM_BOT_NAME"`
	TelegramAppName  string        `mapstructure:"TELEGRAM_APP_NAME"`
	TelegramDebug    bool          `mapstructure:"TELEGRAM_DEBUG"`
	InitDataMaxAge   time.Duration `mapstructure:"INIT_DATA_MAX_AGE"`
}

var AppConfig Config

func LoadConfig() {
	// A local .env is optional; real environment variables win over it.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("TOKEN_TTL", 24*time.Hour)
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "tablebook")

	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_AUTH_DB", 1)
	viper.SetDefault("REDIS_BOOKING_DB", 2)
	viper.SetDefault("REDIS_REMINDER_QUEUE_DB", 3)

	viper.SetDefault("BACKEND_BASE_URL", "http://localhost:8000")
	viper.SetDefault("BACKEND_TIMEOUT", 15*time.Second)

	viper.SetDefault("BOOKING_TIMEZONE", "Europe/Moscow")
	viper.SetDefault("BOOKING_LEAD_DAYS", 30)
	viper.SetDefault("BOOKING_SESSION_TTL", 30*time.Minute)
	viper.SetDefault("VALIDATION_DISPLAY_WINDOW", 5*time.Second)
	viper.SetDefault("LIST_CACHE_TTL", 2*time.Minute)
	viper.SetDefault("GATE_SESSION_TTL", 24*time.Hour)
	viper.SetDefault("REMINDER_LEAD", 2*time.Hour)
	viper.SetDefault("COMM_CHANNEL", "telegram_mini_app")

	viper.SetDefault("TELEGRAM_BOT_TOKEN", "")
	viper.SetDefault("TELEGRAM_BOT_NAME", "")
	viper.SetDefault("TELEGRAM_APP_NAME", "app")
	viper.SetDefault("TELEGRAM_DEBUG", false)
	viper.SetDefault("INIT_DATA_MAX_AGE", 24*time.Hour)
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// Location returns the booking timezone, falling back to UTC+3 when tzdata is missing.
func Location() *time.Location {
	loc, err := time.LoadLocation(AppConfig.BookingTimezone)
	if err != nil {
		return time.FixedZone("MSK", 3*60*60)
	}
	return loc
}
