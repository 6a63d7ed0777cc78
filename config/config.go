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
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Payment gateway (Stripe).
	StripeKey           string `mapstructure:"STRIPE_KEY"`
	StripeWebhookSecret string `mapstructure:"STRIPE_WEBHOOK_SECRET"`

	// Video provider (Zoom-compatible REST API).
	MeetingAPIBaseURL    string `mapstructure:"MEETING_API_BASE_URL"`
	MeetingAPIToken      string `mapstructure:"MEETING_API_TOKEN"`
	MeetingWebhookSecret string `mapstructure:"MEETING_WEBHOOK_SECRET"`

	// Recording storage (Cloudinary).
	CloudinaryCloudName string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `mapstructure:"CLOUDINARY_API_SECRET"`

	// Google Cloud (speech-to-text) and Gemini.
	GoogleServiceAccountFile string `mapstructure:"GOOGLE_SERVICE_ACCOUNT_FILE"`
	GeminiAPIKey             string `mapstructure:"GEMINI_API_KEY"`

	// Firebase (push notifications).
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`

	// Business rules. Services resolve these once per operation via Rules();
	// the commission rate is additionally stamped onto each Payment at
	// capture time so later config changes never alter existing payments.
	CommissionRate       float64 `mapstructure:"COMMISSION_RATE"`
	PayoutHoldHours      int     `mapstructure:"PAYOUT_HOLD_HOURS"`
	AdvanceBookingHours  int     `mapstructure:"ADVANCE_BOOKING_HOURS"`
	FullRefundHours      int     `mapstructure:"FULL_REFUND_HOURS"`
	HalfRefundHours      int     `mapstructure:"HALF_REFUND_HOURS"`
	DisputeWindowDays    int     `mapstructure:"DISPUTE_WINDOW_DAYS"`
	SlotHorizonDays      int     `mapstructure:"SLOT_HORIZON_DAYS"`
	SlotBatchLimit       int     `mapstructure:"SLOT_BATCH_LIMIT"`
	RecordingURLLifeDays int     `mapstructure:"RECORDING_URL_LIFE_DAYS"`

	MaxRequestsPerMin int `mapstructure:"MAX_REQUESTS_PER_MIN"`
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
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("MEETING_API_BASE_URL", "https://api.zoom.us/v2")
	viper.SetDefault("COMMISSION_RATE", 0.15)
	viper.SetDefault("PAYOUT_HOLD_HOURS", 72)
	viper.SetDefault("ADVANCE_BOOKING_HOURS", 24)
	viper.SetDefault("FULL_REFUND_HOURS", 48)
	viper.SetDefault("HALF_REFUND_HOURS", 24)
	viper.SetDefault("DISPUTE_WINDOW_DAYS", 3)
	viper.SetDefault("SLOT_HORIZON_DAYS", 90)
	viper.SetDefault("SLOT_BATCH_LIMIT", 50)
	viper.SetDefault("RECORDING_URL_LIFE_DAYS", 3)
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)

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

// BusinessRules is a per-operation snapshot of the tunable marketplace rules.
type BusinessRules struct {
	CommissionRate   float64
	PayoutHold       time.Duration
	AdvanceWindow    time.Duration
	FullRefundBefore time.Duration
	HalfRefundBefore time.Duration
	DisputeWindow    time.Duration
	SlotHorizon      time.Duration
	SlotBatchLimit   int
	RecordingURLLife time.Duration
}

// Rules resolves the current business rules from AppConfig.
func Rules() BusinessRules {
	return BusinessRules{
		CommissionRate:   AppConfig.CommissionRate,
		PayoutHold:       time.Duration(AppConfig.PayoutHoldHours) * time.Hour,
		AdvanceWindow:    time.Duration(AppConfig.AdvanceBookingHours) * time.Hour,
		FullRefundBefore: time.Duration(AppConfig.FullRefundHours) * time.Hour,
		HalfRefundBefore: time.Duration(AppConfig.HalfRefundHours) * time.Hour,
		DisputeWindow:    time.Duration(AppConfig.DisputeWindowDays) * 24 * time.Hour,
		SlotHorizon:      time.Duration(AppConfig.SlotHorizonDays) * 24 * time.Hour,
		SlotBatchLimit:   AppConfig.SlotBatchLimit,
		RecordingURLLife: time.Duration(AppConfig.RecordingURLLifeDays) * 24 * time.Hour,
	}
}
