package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`

	// Durable storage. STORAGE_BACKEND is one of "memory", "redis" or "mongo".
	StorageBackend string `mapstructure:"STORAGE_BACKEND"`
	DatabaseURL    string `mapstructure:"DATABASE_URL"`
	DatabaseName   string `mapstructure:"DATABASE_NAME"`
	DirectoryKey   string `mapstructure:"DIRECTORY_KEY"`
	UserKey        string `mapstructure:"USER_KEY"`
	StrictNotFound bool   `mapstructure:"STRICT_NOT_FOUND"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Hosted checkout.
	StripeKey          string `mapstructure:"STRIPE_KEY"`
	StripePriceMonthly string `mapstructure:"STRIPE_PRICE_MONTHLY"`
	StripePriceYearly  string `mapstructure:"STRIPE_PRICE_YEARLY"`
	PaymentLinkMonthly string `mapstructure:"PAYMENT_LINK_MONTHLY"`
	PaymentLinkYearly  string `mapstructure:"PAYMENT_LINK_YEARLY"`

	// Registration wizard timers.
	WizardProcessingDelay time.Duration `mapstructure:"WIZARD_PROCESSING_DELAY"`
	WizardSuccessDelay    time.Duration `mapstructure:"WIZARD_SUCCESS_DELAY"`
	SessionTTL            time.Duration `mapstructure:"REGISTRATION_SESSION_TTL"`
	SessionReapInterval   time.Duration `mapstructure:"SESSION_REAP_INTERVAL"`

	// Subscription expiry.
	ExpirySweepInterval time.Duration `mapstructure:"EXPIRY_SWEEP_INTERVAL"`
	EnableExpiryQueue   bool          `mapstructure:"ENABLE_EXPIRY_QUEUE"`
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

	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	v.SetDefault("JWT_SECRET", "")

	v.SetDefault("STORAGE_BACKEND", "memory")
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("DATABASE_NAME", "tradelink")
	v.SetDefault("DIRECTORY_KEY", "tradelink:directory")
	v.SetDefault("USER_KEY", "tradelink:user")
	v.SetDefault("STRICT_NOT_FOUND", false)

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_CACHE_DB", 0)
	v.SetDefault("REDIS_QUEUE_DB", 1)

	v.SetDefault("STRIPE_KEY", "")
	v.SetDefault("STRIPE_PRICE_MONTHLY", "")
	v.SetDefault("STRIPE_PRICE_YEARLY", "")
	v.SetDefault("PAYMENT_LINK_MONTHLY", "https://buy.stripe.com/test_tradelink_monthly")
	v.SetDefault("PAYMENT_LINK_YEARLY", "https://buy.stripe.com/test_tradelink_yearly")

	v.SetDefault("WIZARD_PROCESSING_DELAY", "2s")
	v.SetDefault("WIZARD_SUCCESS_DELAY", "3s")
	v.SetDefault("REGISTRATION_SESSION_TTL", "30m")
	v.SetDefault("SESSION_REAP_INTERVAL", "1m")

	v.SetDefault("EXPIRY_SWEEP_INTERVAL", "1h")
	v.SetDefault("ENABLE_EXPIRY_QUEUE", false)
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// UsesRedis reports whether any configured component needs a Redis connection.
func UsesRedis() bool {
	return AppConfig.StorageBackend == "redis" || AppConfig.EnableExpiryQueue
}
