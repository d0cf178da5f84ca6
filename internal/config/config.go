package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

type Config struct {
	MongoURI       string
	DBName         string
	JWTSecret      string
	AccessTokenTTL time.Duration

	// Payment provider settings.
	ProviderAPIKey     string
	ProviderBaseURL    string
	CheckoutBaseURL    string
	ProviderTimeout    time.Duration
	CallbackToken      string
	StoreCurrency      string
	SuccessRedirectURL string

	// AllowStatusOverride opens the order status transition table so an
	// admin can move an order out of a terminal state (e.g. paid -> cancelled).
	AllowStatusOverride bool
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = Config{
		MongoURI:       getEnvOrDefault("MONGO_URI", ""),
		DBName:         getEnvOrDefault("DB_NAME", "storefront"),
		JWTSecret:      getEnvOrDefault("JWT_SECRET", ""),
		AccessTokenTTL: getDurationEnv("ACCESS_TOKEN_TTL", 20, time.Minute),

		ProviderAPIKey:      getEnvOrDefault("PROVIDER_API_KEY", ""),
		ProviderBaseURL:     getEnvOrDefault("PROVIDER_BASE_URL", "https://api.pay.example"),
		CheckoutBaseURL:     getEnvOrDefault("CHECKOUT_BASE_URL", "https://checkout.pay.example/web"),
		ProviderTimeout:     getDurationEnv("PROVIDER_TIMEOUT", 15, time.Second),
		CallbackToken:       getEnvOrDefault("PROVIDER_CALLBACK_TOKEN", ""),
		StoreCurrency:       getEnvOrDefault("STORE_CURRENCY", "PHP"),
		SuccessRedirectURL:  getEnvOrDefault("SUCCESS_REDIRECT_URL", "http://localhost:3000/checkout/success"),
		AllowStatusOverride: getBoolEnv("ALLOW_STATUS_OVERRIDE", false),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
