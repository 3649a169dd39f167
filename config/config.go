package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port            string
	DatabaseURL     string
	JWTSecret       string
	JWTExpiry       time.Duration
	ProBarberCap    int
	StrictStock     bool
	BonusCron       string
	ShopName        string
	CORSOrigins     []string
	LogLevel        string
	GinMode         string
	IssueAdminToken bool

	TwilioAccountSID     string
	TwilioAuthToken      string
	TwilioPhoneNumber    string
	TwilioWhatsAppNumber string

	InsightsURL    string
	InsightsAPIKey string
	GeocoderURL    string
	HTTPTimeout    time.Duration
}

// Load reads .env when present and then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found")
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		DatabaseURL:     os.Getenv("DB_URL"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		JWTExpiry:       time.Duration(getInt("JWT_EXPIRY_HOURS", 24)) * time.Hour,
		ProBarberCap:    getInt("PRO_BARBER_CAP", 5),
		StrictStock:     getBool("STRICT_STOCK", false),
		BonusCron:       getEnv("BONUS_CRON", "0 9 * * *"),
		ShopName:        getEnv("SHOP_NAME", "BarberPro"),
		CORSOrigins:     getList("CORS_ORIGINS", []string{"http://localhost:3000"}),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		GinMode:         getEnv("GIN_MODE", "debug"),
		IssueAdminToken: getBool("ISSUE_ADMIN_TOKEN", false),

		TwilioAccountSID:     os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:      os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioPhoneNumber:    os.Getenv("TWILIO_PHONE_NUMBER"),
		TwilioWhatsAppNumber: os.Getenv("TWILIO_WHATSAPP_NUMBER"),

		InsightsURL:    os.Getenv("INSIGHTS_URL"),
		InsightsAPIKey: os.Getenv("INSIGHTS_API_KEY"),
		GeocoderURL:    os.Getenv("GEOCODER_URL"),
		HTTPTimeout:    time.Duration(getInt("HTTP_TIMEOUT_SECONDS", 10)) * time.Second,
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("invalid integer, using default")
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
