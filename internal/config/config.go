package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

type GatewayConfig struct {
	StoreID       string
	StorePass     string
	PaymentAPI    string
	ValidationAPI string

	// Backend callbacks the gateway posts back to.
	SuccessURL string
	FailURL    string
	CancelURL  string

	// Frontend pages the callbacks redirect the customer to.
	SuccessFrontendURL string
	FailFrontendURL    string
	CancelFrontendURL  string
}

type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

type Config struct {
	Port        string
	Environment string

	MongoDBURI      string
	MongoDBPassword string

	JWTSecret    string
	JWTAccessTTL time.Duration

	Cloudinary CloudinaryConfig
	Gateway    GatewayConfig
	SMTP       SMTPConfig

	KafkaBrokers []string
	KafkaTopic   string
}

// LoadConfig reads the environment, falling back to a local .env file in
// development. Missing required variables abort startup.
func LoadConfig() (*Config, error) {
	// Ignore the error, in production the variables come from the host.
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		MongoDBURI:      os.Getenv("MONGODB_URI"),
		MongoDBPassword: os.Getenv("MONGODB_PASSWORD"),

		JWTSecret:    os.Getenv("JWT_SECRET"),
		JWTAccessTTL: time.Duration(getEnvInt("JWT_ACCESS_TTL_MINUTES", 60*24)) * time.Minute,

		Cloudinary: CloudinaryConfig{
			CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		},

		Gateway: GatewayConfig{
			StoreID:       os.Getenv("SSL_STORE_ID"),
			StorePass:     os.Getenv("SSL_STORE_PASS"),
			PaymentAPI:    getEnv("SSL_PAYMENT_API", "https://sandbox.sslcommerz.com/gwprocess/v4/api.php"),
			ValidationAPI: getEnv("SSL_VALIDATION_API", "https://sandbox.sslcommerz.com/validator/api/validationserverAPI.php"),

			SuccessURL: os.Getenv("SSL_SUCCESS_BACKEND_URL"),
			FailURL:    os.Getenv("SSL_FAIL_BACKEND_URL"),
			CancelURL:  os.Getenv("SSL_CANCEL_BACKEND_URL"),

			SuccessFrontendURL: os.Getenv("SSL_SUCCESS_FRONTEND_URL"),
			FailFrontendURL:    os.Getenv("SSL_FAIL_FRONTEND_URL"),
			CancelFrontendURL:  os.Getenv("SSL_CANCEL_FRONTEND_URL"),
		},

		SMTP: SMTPConfig{
			Host: os.Getenv("SMTP_HOST"),
			Port: getEnvInt("SMTP_PORT", 587),
			User: os.Getenv("SMTP_USER"),
			Pass: os.Getenv("SMTP_PASS"),
			From: getEnv("SMTP_FROM", os.Getenv("SMTP_USER")),
		},

		KafkaTopic: getEnv("KAFKA_BOOKING_TOPIC", "roamly.booking.events"),
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	required := map[string]string{
		"MONGODB_URI":           cfg.MongoDBURI,
		"JWT_SECRET":            cfg.JWTSecret,
		"CLOUDINARY_CLOUD_NAME": cfg.Cloudinary.CloudName,
		"CLOUDINARY_API_KEY":    cfg.Cloudinary.APIKey,
		"CLOUDINARY_API_SECRET": cfg.Cloudinary.APISecret,
		"SSL_STORE_ID":          cfg.Gateway.StoreID,
		"SSL_STORE_PASS":        cfg.Gateway.StorePass,
	}
	for name, val := range required {
		if val == "" {
			return nil, fmt.Errorf("missing required environment variable %s", name)
		}
	}

	// The URI may carry a <password> placeholder, same shape Atlas hands out.
	if cfg.MongoDBPassword != "" {
		cfg.MongoDBURI = strings.Replace(cfg.MongoDBURI, "<password>", cfg.MongoDBPassword, 1)
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
