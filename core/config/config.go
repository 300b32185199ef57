package config

import (
	"fmt"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Host string
		Port int
		// PublicBaseURL fronts the links embedded in outbound emails.
		PublicBaseURL string
	}

	DatabaseConfig struct {
		Host     string
		Port     int
		User     string
		Password string
		DBName   string
	}

	RedisConfig struct {
		Addr     string
		Password string
		DB       int
	}

	AuthConfig struct {
		JWTSecret       string
		TokenTTLMinutes int
	}

	// SchedulingConfig holds the secret used to sign interviewer
	// accept/reject tokens. Kept separate from the API auth secret so the
	// two can be rotated independently.
	SchedulingConfig struct {
		RespondTokenSecret string
	}

	// BillingConfig carries the settings-derived amounts: fixed charges for
	// late reschedules / no-shows, the tax rate applied on payment links and
	// the local timezone used for the late-feedback fine windows.
	BillingConfig struct {
		ClientLateAmount      float64
		InterviewerLateAmount float64
		TaxRate               float64
		Timezone              string
	}

	AWSConfig struct {
		Region          string
		AccessKeyID     string
		SecretAccessKey string
		Bucket          string
	}

	GoogleConfig struct {
		ServiceAccountEmail string
		PrivateKey          string
		ImpersonateUser     string
		CalendarID          string
	}

	PaymentConfig struct {
		BaseURL       string
		ClientID      string
		ClientSecret  string
		WebhookSecret string
	}

	// MailConfig: an empty FromAddress switches delivery to the log-only
	// mailer, which keeps local development credential-free.
	MailConfig struct {
		FromAddress string
	}

	Config struct {
		Server     ServerConfig
		Database   DatabaseConfig
		Redis      RedisConfig
		Auth       AuthConfig
		Scheduling SchedulingConfig
		Billing    BillingConfig
		AWS        AWSConfig
		Google     GoogleConfig
		Payment    PaymentConfig
		Mail       MailConfig
	}
)

var (
	instance *Config
	mu       sync.RWMutex
)

// Load reads .env (if present) and the environment into the global config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 7070)
	v.SetDefault("SERVER_PUBLIC_BASE_URL", "http://localhost:7070")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "hiringdesk")

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("TOKEN_TTL_MINUTES", 60)
	v.SetDefault("RESPOND_TOKEN_SECRET", "")

	v.SetDefault("CLIENT_LATE_RESCHEDULE_AMOUNT", 1000.0)
	v.SetDefault("INTERVIEWER_LATE_RESCHEDULE_AMOUNT", 500.0)
	v.SetDefault("TAX_RATE", 0.18)
	v.SetDefault("BILLING_TIMEZONE", "Asia/Kolkata")

	v.SetDefault("AWS_REGION", "ap-south-1")
	v.SetDefault("AWS_S3_BUCKET", "")

	v.SetDefault("GOOGLE_CALENDAR_ID", "primary")

	v.SetDefault("PAYMENT_BASE_URL", "https://sandbox.cashfree.com/pg")

	cfg := &Config{
		Server: ServerConfig{
			Host:          v.GetString("SERVER_HOST"),
			Port:          v.GetInt("SERVER_PORT"),
			PublicBaseURL: v.GetString("SERVER_PUBLIC_BASE_URL"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Auth: AuthConfig{
			JWTSecret:       v.GetString("JWT_SECRET"),
			TokenTTLMinutes: v.GetInt("TOKEN_TTL_MINUTES"),
		},
		Scheduling: SchedulingConfig{
			RespondTokenSecret: v.GetString("RESPOND_TOKEN_SECRET"),
		},
		Billing: BillingConfig{
			ClientLateAmount:      v.GetFloat64("CLIENT_LATE_RESCHEDULE_AMOUNT"),
			InterviewerLateAmount: v.GetFloat64("INTERVIEWER_LATE_RESCHEDULE_AMOUNT"),
			TaxRate:               v.GetFloat64("TAX_RATE"),
			Timezone:              v.GetString("BILLING_TIMEZONE"),
		},
		AWS: AWSConfig{
			Region:          v.GetString("AWS_REGION"),
			AccessKeyID:     v.GetString("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("AWS_SECRET_ACCESS_KEY"),
			Bucket:          v.GetString("AWS_S3_BUCKET"),
		},
		Google: GoogleConfig{
			ServiceAccountEmail: v.GetString("GOOGLE_SERVICE_ACCOUNT_EMAIL"),
			PrivateKey:          v.GetString("GOOGLE_SERVICE_ACCOUNT_PRIVATE_KEY"),
			ImpersonateUser:     v.GetString("GOOGLE_IMPERSONATE_USER"),
			CalendarID:          v.GetString("GOOGLE_CALENDAR_ID"),
		},
		Payment: PaymentConfig{
			BaseURL:       v.GetString("PAYMENT_BASE_URL"),
			ClientID:      v.GetString("PAYMENT_CLIENT_ID"),
			ClientSecret:  v.GetString("PAYMENT_CLIENT_SECRET"),
			WebhookSecret: v.GetString("PAYMENT_WEBHOOK_SECRET"),
		},
		Mail: MailConfig{
			FromAddress: v.GetString("MAIL_FROM_ADDRESS"),
		},
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.Scheduling.RespondTokenSecret == "" {
		cfg.Scheduling.RespondTokenSecret = cfg.Auth.JWTSecret
	}

	mu.Lock()
	instance = cfg
	mu.Unlock()
	return cfg, nil
}

// Get returns the loaded config; it panics if Load was never called.
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	if instance == nil {
		panic("config: Get called before Load")
	}
	return instance
}

// GetSafe returns the loaded config and whether it has been initialized.
func GetSafe() (*Config, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return instance, instance != nil
}
