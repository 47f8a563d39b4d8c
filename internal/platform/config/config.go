package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	TransportSMTP  = "smtp"
	TransportGmail = "gmail"
	TransportLog   = "log"

	RecipientsFile     = "file"
	RecipientsPostgres = "postgres"

	TokenStoreFile  = "file"
	TokenStoreRedis = "redis"
)

type Config struct {
	Addr        string
	Environment string
	LogLevel    string

	SkipRows    int
	PreviewRows int
	TemplateDir string
	LogoPath    string

	RecipientsSource   string
	RecipientsFile     string
	RecipientsTenantID string
	DatabaseURL        string

	MailTransport string
	EmailFrom     string
	SMTPHost      string
	SMTPPort      int
	SMTPUser      string
	SMTPPassword  string
	SMTPUseTLS    bool
	SendTimeout   time.Duration

	GmailCredentialsFile string
	TokenStore           string
	TokenFile            string
	TokenEncryptionKey   string
	RedisAddr            string
	RedisPassword        string
	RedisDB              int
	TokenRedisKey        string

	JWTSecret            string
	OperatorPasswordHash string
	OperatorTOTPSecret   string
	TokenTTL             time.Duration
	LoginRateLimit       int
	MaxBodyBytes         int64
}

// Load reads the environment, after merging a .env file from the working
// directory when one exists. Variables already set take precedence.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Addr:        getEnv("APP_ADDR", ":8080"),
		Environment: getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		SkipRows:    getEnvInt("SKIP_ROWS", 6),
		PreviewRows: getEnvInt("PREVIEW_ROWS", 25),
		TemplateDir: getEnv("TEMPLATE_DIR", ""),
		LogoPath:    getEnv("LOGO_PATH", ""),

		RecipientsSource:   getEnv("RECIPIENTS_SOURCE", RecipientsFile),
		RecipientsFile:     getEnv("RECIPIENTS_FILE", "recipients.csv"),
		RecipientsTenantID: getEnv("RECIPIENTS_TENANT_ID", ""),
		DatabaseURL:        getEnv("DATABASE_URL", ""),

		MailTransport: getEnv("MAIL_TRANSPORT", TransportSMTP),
		EmailFrom:     getEnv("EMAIL_FROM", "hr@example.com"),
		SMTPHost:      getEnv("SMTP_HOST", ""),
		SMTPPort:      getEnvInt("SMTP_PORT", 587),
		SMTPUser:      getEnv("SMTP_USER", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		SMTPUseTLS:    getEnvBool("SMTP_USE_TLS", true),
		SendTimeout:   getEnvDuration("SEND_TIMEOUT", 30*time.Second),

		GmailCredentialsFile: getEnv("GMAIL_CREDENTIALS_FILE", "credentials.json"),
		TokenStore:           getEnv("TOKEN_STORE", TokenStoreFile),
		TokenFile:            getEnv("TOKEN_FILE", "token.json"),
		TokenEncryptionKey:   getEnv("TOKEN_ENCRYPTION_KEY", ""),
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:        getEnv("REDIS_PASSWORD", ""),
		RedisDB:              getEnvInt("REDIS_DB", 0),
		TokenRedisKey:        getEnv("TOKEN_REDIS_KEY", "payslips:gmail:token"),

		JWTSecret:            getEnv("JWT_SECRET", ""),
		OperatorPasswordHash: getEnv("OPERATOR_PASSWORD_HASH", ""),
		OperatorTOTPSecret:   getEnv("OPERATOR_TOTP_SECRET", ""),
		TokenTTL:             getEnvDuration("TOKEN_TTL", 8*time.Hour),
		LoginRateLimit:       getEnvInt("LOGIN_RATE_LIMIT", 10),
		MaxBodyBytes:         int64(getEnvInt("MAX_BODY_BYTES", 20<<20)),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// Validate checks the settings needed to send a batch.
func (c Config) Validate() error {
	if c.SkipRows < 0 {
		return fmt.Errorf("SKIP_ROWS must not be negative")
	}
	switch c.RecipientsSource {
	case RecipientsFile:
		if strings.TrimSpace(c.RecipientsFile) == "" {
			return fmt.Errorf("RECIPIENTS_FILE is required when RECIPIENTS_SOURCE is file")
		}
	case RecipientsPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required when RECIPIENTS_SOURCE is postgres")
		}
		if strings.TrimSpace(c.RecipientsTenantID) == "" {
			return fmt.Errorf("RECIPIENTS_TENANT_ID is required when RECIPIENTS_SOURCE is postgres")
		}
	default:
		return fmt.Errorf("RECIPIENTS_SOURCE must be %q or %q", RecipientsFile, RecipientsPostgres)
	}
	switch c.MailTransport {
	case TransportSMTP:
		if c.SMTPHost == "" {
			return fmt.Errorf("SMTP_HOST must be set when MAIL_TRANSPORT is smtp")
		}
	case TransportGmail:
		if err := c.ValidateToken(); err != nil {
			return err
		}
	case TransportLog:
	default:
		return fmt.Errorf("MAIL_TRANSPORT must be one of smtp, gmail, log")
	}
	if strings.TrimSpace(c.EmailFrom) == "" {
		return fmt.Errorf("EMAIL_FROM is required")
	}
	return nil
}

// ValidateToken checks the settings used to obtain and cache the Gmail token.
func (c Config) ValidateToken() error {
	if strings.TrimSpace(c.GmailCredentialsFile) == "" {
		return fmt.Errorf("GMAIL_CREDENTIALS_FILE is required when MAIL_TRANSPORT is gmail")
	}
	switch c.TokenStore {
	case TokenStoreFile:
		if strings.TrimSpace(c.TokenFile) == "" {
			return fmt.Errorf("TOKEN_FILE is required when TOKEN_STORE is file")
		}
	case TokenStoreRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			return fmt.Errorf("REDIS_ADDR is required when TOKEN_STORE is redis")
		}
	default:
		return fmt.Errorf("TOKEN_STORE must be %q or %q", TokenStoreFile, TokenStoreRedis)
	}
	return nil
}

// IsProduction reports whether APP_ENV names a production deployment.
func (c Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// ValidateServer checks the additional settings of the HTTP service.
func (c Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required to serve")
	}
	if strings.TrimSpace(c.OperatorPasswordHash) == "" {
		return fmt.Errorf("OPERATOR_PASSWORD_HASH is required to serve")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	return nil
}
