package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SKIP_ROWS", "")
	t.Setenv("MAIL_TRANSPORT", "")
	t.Setenv("SEND_TIMEOUT", "")

	cfg := Load()
	if cfg.SkipRows != 6 {
		t.Fatalf("expected 6 skipped rows, got %d", cfg.SkipRows)
	}
	if cfg.MailTransport != TransportSMTP {
		t.Fatalf("expected smtp transport, got %s", cfg.MailTransport)
	}
	if cfg.SendTimeout != 30*time.Second {
		t.Fatalf("expected 30s send timeout, got %s", cfg.SendTimeout)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SKIP_ROWS", "4")
	t.Setenv("SMTP_USE_TLS", "false")
	t.Setenv("SEND_TIMEOUT", "5s")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := Load()
	if cfg.SkipRows != 4 {
		t.Fatalf("expected 4 skipped rows, got %d", cfg.SkipRows)
	}
	if cfg.SMTPUseTLS {
		t.Fatal("expected TLS disabled")
	}
	if cfg.SendTimeout != 5*time.Second {
		t.Fatalf("expected 5s, got %s", cfg.SendTimeout)
	}
	if cfg.RedisDB != 0 {
		t.Fatalf("expected fallback redis db 0, got %d", cfg.RedisDB)
	}
}

func validConfig() Config {
	return Config{
		RecipientsSource: RecipientsFile,
		RecipientsFile:   "recipients.csv",
		MailTransport:    TransportLog,
		EmailFrom:        "hr@example.com",
		TokenStore:       TokenStoreFile,
		MaxBodyBytes:     1 << 20,
	}
}

func TestValidate(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg.MailTransport = TransportSMTP
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected SMTP_HOST to be required")
	}

	cfg = validConfig()
	cfg.RecipientsSource = RecipientsPostgres
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected DATABASE_URL to be required")
	}

	cfg = validConfig()
	cfg.MailTransport = TransportGmail
	cfg.GmailCredentialsFile = "credentials.json"
	cfg.TokenStore = "s3"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected unknown token store to be rejected")
	}

	cfg = validConfig()
	cfg.SkipRows = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected negative skip rows to be rejected")
	}
}

func TestValidateServer(t *testing.T) {
	cfg := validConfig()
	if err := cfg.ValidateServer(); err == nil {
		t.Fatal("expected JWT_SECRET to be required")
	}
	cfg.JWTSecret = "secret"
	cfg.OperatorPasswordHash = "$2a$10$hash"
	if err := cfg.ValidateServer(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestIsProduction(t *testing.T) {
	for env, want := range map[string]bool{"production": true, "PROD": true, "development": false, "": false} {
		if got := (Config{Environment: env}).IsProduction(); got != want {
			t.Fatalf("%q: expected %v, got %v", env, want, got)
		}
	}
}

func TestLoadServerDefaults(t *testing.T) {
	t.Setenv("LOGIN_RATE_LIMIT", "")
	t.Setenv("TOKEN_TTL", "")
	cfg := Load()
	if cfg.LoginRateLimit != 10 || cfg.TokenTTL != 8*time.Hour {
		t.Fatalf("unexpected server defaults: %d %s", cfg.LoginRateLimit, cfg.TokenTTL)
	}
}
