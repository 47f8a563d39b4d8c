package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"payslips/internal/auth"
	"payslips/internal/platform/config"
	"payslips/internal/platform/credentials"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "recipients.csv")
	if err := os.WriteFile(csvPath, []byte("name,email\nAsha Rao,asha@example.com\n"), 0o600); err != nil {
		t.Fatalf("write recipients: %v", err)
	}
	hash, err := auth.HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return config.Config{
		Addr:                 "127.0.0.1:0",
		SkipRows:             6,
		PreviewRows:          25,
		RecipientsSource:     config.RecipientsFile,
		RecipientsFile:       csvPath,
		MailTransport:        config.TransportLog,
		EmailFrom:            "hr@example.com",
		JWTSecret:            "test-secret",
		OperatorPasswordHash: hash,
		TokenTTL:             time.Hour,
		LoginRateLimit:       5,
		MaxBodyBytes:         1 << 20,
	}
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestBuildWithLogTransport(t *testing.T) {
	cfg := testConfig(t)
	deps, err := Build(context.Background(), cfg, quietLogger(), nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer deps.Close()

	if deps.Service == nil || deps.Authorizer != nil {
		t.Fatalf("unexpected deps: %+v", deps)
	}
	dir, err := deps.Service.Recipients.Directory(context.Background())
	if err != nil || len(dir) != 1 {
		t.Fatalf("directory: %v %v", dir, err)
	}
	sender, err := deps.Service.OpenSession(context.Background())
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	_ = sender.Close()
}

func TestBuildGmailNeedsClientSecrets(t *testing.T) {
	cfg := testConfig(t)
	cfg.MailTransport = config.TransportGmail
	cfg.GmailCredentialsFile = filepath.Join(t.TempDir(), "missing.json")
	if _, err := Build(context.Background(), cfg, quietLogger(), nil); err == nil {
		t.Fatal("expected missing client secrets error")
	}
}

func TestBuildGmailWithoutCachedToken(t *testing.T) {
	cfg := testConfig(t)
	dir := t.TempDir()
	secrets := `{"installed":{"client_id":"id","client_secret":"secret","auth_uri":"https://accounts.google.com/o/oauth2/auth","token_uri":"https://oauth2.googleapis.com/token","redirect_uris":["urn:ietf:wg:oauth:2.0:oob"]}}`
	cfg.MailTransport = config.TransportGmail
	cfg.GmailCredentialsFile = filepath.Join(dir, "credentials.json")
	cfg.TokenStore = config.TokenStoreFile
	cfg.TokenFile = filepath.Join(dir, "token.json")
	if err := os.WriteFile(cfg.GmailCredentialsFile, []byte(secrets), 0o600); err != nil {
		t.Fatalf("write secrets: %v", err)
	}

	deps, err := Build(context.Background(), cfg, quietLogger(), nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer deps.Close()
	if deps.Authorizer == nil {
		t.Fatal("expected authorizer")
	}
	if _, ok := deps.Authorizer.Store.(*credentials.FileStore); !ok {
		t.Fatalf("expected file token store, got %T", deps.Authorizer.Store)
	}
	if _, err := deps.Service.OpenSession(context.Background()); err == nil {
		t.Fatal("expected session to fail without a cached token or prompt")
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := testConfig(t)
	deps, err := Build(context.Background(), cfg, quietLogger(), nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	t.Cleanup(deps.Close)
	srv := httptest.NewServer(NewRouter(cfg, deps, quietLogger()))
	t.Cleanup(srv.Close)
	return srv
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatal("expected request id header")
	}
	if resp.Header.Get("X-Content-Type-Options") != "nosniff" {
		t.Fatal("expected security headers")
	}
}

func TestMetricsRequireOperatorToken(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	resp, err = http.Post(srv.URL+"/api/v1/auth/token", "application/json", strings.NewReader(`{"operator":"hr","password":"s3cret"}`))
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	var envelope struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()
	if envelope.Data.Token == "" {
		t.Fatalf("expected token, status %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/metrics", nil)
	req.Header.Set("Authorization", "Bearer "+envelope.Data.Token)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var snapshot struct {
		Data map[string]any `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		t.Fatalf("decode metrics: %v", err)
	}
	if _, ok := snapshot.Data["runsTotal"]; !ok {
		t.Fatalf("expected runsTotal in %v", snapshot.Data)
	}
}

func TestPayslipRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Post(srv.URL+"/api/v1/payslips/preview", "multipart/form-data", strings.NewReader(""))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestRunRejectsIncompleteConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.JWTSecret = ""
	if err := Run(context.Background(), cfg, quietLogger()); err == nil {
		t.Fatal("expected validation error")
	}
}
