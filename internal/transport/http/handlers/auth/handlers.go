package authhandler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/sirupsen/logrus"

	"payslips/internal/auth"
	"payslips/internal/requestctx"
	"payslips/internal/transport/http/api"
)

const defaultOperator = "operator"

type Handler struct {
	Secret       string
	PasswordHash string
	TOTPSecret   string
	TTL          time.Duration
	Log          logrus.FieldLogger
}

func NewHandler(secret, passwordHash, totpSecret string, ttl time.Duration, log logrus.FieldLogger) *Handler {
	return &Handler{Secret: secret, PasswordHash: passwordHash, TOTPSecret: totpSecret, TTL: ttl, Log: log}
}

type tokenRequest struct {
	Operator string `json:"operator"`
	Password string `json:"password"`
	MFACode  string `json:"mfaCode"`
}

// HandleToken exchanges the operator password, and the TOTP code when one is
// configured, for a bearer token.
func (h *Handler) HandleToken(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	log := requestctx.Logger(r.Context(), h.Log)

	var payload tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if payload.Password == "" {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", reqID)
		return
	}
	if err := auth.CheckPassword(h.PasswordHash, payload.Password); err != nil {
		log.Warn("operator login rejected")
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", reqID)
		return
	}

	if h.TOTPSecret != "" {
		code := strings.TrimSpace(payload.MFACode)
		if code == "" {
			api.Fail(w, http.StatusUnauthorized, "mfa_required", "mfa code required", reqID)
			return
		}
		if !totp.Validate(code, h.TOTPSecret) {
			log.Warn("operator mfa code rejected")
			api.Fail(w, http.StatusUnauthorized, "mfa_invalid", "invalid mfa code", reqID)
			return
		}
	}

	name := strings.TrimSpace(payload.Operator)
	if name == "" {
		name = defaultOperator
	}
	token, err := auth.GenerateToken(h.Secret, auth.Claims{Operator: name, Role: auth.RoleOperator}, h.TTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", reqID)
		return
	}
	log.WithField("operator", name).Info("operator token issued")
	api.Success(w, map[string]any{
		"token":     token,
		"expiresIn": int(h.TTL.Seconds()),
	}, reqID)
}
