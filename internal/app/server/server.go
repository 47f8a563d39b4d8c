package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"payslips/internal/auth"
	"payslips/internal/platform/config"
	"payslips/internal/requestctx"
	"payslips/internal/transport/http/api"
	authhandler "payslips/internal/transport/http/handlers/auth"
	payslipshandler "payslips/internal/transport/http/handlers/payslips"
	"payslips/internal/transport/http/middleware"
)

const shutdownTimeout = 15 * time.Second

// NewRouter mounts the API on a chi router.
func NewRouter(cfg config.Config, deps *Deps, log logrus.FieldLogger) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(log, deps.Metrics))
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, map[string]string{"status": "ok"}, requestctx.GetRequestID(r.Context()))
	})
	router.With(middleware.RequireRole(auth.RoleOperator)).Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, deps.Metrics.Snapshot(), requestctx.GetRequestID(r.Context()))
	})

	router.Route("/api/v1", func(r chi.Router) {
		authHandler := authhandler.NewHandler(cfg.JWTSecret, cfg.OperatorPasswordHash, cfg.OperatorTOTPSecret, cfg.TokenTTL, log)
		r.With(middleware.RateLimit(cfg.LoginRateLimit, time.Minute)).Post("/auth/token", authHandler.HandleToken)

		payslipsHandler := payslipshandler.NewHandler(deps.Service, cfg.PreviewRows, log)
		payslipsHandler.RegisterRoutes(r, middleware.RequireRole(auth.RoleOperator))
	})

	return router
}

// Run serves the API until ctx is cancelled, then drains in-flight requests.
func Run(ctx context.Context, cfg config.Config, log logrus.FieldLogger) error {
	if err := cfg.ValidateServer(); err != nil {
		return err
	}

	deps, err := Build(ctx, cfg, log, nil)
	if err != nil {
		return err
	}
	defer deps.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           NewRouter(cfg, deps, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Addr).Info("payslips server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
