package server

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"payslips/internal/domain/dispatch"
	"payslips/internal/domain/recipients"
	"payslips/internal/platform/config"
	"payslips/internal/platform/credentials"
	"payslips/internal/platform/crypto"
	"payslips/internal/platform/db"
	"payslips/internal/platform/email"
	"payslips/internal/platform/metrics"
	"payslips/internal/platform/render"
)

// Deps are the collaborators built from configuration. Close releases the
// pools they hold.
type Deps struct {
	Service    *dispatch.Service
	Authorizer *credentials.Authorizer
	Metrics    *metrics.Collector

	closers []func()
}

func (d *Deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
	d.closers = nil
}

// Build wires the dispatch service for cfg. prompt is used when the Gmail
// transport needs an interactive grant; nil means a cached token is required.
func Build(ctx context.Context, cfg config.Config, log logrus.FieldLogger, prompt credentials.PromptFunc) (*Deps, error) {
	deps := &Deps{Metrics: metrics.New()}

	source, err := deps.recipients(ctx, cfg)
	if err != nil {
		deps.Close()
		return nil, err
	}

	renderer, err := render.New(cfg.TemplateDir)
	if err != nil {
		deps.Close()
		return nil, err
	}

	opener, err := deps.sessions(cfg, log, prompt)
	if err != nil {
		deps.Close()
		return nil, err
	}

	deps.Service = &dispatch.Service{
		Recipients:  source,
		Renderer:    renderer,
		OpenSession: opener,
		Metrics:     deps.Metrics,
		Log:         log,
		From:        cfg.EmailFrom,
		LogoPath:    cfg.LogoPath,
		SkipRows:    cfg.SkipRows,
	}
	return deps, nil
}

func (d *Deps) recipients(ctx context.Context, cfg config.Config) (recipients.Source, error) {
	if cfg.RecipientsSource != config.RecipientsPostgres {
		return recipients.FileSource{Path: cfg.RecipientsFile}, nil
	}
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("recipients database: %w", err)
	}
	d.closers = append(d.closers, pool.Close)
	return recipients.NewStore(pool, cfg.RecipientsTenantID), nil
}

func (d *Deps) sessions(cfg config.Config, log logrus.FieldLogger, prompt credentials.PromptFunc) (dispatch.SessionOpener, error) {
	switch cfg.MailTransport {
	case config.TransportSMTP:
		return func(ctx context.Context) (email.Sender, error) {
			return email.NewSMTP(cfg), nil
		}, nil
	case config.TransportGmail:
		authorizer, err := d.authorizer(cfg, log, prompt)
		if err != nil {
			return nil, err
		}
		d.Authorizer = authorizer
		return func(ctx context.Context) (email.Sender, error) {
			source, err := authorizer.TokenSource(ctx)
			if err != nil {
				return nil, fmt.Errorf("gmail authorization: %w", err)
			}
			return email.NewGmail(ctx, source)
		}, nil
	default:
		return func(ctx context.Context) (email.Sender, error) {
			return email.NewLog(log), nil
		}, nil
	}
}

// authorizer builds the Gmail credential lifecycle without touching the
// network; the token is loaded when a session opens.
func (d *Deps) authorizer(cfg config.Config, log logrus.FieldLogger, prompt credentials.PromptFunc) (*credentials.Authorizer, error) {
	oauthCfg, err := credentials.LoadGmailConfig(cfg.GmailCredentialsFile)
	if err != nil {
		return nil, err
	}
	sealer, err := crypto.New(cfg.TokenEncryptionKey)
	if err != nil {
		return nil, err
	}

	var store credentials.Store
	if cfg.TokenStore == config.TokenStoreRedis {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		d.closers = append(d.closers, func() { _ = client.Close() })
		store = credentials.NewRedisStore(client, cfg.TokenRedisKey, sealer)
	} else {
		store = credentials.NewFileStore(cfg.TokenFile, sealer)
	}

	return &credentials.Authorizer{
		Config: oauthCfg,
		Store:  store,
		Prompt: prompt,
		Log:    log,
	}, nil
}
