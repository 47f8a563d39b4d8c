package credentials

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
)

var ErrNoAuthorizationCode = errors.New("no authorization code entered")

// PromptFunc shows the consent URL to the operator and returns the code they
// paste back.
type PromptFunc func(ctx context.Context, authURL string) (string, error)

// Authorizer implements the cached credential lifecycle: load, refresh when
// expired, fall back to an interactive grant, persist what changed.
type Authorizer struct {
	Config *oauth2.Config
	Store  Store
	Prompt PromptFunc
	Log    logrus.FieldLogger
}

// LoadGmailConfig reads an OAuth client secrets file limited to sending mail.
func LoadGmailConfig(path string) (*oauth2.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read client secrets: %w", err)
	}
	cfg, err := google.ConfigFromJSON(data, gmail.GmailSendScope)
	if err != nil {
		return nil, fmt.Errorf("parse client secrets: %w", err)
	}
	return cfg, nil
}

// Token returns a valid token, refreshing or granting one when needed.
func (a *Authorizer) Token(ctx context.Context) (*oauth2.Token, error) {
	cached, err := a.Store.Load(ctx)
	if err != nil {
		a.log().WithError(err).Warn("cached token unreadable, requesting a new grant")
		cached = nil
	}
	if cached.Valid() {
		return cached, nil
	}

	var token *oauth2.Token
	if cached != nil && cached.RefreshToken != "" {
		token, err = a.Config.TokenSource(ctx, cached).Token()
		if err != nil {
			return nil, fmt.Errorf("refresh token: %w", err)
		}
		a.log().Info("mail token refreshed")
	} else {
		token, err = a.grant(ctx)
		if err != nil {
			return nil, err
		}
		a.log().Info("mail token granted")
	}

	if err := a.Store.Save(ctx, token); err != nil {
		return nil, fmt.Errorf("save token: %w", err)
	}
	return token, nil
}

// TokenSource returns a source that refreshes in place for long runs and
// saves every new token it sees.
func (a *Authorizer) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	token, err := a.Token(ctx)
	if err != nil {
		return nil, err
	}
	return &persistingSource{
		ctx:    ctx,
		base:   a.Config.TokenSource(ctx, token),
		store:  a.Store,
		log:    a.log(),
		access: token.AccessToken,
	}, nil
}

func (a *Authorizer) grant(ctx context.Context) (*oauth2.Token, error) {
	if a.Prompt == nil {
		return nil, errors.New("no cached token and no interactive prompt available")
	}
	authURL := a.Config.AuthCodeURL("payslips", oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	code, err := a.Prompt(ctx, authURL)
	if err != nil {
		return nil, err
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrNoAuthorizationCode
	}
	token, err := a.Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	return token, nil
}

func (a *Authorizer) log() logrus.FieldLogger {
	if a.Log == nil {
		return logrus.StandardLogger()
	}
	return a.Log
}

type persistingSource struct {
	ctx    context.Context
	base   oauth2.TokenSource
	store  Store
	log    logrus.FieldLogger
	mu     sync.Mutex
	access string
}

func (p *persistingSource) Token() (*oauth2.Token, error) {
	token, err := p.base.Token()
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if token.AccessToken != p.access {
		p.access = token.AccessToken
		if err := p.store.Save(p.ctx, token); err != nil {
			p.log.WithError(err).Warn("refreshed token not saved")
		}
	}
	return token, nil
}

// TerminalPrompt asks for the authorization code on the given streams.
func TerminalPrompt(in io.Reader, out io.Writer) PromptFunc {
	return func(ctx context.Context, authURL string) (string, error) {
		fmt.Fprintf(out, "Open this URL in a browser and authorize mail sending:\n\n%s\n\nPaste the authorization code: ", authURL)
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		return strings.TrimSpace(line), nil
	}
}
