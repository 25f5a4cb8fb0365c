package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/setlistr/internal/models"
	"github.com/desertthunder/setlistr/internal/server"
	"github.com/desertthunder/setlistr/internal/services"
	"github.com/desertthunder/setlistr/internal/shared"
)

// DefaultAuthTimeout bounds the wait for the redirect when no timeout is configured.
const DefaultAuthTimeout = 2 * time.Minute

// Authenticator runs one authorization attempt.
type Authenticator interface {
	Authorize(ctx context.Context, progress chan<- ProgressUpdate) (*models.AuthSession, error)
}

// AuthorizerConfig locates the loopback listener.
type AuthorizerConfig struct {
	ListenAddr  string        // host:port the listener binds
	RedirectURI string        // registered redirect; its path is the callback route
	Timeout     time.Duration // wait for the redirect
}

// Authorizer implements [Authenticator] with a loopback redirect.
type Authorizer struct {
	provider     services.Provider
	listenAddr   string
	callbackPath string
	timeout      time.Duration
	openBrowser  shared.BrowserOpener
	logger       *log.Logger
}

// NewAuthorizer creates a coordinator for provider.
func NewAuthorizer(provider services.Provider, cfg AuthorizerConfig, logger *log.Logger) (*Authorizer, error) {
	redirect, err := url.Parse(cfg.RedirectURI)
	if err != nil || redirect.Host == "" {
		return nil, fmt.Errorf("%w: redirect_uri %q", shared.ErrInvalidConfig, cfg.RedirectURI)
	}

	listenAddr := cfg.ListenAddr
	if listenAddr == "" {
		listenAddr = redirect.Host
	}
	path := redirect.Path
	if path == "" {
		path = "/callback"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultAuthTimeout
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Authorizer{
		provider:     provider,
		listenAddr:   listenAddr,
		callbackPath: path,
		timeout:      timeout,
		openBrowser:  shared.OpenBrowser,
		logger:       shared.WithLogger(logger, "task", "authorize"),
	}, nil
}

// SetBrowserOpener replaces the function used to show the consent page.
func (a *Authorizer) SetBrowserOpener(open shared.BrowserOpener) {
	a.openBrowser = open
}

// Authorize sends the user to the consent page, waits for the redirect, and builds a populated session.
//
// The listener is bound before the browser opens and is stopped on every return path. Timeout, cancellation, a
// rejected callback and a failed exchange all return an error matching [shared.ErrAuthFailed].
func (a *Authorizer) Authorize(ctx context.Context, progress chan<- ProgressUpdate) (*models.AuthSession, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("%w: state: %w", shared.ErrAuthFailed, err)
	}

	var listener *server.Listener
	handler := server.NewCallbackHandler(a.callbackPath, state, func() { listener.RequestStop() })

	router := server.NewMux()
	router.Use(server.LogRequests(a.logger))
	router.Handler(handler)

	listener = server.NewListener(a.listenAddr, router, a.logger)
	if err := listener.Start(); err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrAuthFailed, err)
	}
	defer listener.Stop()

	deadline := time.Now().Add(a.timeout)
	authURL := a.provider.AuthCodeURL(state)
	sendProgress(progress, openBrowserUpdate(authURL))
	if err := a.openBrowser(authURL); err != nil {
		a.logger.Warn("could not open browser, visit the URL to continue", "url", authURL, "error", err)
		deliverProgress(ctx, progress, manualURLUpdate(authURL), deadline)
	}

	sendProgress(progress, awaitCallbackUpdate(listener.Addr()))
	code, err := a.awaitCode(ctx, handler, listener, deadline)
	if err != nil {
		a.logger.Error("authorization failed", "error", err)
		return nil, err
	}

	session := &models.AuthSession{AuthorizationCode: code}

	sendProgress(progress, exchangeCodeUpdate())
	token, err := a.provider.Exchange(ctx, code)
	if err != nil {
		if !errors.Is(err, shared.ErrAuthFailed) {
			err = fmt.Errorf("%w: %w", shared.ErrAuthFailed, err)
		}
		return nil, err
	}
	session.AccessToken = token

	profile, err := a.provider.FetchProfile(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: profile: %w", shared.ErrAuthFailed, err)
	}
	session.Profile = profile
	session.PlaylistCount = a.provider.CountPlaylists(ctx, token)

	a.logger.Info("authorized", "user", profile.ID, "playlists", session.PlaylistCount)
	sendProgress(progress, profileUpdate(session))
	return session, nil
}

// awaitCode blocks until the callback delivers, the listener fails, ctx ends, or the deadline passes.
func (a *Authorizer) awaitCode(ctx context.Context, handler *server.CallbackHandler, listener *server.Listener, deadline time.Time) (string, error) {
	timer := time.NewTimer(time.Until(deadline))
	defer timer.Stop()

	select {
	case result := <-handler.Result():
		if result.Err != nil {
			return "", result.Err
		}
		return result.Code, nil
	case err := <-listener.Errors():
		return "", fmt.Errorf("%w: listener: %w", shared.ErrAuthFailed, err)
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %w", shared.ErrAuthFailed, ctx.Err())
	case <-timer.C:
		return "", fmt.Errorf("%w: %w: no callback within %s", shared.ErrAuthFailed, shared.ErrTimeout, a.timeout)
	}
}
