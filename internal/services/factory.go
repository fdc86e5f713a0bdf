// Package services builds authenticated Google API clients on demand, one
// cached HTTP client per user email.
package services

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
	"google.golang.org/api/people/v1"
	"google.golang.org/api/sheets/v4"

	"github.com/workspacemcp/workspace-mcp/internal/auth"
)

// Factory hands out per-user Google service clients. The underlying HTTP
// client for each user is built once and reused; ReuseTokenSource makes the
// token refresh concurrency-safe.
type Factory struct {
	oauthConfig *oauth2.Config
	tokenStore  auth.TokenStore

	mu      sync.RWMutex
	clients map[string]*http.Client
}

// NewFactory builds a factory sharing the OAuth manager's config and store.
func NewFactory(oauthMgr *auth.OAuthManager) *Factory {
	return &Factory{
		oauthConfig: oauthMgr.Config(),
		tokenStore:  oauthMgr.TokenStore(),
		clients:     make(map[string]*http.Client),
	}
}

// clientFor returns the cached auto-refreshing HTTP client for userEmail,
// creating it from the persisted token on first use.
//
// The client and its token source are deliberately built on
// context.Background so they survive the request that created them. Request
// cancellation still applies per call, because every Google API invocation
// attaches its own context via .Context(ctx).Do().
func (f *Factory) clientFor(ctx context.Context, userEmail string) (*http.Client, error) {
	f.mu.RLock()
	client, ok := f.clients[userEmail]
	f.mu.RUnlock()
	if ok {
		return client, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if client, ok := f.clients[userEmail]; ok {
		return client, nil
	}

	token, err := f.tokenStore.Load(userEmail)
	if err != nil {
		return nil, err
	}

	bgCtx := context.Background()
	source := oauth2.ReuseTokenSource(token, &auth.PersistingTokenSource{
		Base:      f.oauthConfig.TokenSource(bgCtx, token),
		Store:     f.tokenStore,
		UserEmail: userEmail,
	})

	client = oauth2.NewClient(bgCtx, source)
	f.clients[userEmail] = client
	return client, nil
}

// InvalidateClient drops the cached client for a user so the next call
// rebuilds it from the latest persisted token. Called after re-authentication.
func (f *Factory) InvalidateClient(userEmail string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.clients, userEmail)
}

// Gmail returns a Gmail client for the user.
func (f *Factory) Gmail(ctx context.Context, userEmail string) (*gmail.Service, error) {
	client, err := f.clientFor(ctx, userEmail)
	if err != nil {
		return nil, fmt.Errorf("gmail client for %s: %w", userEmail, err)
	}
	return gmail.NewService(ctx, option.WithHTTPClient(client))
}

// Drive returns a Drive client for the user.
func (f *Factory) Drive(ctx context.Context, userEmail string) (*drive.Service, error) {
	client, err := f.clientFor(ctx, userEmail)
	if err != nil {
		return nil, fmt.Errorf("drive client for %s: %w", userEmail, err)
	}
	return drive.NewService(ctx, option.WithHTTPClient(client))
}

// Calendar returns a Calendar client for the user.
func (f *Factory) Calendar(ctx context.Context, userEmail string) (*calendar.Service, error) {
	client, err := f.clientFor(ctx, userEmail)
	if err != nil {
		return nil, fmt.Errorf("calendar client for %s: %w", userEmail, err)
	}
	return calendar.NewService(ctx, option.WithHTTPClient(client))
}

// Docs returns a Docs client for the user.
func (f *Factory) Docs(ctx context.Context, userEmail string) (*docs.Service, error) {
	client, err := f.clientFor(ctx, userEmail)
	if err != nil {
		return nil, fmt.Errorf("docs client for %s: %w", userEmail, err)
	}
	return docs.NewService(ctx, option.WithHTTPClient(client))
}

// Sheets returns a Sheets client for the user.
func (f *Factory) Sheets(ctx context.Context, userEmail string) (*sheets.Service, error) {
	client, err := f.clientFor(ctx, userEmail)
	if err != nil {
		return nil, fmt.Errorf("sheets client for %s: %w", userEmail, err)
	}
	return sheets.NewService(ctx, option.WithHTTPClient(client))
}

// People returns a People (contacts) client for the user.
func (f *Factory) People(ctx context.Context, userEmail string) (*people.Service, error) {
	client, err := f.clientFor(ctx, userEmail)
	if err != nil {
		return nil, fmt.Errorf("people client for %s: %w", userEmail, err)
	}
	return people.NewService(ctx, option.WithHTTPClient(client))
}
