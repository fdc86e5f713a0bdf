package auth

import (
	"fmt"
	"log/slog"
	"net/http"
)

// ClientInvalidator is called after successful OAuth to clear cached API clients.
type ClientInvalidator interface {
	InvalidateClient(userEmail string)
}

// OAuthCallbackHandler returns an http.HandlerFunc that handles the OAuth 2.0 callback.
// It exchanges the authorization code for a token and persists it.
// The state parameter carries the user's email address, HMAC-signed by
// GetAuthURL; unsigned or tampered states are rejected.
// If invalidator is non-nil, cached API clients are evicted on successful auth
// so the next call picks up the fresh token.
func OAuthCallbackHandler(oauthMgr *OAuthManager, invalidator ClientInvalidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		state := r.URL.Query().Get("state")
		errMsg := r.URL.Query().Get("error")

		if errMsg != "" {
			slog.Error("OAuth callback error", "error", errMsg)
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, renderErrorPage(errMsg))
			return
		}

		if code == "" {
			slog.Error("OAuth callback missing code")
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, renderErrorPage("No authorization code received from Google."))
			return
		}

		email, ok := oauthMgr.VerifyAndExtractEmail(state)
		if !ok {
			slog.Error("OAuth callback state failed verification")
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, renderErrorPage("Invalid OAuth state. Please restart the authentication from the MCP client."))
			return
		}

		// Exchange code for token and persist it
		_, err := oauthMgr.ExchangeCode(r.Context(), code, email)
		if err != nil {
			slog.Error("OAuth token exchange failed", "email", email, "error", err)
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, renderErrorPage(fmt.Sprintf("Token exchange failed: %v", err)))
			return
		}

		// Evict any cached HTTP client so the next API call rebuilds from
		// the freshly persisted token instead of reusing a stale one.
		if invalidator != nil {
			invalidator.InvalidateClient(email)
			slog.Info("invalidated cached client after re-auth", "email", email)
		}

		slog.Info("OAuth authentication successful", "email", email)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, renderSuccessPage(email))
	}
}

func renderSuccessPage(email string) string {
	return renderPage("Authentication Successful",
		fmt.Sprintf(`<p class="accent">%s</p>
    <p class="detail">Your Google Workspace account has been connected.<br>
    All enabled MCP tools are now available for this account.</p>`, email))
}

func renderErrorPage(errMsg string) string {
	return renderPage("Authentication Failed",
		fmt.Sprintf(`<div class="error">%s</div>
    <p class="detail">Please return to the MCP client and try again.</p>`, errMsg))
}

// renderPage wraps the callback result in a minimal self-contained HTML page.
func renderPage(title, body string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>%s</title>
  <style>
    body {
      font-family: system-ui, -apple-system, 'Segoe UI', sans-serif;
      background: #1a1a1a;
      color: #e0e0e0;
      min-height: 100vh;
      display: flex;
      align-items: center;
      justify-content: center;
      margin: 0;
    }
    .card {
      background: #2d2d2d;
      border: 1px solid #444;
      border-radius: 12px;
      padding: 40px;
      max-width: 480px;
      width: 90%%;
      text-align: center;
    }
    h1 { font-size: 22px; color: #fff; margin: 0 0 16px; }
    .accent { color: #4c8bf5; font-weight: 500; }
    .detail { font-size: 14px; color: #aaa; line-height: 1.6; }
    .error {
      font-size: 14px;
      color: #ff6b6b;
      background: rgba(238, 0, 0, 0.1);
      border: 1px solid rgba(238, 0, 0, 0.2);
      border-radius: 8px;
      padding: 16px;
      word-break: break-word;
    }
    .hint { margin-top: 24px; font-size: 13px; color: #666; }
  </style>
</head>
<body>
  <div class="card">
    <h1>%s</h1>
    %s
    <p class="hint">You can close this window.</p>
  </div>
</body>
</html>`, title, title, body)
}
