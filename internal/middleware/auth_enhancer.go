package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/workspacemcp/workspace-mcp/internal/auth"
)

// Substrings identifying tool errors that an OAuth flow can resolve.
var authErrorMarkers = []string{
	"start_google_auth",
	"no credentials found",
	"authentication expired",
}

// AuthEnhancerMiddleware intercepts tools/call error results that look like
// missing or expired credentials and appends the OAuth URL for the user named
// in the arguments, saving the client a separate start_google_auth call.
func AuthEnhancerMiddleware(oauthMgr *auth.OAuthManager) mcp.Middleware {
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			result, err := next(ctx, method, req)
			if method != "tools/call" {
				return result, err
			}

			// A failed validation can surface as a typed-nil result with
			// a non-nil error, so the nil check matters.
			toolResult, ok := result.(*mcp.CallToolResult)
			if !ok || toolResult == nil || !toolResult.IsError || len(toolResult.Content) == 0 {
				return result, err
			}
			textContent, ok := toolResult.Content[0].(*mcp.TextContent)
			if !ok || !isAuthRelatedError(textContent.Text) {
				return result, err
			}

			userEmail := extractUserEmail(req)
			if userEmail == "" {
				return result, err
			}

			textContent.Text = fmt.Sprintf(
				"%s\n\nPlease authenticate by visiting this URL:\n%s",
				textContent.Text, oauthMgr.GetAuthURL(userEmail),
			)
			return result, err
		}
	}
}

func isAuthRelatedError(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range authErrorMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// extractUserEmail pulls user_google_email out of the raw tool arguments.
// Every service tool carries this field.
func extractUserEmail(req mcp.Request) string {
	params, ok := req.GetParams().(*mcp.CallToolParamsRaw)
	if !ok {
		return ""
	}

	var args struct {
		UserEmail string `json:"user_google_email"`
	}
	if err := json.Unmarshal(params.Arguments, &args); err != nil {
		return ""
	}
	return args.UserEmail
}
