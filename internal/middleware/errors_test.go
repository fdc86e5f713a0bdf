package middleware

import (
	"fmt"
	"strings"
	"testing"

	"google.golang.org/api/googleapi"
)

func TestHandleGoogleAPIError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string // substring of the translated error, empty means nil expected
	}{
		{name: "nil error returns nil", err: nil},
		{
			name: "400 bad request",
			err:  &googleapi.Error{Code: 400, Message: "invalid field"},
			want: "bad request",
		},
		{
			name: "401 auth expired",
			err:  &googleapi.Error{Code: 401, Message: "token expired"},
			want: "start_google_auth",
		},
		{
			name: "403 permission denied generic",
			err:  &googleapi.Error{Code: 403, Message: "insufficient scope"},
			want: "permission denied",
		},
		{
			name: "403 sharing outside org",
			err:  &googleapi.Error{Code: 403, Message: "Sharing outside of the organization is not allowed"},
			want: "Workspace policy",
		},
		{
			name: "403 not allowed to share",
			err:  &googleapi.Error{Code: 403, Message: "User is not allowed to share this file"},
			want: "Workspace policy",
		},
		{
			name: "404 not found",
			err:  &googleapi.Error{Code: 404, Message: "file not found"},
			want: "not found",
		},
		{
			name: "409 conflict",
			err:  &googleapi.Error{Code: 409, Message: "version mismatch"},
			want: "conflict",
		},
		{
			name: "429 rate limit",
			err:  &googleapi.Error{Code: 429, Message: "quota exceeded"},
			want: "rate limit",
		},
		{
			name: "500 server error",
			err:  &googleapi.Error{Code: 500, Message: "internal"},
			want: "server error",
		},
		{
			name: "502 server error",
			err:  &googleapi.Error{Code: 502, Message: "bad gateway"},
			want: "server error",
		},
		{
			name: "503 server error",
			err:  &googleapi.Error{Code: 503, Message: "unavailable"},
			want: "server error",
		},
		{
			name: "unknown google error code",
			err:  &googleapi.Error{Code: 418, Message: "teapot"},
			want: "Google API error (418)",
		},
		{
			name: "non-google error passed through",
			err:  fmt.Errorf("connection refused"),
			want: "connection refused",
		},
		{
			name: "wrapped google error unwrapped",
			err:  fmt.Errorf("fetching file: %w", &googleapi.Error{Code: 404, Message: "gone"}),
			want: "not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HandleGoogleAPIError(tt.err)
			if tt.want == "" {
				if got != nil {
					t.Errorf("expected nil, got %v", got)
				}
				return
			}
			if got == nil {
				t.Fatal("expected non-nil error")
			}
			if !strings.Contains(got.Error(), tt.want) {
				t.Errorf("error %q should contain %q", got.Error(), tt.want)
			}
		})
	}
}
