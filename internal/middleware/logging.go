package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// LoggingMiddleware returns MCP middleware that emits one structured log line
// per request, with the method name and elapsed time.
func LoggingMiddleware(logger *slog.Logger) mcp.Middleware {
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			start := time.Now()
			logger.DebugContext(ctx, "handling request", "method", method)

			result, err := next(ctx, method, req)

			elapsed := time.Since(start)
			if err != nil {
				logger.ErrorContext(ctx, "request failed",
					"method", method,
					"duration_ms", elapsed.Milliseconds(),
					"error", err,
				)
				return result, err
			}
			logger.InfoContext(ctx, "request completed",
				"method", method,
				"duration_ms", elapsed.Milliseconds(),
			)
			return result, nil
		}
	}
}
