package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/workspacemcp/workspace-mcp/internal/attachments"
	"github.com/workspacemcp/workspace-mcp/internal/auth"
	"github.com/workspacemcp/workspace-mcp/internal/config"
	"github.com/workspacemcp/workspace-mcp/internal/middleware"
	"github.com/workspacemcp/workspace-mcp/internal/registry"
	"github.com/workspacemcp/workspace-mcp/internal/services"
)

func main() {
	// Structured logging to stderr (stdout is reserved for MCP stdio transport)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	if err := run(ctx, logger); err != nil {
		cancel()
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
	cancel()
}

func run(ctx context.Context, logger *slog.Logger) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Set log level from config
	switch cfg.LogLevel {
	case "debug":
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	case "warn":
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))
	case "error":
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
	}

	// Initialize token store
	tokenStore, err := auth.NewFileTokenStore(cfg.CredentialsDir)
	if err != nil {
		return fmt.Errorf("initializing token store: %w", err)
	}

	// Load tier config: try absolute path (container) then relative (local dev)
	tierConfigPath := "/configs/tool_tiers.yaml"
	if _, statErr := os.Stat(tierConfigPath); statErr != nil {
		tierConfigPath = filepath.Join("configs", "tool_tiers.yaml")
	}
	tierMap, err := config.LoadTiers(tierConfigPath)
	if err != nil {
		return fmt.Errorf("loading tier config %s: %w", tierConfigPath, err)
	}

	// Resolve the OAuth scope set to request. Granular permissions, when
	// set, replace the service-list path entirely: the filter narrows the
	// grants against the tier mapping, and the same narrowed set drives
	// both the scopes requested here and the tools registered below.
	filter := registry.NewFilter(cfg, tierMap)
	scopes := filter.Granted()
	if scopes == nil {
		scopes = auth.NewScopeResolver(cfg.ReadOnly, nil).ScopesForTools(cfg.EnabledServices)
	}

	// Create OAuth manager
	oauthMgr := auth.NewOAuthManager(
		cfg.OAuth.ClientID,
		cfg.OAuth.ClientSecret,
		cfg.OAuth.RedirectURL,
		scopes,
		tokenStore,
	)

	// Create service factory
	factory := services.NewFactory(oauthMgr)

	// Attachment spool for the Gmail download tool
	store, err := attachments.NewStorage(cfg.AttachmentsDir, cfg.AttachmentTTL)
	if err != nil {
		return fmt.Errorf("initializing attachment storage: %w", err)
	}

	// Attachments are served over HTTP only on the HTTP transport; on stdio
	// the download tool hands back local file paths instead.
	attachmentBaseURL := ""
	if cfg.Server.Transport == "streamable-http" {
		attachmentBaseURL = serverBaseURL(cfg)
	}

	// Create MCP server
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "google-workspace-mcp",
		Version: "1.0.0",
	}, nil)

	// Wire SDK middleware
	server.AddReceivingMiddleware(
		middleware.LoggingMiddleware(logger),
		middleware.AuthEnhancerMiddleware(oauthMgr),
	)

	// Register all tools through the registry
	registry.RegisterAll(server, factory, filter, oauthMgr, store, attachmentBaseURL)

	slog.Info("starting Google Workspace MCP server",
		"transport", cfg.Server.Transport,
		"tier", cfg.ToolTier,
		"permissionsMode", len(cfg.Permissions) > 0,
		"readOnly", cfg.ReadOnly,
	)

	// Start server on selected transport
	switch cfg.Server.Transport {
	case "stdio":
		if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
			return fmt.Errorf("stdio server error: %w", err)
		}

	case "streamable-http":
		mcpHandler := mcp.NewStreamableHTTPHandler(
			func(r *http.Request) *mcp.Server { return server },
			nil,
		)

		// Route /oauth/callback and /attachments separately from MCP
		mux := http.NewServeMux()
		mux.Handle("/mcp", mcpHandler)
		mux.HandleFunc("/oauth/callback", auth.OAuthCallbackHandler(oauthMgr, factory))
		mux.HandleFunc("GET /attachments/{file_id}", attachments.Handler(store))

		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		httpServer := &http.Server{
			Addr:    addr,
			Handler: mux,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			slog.Info("shutting down HTTP server")
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("HTTP server shutdown error", "error", err)
			}
		}()

		slog.Info("listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			return fmt.Errorf("HTTP server error: %w", err)
		}

	default:
		return fmt.Errorf("unknown transport %q: use 'stdio' or 'streamable-http'", cfg.Server.Transport)
	}

	return nil
}

// serverBaseURL returns the externally reachable base URL. The configured
// base URI keeps its own port when it has one; otherwise the listen port is
// appended.
func serverBaseURL(cfg *config.Config) string {
	if parsed, err := url.Parse(cfg.Server.BaseURI); err == nil && parsed.Port() != "" {
		return cfg.Server.BaseURI
	}
	return fmt.Sprintf("%s:%d", cfg.Server.BaseURI, cfg.Server.Port)
}
