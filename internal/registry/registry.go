// Package registry wires the tool packages to the MCP server, applying the
// active filtering mode: either a service/tier selection or a granular
// permissions mapping.
package registry

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/workspacemcp/workspace-mcp/internal/attachments"
	"github.com/workspacemcp/workspace-mcp/internal/auth"
	"github.com/workspacemcp/workspace-mcp/internal/config"
	"github.com/workspacemcp/workspace-mcp/internal/services"
	authtools "github.com/workspacemcp/workspace-mcp/internal/tools/auth"
	"github.com/workspacemcp/workspace-mcp/internal/tools/calendar"
	"github.com/workspacemcp/workspace-mcp/internal/tools/contacts"
	"github.com/workspacemcp/workspace-mcp/internal/tools/docs"
	"github.com/workspacemcp/workspace-mcp/internal/tools/drive"
	"github.com/workspacemcp/workspace-mcp/internal/tools/gmail"
	"github.com/workspacemcp/workspace-mcp/internal/tools/sheets"
)

// toolNameRE enforces SEP-986: tool names must match ^[a-zA-Z0-9_-]{1,64}$
var toolNameRE = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// ValidateToolName checks that a tool name complies with SEP-986.
func ValidateToolName(name string) error {
	if !toolNameRE.MatchString(name) {
		return fmt.Errorf("tool name %q does not match SEP-986 pattern ^[a-zA-Z0-9_-]{1,64}$", name)
	}
	return nil
}

// IncludeFunc is the predicate each tool package consults before adding a
// tool to the server. The required slice holds the OAuth scopes the tool's
// handler needs.
type IncludeFunc = func(name string, ann *mcp.ToolAnnotations, required []string) bool

// Filter captures the registration decision state for one server start.
type Filter struct {
	cfg     *config.Config
	tierMap map[string]config.ToolInfo

	// Permissions mode state. When granted is non-nil, tier/service
	// filtering is replaced by scope coverage checks.
	permissionsMode bool
	granted         []string
	nameFilter      map[string]bool
}

// NewFilter builds the registration filter for the active configuration.
//
// In permissions mode the enabled services derive from the grant keys,
// narrowed through the tool tier when one is set; a tool registers only if
// the granted scope set covers its required scopes. Otherwise tools filter
// by tier level and the enabled service list. Read-only mode additionally
// drops every tool without a read-only annotation, in both modes.
func NewFilter(cfg *config.Config, tierMap map[string]config.ToolInfo) *Filter {
	f := &Filter{cfg: cfg, tierMap: tierMap}

	if len(cfg.Permissions) > 0 {
		grantServices := make([]string, 0, len(cfg.Permissions))
		for svc := range cfg.Permissions {
			grantServices = append(grantServices, svc)
		}
		sort.Strings(grantServices)

		narrowed, nameFilter := config.ResolvePermissionsModeSelection(tierMap, grantServices, cfg.ToolTier)
		perms := auth.NarrowPermissions(cfg.Permissions, narrowed)

		resolver := auth.NewScopeResolver(cfg.ReadOnly, perms)
		f.permissionsMode = true
		f.granted = resolver.ScopesForTools(nil)
		f.nameFilter = nameFilter
	}

	return f
}

// Granted returns the scope set derived from the permissions mapping, or nil
// outside permissions mode.
func (f *Filter) Granted() []string { return f.granted }

// Include reports whether a tool should be registered.
func (f *Filter) Include(name string, ann *mcp.ToolAnnotations, required []string) bool {
	if err := ValidateToolName(name); err != nil {
		slog.Warn("skipping tool with invalid name", "tool", name, "error", err)
		return false
	}

	info, ok := f.tierMap[name]
	if !ok {
		slog.Warn("tool not found in tier config, skipping", "tool", name)
		return false
	}

	if f.permissionsMode {
		if f.nameFilter != nil && !f.nameFilter[name] {
			return false
		}
		if !auth.HasRequiredScopes(f.granted, required) {
			return false
		}
	} else {
		if config.TierLevel(info.Tier) > config.TierLevel(f.cfg.ToolTier) {
			return false
		}
		if !serviceEnabled(f.cfg, info.Service) {
			return false
		}
	}

	// Read-only mode keeps only tools annotated as read-only.
	if f.cfg.ReadOnly && (ann == nil || !ann.ReadOnlyHint) {
		return false
	}

	return true
}

// serviceEnabled returns true if the service is enabled (or no filter is set).
func serviceEnabled(cfg *config.Config, service string) bool {
	if len(cfg.EnabledServices) == 0 {
		return true
	}
	for _, s := range cfg.EnabledServices {
		if s == service {
			return true
		}
	}
	return false
}

// RegisterAll registers every tool package with the server through the
// given filter. The caller builds the Filter so the scope set requested at
// startup and the one checked here come from the same narrowed mapping. The
// attachment store and base URL feed the Gmail download tool; baseURL is
// empty on stdio transport, where downloads resolve to local paths instead
// of URLs.
func RegisterAll(server *mcp.Server, factory *services.Factory, f *Filter, oauthMgr *auth.OAuthManager, store *attachments.Storage, attachmentBaseURL string) {
	slog.Info("registering tools",
		"tier", f.cfg.ToolTier,
		"services", f.cfg.EnabledServices,
		"permissionsMode", f.permissionsMode,
		"readOnly", f.cfg.ReadOnly,
	)

	gmail.Register(server, factory, store, attachmentBaseURL, f.Include)
	drive.Register(server, factory, f.Include)
	calendar.Register(server, factory, f.Include)
	docs.Register(server, factory, f.Include)
	sheets.Register(server, factory, f.Include)
	contacts.Register(server, factory, f.Include)

	// The auth tool bypasses filtering: without it no credentials exist for
	// any other tool to use.
	authtools.Register(server, oauthMgr)
}
