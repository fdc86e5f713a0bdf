//go:build integration

// Package integration contains integration tests that verify full system behavior
// without requiring real Google API credentials.
package integration

import (
	"os"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/workspacemcp/workspace-mcp/internal/attachments"
	"github.com/workspacemcp/workspace-mcp/internal/auth"
	"github.com/workspacemcp/workspace-mcp/internal/config"
	"github.com/workspacemcp/workspace-mcp/internal/registry"
	"github.com/workspacemcp/workspace-mcp/internal/services"
)

// Shared state loaded once in TestMain.
var (
	sharedCfg     *config.Config
	sharedTierMap map[string]config.ToolInfo
)

func TestMain(m *testing.M) {
	// Set required env for all tests
	os.Setenv("GOOGLE_OAUTH_CLIENT_ID", "test-client-id")
	os.Setenv("GOOGLE_OAUTH_CLIENT_SECRET", "test-client-secret")
	os.Setenv("MCP_TRANSPORT", "stdio")
	os.Setenv("TOOL_TIER", "complete")

	tmpDir, err := os.MkdirTemp("", "mcp-integration-*")
	if err != nil {
		panic("creating temp dir: " + err.Error())
	}
	os.Setenv("WORKSPACE_MCP_CREDENTIALS_DIR", tmpDir)
	os.Setenv("WORKSPACE_MCP_ATTACHMENTS_DIR", tmpDir+"/attachments")
	defer os.RemoveAll(tmpDir)

	// Load config once (calls flag.Parse)
	cfg, err := config.Load()
	if err != nil {
		panic("loading config: " + err.Error())
	}
	sharedCfg = cfg

	tierMap, err := config.LoadTiers("../../configs/tool_tiers.yaml")
	if err != nil {
		panic("loading tier config: " + err.Error())
	}
	sharedTierMap = tierMap

	os.Exit(m.Run())
}

// createTestServer creates a fully wired MCP server for testing.
func createTestServer(t *testing.T) *mcp.Server {
	t.Helper()

	tokenStore, err := auth.NewFileTokenStore(sharedCfg.CredentialsDir)
	if err != nil {
		t.Fatalf("creating token store: %v", err)
	}

	resolver := auth.NewScopeResolver(sharedCfg.ReadOnly, sharedCfg.Permissions)
	oauthMgr := auth.NewOAuthManager(
		sharedCfg.OAuth.ClientID,
		sharedCfg.OAuth.ClientSecret,
		sharedCfg.OAuth.RedirectURL,
		resolver.ScopesForTools(sharedCfg.EnabledServices),
		tokenStore,
	)

	factory := services.NewFactory(oauthMgr)

	store, err := attachments.NewStorage(sharedCfg.AttachmentsDir, sharedCfg.AttachmentTTL)
	if err != nil {
		t.Fatalf("creating attachment storage: %v", err)
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "google-workspace-mcp",
		Version: "1.0.0-test",
	}, nil)

	registry.RegisterAll(server, factory, registry.NewFilter(sharedCfg, sharedTierMap), oauthMgr, store, "")
	return server
}

func TestFullToolRegistration(t *testing.T) {
	server := createTestServer(t)

	if server == nil {
		t.Fatal("server is nil after registration")
	}

	expectedTotal := 38
	if len(sharedTierMap) != expectedTotal {
		t.Errorf("tier config has %d tools, expected %d", len(sharedTierMap), expectedTotal)
	}
}

func TestConfigValues(t *testing.T) {
	if sharedCfg.OAuth.ClientID != "test-client-id" {
		t.Errorf("client ID = %q, want %q", sharedCfg.OAuth.ClientID, "test-client-id")
	}
	if sharedCfg.Server.Transport != "stdio" {
		t.Errorf("transport = %q, want %q", sharedCfg.Server.Transport, "stdio")
	}
	if sharedCfg.ToolTier != "complete" {
		t.Errorf("tool tier = %q, want %q", sharedCfg.ToolTier, "complete")
	}
}

func TestTierFiltering(t *testing.T) {
	tests := []struct {
		name     string
		tier     string
		minTools int
	}{
		{"core tier", "core", 18},
		{"extended tier", "extended", 30},
		{"complete tier", "complete", 38},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count := 0
			for _, info := range sharedTierMap {
				if config.TierLevel(info.Tier) <= config.TierLevel(tt.tier) {
					count++
				}
			}
			if count < tt.minTools {
				t.Errorf("tier %q has %d tools, expected at least %d", tt.tier, count, tt.minTools)
			}
		})
	}
}

func TestToolNameValidation(t *testing.T) {
	for name := range sharedTierMap {
		if err := registry.ValidateToolName(name); err != nil {
			t.Errorf("tool name %q failed SEP-986 validation: %v", name, err)
		}
	}
}

func TestReadOnlyModeFiltering(t *testing.T) {
	cfg := &config.Config{
		ToolTier: "complete",
		ReadOnly: true,
	}
	f := registry.NewFilter(cfg, sharedTierMap)

	readOnlyTools := map[string][]string{
		"search_gmail_messages":     {auth.GmailReadonlyScope},
		"get_gmail_message_content": {auth.GmailReadonlyScope},
		"list_calendars":            {auth.CalendarReadonlyScope},
		"get_events":                {auth.CalendarReadonlyScope},
		"search_drive_files":        {auth.DriveReadonlyScope},
		"read_sheet_values":         {auth.SheetsReadonlyScope},
	}

	writeTools := map[string][]string{
		"send_gmail_message":  {auth.GmailSendScope},
		"create_event":        {auth.CalendarEventsScope},
		"create_drive_file":   {auth.DriveFileScope},
		"modify_sheet_values": {auth.SheetsScope},
	}

	for name, required := range readOnlyTools {
		annotations := &mcp.ToolAnnotations{ReadOnlyHint: true}
		if !f.Include(name, annotations, required) {
			t.Errorf("read-only tool %q should be included in read-only mode", name)
		}
	}

	for name, required := range writeTools {
		annotations := &mcp.ToolAnnotations{ReadOnlyHint: false}
		if f.Include(name, annotations, required) {
			t.Errorf("write tool %q should be excluded in read-only mode", name)
		}
	}
}

func TestServiceFiltering(t *testing.T) {
	cfg := &config.Config{
		ToolTier:        "complete",
		EnabledServices: []string{"gmail"},
	}
	f := registry.NewFilter(cfg, sharedTierMap)

	annotations := &mcp.ToolAnnotations{ReadOnlyHint: true}
	if !f.Include("search_gmail_messages", annotations, []string{auth.GmailReadonlyScope}) {
		t.Error("search_gmail_messages should be included when gmail is enabled")
	}
	if f.Include("search_drive_files", annotations, []string{auth.DriveReadonlyScope}) {
		t.Error("search_drive_files should be excluded when only gmail is enabled")
	}
}

func TestPermissionsModeFiltering(t *testing.T) {
	cfg := &config.Config{
		ToolTier: "complete",
		Permissions: map[string]string{
			"gmail": "readonly",
			"drive": "full",
		},
	}
	f := registry.NewFilter(cfg, sharedTierMap)

	annotations := &mcp.ToolAnnotations{ReadOnlyHint: true}
	if !f.Include("search_gmail_messages", annotations, []string{auth.GmailReadonlyScope}) {
		t.Error("gmail:readonly grant should allow search_gmail_messages")
	}
	if f.Include("send_gmail_message", &mcp.ToolAnnotations{}, []string{auth.GmailSendScope}) {
		t.Error("gmail:readonly grant should block send_gmail_message")
	}
	if !f.Include("share_drive_file", &mcp.ToolAnnotations{}, []string{auth.DriveScope}) {
		t.Error("drive:full grant should allow share_drive_file")
	}
	if f.Include("get_events", annotations, []string{auth.CalendarReadonlyScope}) {
		t.Error("calendar tools should be blocked without a calendar grant")
	}
}
