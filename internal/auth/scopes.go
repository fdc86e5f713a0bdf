package auth

// OAuth scope strings for the Google Workspace services this server proxies.
// Treated as opaque identifiers everywhere; only the tables below give them
// meaning.
const (
	GmailReadonlyScope      = "https://www.googleapis.com/auth/gmail.readonly"
	GmailSendScope          = "https://www.googleapis.com/auth/gmail.send"
	GmailComposeScope       = "https://www.googleapis.com/auth/gmail.compose"
	GmailModifyScope        = "https://www.googleapis.com/auth/gmail.modify"
	GmailLabelsScope        = "https://www.googleapis.com/auth/gmail.labels"
	GmailSettingsBasicScope = "https://www.googleapis.com/auth/gmail.settings.basic"

	DriveScope         = "https://www.googleapis.com/auth/drive"
	DriveReadonlyScope = "https://www.googleapis.com/auth/drive.readonly"
	DriveFileScope     = "https://www.googleapis.com/auth/drive.file"

	CalendarScope         = "https://www.googleapis.com/auth/calendar"
	CalendarReadonlyScope = "https://www.googleapis.com/auth/calendar.readonly"
	CalendarEventsScope   = "https://www.googleapis.com/auth/calendar.events"

	DocsScope         = "https://www.googleapis.com/auth/documents"
	DocsReadonlyScope = "https://www.googleapis.com/auth/documents.readonly"

	SheetsScope         = "https://www.googleapis.com/auth/spreadsheets"
	SheetsReadonlyScope = "https://www.googleapis.com/auth/spreadsheets.readonly"

	ContactsScope         = "https://www.googleapis.com/auth/contacts"
	ContactsReadonlyScope = "https://www.googleapis.com/auth/contacts.readonly"
)

// BaseScopes are always requested for user identity, regardless of which
// services or permissions are enabled.
var BaseScopes = []string{
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/userinfo.profile",
	"openid",
}

// ServiceScopes maps service names to their full-access OAuth scopes.
// Broader scopes already imply narrower ones, so nothing redundant is requested.
var ServiceScopes = map[string][]string{
	"gmail": {
		GmailModifyScope,
		GmailSendScope,
		GmailLabelsScope,
		GmailSettingsBasicScope,
	},
	"drive": {
		DriveScope,
	},
	"calendar": {
		CalendarScope,
	},
	"docs": {
		DocsScope,
	},
	"sheets": {
		SheetsScope,
	},
	"contacts": {
		ContactsScope,
	},
}

// ReadOnlyScopes maps service names to their read-only OAuth scopes.
// Used when --read-only is set.
var ReadOnlyScopes = map[string][]string{
	"gmail": {
		GmailReadonlyScope,
	},
	"drive": {
		DriveReadonlyScope,
	},
	"calendar": {
		CalendarReadonlyScope,
	},
	"docs": {
		DocsReadonlyScope,
	},
	"sheets": {
		SheetsReadonlyScope,
	},
	"contacts": {
		ContactsReadonlyScope,
	},
}

// ScopeHierarchy declares which broader scopes subsume which narrower ones.
// The relation is hand-curated and asymmetric: a narrow scope never covers
// a broad one, and no transitive closure is computed: only the entries
// listed here are honored.
var ScopeHierarchy = map[string][]string{
	GmailModifyScope: {
		GmailReadonlyScope,
		GmailSendScope,
		GmailComposeScope,
		GmailLabelsScope,
	},
	DriveScope: {
		DriveReadonlyScope,
		DriveFileScope,
	},
	CalendarScope: {
		CalendarReadonlyScope,
		CalendarEventsScope,
	},
	DocsScope: {
		DocsReadonlyScope,
	},
	SheetsScope: {
		SheetsReadonlyScope,
	},
	ContactsScope: {
		ContactsReadonlyScope,
	},
}

// crossServiceScopes lists scopes a service needs from another service to
// function. Docs search and folder listing go through the Drive API, so the
// docs tools always need drive.readonly; exporting a doc additionally
// creates a file via drive.file, which is only requested in write mode.
// These are added even when the dependent service was not requested.
var crossServiceScopes = map[string]struct {
	always    []string
	writeOnly []string
}{
	"docs": {
		always:    []string{DriveReadonlyScope},
		writeOnly: []string{DriveFileScope},
	},
	"sheets": {
		always: []string{DriveReadonlyScope},
	},
}

// serviceOrder fixes iteration order when all services are enabled, so the
// requested scope set is stable across runs.
var serviceOrder = []string{"gmail", "drive", "calendar", "docs", "sheets", "contacts"}

// ScopeResolver computes the OAuth scope set to request at startup. It holds
// the two pieces of process-wide state (the read-only toggle and the active
// granular permissions mapping) explicitly, so the resolution logic stays
// pure and testable. Both are set once during startup and never mutated.
type ScopeResolver struct {
	readOnly    bool
	permissions map[string]string
}

// NewScopeResolver builds a resolver for the given mode. A nil or empty
// permissions mapping means permissions mode is inactive and scope selection
// follows the service list plus the read-only toggle.
func NewScopeResolver(readOnly bool, permissions map[string]string) *ScopeResolver {
	return &ScopeResolver{readOnly: readOnly, permissions: permissions}
}

// ReadOnly reports whether the resolver is in read-only mode.
func (r *ScopeResolver) ReadOnly() bool { return r.readOnly }

// Permissions returns the active granular permissions mapping, or nil when
// permissions mode is inactive.
func (r *ScopeResolver) Permissions() map[string]string { return r.permissions }

// PermissionsActive reports whether a granular permissions mapping is set.
func (r *ScopeResolver) PermissionsActive() bool { return len(r.permissions) > 0 }

// ScopesForTools returns the deduplicated scope set for the given services.
//
// When a granular permissions mapping is active the service list is ignored
// entirely: the result is BaseScopes plus the cumulative expansion of every
// (service, level) pair in the mapping. Otherwise each requested service
// contributes its full or read-only scopes depending on the read-only
// toggle, plus any cross-service scopes it depends on. An empty service
// list enables every known service.
func (r *ScopeResolver) ScopesForTools(services []string) []string {
	seen := make(map[string]bool)
	var scopes []string

	add := func(list []string) {
		for _, s := range list {
			if !seen[s] {
				scopes = append(scopes, s)
				seen[s] = true
			}
		}
	}

	add(BaseScopes)

	if r.PermissionsActive() {
		for _, service := range serviceOrder {
			level, ok := r.permissions[service]
			if !ok {
				continue
			}
			expanded, err := ScopesForPermission(service, level)
			if err != nil {
				// The mapping was validated at parse time; an unknown
				// entry here means it was built by hand. Skip it.
				continue
			}
			add(expanded)
		}
		return scopes
	}

	scopeMap := ServiceScopes
	if r.readOnly {
		scopeMap = ReadOnlyScopes
	}

	if len(services) == 0 {
		services = serviceOrder
	}

	for _, svc := range services {
		add(scopeMap[svc])

		// Implicit dependencies are pinned to their fixed levels: the
		// read-only toggle affects only the primary service's own scopes.
		if deps, ok := crossServiceScopes[svc]; ok {
			add(deps.always)
			if !r.readOnly {
				add(deps.writeOnly)
			}
		}
	}

	return scopes
}

// HasRequiredScopes reports whether every scope in required is covered by
// available, either verbatim or through a broader scope declared in
// ScopeHierarchy. An empty required set is vacuously satisfied, even by a
// nil available set. No transitive reasoning is applied.
func HasRequiredScopes(available, required []string) bool {
	if len(required) == 0 {
		return true
	}
	if len(available) == 0 {
		return false
	}

	have := make(map[string]bool, len(available))
	for _, s := range available {
		have[s] = true
	}

	for _, req := range required {
		if have[req] {
			continue
		}
		covered := false
		for _, broad := range available {
			for _, narrow := range ScopeHierarchy[broad] {
				if narrow == req {
					covered = true
					break
				}
			}
			if covered {
				break
			}
		}
		if !covered {
			return false
		}
	}
	return true
}
