package auth

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for permission parsing and expansion. Callers match with
// errors.Is; the wrapped message carries the offending input.
var (
	ErrInvalidFormat    = errors.New("invalid permission format")
	ErrDuplicateService = errors.New("duplicate service")
	ErrUnknownService   = errors.New("unknown service")
	ErrUnknownLevel     = errors.New("unknown permission level")
)

// PermissionLevel names a privilege tier within a service and lists the
// scopes added when escalating to it from the previous tier. Levels are
// cumulative: the effective scope set at level N is the union of the scopes
// declared at levels 1..N.
type PermissionLevel struct {
	Name   string
	Scopes []string
}

// ServicePermissionLevels declares, per service, the ordered privilege tiers
// accepted by --permissions. Order matters: each tier includes everything
// below it.
var ServicePermissionLevels = map[string][]PermissionLevel{
	"gmail": {
		{Name: "readonly", Scopes: []string{GmailReadonlyScope}},
		{Name: "organize", Scopes: []string{GmailLabelsScope, GmailModifyScope}},
		{Name: "drafts", Scopes: []string{GmailComposeScope}},
		{Name: "send", Scopes: []string{GmailSendScope}},
		{Name: "full", Scopes: []string{GmailSettingsBasicScope}},
	},
	"drive": {
		{Name: "readonly", Scopes: []string{DriveReadonlyScope}},
		{Name: "file", Scopes: []string{DriveFileScope}},
		{Name: "full", Scopes: []string{DriveScope}},
	},
	"calendar": {
		{Name: "readonly", Scopes: []string{CalendarReadonlyScope}},
		{Name: "events", Scopes: []string{CalendarEventsScope}},
		{Name: "full", Scopes: []string{CalendarScope}},
	},
	"docs": {
		{Name: "readonly", Scopes: []string{DocsReadonlyScope, DriveReadonlyScope}},
		{Name: "edit", Scopes: []string{DocsScope}},
		{Name: "create", Scopes: []string{DriveFileScope}},
	},
	"sheets": {
		{Name: "readonly", Scopes: []string{SheetsReadonlyScope, DriveReadonlyScope}},
		{Name: "edit", Scopes: []string{SheetsScope}},
	},
	"contacts": {
		{Name: "readonly", Scopes: []string{ContactsReadonlyScope}},
		{Name: "full", Scopes: []string{ContactsScope}},
	},
}

// ParsePermissions parses raw "service:level" entries into a validated
// service → level mapping. Splitting happens on the first colon only, so an
// entry like "gmail:read:only" fails as an unknown level rather than a
// format error. An empty input yields an empty mapping.
func ParsePermissions(entries []string) (map[string]string, error) {
	perms := make(map[string]string, len(entries))

	for _, entry := range entries {
		service, level, found := strings.Cut(entry, ":")
		if !found {
			return nil, fmt.Errorf("%w: %q: expected \"service:level\"", ErrInvalidFormat, entry)
		}

		if _, dup := perms[service]; dup {
			return nil, fmt.Errorf("%w: %q appears more than once", ErrDuplicateService, service)
		}

		levels, ok := ServicePermissionLevels[service]
		if !ok {
			return nil, fmt.Errorf("%w: %q (known services: %s)", ErrUnknownService, service, strings.Join(serviceOrder, ", "))
		}

		if !levelDeclared(levels, level) {
			return nil, fmt.Errorf("%w: %q for service %q (known levels: %s)", ErrUnknownLevel, level, service, levelNames(levels))
		}

		perms[service] = level
	}

	return perms, nil
}

// ScopesForPermission expands a (service, level) pair into the cumulative,
// deduplicated scope list: the union of scopes declared at every level from
// the lowest up to and including the requested one, in declaration order.
func ScopesForPermission(service, level string) ([]string, error) {
	levels, ok := ServicePermissionLevels[service]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownService, service)
	}
	if !levelDeclared(levels, level) {
		return nil, fmt.Errorf("%w: %q for service %q", ErrUnknownLevel, level, service)
	}

	seen := make(map[string]bool)
	var scopes []string
	for _, l := range levels {
		for _, s := range l.Scopes {
			if !seen[s] {
				scopes = append(scopes, s)
				seen[s] = true
			}
		}
		if l.Name == level {
			break
		}
	}
	return scopes, nil
}

// NarrowPermissions filters a permissions mapping down to the selected
// services. Services in the mapping but not selected are dropped; selected
// services absent from the mapping are ignored.
func NarrowPermissions(perms map[string]string, services []string) map[string]string {
	narrowed := make(map[string]string, len(services))
	for _, svc := range services {
		if level, ok := perms[svc]; ok {
			narrowed[svc] = level
		}
	}
	return narrowed
}

func levelDeclared(levels []PermissionLevel, name string) bool {
	for _, l := range levels {
		if l.Name == name {
			return true
		}
	}
	return false
}

func levelNames(levels []PermissionLevel) string {
	names := make([]string, len(levels))
	for i, l := range levels {
		names[i] = l.Name
	}
	return strings.Join(names, ", ")
}
