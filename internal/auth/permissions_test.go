package auth

import (
	"errors"
	"reflect"
	"testing"
)

func TestParsePermissions(t *testing.T) {
	tests := []struct {
		name    string
		entries []string
		want    map[string]string
		wantErr error
	}{
		{
			name:    "single valid entry",
			entries: []string{"gmail:readonly"},
			want:    map[string]string{"gmail": "readonly"},
		},
		{
			name:    "multiple valid entries",
			entries: []string{"gmail:organize", "drive:full"},
			want:    map[string]string{"gmail": "organize", "drive": "full"},
		},
		{
			name:    "empty input yields empty mapping",
			entries: nil,
			want:    map[string]string{},
		},
		{
			name:    "missing colon",
			entries: []string{"gmail_readonly"},
			wantErr: ErrInvalidFormat,
		},
		{
			name:    "duplicate service",
			entries: []string{"gmail:readonly", "gmail:full"},
			wantErr: ErrDuplicateService,
		},
		{
			name:    "unknown service",
			entries: []string{"fakesvc:readonly"},
			wantErr: ErrUnknownService,
		},
		{
			name:    "unknown level",
			entries: []string{"gmail:superadmin"},
			wantErr: ErrUnknownLevel,
		},
		{
			name:    "extra colon in level is an unknown level",
			entries: []string{"gmail:read:only"},
			wantErr: ErrUnknownLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePermissions(tt.entries)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParsePermissions(%v) error = %v, want %v", tt.entries, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePermissions(%v) unexpected error: %v", tt.entries, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParsePermissions(%v) = %v, want %v", tt.entries, got, tt.want)
			}
		})
	}
}

func TestParsePermissionsAllServicesAtReadonly(t *testing.T) {
	var entries []string
	for svc := range ServicePermissionLevels {
		entries = append(entries, svc+":readonly")
	}

	got, err := ParsePermissions(entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != len(ServicePermissionLevels) {
		t.Errorf("got %d services, want %d", len(got), len(ServicePermissionLevels))
	}
	for svc := range ServicePermissionLevels {
		if got[svc] != "readonly" {
			t.Errorf("service %q = %q, want readonly", svc, got[svc])
		}
	}
}

func TestScopesForPermission(t *testing.T) {
	t.Run("gmail readonly", func(t *testing.T) {
		scopes, err := ScopesForPermission("gmail", "readonly")
		if err != nil {
			t.Fatal(err)
		}
		if !contains(scopes, GmailReadonlyScope) {
			t.Errorf("expected %s in %v", GmailReadonlyScope, scopes)
		}
	})

	t.Run("gmail organize cumulatively includes readonly", func(t *testing.T) {
		scopes, err := ScopesForPermission("gmail", "organize")
		if err != nil {
			t.Fatal(err)
		}
		for _, want := range []string{GmailReadonlyScope, GmailLabelsScope, GmailModifyScope} {
			if !contains(scopes, want) {
				t.Errorf("expected %s in %v", want, scopes)
			}
		}
	})

	t.Run("gmail drafts includes organize and readonly", func(t *testing.T) {
		scopes, err := ScopesForPermission("gmail", "drafts")
		if err != nil {
			t.Fatal(err)
		}
		for _, want := range []string{GmailReadonlyScope, GmailLabelsScope, GmailComposeScope} {
			if !contains(scopes, want) {
				t.Errorf("expected %s in %v", want, scopes)
			}
		}
	})

	t.Run("drive readonly excludes broader scopes", func(t *testing.T) {
		scopes, err := ScopesForPermission("drive", "readonly")
		if err != nil {
			t.Fatal(err)
		}
		if !contains(scopes, DriveReadonlyScope) {
			t.Errorf("expected %s in %v", DriveReadonlyScope, scopes)
		}
		if contains(scopes, DriveScope) || contains(scopes, DriveFileScope) {
			t.Errorf("readonly expansion leaked broader scopes: %v", scopes)
		}
	})

	t.Run("drive full includes readonly", func(t *testing.T) {
		scopes, err := ScopesForPermission("drive", "full")
		if err != nil {
			t.Fatal(err)
		}
		if !contains(scopes, DriveReadonlyScope) || !contains(scopes, DriveScope) {
			t.Errorf("full expansion missing scopes: %v", scopes)
		}
	})

	t.Run("unknown service", func(t *testing.T) {
		if _, err := ScopesForPermission("nonexistent", "readonly"); !errors.Is(err, ErrUnknownService) {
			t.Errorf("error = %v, want ErrUnknownService", err)
		}
	})

	t.Run("unknown level", func(t *testing.T) {
		if _, err := ScopesForPermission("gmail", "nonexistent"); !errors.Is(err, ErrUnknownLevel) {
			t.Errorf("error = %v, want ErrUnknownLevel", err)
		}
	})
}

// Every (service, level) pair must expand without duplicates, and each level
// must be a superset of the one below it.
func TestScopesForPermissionCumulativeAndDeduplicated(t *testing.T) {
	for service, levels := range ServicePermissionLevels {
		var prev []string
		for _, level := range levels {
			scopes, err := ScopesForPermission(service, level.Name)
			if err != nil {
				t.Fatalf("%s:%s: %v", service, level.Name, err)
			}

			seen := make(map[string]bool)
			for _, s := range scopes {
				if seen[s] {
					t.Errorf("%s:%s: duplicate scope %s", service, level.Name, s)
				}
				seen[s] = true
			}

			for _, s := range prev {
				if !seen[s] {
					t.Errorf("%s:%s: missing scope %s from lower level", service, level.Name, s)
				}
			}
			prev = scopes
		}
	}
}

func TestNarrowPermissions(t *testing.T) {
	tests := []struct {
		name     string
		perms    map[string]string
		services []string
		want     map[string]string
	}{
		{
			name:     "keeps selected services",
			perms:    map[string]string{"drive": "full", "gmail": "readonly", "calendar": "readonly"},
			services: []string{"gmail", "drive"},
			want:     map[string]string{"gmail": "readonly", "drive": "full"},
		},
		{
			name:     "drops non-selected services",
			perms:    map[string]string{"gmail": "send", "drive": "full"},
			services: []string{"gmail"},
			want:     map[string]string{"gmail": "send"},
		},
		{
			name:     "selected service absent from mapping",
			perms:    map[string]string{"gmail": "send"},
			services: []string{"gmail", "docs"},
			want:     map[string]string{"gmail": "send"},
		},
		{
			name:     "empty selection",
			perms:    map[string]string{"gmail": "send"},
			services: nil,
			want:     map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NarrowPermissions(tt.perms, tt.services)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NarrowPermissions() = %v, want %v", got, tt.want)
			}
		})
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
