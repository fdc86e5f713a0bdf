// Package validate checks user-supplied identifiers before they are
// interpolated into Google API queries or used to look up stored tokens.
package validate

import (
	"fmt"
	"regexp"
	"strings"
)

const maxEmailLen = 254

// Drive IDs are alphanumeric with hyphens and underscores. The pattern also
// admits the "root" literal, which the Drive API accepts as a folder ID.
var driveIDRE = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,128}$`)

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// DriveID rejects anything that is not a plausible Drive resource ID. IDs end
// up inside single-quoted Drive query strings, so this is the injection guard.
func DriveID(id string) error {
	if !driveIDRE.MatchString(id) {
		return fmt.Errorf("invalid Drive resource ID %q: expected alphanumeric characters, hyphens, and underscores", id)
	}
	return nil
}

// RawMIME rejects MIME type strings that are blank or could break out of the
// single-quoted query literal they are interpolated into.
func RawMIME(mime string) error {
	if strings.TrimSpace(mime) == "" {
		return fmt.Errorf("MIME type string is empty")
	}
	if strings.ContainsAny(mime, `'"\`) {
		return fmt.Errorf("MIME type string %q contains quote characters", mime)
	}
	return nil
}

// Email checks that the given string has the shape of an email address.
func Email(email string) error {
	if len(email) > maxEmailLen {
		return fmt.Errorf("email address too long (max %d characters)", maxEmailLen)
	}
	if !emailRE.MatchString(email) {
		return fmt.Errorf("invalid email address %q", email)
	}
	return nil
}
