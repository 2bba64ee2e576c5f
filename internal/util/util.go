package util

import (
	"regexp"
)

// uidMatcher matches the resource identifiers generated by shortuuid plus
// legacy full UUIDs.
var uidMatcher = regexp.MustCompile(`^[A-Za-z0-9-]{16,36}$`)

// ValidateUID returns true if the given string looks like a resource UID.
func ValidateUID(uid string) bool {
	return uidMatcher.MatchString(uid)
}
