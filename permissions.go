package membership

import (
	"sort"
	"strings"
)

// PermissionMatcher matches granted permission handles against the handle
// being checked, with wildcard support.
//
// Supported patterns (shown with the default "." separator):
//   - "*" matches all permissions
//   - "posts.*" matches every action on a resource (e.g. "posts.edit")
//   - "*.read" matches an action on every resource (e.g. "files.read")
//   - "posts.edit" matches exactly
type PermissionMatcher struct {
	separator string
}

// NewPermissionMatcher creates a matcher splitting handles on separator.
// An empty separator falls back to ".".
func NewPermissionMatcher(separator string) *PermissionMatcher {
	if separator == "" {
		separator = "."
	}
	return &PermissionMatcher{separator: separator}
}

// Match checks if a granted pattern covers a required permission.
//
// Examples:
//
//	Match("*", "files.read")           // true - wildcard matches all
//	Match("files.*", "files.read")     // true - resource wildcard
//	Match("*.read", "members.read")    // true - action wildcard
//	Match("files.read", "files.write") // false - no match
//	Match("files.*", "members.read")   // false - different resource
func (pm *PermissionMatcher) Match(pattern, permission string) bool {
	if pattern == permission || pattern == "*" {
		return true
	}

	patternParts := strings.Split(pattern, pm.separator)
	permParts := strings.Split(permission, pm.separator)
	if len(patternParts) != len(permParts) {
		return false
	}

	for i, pp := range patternParts {
		if pp == "*" {
			continue
		}
		if pp != permParts[i] {
			return false
		}
	}
	return true
}

// MatchAny checks if any of the patterns match the required permission.
func (pm *PermissionMatcher) MatchAny(patterns []string, permission string) bool {
	for _, pattern := range patterns {
		if pm.Match(pattern, permission) {
			return true
		}
	}
	return false
}

// ExpandPermissions returns the known handles in all that the patterns grant,
// sorted.
func (pm *PermissionMatcher) ExpandPermissions(patterns []string, all []string) []string {
	matched := make(map[string]bool)
	for _, permission := range all {
		if pm.MatchAny(patterns, permission) {
			matched[permission] = true
		}
	}

	result := make([]string, 0, len(matched))
	for p := range matched {
		result = append(result, p)
	}
	sort.Strings(result)
	return result
}

// IsPattern reports whether a handle contains a wildcard segment.
func (pm *PermissionMatcher) IsPattern(handle string) bool {
	for _, part := range strings.Split(handle, pm.separator) {
		if part == "*" {
			return true
		}
	}
	return false
}

// Validate checks that a handle is "*" or separator-joined segments of
// lowercase letters, digits, underscores or a lone "*".
func (pm *PermissionMatcher) Validate(handle string) error {
	if handle == "" {
		return NewError(ErrInvalidPermission, "permission cannot be empty")
	}
	if handle == "*" {
		return nil
	}

	for _, part := range strings.Split(handle, pm.separator) {
		if part == "" {
			return NewError(ErrInvalidPermission, "permission parts cannot be empty").WithPermission(handle)
		}
		if part == "*" {
			continue
		}
		for _, c := range part {
			if !isValidPermissionChar(c) {
				return NewError(ErrInvalidPermission, "permission contains invalid character").WithPermission(handle)
			}
		}
	}
	return nil
}

func isValidPermissionChar(c rune) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= '0' && c <= '9') ||
		c == '_' || c == '-'
}

// DefaultMatcher matches handles built with the default "." separator.
var DefaultMatcher = NewPermissionMatcher(".")

// MatchPermission is a convenience function using the default matcher.
func MatchPermission(pattern, permission string) bool {
	return DefaultMatcher.Match(pattern, permission)
}

// MatchAnyPermission is a convenience function using the default matcher.
func MatchAnyPermission(patterns []string, permission string) bool {
	return DefaultMatcher.MatchAny(patterns, permission)
}
