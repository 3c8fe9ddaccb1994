package membership

import (
	"context"
	"sort"
)

// Checker is a snapshot of the permissions one user holds, split into direct
// grants and grants inherited through group membership.
// It is created by the Service and usually stored in context by the middleware.
type Checker struct {
	userID    string
	direct    []string
	inherited []string
	matcher   *PermissionMatcher
}

// NewChecker creates a Checker from already loaded grant handles.
func NewChecker(userID string, direct, inherited []string, matcher *PermissionMatcher) *Checker {
	if matcher == nil {
		matcher = DefaultMatcher
	}
	return &Checker{
		userID:    userID,
		direct:    direct,
		inherited: inherited,
		matcher:   matcher,
	}
}

// GetChecker loads the grants of a user.
//
// Example:
//
//	checker, err := service.GetChecker(ctx, userID)
//	if err == nil && checker.HasPermission("posts.edit") {
//	    // ...
//	}
func (s *Service) GetChecker(ctx context.Context, userID string) (*Checker, error) {
	direct, err := s.directGrantHandles(ctx, userID)
	if err != nil {
		return nil, err
	}
	inherited, err := s.inheritedGrantHandles(ctx, userID)
	if err != nil {
		return nil, err
	}
	return NewChecker(userID, direct, inherited, s.matcher()), nil
}

func (s *Service) matcher() *PermissionMatcher {
	return NewPermissionMatcher(s.cfg.Permissions.HandleSeparator)
}

// UserID returns the user ID this checker is for.
func (c *Checker) UserID() string {
	return c.userID
}

// HasPermission reports whether the user holds a permission directly or
// through any of their groups.
func (c *Checker) HasPermission(handle string) bool {
	return c.Direct(handle) || c.ViaGroup(handle)
}

// Direct reports whether the permission is granted to the user personally.
func (c *Checker) Direct(handle string) bool {
	return c.matcher.MatchAny(c.direct, handle)
}

// ViaGroup reports whether the permission is granted to a group the user
// is a member of.
func (c *Checker) ViaGroup(handle string) bool {
	return c.matcher.MatchAny(c.inherited, handle)
}

// HasAnyPermission checks if the user has any of the specified permissions.
func (c *Checker) HasAnyPermission(handles []string) bool {
	for _, h := range handles {
		if c.HasPermission(h) {
			return true
		}
	}
	return false
}

// HasAllPermissions checks if the user has all of the specified permissions.
func (c *Checker) HasAllPermissions(handles []string) bool {
	for _, h := range handles {
		if !c.HasPermission(h) {
			return false
		}
	}
	return true
}

// Permissions returns the granted handles, patterns included, without
// duplicates and sorted.
func (c *Checker) Permissions() []string {
	set := make(map[string]bool, len(c.direct)+len(c.inherited))
	for _, h := range c.direct {
		set[h] = true
	}
	for _, h := range c.inherited {
		set[h] = true
	}

	result := make([]string, 0, len(set))
	for h := range set {
		result = append(result, h)
	}
	sort.Strings(result)
	return result
}

// IsEmpty returns true if the user holds no permission at all.
func (c *Checker) IsEmpty() bool {
	return len(c.direct) == 0 && len(c.inherited) == 0
}
