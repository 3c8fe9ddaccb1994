package membership

import "time"

// AuditLogFilter provides options for filtering audit log queries.
type AuditLogFilter struct {
	// Filter by actor who performed the action
	ActorID string

	// Filter by the user the action was about
	UserID string

	GroupID      string
	PermissionID string

	// Filter by action type
	Action string

	// Filter by time range
	Since time.Time
	Until time.Time

	// Pagination
	Limit  int
	Offset int
}

// NewAuditLogFilter creates a new AuditLogFilter with default values.
func NewAuditLogFilter() AuditLogFilter {
	return AuditLogFilter{
		Limit: 100,
	}
}

// WithActor sets the actor ID filter.
func (f AuditLogFilter) WithActor(actorID string) AuditLogFilter {
	f.ActorID = actorID
	return f
}

// WithUser sets the user ID filter.
func (f AuditLogFilter) WithUser(userID string) AuditLogFilter {
	f.UserID = userID
	return f
}

// WithGroup sets the group ID filter.
func (f AuditLogFilter) WithGroup(groupID string) AuditLogFilter {
	f.GroupID = groupID
	return f
}

// WithPermission sets the permission ID filter.
func (f AuditLogFilter) WithPermission(permissionID string) AuditLogFilter {
	f.PermissionID = permissionID
	return f
}

// WithAction sets the action filter.
func (f AuditLogFilter) WithAction(action AuditAction) AuditLogFilter {
	f.Action = string(action)
	return f
}

// WithTimeRange sets the time range filter.
func (f AuditLogFilter) WithTimeRange(since, until time.Time) AuditLogFilter {
	f.Since = since
	f.Until = until
	return f
}

// WithPagination sets both limit and offset.
func (f AuditLogFilter) WithPagination(limit, offset int) AuditLogFilter {
	f.Limit = limit
	f.Offset = offset
	return f
}

// ListOptions selects a page of a listing. Pages start at 1; the page size
// comes from the per_page setting of the listed entity unless PerPage is set.
type ListOptions struct {
	Page    int
	PerPage int
}

// Page returns ListOptions for the given page number.
func Page(n int) ListOptions {
	return ListOptions{Page: n}
}

// limitOffset resolves the options against a default page size.
func (o ListOptions) limitOffset(defaultPerPage int) (limit, offset int) {
	limit = o.PerPage
	if limit <= 0 {
		limit = defaultPerPage
	}
	page := o.Page
	if page < 1 {
		page = 1
	}
	return limit, (page - 1) * limit
}
