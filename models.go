package membership

import (
	"time"

	"github.com/uptrace/bun"
)

// Group is a named set of users that can be granted permissions as a whole.
type Group struct {
	bun.BaseModel `bun:"table:groups,alias:g"`

	ID       string `bun:"id,pk"`
	Name     string `bun:"name,notnull"`
	Handle   string `bun:"handle,notnull,unique"`
	OpenTag  string `bun:"open_tag,notnull"`
	CloseTag string `bun:"close_tag,notnull"`
	Limit    int    `bun:"limit,notnull"` // 0 means unlimited
	Public   bool   `bun:"public,notnull"`
}

// FormattedName returns the group name wrapped in its display tags.
func (g *Group) FormattedName() string {
	return g.OpenTag + g.Name + g.CloseTag
}

// Unlimited reports whether the group accepts any number of members.
func (g *Group) Unlimited() bool {
	return g.Limit == 0
}

// Permission is a grantable capability identified by a dotted handle.
type Permission struct {
	bun.BaseModel `bun:"table:permissions,alias:p"`

	ID     string `bun:"id,pk"`
	Name   string `bun:"name,notnull"`
	Handle string `bun:"handle,notnull,unique"`
	Type   string `bun:"type,notnull"`
}

// Code returns the identifier used for gate checks.
func (p *Permission) Code() string {
	return p.Handle
}

// UserGroup is a membership record.
type UserGroup struct {
	bun.BaseModel `bun:"table:user_groups,alias:ug"`

	UserID    string    `bun:"user_id,pk"`
	GroupID   string    `bun:"group_id,pk"`
	CreatedAt time.Time `bun:"created_at,notnull"`
}

// GroupLeader is a leadership record, tracked independently of membership.
type GroupLeader struct {
	bun.BaseModel `bun:"table:group_leaders,alias:gl"`

	UserID    string    `bun:"user_id,pk"`
	GroupID   string    `bun:"group_id,pk"`
	CreatedAt time.Time `bun:"created_at,notnull"`
}

// GroupPermission grants a permission to every member of a group.
type GroupPermission struct {
	bun.BaseModel `bun:"table:group_permissions,alias:gp"`

	GroupID      string    `bun:"group_id,pk"`
	PermissionID string    `bun:"permission_id,pk"`
	CreatedAt    time.Time `bun:"created_at,notnull"`
}

// UserPermission grants a permission to a single user.
type UserPermission struct {
	bun.BaseModel `bun:"table:user_permissions,alias:up"`

	UserID       string    `bun:"user_id,pk"`
	PermissionID string    `bun:"permission_id,pk"`
	CreatedAt    time.Time `bun:"created_at,notnull"`
}

// MembershipAuditLog records every ledger mutation.
type MembershipAuditLog struct {
	bun.BaseModel `bun:"table:membership_audit_log,alias:mal"`

	ID        string    `bun:"id,pk"`
	Timestamp time.Time `bun:"timestamp,notnull"`

	// Who performed the action
	ActorID string `bun:"actor_id,notnull"`

	Action       string `bun:"action,notnull"`
	UserID       string `bun:"user_id"`
	GroupID      string `bun:"group_id"`
	PermissionID string `bun:"permission_id"`

	// Request metadata for forensics
	IPAddress string `bun:"ip_address"`
	UserAgent string `bun:"user_agent"`
	RequestID string `bun:"request_id"`
}

// GroupInput carries the attributes for creating or updating a group.
// An empty Handle is derived from Name.
type GroupInput struct {
	Name     string
	Handle   string
	OpenTag  string
	CloseTag string
	Limit    int
	Public   bool
}

// PermissionInput carries the attributes for creating or updating a permission.
// An empty Handle is derived from Name.
type PermissionInput struct {
	Name   string
	Handle string
	Type   string
}

type permissionRefKind int

const (
	refByID permissionRefKind = iota + 1
	refByHandle
	refByValue
)

// PermissionRef points at a permission by id, by handle or by value.
// The zero value resolves to nothing.
type PermissionRef struct {
	kind   permissionRefKind
	id     string
	handle string
	value  *Permission
}

// PermissionByID references a permission by its identifier.
func PermissionByID(id string) PermissionRef {
	return PermissionRef{kind: refByID, id: id}
}

// PermissionByHandle references a permission by handle (or name, via SearchPermission).
func PermissionByHandle(handle string) PermissionRef {
	return PermissionRef{kind: refByHandle, handle: handle}
}

// PermissionValue references an already loaded permission.
func PermissionValue(p *Permission) PermissionRef {
	return PermissionRef{kind: refByValue, value: p}
}

// String returns a representation suitable for errors and logs.
func (r PermissionRef) String() string {
	switch r.kind {
	case refByID:
		return "id:" + r.id
	case refByHandle:
		return "handle:" + r.handle
	case refByValue:
		if r.value == nil {
			return "value:<nil>"
		}
		return "value:" + r.value.Handle
	}
	return "<empty>"
}

// PermissionsByHandle builds a list of handle references.
func PermissionsByHandle(handles ...string) []PermissionRef {
	refs := make([]PermissionRef, len(handles))
	for i, h := range handles {
		refs[i] = PermissionByHandle(h)
	}
	return refs
}

// AuditAction represents the type of action in the audit log.
type AuditAction string

const (
	AuditActionAssigned              AuditAction = "assigned"
	AuditActionRetracted             AuditAction = "retracted"
	AuditActionLeaderAdded           AuditAction = "leader_added"
	AuditActionLeaderRemoved         AuditAction = "leader_removed"
	AuditActionPermissionGranted     AuditAction = "permission_granted"
	AuditActionPermissionRevoked     AuditAction = "permission_revoked"
	AuditActionUserPermissionGranted AuditAction = "user_permission_granted"
	AuditActionUserPermissionRevoked AuditAction = "user_permission_revoked"
)

// AuditEntry is used to create new audit log entries.
type AuditEntry struct {
	ActorID      string
	Action       AuditAction
	UserID       string
	GroupID      string
	PermissionID string
	IPAddress    string
	UserAgent    string
	RequestID    string
}

// ToModel converts an AuditEntry to a MembershipAuditLog model.
func (e *AuditEntry) ToModel(id string, now time.Time) *MembershipAuditLog {
	return &MembershipAuditLog{
		ID:           id,
		Timestamp:    now,
		ActorID:      e.ActorID,
		Action:       string(e.Action),
		UserID:       e.UserID,
		GroupID:      e.GroupID,
		PermissionID: e.PermissionID,
		IPAddress:    e.IPAddress,
		UserAgent:    e.UserAgent,
		RequestID:    e.RequestID,
	}
}
