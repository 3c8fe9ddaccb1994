package membership

import (
	"context"
	"database/sql"

	"github.com/fernandezvara/dbkit"
)

// PermissionStore defines the permission catalogue operations.
type PermissionStore interface {
	CreatePermission(ctx context.Context, in PermissionInput) (*Permission, error)
	GetPermission(ctx context.Context, id string) (*Permission, error)
	FindPermissionByHandle(ctx context.Context, handle string) (*Permission, error)
	SearchPermission(ctx context.Context, term string) (*Permission, error)
	UpdatePermission(ctx context.Context, id string, in PermissionInput) (*Permission, error)
	DeletePermission(ctx context.Context, id string) error
	ListPermissions(ctx context.Context, opts ListOptions) ([]Permission, error)
	AllPermissions(ctx context.Context) ([]Permission, error)
}

// GroupStore defines the group catalogue operations.
type GroupStore interface {
	CreateGroup(ctx context.Context, in GroupInput) (*Group, error)
	GetGroup(ctx context.Context, id string) (*Group, error)
	FindGroupByHandle(ctx context.Context, handle string) (*Group, error)
	UpdateGroup(ctx context.Context, id string, in GroupInput) (*Group, error)
	DeleteGroup(ctx context.Context, id string) error
	ListGroups(ctx context.Context, opts ListOptions) ([]Group, error)
	CountMembers(ctx context.Context, groupID string) (int, error)
	LimitExceeded(ctx context.Context, g *Group) (bool, error)
}

// Ledger defines the membership, leadership and grant operations.
type Ledger interface {
	Assign(ctx context.Context, userID, groupID string, makePrimary bool) error
	Retract(ctx context.Context, userID, groupID string) error
	HasMember(ctx context.Context, groupID, userID string) (bool, error)
	AddLeader(ctx context.Context, userID, groupID string) error
	RemoveLeader(ctx context.Context, userID, groupID string) error
	HasLeader(ctx context.Context, groupID, userID string) (bool, error)
	GrantPermission(ctx context.Context, groupID string, ref PermissionRef) error
	RevokePermission(ctx context.Context, groupID string, ref PermissionRef) error
	GrantPermissions(ctx context.Context, groupID string, refs ...PermissionRef) error
	RevokePermissions(ctx context.Context, groupID string, refs ...PermissionRef) error
	GrantUserPermission(ctx context.Context, userID string, ref PermissionRef) error
	RevokeUserPermission(ctx context.Context, userID string, ref PermissionRef) error
}

// Authorizer defines the gate operations used by callers.
type Authorizer interface {
	Check(ctx context.Context, userID, handle string, opts ...CheckOption) (bool, error)
	Allows(ctx context.Context, userID, handle string, opts ...CheckOption) bool
}

// TransactionManager defines the transaction management interface
type TransactionManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context, tx *Service) error) error
	TransactionWithOptions(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, tx *Service) error) error
	ReadOnlyTransaction(ctx context.Context, fn func(ctx context.Context, tx *Service) error) error
}

// HealthMonitor defines the health monitoring interface
type HealthMonitor interface {
	Health(ctx context.Context) dbkit.HealthStatus
	IsHealthy(ctx context.Context) bool
	Ping(ctx context.Context) error
	GetPoolStats() dbkit.PoolStats
}

// PoolManager defines the connection pool management interface
type PoolManager interface {
	ConfigureConnectionPool(config PoolConfig) error
	GetConnectionPoolConfig() (*PoolConfig, error)
	ResetConnectionPool() error
}

// TransactionMonitor defines the transaction monitoring interface
type TransactionMonitor interface {
	GetTransactionMetrics() TransactionMetrics
	ResetTransactionMetrics()
	IsTransactionHealthy() bool
}

var (
	_ PermissionStore    = (*Service)(nil)
	_ GroupStore         = (*Service)(nil)
	_ Ledger             = (*Service)(nil)
	_ TransactionManager = (*Service)(nil)
	_ TransactionMonitor = (*Service)(nil)
	_ Authorizer         = (*Gate)(nil)
	_ HealthMonitor      = (*HealthService)(nil)
	_ PoolManager        = (*PoolService)(nil)
)
