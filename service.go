package membership

import (
	"context"
	"time"

	"github.com/fernandezvara/dbkit"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Service stores groups and permissions and maintains the membership ledger.
// It works on any bun.IDB (a *bun.DB, a bun.Tx or the database behind a
// dbkit.DBKit) with enhanced error handling.
//
// Error Handling:
// Store failures are wrapped with dbkit's chainable error wrapping, naming
// the failed operation. Domain failures use the sentinels in errors.go and
// can be classified with errors.Is:
//
//	err := service.Assign(ctx, userID, groupID, false)
//	if errors.Is(err, membership.ErrGroupFull) {
//	    // Group limit reached
//	}
type Service struct {
	db        bun.IDB
	kit       *dbkit.DBKit
	cfg       Config
	logger    *zap.Logger
	groups    *HandleGenerator
	perms     *HandleGenerator
	txMonitor *transactionMonitor
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) Option {
	return func(s *Service) {
		s.cfg = cfg
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new membership service.
// It fails with ErrInvalidConfiguration when the configured handle
// separators are unusable.
//
// Example:
//
//	db, _ := dbkit.New(dbkit.Config{URL: "postgres://..."})
//	service, err := membership.NewServiceFromDBKit(db, membership.WithLogger(logger))
func NewService(db bun.IDB, opts ...Option) (*Service, error) {
	s := &Service{
		db:        db,
		cfg:       DefaultConfig(),
		logger:    zap.NewNop(),
		txMonitor: newTransactionMonitor(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}

	var err error
	if s.groups, err = NewHandleGenerator(s.cfg.Groups.HandleSeparator, s.cfg.Transliteration); err != nil {
		return nil, err
	}
	if s.perms, err = NewHandleGenerator(s.cfg.Permissions.HandleSeparator, s.cfg.Transliteration); err != nil {
		return nil, err
	}
	return s, nil
}

// NewServiceFromDBKit creates a service on top of a dbkit connection.
// Migrations and health checks are then delegated to dbkit.
func NewServiceFromDBKit(kit *dbkit.DBKit, opts ...Option) (*Service, error) {
	s, err := NewService(kit.Bun(), opts...)
	if err != nil {
		return nil, err
	}
	s.kit = kit
	return s, nil
}

// Config returns the configuration in use.
func (s *Service) Config() Config {
	return s.cfg
}

// GroupHandles returns the generator used for group handles.
func (s *Service) GroupHandles() *HandleGenerator {
	return s.groups
}

// PermissionHandles returns the generator used for permission handles.
func (s *Service) PermissionHandles() *HandleGenerator {
	return s.perms
}

// withDB returns a shallow copy bound to db, used inside transactions.
func (s *Service) withDB(db bun.IDB) *Service {
	cp := *s
	cp.db = db
	return &cp
}

func newID() string {
	return uuid.NewString()
}

// ============================================================================
// AUDIT LOG
// ============================================================================

func (s *Service) logAudit(ctx context.Context, entry *AuditEntry) {
	audit := GetAuditContext(ctx)
	entry.ActorID = audit.ActorID
	entry.IPAddress = audit.IPAddress
	entry.UserAgent = audit.UserAgent
	entry.RequestID = audit.RequestID

	// Inside a transaction RunInTx opens a savepoint, so a failed insert
	// rolls back the audit row only and leaves the caller's tx usable.
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(entry.ToModel(newID(), s.now())).Exec(ctx)
		return err
	})
	if err = dbkit.WithErr1(err, "LogAudit").Err(); err != nil {
		// Audit failures never fail the mutation.
		s.logger.Warn("membership audit write failed",
			zap.String("action", string(entry.Action)),
			zap.String("user_id", entry.UserID),
			zap.String("group_id", entry.GroupID),
			zap.Error(err))
	}
}

// GetAuditLog retrieves audit log entries with optional filters.
func (s *Service) GetAuditLog(ctx context.Context, filter AuditLogFilter) ([]MembershipAuditLog, error) {
	var logs []MembershipAuditLog
	q := s.db.NewSelect().Model(&logs)
	if filter.ActorID != "" {
		q = q.Where("mal.actor_id = ?", filter.ActorID)
	}
	if filter.UserID != "" {
		q = q.Where("mal.user_id = ?", filter.UserID)
	}
	if filter.GroupID != "" {
		q = q.Where("mal.group_id = ?", filter.GroupID)
	}
	if filter.PermissionID != "" {
		q = q.Where("mal.permission_id = ?", filter.PermissionID)
	}
	if filter.Action != "" {
		q = q.Where("mal.action = ?", filter.Action)
	}
	if !filter.Since.IsZero() {
		q = q.Where("mal.timestamp >= ?", filter.Since)
	}
	if !filter.Until.IsZero() {
		q = q.Where("mal.timestamp <= ?", filter.Until)
	}

	limit := filter.Limit
	if limit == 0 {
		limit = 100 // Default limit
	}
	q = q.Limit(limit)

	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	q = q.Order("mal.timestamp DESC")
	if err := dbkit.WithErr1(q.Scan(ctx), "GetAuditLog").Err(); err != nil {
		return nil, err
	}

	return logs, nil
}
