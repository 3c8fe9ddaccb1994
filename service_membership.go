package membership

import (
	"context"
	"database/sql"

	"github.com/fernandezvara/dbkit"
	"go.uber.org/zap"
)

// ============================================================================
// MEMBERSHIP LEDGER: MEMBERS AND LEADERS
// ============================================================================

// Assign adds a user to a group and optionally makes it the user's primary
// group.
//
// The capacity check runs before the insert and is not atomic with it:
// concurrent assigns to an almost full group may overshoot the limit on
// PostgreSQL. SQLite serializes writers instead, so the losers of a race get
// ErrGroupFull or an ErrDatabaseError wrapping "database is locked".
// Assigning an existing member is a no-op. With makePrimary the membership
// and the users.primary_group_id update share one transaction, so an unknown
// user leaves no membership behind.
//
// Example:
//
//	if err := service.Assign(ctx, userID, staff.ID, true); membership.IsGroupFull(err) {
//	    // try another group
//	}
func (s *Service) Assign(ctx context.Context, userID, groupID string, makePrimary bool) error {
	return s.Transaction(ctx, func(ctx context.Context, tx *Service) error {
		g, err := tx.GetGroup(ctx, groupID)
		if err != nil {
			return err
		}

		full, err := tx.LimitExceeded(ctx, g)
		if err != nil {
			return err
		}
		if full {
			return NewError(ErrGroupFull, "group member limit reached").WithGroup(groupID).WithUser(userID)
		}

		result, err := tx.db.NewInsert().
			Model(&UserGroup{UserID: userID, GroupID: groupID, CreatedAt: tx.now()}).
			On("CONFLICT (user_id, group_id) DO NOTHING").
			Exec(ctx)
		if err = dbkit.WithErr(result, err, "Assign").Err(); err != nil {
			return NewError(ErrDatabaseError, "failed to assign user").WithGroup(groupID).WithUser(userID).WithCause(err)
		}
		inserted, _ := result.RowsAffected()

		if makePrimary {
			if err := tx.setPrimaryGroup(ctx, userID, groupID); err != nil {
				return err
			}
		}

		if inserted > 0 {
			tx.logAudit(ctx, &AuditEntry{Action: AuditActionAssigned, UserID: userID, GroupID: groupID})
		}
		s.logger.Debug("user assigned",
			zap.String("user_id", userID),
			zap.String("group_id", groupID),
			zap.Bool("primary", makePrimary))
		return nil
	})
}

func (s *Service) setPrimaryGroup(ctx context.Context, userID, groupID string) error {
	result, err := s.db.NewUpdate().
		Table(s.cfg.Users.Table).
		Set("primary_group_id = ?", groupID).
		Where("id = ?", userID).
		Exec(ctx)
	if err = dbkit.WithErr(result, err, "SetPrimaryGroup").Err(); err != nil {
		return NewError(ErrDatabaseError, "failed to set primary group").WithGroup(groupID).WithUser(userID).WithCause(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return NewError(ErrUserNotFound, "cannot set primary group").WithUser(userID)
	}
	return nil
}

// AssignDefaultGroup assigns the group configured as groups.default and
// makes it primary. It does nothing when no default group is configured.
func (s *Service) AssignDefaultGroup(ctx context.Context, userID string) error {
	handle := s.cfg.Groups.Default
	if handle == "" {
		return nil
	}
	g, err := s.FindGroupByHandle(ctx, handle)
	if err != nil {
		return err
	}
	return s.Assign(ctx, userID, g.ID, true)
}

// Retract removes a user from a group. Retracting a non-member is a no-op.
// The user's primary_group_id is left untouched.
func (s *Service) Retract(ctx context.Context, userID, groupID string) error {
	result, err := s.db.NewDelete().
		Model((*UserGroup)(nil)).
		Where("user_id = ? AND group_id = ?", userID, groupID).
		Exec(ctx)
	if err = dbkit.WithErr(result, err, "Retract").Err(); err != nil {
		return NewError(ErrDatabaseError, "failed to retract user").WithGroup(groupID).WithUser(userID).WithCause(err)
	}

	if n, _ := result.RowsAffected(); n > 0 {
		s.logAudit(ctx, &AuditEntry{Action: AuditActionRetracted, UserID: userID, GroupID: groupID})
	}
	return nil
}

// HasMember reports whether a user is assigned to a group.
func (s *Service) HasMember(ctx context.Context, groupID, userID string) (bool, error) {
	ok, err := s.db.NewSelect().Model((*UserGroup)(nil)).
		Where("ug.group_id = ? AND ug.user_id = ?", groupID, userID).
		Exists(ctx)
	if err = dbkit.WithErr1(err, "HasMember").Err(); err != nil {
		return false, err
	}
	return ok, nil
}

// AddLeader makes a user leader of a group. Leaders need not be members and
// do not count towards the member limit.
func (s *Service) AddLeader(ctx context.Context, userID, groupID string) error {
	if _, err := s.GetGroup(ctx, groupID); err != nil {
		return err
	}

	result, err := s.db.NewInsert().
		Model(&GroupLeader{UserID: userID, GroupID: groupID, CreatedAt: s.now()}).
		On("CONFLICT (user_id, group_id) DO NOTHING").
		Exec(ctx)
	if err = dbkit.WithErr(result, err, "AddLeader").Err(); err != nil {
		return NewError(ErrDatabaseError, "failed to add leader").WithGroup(groupID).WithUser(userID).WithCause(err)
	}

	if n, _ := result.RowsAffected(); n > 0 {
		s.logAudit(ctx, &AuditEntry{Action: AuditActionLeaderAdded, UserID: userID, GroupID: groupID})
	}
	return nil
}

// RemoveLeader drops a user's leadership of a group. Idempotent.
func (s *Service) RemoveLeader(ctx context.Context, userID, groupID string) error {
	result, err := s.db.NewDelete().
		Model((*GroupLeader)(nil)).
		Where("user_id = ? AND group_id = ?", userID, groupID).
		Exec(ctx)
	if err = dbkit.WithErr(result, err, "RemoveLeader").Err(); err != nil {
		return NewError(ErrDatabaseError, "failed to remove leader").WithGroup(groupID).WithUser(userID).WithCause(err)
	}

	if n, _ := result.RowsAffected(); n > 0 {
		s.logAudit(ctx, &AuditEntry{Action: AuditActionLeaderRemoved, UserID: userID, GroupID: groupID})
	}
	return nil
}

// HasLeader reports whether a user leads a group.
func (s *Service) HasLeader(ctx context.Context, groupID, userID string) (bool, error) {
	ok, err := s.db.NewSelect().Model((*GroupLeader)(nil)).
		Where("gl.group_id = ? AND gl.user_id = ?", groupID, userID).
		Exists(ctx)
	if err = dbkit.WithErr1(err, "HasLeader").Err(); err != nil {
		return false, err
	}
	return ok, nil
}

// ============================================================================
// READ SIDE
// ============================================================================

// GroupMembers returns a page of the user ids assigned to a group, oldest
// membership first. The page size defaults to users.per_page.
func (s *Service) GroupMembers(ctx context.Context, groupID string, opts ListOptions) ([]string, error) {
	limit, offset := opts.limitOffset(s.cfg.Users.PerPage)
	var ids []string
	err := s.db.NewSelect().Model((*UserGroup)(nil)).
		ColumnExpr("ug.user_id").
		Where("ug.group_id = ?", groupID).
		Order("ug.created_at ASC", "ug.user_id ASC").
		Limit(limit).
		Offset(offset).
		Scan(ctx, &ids)
	if err = dbkit.WithErr1(err, "GroupMembers").Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// GroupLeaders returns the user ids leading a group.
func (s *Service) GroupLeaders(ctx context.Context, groupID string) ([]string, error) {
	var ids []string
	err := s.db.NewSelect().Model((*GroupLeader)(nil)).
		ColumnExpr("gl.user_id").
		Where("gl.group_id = ?", groupID).
		Order("gl.user_id ASC").
		Scan(ctx, &ids)
	if err = dbkit.WithErr1(err, "GroupLeaders").Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// UserGroups returns the groups a user is assigned to, ordered by name.
func (s *Service) UserGroups(ctx context.Context, userID string) ([]Group, error) {
	var groups []Group
	err := s.db.NewSelect().Model(&groups).
		Join("JOIN user_groups AS ug ON ug.group_id = g.id").
		Where("ug.user_id = ?", userID).
		Order("g.name ASC").
		Scan(ctx)
	if err = dbkit.WithErr1(err, "UserGroups").Err(); err != nil {
		return nil, err
	}
	return groups, nil
}

// PrimaryGroup returns the user's primary group, or nil when none is set.
// A primary_group_id pointing at a deleted group also yields nil.
func (s *Service) PrimaryGroup(ctx context.Context, userID string) (*Group, error) {
	var groupID sql.NullString
	err := s.db.NewSelect().
		Table(s.cfg.Users.Table).
		ColumnExpr("primary_group_id").
		Where("id = ?", userID).
		Limit(1).
		Scan(ctx, &groupID)
	if err = dbkit.WithErr1(err, "PrimaryGroup").Err(); err != nil {
		if isNoRows(err) {
			return nil, NewError(ErrUserNotFound, "no user with this id").WithUser(userID)
		}
		return nil, err
	}
	if !groupID.Valid || groupID.String == "" {
		return nil, nil
	}

	g, err := s.GetGroup(ctx, groupID.String)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return g, nil
}
