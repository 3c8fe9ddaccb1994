package membership

import (
	"context"

	"github.com/fernandezvara/dbkit"
	"go.uber.org/zap"
)

// ============================================================================
// MEMBERSHIP LEDGER: GRANTS
// ============================================================================

// GrantPermission grants a permission to every member of a group.
// Granting twice is a no-op.
//
// Example:
//
//	err := service.GrantPermission(ctx, editors.ID, membership.PermissionByHandle("posts.edit"))
func (s *Service) GrantPermission(ctx context.Context, groupID string, ref PermissionRef) error {
	if _, err := s.GetGroup(ctx, groupID); err != nil {
		return err
	}
	p, err := s.resolvePermission(ctx, ref)
	if err != nil {
		return err
	}

	result, err := s.db.NewInsert().
		Model(&GroupPermission{GroupID: groupID, PermissionID: p.ID, CreatedAt: s.now()}).
		On("CONFLICT (group_id, permission_id) DO NOTHING").
		Exec(ctx)
	if err = dbkit.WithErr(result, err, "GrantPermission").Err(); err != nil {
		return NewError(ErrDatabaseError, "failed to grant permission").WithGroup(groupID).WithPermission(p.Handle).WithCause(err)
	}

	if n, _ := result.RowsAffected(); n > 0 {
		s.logAudit(ctx, &AuditEntry{Action: AuditActionPermissionGranted, GroupID: groupID, PermissionID: p.ID})
		s.logger.Debug("permission granted", zap.String("group_id", groupID), zap.String("permission", p.Handle))
	}
	return nil
}

// RevokePermission removes a group grant. Revoking a missing grant is a no-op.
func (s *Service) RevokePermission(ctx context.Context, groupID string, ref PermissionRef) error {
	if _, err := s.GetGroup(ctx, groupID); err != nil {
		return err
	}
	p, err := s.resolvePermission(ctx, ref)
	if err != nil {
		return err
	}

	result, err := s.db.NewDelete().
		Model((*GroupPermission)(nil)).
		Where("group_id = ? AND permission_id = ?", groupID, p.ID).
		Exec(ctx)
	if err = dbkit.WithErr(result, err, "RevokePermission").Err(); err != nil {
		return NewError(ErrDatabaseError, "failed to revoke permission").WithGroup(groupID).WithPermission(p.Handle).WithCause(err)
	}

	if n, _ := result.RowsAffected(); n > 0 {
		s.logAudit(ctx, &AuditEntry{Action: AuditActionPermissionRevoked, GroupID: groupID, PermissionID: p.ID})
		s.logger.Debug("permission revoked", zap.String("group_id", groupID), zap.String("permission", p.Handle))
	}
	return nil
}

// GrantPermissions grants each reference independently. Failures are
// collected into a *BatchError and do not undo the grants that succeeded.
func (s *Service) GrantPermissions(ctx context.Context, groupID string, refs ...PermissionRef) error {
	batch := &BatchError{Op: "grant permissions"}
	for i, ref := range refs {
		if err := s.GrantPermission(ctx, groupID, ref); err != nil {
			batch.add(i, ref.String(), err)
		}
	}
	return batch.orNil()
}

// RevokePermissions revokes each reference independently, like GrantPermissions.
func (s *Service) RevokePermissions(ctx context.Context, groupID string, refs ...PermissionRef) error {
	batch := &BatchError{Op: "revoke permissions"}
	for i, ref := range refs {
		if err := s.RevokePermission(ctx, groupID, ref); err != nil {
			batch.add(i, ref.String(), err)
		}
	}
	return batch.orNil()
}

// GrantUserPermission grants a permission to a single user.
func (s *Service) GrantUserPermission(ctx context.Context, userID string, ref PermissionRef) error {
	p, err := s.resolvePermission(ctx, ref)
	if err != nil {
		return err
	}

	result, err := s.db.NewInsert().
		Model(&UserPermission{UserID: userID, PermissionID: p.ID, CreatedAt: s.now()}).
		On("CONFLICT (user_id, permission_id) DO NOTHING").
		Exec(ctx)
	if err = dbkit.WithErr(result, err, "GrantUserPermission").Err(); err != nil {
		return NewError(ErrDatabaseError, "failed to grant user permission").WithUser(userID).WithPermission(p.Handle).WithCause(err)
	}

	if n, _ := result.RowsAffected(); n > 0 {
		s.logAudit(ctx, &AuditEntry{Action: AuditActionUserPermissionGranted, UserID: userID, PermissionID: p.ID})
	}
	return nil
}

// RevokeUserPermission removes a direct user grant.
func (s *Service) RevokeUserPermission(ctx context.Context, userID string, ref PermissionRef) error {
	p, err := s.resolvePermission(ctx, ref)
	if err != nil {
		return err
	}

	result, err := s.db.NewDelete().
		Model((*UserPermission)(nil)).
		Where("user_id = ? AND permission_id = ?", userID, p.ID).
		Exec(ctx)
	if err = dbkit.WithErr(result, err, "RevokeUserPermission").Err(); err != nil {
		return NewError(ErrDatabaseError, "failed to revoke user permission").WithUser(userID).WithPermission(p.Handle).WithCause(err)
	}

	if n, _ := result.RowsAffected(); n > 0 {
		s.logAudit(ctx, &AuditEntry{Action: AuditActionUserPermissionRevoked, UserID: userID, PermissionID: p.ID})
	}
	return nil
}

// GrantUserPermissions is the best-effort batch form of GrantUserPermission.
func (s *Service) GrantUserPermissions(ctx context.Context, userID string, refs ...PermissionRef) error {
	batch := &BatchError{Op: "grant user permissions"}
	for i, ref := range refs {
		if err := s.GrantUserPermission(ctx, userID, ref); err != nil {
			batch.add(i, ref.String(), err)
		}
	}
	return batch.orNil()
}

// RevokeUserPermissions is the best-effort batch form of RevokeUserPermission.
func (s *Service) RevokeUserPermissions(ctx context.Context, userID string, refs ...PermissionRef) error {
	batch := &BatchError{Op: "revoke user permissions"}
	for i, ref := range refs {
		if err := s.RevokeUserPermission(ctx, userID, ref); err != nil {
			batch.add(i, ref.String(), err)
		}
	}
	return batch.orNil()
}

// GroupPermissions returns the permissions granted to a group.
func (s *Service) GroupPermissions(ctx context.Context, groupID string) ([]Permission, error) {
	var perms []Permission
	err := s.db.NewSelect().Model(&perms).
		Join("JOIN group_permissions AS gp ON gp.permission_id = p.id").
		Where("gp.group_id = ?", groupID).
		Order("p.handle ASC").
		Scan(ctx)
	if err = dbkit.WithErr1(err, "GroupPermissions").Err(); err != nil {
		return nil, err
	}
	return perms, nil
}

// UserPermissions returns the permissions granted directly to a user.
// Permissions inherited through groups are not included.
func (s *Service) UserPermissions(ctx context.Context, userID string) ([]Permission, error) {
	var perms []Permission
	err := s.db.NewSelect().Model(&perms).
		Join("JOIN user_permissions AS up ON up.permission_id = p.id").
		Where("up.user_id = ?", userID).
		Order("p.handle ASC").
		Scan(ctx)
	if err = dbkit.WithErr1(err, "UserPermissions").Err(); err != nil {
		return nil, err
	}
	return perms, nil
}

// directGrantHandles returns the handles granted directly to a user.
func (s *Service) directGrantHandles(ctx context.Context, userID string) ([]string, error) {
	var handles []string
	err := dbkit.WithErr1(s.db.NewRaw(
		"SELECT p.handle FROM permissions AS p JOIN user_permissions AS up ON up.permission_id = p.id WHERE up.user_id = ?",
		userID).Scan(ctx, &handles), "GetDirectHandles").Err()
	if err != nil {
		return nil, err
	}
	return handles, nil
}

// inheritedGrantHandles returns the handles a user holds through group membership.
func (s *Service) inheritedGrantHandles(ctx context.Context, userID string) ([]string, error) {
	var handles []string
	err := dbkit.WithErr1(s.db.NewRaw(
		"SELECT DISTINCT p.handle FROM permissions AS p "+
			"JOIN group_permissions AS gp ON gp.permission_id = p.id "+
			"JOIN user_groups AS ug ON ug.group_id = gp.group_id "+
			"WHERE ug.user_id = ?",
		userID).Scan(ctx, &handles), "GetGroupHandles").Err()
	if err != nil {
		return nil, err
	}
	return handles, nil
}
