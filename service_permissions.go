package membership

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/fernandezvara/dbkit"
	"go.uber.org/zap"
)

// ============================================================================
// PERMISSION STORE
// ============================================================================

// CreatePermission stores a new permission. An empty handle is derived from
// the name with the permissions separator.
//
// Example:
//
//	p, err := service.CreatePermission(ctx, membership.PermissionInput{Name: "Posts Edit", Type: "posts"})
//	// p.Handle == "posts.edit"
func (s *Service) CreatePermission(ctx context.Context, in PermissionInput) (*Permission, error) {
	handle, err := s.permissionHandle(in)
	if err != nil {
		return nil, err
	}

	p := &Permission{
		ID:     newID(),
		Name:   strings.TrimSpace(in.Name),
		Handle: handle,
		Type:   in.Type,
	}

	taken, err := s.db.NewSelect().Model((*Permission)(nil)).Where("p.handle = ?", handle).Exists(ctx)
	if err = dbkit.WithErr1(err, "CheckPermissionHandle").Err(); err != nil {
		return nil, err
	}
	if taken {
		return nil, NewError(ErrDuplicateHandle, "permission handle already exists").WithPermission(handle)
	}

	result, err := s.db.NewInsert().Model(p).Exec(ctx)
	if err = dbkit.WithErr(result, err, "CreatePermission").Err(); err != nil {
		if isUniqueViolation(err) {
			return nil, NewError(ErrDuplicateHandle, "permission handle already exists").WithPermission(handle)
		}
		return nil, NewError(ErrDatabaseError, "failed to create permission").WithPermission(handle).WithCause(err)
	}

	s.logger.Debug("permission created", zap.String("permission_id", p.ID), zap.String("handle", p.Handle))
	return p, nil
}

func (s *Service) permissionHandle(in PermissionInput) (string, error) {
	if in.Handle != "" {
		if err := validateHandle(in.Handle, ErrInvalidPermission); err != nil {
			return "", err
		}
		return in.Handle, nil
	}
	handle := s.perms.Generate(in.Name)
	if handle == "" {
		return "", NewError(ErrInvalidPermission, "cannot derive a handle from name").WithPermission(in.Name)
	}
	return handle, nil
}

// GetPermission retrieves a permission by id.
func (s *Service) GetPermission(ctx context.Context, id string) (*Permission, error) {
	var p Permission
	err := dbkit.WithErr1(s.db.NewSelect().Model(&p).Where("p.id = ?", id).Limit(1).Scan(ctx), "GetPermission").Err()
	if err != nil {
		if isNoRows(err) {
			return nil, NewError(ErrPermissionNotFound, "no permission with this id").WithPermission(id)
		}
		return nil, err
	}
	return &p, nil
}

// FindPermissionByHandle retrieves a permission by exact handle.
// Wildcard handles are matched literally; hierarchy expansion belongs to the Gate.
func (s *Service) FindPermissionByHandle(ctx context.Context, handle string) (*Permission, error) {
	var p Permission
	err := dbkit.WithErr1(s.db.NewSelect().Model(&p).Where("p.handle = ?", handle).Limit(1).Scan(ctx), "FindPermissionByHandle").Err()
	if err != nil {
		if isNoRows(err) {
			return nil, NewError(ErrPermissionNotFound, "no permission with this handle").WithPermission(handle)
		}
		return nil, err
	}
	return &p, nil
}

// SearchPermission looks a permission up by handle or name.
// A handle match wins over a name match.
func (s *Service) SearchPermission(ctx context.Context, term string) (*Permission, error) {
	var p Permission
	err := s.db.NewSelect().Model(&p).
		Where("p.handle = ? OR p.name = ?", term, term).
		OrderExpr("CASE WHEN p.handle = ? THEN 0 ELSE 1 END", term).
		Order("p.handle ASC").
		Limit(1).
		Scan(ctx)
	if err = dbkit.WithErr1(err, "SearchPermission").Err(); err != nil {
		if isNoRows(err) {
			return nil, NewError(ErrPermissionNotFound, "no permission matches").WithPermission(term)
		}
		return nil, err
	}
	return &p, nil
}

// UpdatePermission replaces name, handle and type of a permission.
// When no handle is given and the name changed, the handle is derived again.
func (s *Service) UpdatePermission(ctx context.Context, id string, in PermissionInput) (*Permission, error) {
	p, err := s.GetPermission(ctx, id)
	if err != nil {
		return nil, err
	}

	handle := p.Handle
	if in.Handle != "" || strings.TrimSpace(in.Name) != p.Name {
		if handle, err = s.permissionHandle(in); err != nil {
			return nil, err
		}
	}

	if handle != p.Handle {
		taken, err := s.db.NewSelect().Model((*Permission)(nil)).Where("p.handle = ? AND p.id <> ?", handle, id).Exists(ctx)
		if err = dbkit.WithErr1(err, "CheckPermissionHandle").Err(); err != nil {
			return nil, err
		}
		if taken {
			return nil, NewError(ErrDuplicateHandle, "permission handle already exists").WithPermission(handle)
		}
	}

	p.Name = strings.TrimSpace(in.Name)
	p.Handle = handle
	p.Type = in.Type

	result, err := s.db.NewUpdate().Model(p).Column("name", "handle", "type").WherePK().Exec(ctx)
	if err = dbkit.WithErr(result, err, "UpdatePermission").Err(); err != nil {
		if isUniqueViolation(err) {
			return nil, NewError(ErrDuplicateHandle, "permission handle already exists").WithPermission(handle)
		}
		return nil, NewError(ErrDatabaseError, "failed to update permission").WithPermission(id).WithCause(err)
	}
	return p, nil
}

// DeletePermission removes a permission that nothing grants anymore.
// It fails with ErrPermissionInUse while a group or user grant references it.
func (s *Service) DeletePermission(ctx context.Context, id string) error {
	return s.Transaction(ctx, func(ctx context.Context, tx *Service) error {
		if _, err := tx.GetPermission(ctx, id); err != nil {
			return err
		}

		inGroups, err := tx.db.NewSelect().Model((*GroupPermission)(nil)).Where("gp.permission_id = ?", id).Exists(ctx)
		if err = dbkit.WithErr1(err, "CheckGroupGrants").Err(); err != nil {
			return err
		}
		inUsers, err := tx.db.NewSelect().Model((*UserPermission)(nil)).Where("up.permission_id = ?", id).Exists(ctx)
		if err = dbkit.WithErr1(err, "CheckUserGrants").Err(); err != nil {
			return err
		}
		if inGroups || inUsers {
			return NewError(ErrPermissionInUse, "permission is still granted").WithPermission(id)
		}

		result, err := tx.db.NewDelete().Model((*Permission)(nil)).Where("id = ?", id).Exec(ctx)
		if err = dbkit.WithErr(result, err, "DeletePermission").Err(); err != nil {
			return err
		}
		s.logger.Debug("permission deleted", zap.String("permission_id", id))
		return nil
	})
}

// ListPermissions returns a page of permissions ordered by handle.
func (s *Service) ListPermissions(ctx context.Context, opts ListOptions) ([]Permission, error) {
	limit, offset := opts.limitOffset(s.cfg.Permissions.PerPage)
	var perms []Permission
	err := s.db.NewSelect().Model(&perms).Order("p.handle ASC").Limit(limit).Offset(offset).Scan(ctx)
	if err = dbkit.WithErr1(err, "ListPermissions").Err(); err != nil {
		return nil, err
	}
	return perms, nil
}

// AllPermissions returns every permission. The gate boots from this snapshot.
func (s *Service) AllPermissions(ctx context.Context) ([]Permission, error) {
	var perms []Permission
	err := s.db.NewSelect().Model(&perms).Order("p.handle ASC").Scan(ctx)
	if err = dbkit.WithErr1(err, "AllPermissions").Err(); err != nil {
		return nil, err
	}
	return perms, nil
}

// resolvePermission turns a reference into a stored permission.
func (s *Service) resolvePermission(ctx context.Context, ref PermissionRef) (*Permission, error) {
	switch ref.kind {
	case refByID:
		return s.GetPermission(ctx, ref.id)
	case refByHandle:
		return s.SearchPermission(ctx, ref.handle)
	case refByValue:
		if ref.value == nil || ref.value.ID == "" {
			return nil, NewError(ErrPermissionNotFound, "permission value has no id")
		}
		return ref.value, nil
	}
	return nil, NewError(ErrPermissionNotFound, "empty permission reference")
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || dbkit.IsNotFound(err)
}
