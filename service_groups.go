package membership

import (
	"context"
	"strings"

	"github.com/fernandezvara/dbkit"
	"go.uber.org/zap"
)

// ============================================================================
// GROUP STORE
// ============================================================================

// CreateGroup stores a new group. An empty handle is derived from the name
// with the groups separator. A zero limit means unlimited.
//
// Example:
//
//	vip, err := service.CreateGroup(ctx, membership.GroupInput{
//	    Name: "VIP", OpenTag: "[", CloseTag: "]", Limit: 50,
//	})
func (s *Service) CreateGroup(ctx context.Context, in GroupInput) (*Group, error) {
	if in.Limit < 0 {
		return nil, NewError(ErrInvalidGroup, "limit cannot be negative")
	}
	handle, err := s.groupHandle(in)
	if err != nil {
		return nil, err
	}

	g := &Group{
		ID:       newID(),
		Name:     strings.TrimSpace(in.Name),
		Handle:   handle,
		OpenTag:  in.OpenTag,
		CloseTag: in.CloseTag,
		Limit:    in.Limit,
		Public:   in.Public,
	}

	if err := s.checkGroupHandle(ctx, handle, ""); err != nil {
		return nil, err
	}

	result, err := s.db.NewInsert().Model(g).Exec(ctx)
	if err = dbkit.WithErr(result, err, "CreateGroup").Err(); err != nil {
		if isUniqueViolation(err) {
			return nil, NewError(ErrDuplicateHandle, "group handle already exists").WithGroup(handle)
		}
		return nil, NewError(ErrDatabaseError, "failed to create group").WithGroup(handle).WithCause(err)
	}

	s.logger.Debug("group created", zap.String("group_id", g.ID), zap.String("handle", g.Handle))
	return g, nil
}

func (s *Service) groupHandle(in GroupInput) (string, error) {
	if in.Handle != "" {
		if err := validateHandle(in.Handle, ErrInvalidGroup); err != nil {
			return "", err
		}
		return in.Handle, nil
	}
	handle := s.groups.Generate(in.Name)
	if handle == "" {
		return "", NewError(ErrInvalidGroup, "cannot derive a handle from name")
	}
	return handle, nil
}

func (s *Service) checkGroupHandle(ctx context.Context, handle, exceptID string) error {
	q := s.db.NewSelect().Model((*Group)(nil)).Where("g.handle = ?", handle)
	if exceptID != "" {
		q = q.Where("g.id <> ?", exceptID)
	}
	taken, err := q.Exists(ctx)
	if err = dbkit.WithErr1(err, "CheckGroupHandle").Err(); err != nil {
		return err
	}
	if taken {
		return NewError(ErrDuplicateHandle, "group handle already exists").WithGroup(handle)
	}
	return nil
}

// GetGroup retrieves a group by id.
func (s *Service) GetGroup(ctx context.Context, id string) (*Group, error) {
	var g Group
	err := dbkit.WithErr1(s.db.NewSelect().Model(&g).Where("g.id = ?", id).Limit(1).Scan(ctx), "GetGroup").Err()
	if err != nil {
		if isNoRows(err) {
			return nil, NewError(ErrGroupNotFound, "no group with this id").WithGroup(id)
		}
		return nil, err
	}
	return &g, nil
}

// FindGroupByHandle retrieves a group by handle.
func (s *Service) FindGroupByHandle(ctx context.Context, handle string) (*Group, error) {
	var g Group
	err := dbkit.WithErr1(s.db.NewSelect().Model(&g).Where("g.handle = ?", handle).Limit(1).Scan(ctx), "FindGroupByHandle").Err()
	if err != nil {
		if isNoRows(err) {
			return nil, NewError(ErrGroupNotFound, "no group with this handle").WithGroup(handle)
		}
		return nil, err
	}
	return &g, nil
}

// UpdateGroup replaces the attributes of a group.
// When no handle is given and the name changed, the handle is derived again.
func (s *Service) UpdateGroup(ctx context.Context, id string, in GroupInput) (*Group, error) {
	if in.Limit < 0 {
		return nil, NewError(ErrInvalidGroup, "limit cannot be negative").WithGroup(id)
	}
	g, err := s.GetGroup(ctx, id)
	if err != nil {
		return nil, err
	}

	handle := g.Handle
	if in.Handle != "" || strings.TrimSpace(in.Name) != g.Name {
		if handle, err = s.groupHandle(in); err != nil {
			return nil, err
		}
	}
	if handle != g.Handle {
		if err := s.checkGroupHandle(ctx, handle, id); err != nil {
			return nil, err
		}
	}

	g.Name = strings.TrimSpace(in.Name)
	g.Handle = handle
	g.OpenTag = in.OpenTag
	g.CloseTag = in.CloseTag
	g.Limit = in.Limit
	g.Public = in.Public

	result, err := s.db.NewUpdate().Model(g).
		Column("name", "handle", "open_tag", "close_tag", "limit", "public").
		WherePK().
		Exec(ctx)
	if err = dbkit.WithErr(result, err, "UpdateGroup").Err(); err != nil {
		if isUniqueViolation(err) {
			return nil, NewError(ErrDuplicateHandle, "group handle already exists").WithGroup(handle)
		}
		return nil, NewError(ErrDatabaseError, "failed to update group").WithGroup(id).WithCause(err)
	}
	return g, nil
}

// DeleteGroup removes a group together with its memberships, leaderships and
// grants. Users whose primary group was this one keep the dangling reference.
func (s *Service) DeleteGroup(ctx context.Context, id string) error {
	return s.Transaction(ctx, func(ctx context.Context, tx *Service) error {
		if _, err := tx.GetGroup(ctx, id); err != nil {
			return err
		}

		for _, m := range []any{(*UserGroup)(nil), (*GroupLeader)(nil), (*GroupPermission)(nil)} {
			result, err := tx.db.NewDelete().Model(m).Where("group_id = ?", id).Exec(ctx)
			if err = dbkit.WithErr(result, err, "DeleteGroupRelations").Err(); err != nil {
				return err
			}
		}

		result, err := tx.db.NewDelete().Model((*Group)(nil)).Where("id = ?", id).Exec(ctx)
		if err = dbkit.WithErr(result, err, "DeleteGroup").Err(); err != nil {
			return err
		}
		s.logger.Debug("group deleted", zap.String("group_id", id))
		return nil
	})
}

// ListGroups returns a page of groups ordered by name.
func (s *Service) ListGroups(ctx context.Context, opts ListOptions) ([]Group, error) {
	limit, offset := opts.limitOffset(s.cfg.Groups.PerPage)
	var groups []Group
	err := s.db.NewSelect().Model(&groups).Order("g.name ASC", "g.handle ASC").Limit(limit).Offset(offset).Scan(ctx)
	if err = dbkit.WithErr1(err, "ListGroups").Err(); err != nil {
		return nil, err
	}
	return groups, nil
}

// ListPublicGroups returns a page of the groups flagged public.
func (s *Service) ListPublicGroups(ctx context.Context, opts ListOptions) ([]Group, error) {
	limit, offset := opts.limitOffset(s.cfg.Groups.PerPage)
	var groups []Group
	err := s.db.NewSelect().Model(&groups).Where(`g."public" = ?`, true).Order("g.name ASC").Limit(limit).Offset(offset).Scan(ctx)
	if err = dbkit.WithErr1(err, "ListPublicGroups").Err(); err != nil {
		return nil, err
	}
	return groups, nil
}

// CountMembers returns the number of users assigned to a group.
func (s *Service) CountMembers(ctx context.Context, groupID string) (int, error) {
	n, err := s.db.NewSelect().Model((*UserGroup)(nil)).Where("ug.group_id = ?", groupID).Count(ctx)
	if err = dbkit.WithErr1(err, "CountMembers").Err(); err != nil {
		return 0, err
	}
	return n, nil
}

// LimitExceeded reports whether the group has no room left.
// A zero limit never runs out.
func (s *Service) LimitExceeded(ctx context.Context, g *Group) (bool, error) {
	if g.Unlimited() {
		return false, nil
	}
	n, err := s.CountMembers(ctx, g.ID)
	if err != nil {
		return false, err
	}
	return n >= g.Limit, nil
}
