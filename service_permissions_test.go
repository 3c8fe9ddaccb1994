package membership

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePermission_DerivesHandle(t *testing.T) {
	h := NewTestDataHelper(t)

	p, err := h.service.CreatePermission(h.ctx, PermissionInput{Name: "Posts Edit", Type: "posts"})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "posts.edit", p.Handle)
	assert.Equal(t, "Posts Edit", p.Name)
	assert.Equal(t, "posts", p.Type)

	got, err := h.service.GetPermission(h.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestCreatePermission_CustomSeparator(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Permissions.HandleSeparator = ":"
	h := NewTestDataHelper(t, WithConfig(cfg))

	p, err := h.service.CreatePermission(h.ctx, PermissionInput{Name: "Posts Edit"})
	require.NoError(t, err)
	assert.Equal(t, "posts:edit", p.Handle)
}

func TestCreatePermission_Invalid(t *testing.T) {
	h := NewTestDataHelper(t)

	_, err := h.service.CreatePermission(h.ctx, PermissionInput{Name: "!!!"})
	assert.ErrorIs(t, err, ErrInvalidPermission)

	_, err = h.service.CreatePermission(h.ctx, PermissionInput{Name: "x", Handle: "a,b"})
	assert.ErrorIs(t, err, ErrInvalidPermission)
}

func TestCreatePermission_DuplicateHandle(t *testing.T) {
	h := NewTestDataHelper(t)
	h.CreateTestPermission("posts.edit")

	_, err := h.service.CreatePermission(h.ctx, PermissionInput{Name: "Posts Edit"})
	assert.ErrorIs(t, err, ErrDuplicateHandle)
	assert.True(t, IsDuplicateHandle(err))
}

func TestFindPermissionByHandle(t *testing.T) {
	h := NewTestDataHelper(t)
	p := h.CreateTestPermission("posts.edit")

	got, err := h.service.FindPermissionByHandle(h.ctx, "posts.edit")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = h.service.FindPermissionByHandle(h.ctx, "posts.*")
	assert.ErrorIs(t, err, ErrPermissionNotFound)

	_, err = h.service.GetPermission(h.ctx, "missing")
	assert.ErrorIs(t, err, ErrPermissionNotFound)
}

func TestSearchPermission_HandleThenName(t *testing.T) {
	h := NewTestDataHelper(t)

	byName, err := h.service.CreatePermission(h.ctx, PermissionInput{Name: "Edit Posts", Handle: "posts.edit"})
	require.NoError(t, err)

	found, err := h.service.SearchPermission(h.ctx, "Edit Posts")
	require.NoError(t, err)
	assert.Equal(t, byName.ID, found.ID)

	found, err = h.service.SearchPermission(h.ctx, "posts.edit")
	require.NoError(t, err)
	assert.Equal(t, byName.ID, found.ID)

	// A handle match wins over a name match.
	byHandle, err := h.service.CreatePermission(h.ctx, PermissionInput{Name: "Alpha", Handle: "beta.x"})
	require.NoError(t, err)
	_, err = h.service.CreatePermission(h.ctx, PermissionInput{Name: "beta.x", Handle: "gamma.x"})
	require.NoError(t, err)

	found, err = h.service.SearchPermission(h.ctx, "beta.x")
	require.NoError(t, err)
	assert.Equal(t, byHandle.ID, found.ID)

	_, err = h.service.SearchPermission(h.ctx, "nothing")
	assert.ErrorIs(t, err, ErrPermissionNotFound)
}

func TestUpdatePermission(t *testing.T) {
	h := NewTestDataHelper(t)
	p, err := h.service.CreatePermission(h.ctx, PermissionInput{Name: "Posts Edit"})
	require.NoError(t, err)
	h.CreateTestPermission("posts.read")

	updated, err := h.service.UpdatePermission(h.ctx, p.ID, PermissionInput{Name: "Posts Update", Type: "posts"})
	require.NoError(t, err)
	assert.Equal(t, "posts.update", updated.Handle)
	assert.Equal(t, "posts", updated.Type)

	same, err := h.service.UpdatePermission(h.ctx, p.ID, PermissionInput{Name: "Posts Update", Type: "content"})
	require.NoError(t, err)
	assert.Equal(t, "posts.update", same.Handle, "unchanged name keeps the handle")

	_, err = h.service.UpdatePermission(h.ctx, p.ID, PermissionInput{Name: "Posts Read"})
	assert.ErrorIs(t, err, ErrDuplicateHandle)

	_, err = h.service.UpdatePermission(h.ctx, "missing", PermissionInput{Name: "x"})
	assert.ErrorIs(t, err, ErrPermissionNotFound)

	stored, err := h.service.GetPermission(h.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "content", stored.Type)
}

func TestDeletePermission_RejectsWhileGranted(t *testing.T) {
	h := NewTestDataHelper(t)
	p := h.CreateTestPermission("posts.edit")
	g := h.CreateTestGroup("Editors", 0)
	user := h.CreateTestUser("bob")

	require.NoError(t, h.service.GrantPermission(h.ctx, g.ID, PermissionValue(p)))
	assert.ErrorIs(t, h.service.DeletePermission(h.ctx, p.ID), ErrPermissionInUse)

	require.NoError(t, h.service.RevokePermission(h.ctx, g.ID, PermissionValue(p)))
	require.NoError(t, h.service.GrantUserPermission(h.ctx, user, PermissionValue(p)))
	assert.ErrorIs(t, h.service.DeletePermission(h.ctx, p.ID), ErrPermissionInUse)

	require.NoError(t, h.service.RevokeUserPermission(h.ctx, user, PermissionValue(p)))
	require.NoError(t, h.service.DeletePermission(h.ctx, p.ID))

	_, err := h.service.GetPermission(h.ctx, p.ID)
	assert.ErrorIs(t, err, ErrPermissionNotFound)
	assert.ErrorIs(t, h.service.DeletePermission(h.ctx, p.ID), ErrPermissionNotFound)
}

func TestListPermissions_Paging(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Permissions.PerPage = 2
	h := NewTestDataHelper(t, WithConfig(cfg))

	for _, handle := range []string{"c.read", "a.read", "b.read", "d.read", "e.read"} {
		h.CreateTestPermission(handle)
	}

	first, err := h.service.ListPermissions(h.ctx, Page(1))
	require.NoError(t, err)
	assert.Equal(t, []string{"a.read", "b.read"}, permissionHandles(first))

	third, err := h.service.ListPermissions(h.ctx, Page(3))
	require.NoError(t, err)
	assert.Equal(t, []string{"e.read"}, permissionHandles(third))

	wide, err := h.service.ListPermissions(h.ctx, ListOptions{PerPage: 10})
	require.NoError(t, err)
	assert.Len(t, wide, 5)

	all, err := h.service.AllPermissions(h.ctx)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestResolvePermission(t *testing.T) {
	h := NewTestDataHelper(t)
	p := h.CreateTestPermission("posts.edit")

	for _, ref := range []PermissionRef{PermissionByID(p.ID), PermissionByHandle("posts.edit"), PermissionValue(p)} {
		got, err := h.service.resolvePermission(h.ctx, ref)
		require.NoError(t, err, ref.String())
		assert.Equal(t, p.ID, got.ID)
	}

	for _, ref := range []PermissionRef{{}, PermissionValue(nil), PermissionValue(&Permission{Handle: "x"}), PermissionByID("nope")} {
		_, err := h.service.resolvePermission(h.ctx, ref)
		assert.ErrorIs(t, err, ErrPermissionNotFound, ref.String())
	}
}

func permissionHandles(perms []Permission) []string {
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = p.Handle
	}
	return out
}
