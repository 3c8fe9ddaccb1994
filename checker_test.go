package membership

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecker_DirectAndViaGroup(t *testing.T) {
	c := NewChecker("u1", []string{"posts.edit"}, []string{"files.*"}, nil)

	assert.Equal(t, "u1", c.UserID())
	assert.True(t, c.HasPermission("posts.edit"))
	assert.True(t, c.Direct("posts.edit"))
	assert.False(t, c.ViaGroup("posts.edit"))

	assert.True(t, c.HasPermission("files.read"))
	assert.True(t, c.ViaGroup("files.read"))
	assert.False(t, c.Direct("files.read"))

	assert.False(t, c.HasPermission("posts.delete"))
}

func TestChecker_AnyAll(t *testing.T) {
	c := NewChecker("u1", []string{"posts.read", "posts.edit"}, nil, nil)

	assert.True(t, c.HasAnyPermission([]string{"admin", "posts.read"}))
	assert.False(t, c.HasAnyPermission([]string{"admin"}))
	assert.False(t, c.HasAnyPermission(nil))

	assert.True(t, c.HasAllPermissions([]string{"posts.read", "posts.edit"}))
	assert.False(t, c.HasAllPermissions([]string{"posts.read", "admin"}))
	assert.True(t, c.HasAllPermissions(nil))
}

func TestChecker_PermissionsUnion(t *testing.T) {
	c := NewChecker("u1", []string{"b", "a"}, []string{"a", "c"}, nil)
	assert.Equal(t, []string{"a", "b", "c"}, c.Permissions())
	assert.False(t, c.IsEmpty())
	assert.True(t, NewChecker("u2", nil, nil, nil).IsEmpty())
}

func TestChecker_CustomSeparator(t *testing.T) {
	c := NewChecker("u1", []string{"posts:*"}, nil, NewPermissionMatcher(":"))
	assert.True(t, c.HasPermission("posts:edit"))
	assert.False(t, c.HasPermission("posts.edit"))
}

func TestService_GetChecker(t *testing.T) {
	h := NewTestDataHelper(t)
	user := h.CreateTestUser("alice")
	edit := h.CreateTestPermission("posts.edit")
	read := h.CreateTestPermission("posts.read")
	staff := h.CreateTestGroup("Staff", 0)

	require.NoError(t, h.service.GrantUserPermission(h.ctx, user, PermissionValue(edit)))
	require.NoError(t, h.service.GrantPermission(h.ctx, staff.ID, PermissionValue(read)))
	require.NoError(t, h.service.Assign(h.ctx, user, staff.ID, false))

	c, err := h.service.GetChecker(h.ctx, user)
	require.NoError(t, err)
	assert.True(t, c.Direct("posts.edit"))
	assert.True(t, c.ViaGroup("posts.read"))
	assert.Equal(t, []string{"posts.edit", "posts.read"}, c.Permissions())

	none, err := h.service.GetChecker(h.ctx, "stranger")
	require.NoError(t, err)
	assert.True(t, none.IsEmpty())
}
