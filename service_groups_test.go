package membership

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGroup(t *testing.T) {
	h := NewTestDataHelper(t)

	g, err := h.service.CreateGroup(h.ctx, GroupInput{Name: "VIP Members", OpenTag: "[", CloseTag: "]", Limit: 50, Public: true})
	require.NoError(t, err)
	assert.Equal(t, "vip-members", g.Handle)
	assert.Equal(t, "[VIP Members]", g.FormattedName())

	got, err := h.service.GetGroup(h.ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, g, got)

	byHandle, err := h.service.FindGroupByHandle(h.ctx, "vip-members")
	require.NoError(t, err)
	assert.Equal(t, g.ID, byHandle.ID)
}

func TestCreateGroup_Validation(t *testing.T) {
	h := NewTestDataHelper(t)

	_, err := h.service.CreateGroup(h.ctx, GroupInput{Name: "Staff", Limit: -1})
	assert.ErrorIs(t, err, ErrInvalidGroup)

	_, err = h.service.CreateGroup(h.ctx, GroupInput{Name: "???"})
	assert.ErrorIs(t, err, ErrInvalidGroup)

	_, err = h.service.CreateGroup(h.ctx, GroupInput{Name: "Staff", Handle: "st|aff"})
	assert.ErrorIs(t, err, ErrInvalidGroup)

	h.CreateTestGroup("Staff", 0)
	_, err = h.service.CreateGroup(h.ctx, GroupInput{Name: "staff"})
	assert.ErrorIs(t, err, ErrDuplicateHandle)
}

func TestGetGroup_NotFound(t *testing.T) {
	h := NewTestDataHelper(t)

	_, err := h.service.GetGroup(h.ctx, "missing")
	assert.ErrorIs(t, err, ErrGroupNotFound)
	assert.True(t, IsNotFound(err))

	_, err = h.service.FindGroupByHandle(h.ctx, "missing")
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestUpdateGroup(t *testing.T) {
	h := NewTestDataHelper(t)
	g := h.CreateTestGroup("Staff", 2)
	h.CreateTestGroup("Admins", 0)

	updated, err := h.service.UpdateGroup(h.ctx, g.ID, GroupInput{Name: "Senior Staff", OpenTag: "<b>", CloseTag: "</b>", Limit: 5, Public: true})
	require.NoError(t, err)
	assert.Equal(t, "senior-staff", updated.Handle)

	stored, err := h.service.GetGroup(h.ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.Limit)
	assert.True(t, stored.Public)
	assert.Equal(t, "<b>Senior Staff</b>", stored.FormattedName())

	_, err = h.service.UpdateGroup(h.ctx, g.ID, GroupInput{Name: "Admins"})
	assert.ErrorIs(t, err, ErrDuplicateHandle)

	_, err = h.service.UpdateGroup(h.ctx, g.ID, GroupInput{Name: "Staff", Limit: -3})
	assert.ErrorIs(t, err, ErrInvalidGroup)

	_, err = h.service.UpdateGroup(h.ctx, "missing", GroupInput{Name: "x"})
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestDeleteGroup_RemovesRelations(t *testing.T) {
	h := NewTestDataHelper(t)
	g := h.CreateTestGroup("Staff", 0)
	other := h.CreateTestGroup("Other", 0)
	p := h.CreateTestPermission("posts.edit")
	user := h.CreateTestUser("carol")

	require.NoError(t, h.service.Assign(h.ctx, user, g.ID, true))
	require.NoError(t, h.service.Assign(h.ctx, user, other.ID, false))
	require.NoError(t, h.service.AddLeader(h.ctx, user, g.ID))
	require.NoError(t, h.service.GrantPermission(h.ctx, g.ID, PermissionValue(p)))

	require.NoError(t, h.service.DeleteGroup(h.ctx, g.ID))

	_, err := h.service.GetGroup(h.ctx, g.ID)
	assert.ErrorIs(t, err, ErrGroupNotFound)

	groups, err := h.service.UserGroups(h.ctx, user)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, other.ID, groups[0].ID)

	leads, err := h.service.HasLeader(h.ctx, g.ID, user)
	require.NoError(t, err)
	assert.False(t, leads)

	granted, err := h.service.GroupPermissions(h.ctx, g.ID)
	require.NoError(t, err)
	assert.Empty(t, granted)

	// The dangling primary reference stays but resolves to no group.
	assert.Equal(t, g.ID, h.PrimaryGroupID(user))
	primary, err := h.service.PrimaryGroup(h.ctx, user)
	require.NoError(t, err)
	assert.Nil(t, primary)

	// The permission itself is now free to delete.
	assert.NoError(t, h.service.DeletePermission(h.ctx, p.ID))

	assert.ErrorIs(t, h.service.DeleteGroup(h.ctx, g.ID), ErrGroupNotFound)
}

func TestListGroups(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Groups.PerPage = 2
	h := NewTestDataHelper(t, WithConfig(cfg))

	for _, in := range []GroupInput{
		{Name: "Charlie"},
		{Name: "Alpha", Public: true},
		{Name: "Bravo"},
		{Name: "Delta", Public: true},
	} {
		_, err := h.service.CreateGroup(h.ctx, in)
		require.NoError(t, err)
	}

	page1, err := h.service.ListGroups(h.ctx, Page(1))
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Bravo"}, groupNames(page1))

	page2, err := h.service.ListGroups(h.ctx, Page(2))
	require.NoError(t, err)
	assert.Equal(t, []string{"Charlie", "Delta"}, groupNames(page2))

	public, err := h.service.ListPublicGroups(h.ctx, ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Delta"}, groupNames(public))
}

func TestLimitExceeded(t *testing.T) {
	h := NewTestDataHelper(t)
	unlimited := h.CreateTestGroup("Open", 0)
	small := h.CreateTestGroup("Small", 2)

	for i := 0; i < 3; i++ {
		require.NoError(t, h.service.Assign(h.ctx, h.CreateTestUser("u"), unlimited.ID, false))
	}
	full, err := h.service.LimitExceeded(h.ctx, unlimited)
	require.NoError(t, err)
	assert.False(t, full, "a zero limit never fills up")

	require.NoError(t, h.service.Assign(h.ctx, h.CreateTestUser("u"), small.ID, false))
	full, err = h.service.LimitExceeded(h.ctx, small)
	require.NoError(t, err)
	assert.False(t, full)

	require.NoError(t, h.service.Assign(h.ctx, h.CreateTestUser("u"), small.ID, false))
	full, err = h.service.LimitExceeded(h.ctx, small)
	require.NoError(t, err)
	assert.True(t, full)

	n, err := h.service.CountMembers(h.ctx, small.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func groupNames(groups []Group) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Name
	}
	return out
}
