package membership

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMigrations_UniqueIDs(t *testing.T) {
	s, err := NewService(nil)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, m := range append(s.Migrations(), s.UserMigrations()...) {
		assert.False(t, seen[m.ID], "duplicate migration id %s", m.ID)
		seen[m.ID] = true
		assert.NotEmpty(t, m.Description)
		assert.NotEmpty(t, m.SQL)
	}
}

func TestUserMigrations_UsesConfiguredTable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Users.Table = "accounts"
	s, err := NewService(nil, WithConfig(cfg))
	require.NoError(t, err)

	migs := s.UserMigrations()
	require.Len(t, migs, 1)
	assert.Contains(t, migs[0].SQL, `ALTER TABLE "accounts"`)
}

func TestUserMigrations_SchemaQualifiedTable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Users.Table = "auth.accounts"
	s, err := NewService(nil, WithConfig(cfg))
	require.NoError(t, err)

	assert.Equal(t, `ALTER TABLE "auth"."accounts" ADD COLUMN primary_group_id TEXT`, s.UserMigrations()[0].SQL)

	cfg.Users.Table = `accounts"; DROP TABLE groups; --`
	_, err = NewService(nil, WithConfig(cfg))
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestMigrate_Idempotent(t *testing.T) {
	db := newTestDB(t)
	s, err := NewService(db, WithLogger(zap.NewNop()))
	require.NoError(t, err)
	ctx := context.Background()

	applied, err := s.Migrate(ctx)
	require.NoError(t, err)
	assert.Len(t, applied, len(s.Migrations()))

	_, err = s.Migrate(ctx)
	require.NoError(t, err)

	_, err = s.CreateGroup(ctx, GroupInput{Name: "Staff"})
	assert.NoError(t, err)
}

func TestMigrate_UsersTable(t *testing.T) {
	db := newTestDB(t)
	s, err := NewService(db)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = db.ExecContext(ctx, "CREATE TABLE users (id TEXT PRIMARY KEY, name TEXT)")
	require.NoError(t, err)

	applied, err := s.Migrate(ctx, append(s.Migrations(), s.UserMigrations()...)...)
	require.NoError(t, err)
	assert.Contains(t, applied, "membership-users-001")

	_, err = db.ExecContext(ctx, "INSERT INTO users (id, name) VALUES ('u1', 'u1')")
	require.NoError(t, err)
	g, err := s.CreateGroup(ctx, GroupInput{Name: "Staff"})
	require.NoError(t, err)
	require.NoError(t, s.Assign(ctx, "u1", g.ID, true))

	primary, err := s.PrimaryGroup(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, primary)
	assert.Equal(t, g.ID, primary.ID)
}
