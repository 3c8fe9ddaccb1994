package membership

import (
	"context"
	"fmt"
	"strings"

	"github.com/fernandezvara/dbkit"
	"go.uber.org/zap"
)

// Migrations returns the migrations creating the membership tables.
// The SQL runs on PostgreSQL and SQLite alike.
//
// Use dbkit's Migrate(ctx, service.Migrations()) or Service.Migrate.
func (s *Service) Migrations() []dbkit.Migration {
	return []dbkit.Migration{
		{
			ID:          "membership-001",
			Description: "Create groups table",
			SQL: `
                CREATE TABLE IF NOT EXISTS "groups" (
                    id TEXT PRIMARY KEY,
                    name TEXT NOT NULL,
                    handle TEXT NOT NULL UNIQUE,
                    open_tag TEXT NOT NULL DEFAULT '',
                    close_tag TEXT NOT NULL DEFAULT '',
                    "limit" INTEGER NOT NULL DEFAULT 0,
                    "public" BOOLEAN NOT NULL DEFAULT FALSE
                )`,
		},
		{
			ID:          "membership-002",
			Description: "Create permissions table",
			SQL: `
                CREATE TABLE IF NOT EXISTS permissions (
                    id TEXT PRIMARY KEY,
                    name TEXT NOT NULL,
                    handle TEXT NOT NULL UNIQUE,
                    type TEXT NOT NULL DEFAULT ''
                )`,
		},
		{
			ID:          "membership-003",
			Description: "Create user_groups table",
			SQL: `
                CREATE TABLE IF NOT EXISTS user_groups (
                    user_id TEXT NOT NULL,
                    group_id TEXT NOT NULL,
                    created_at TIMESTAMPTZ NOT NULL,
                    PRIMARY KEY (user_id, group_id)
                )`,
		},
		{
			ID:          "membership-004",
			Description: "Index user_groups by group",
			SQL:         `CREATE INDEX IF NOT EXISTS idx_user_groups_group_id ON user_groups (group_id)`,
		},
		{
			ID:          "membership-005",
			Description: "Create group_leaders table",
			SQL: `
                CREATE TABLE IF NOT EXISTS group_leaders (
                    user_id TEXT NOT NULL,
                    group_id TEXT NOT NULL,
                    created_at TIMESTAMPTZ NOT NULL,
                    PRIMARY KEY (user_id, group_id)
                )`,
		},
		{
			ID:          "membership-006",
			Description: "Create group_permissions table",
			SQL: `
                CREATE TABLE IF NOT EXISTS group_permissions (
                    group_id TEXT NOT NULL,
                    permission_id TEXT NOT NULL,
                    created_at TIMESTAMPTZ NOT NULL,
                    PRIMARY KEY (group_id, permission_id)
                )`,
		},
		{
			ID:          "membership-007",
			Description: "Create user_permissions table",
			SQL: `
                CREATE TABLE IF NOT EXISTS user_permissions (
                    user_id TEXT NOT NULL,
                    permission_id TEXT NOT NULL,
                    created_at TIMESTAMPTZ NOT NULL,
                    PRIMARY KEY (user_id, permission_id)
                )`,
		},
		{
			ID:          "membership-008",
			Description: "Create membership_audit_log table",
			SQL: `
                CREATE TABLE IF NOT EXISTS membership_audit_log (
                    id TEXT PRIMARY KEY,
                    timestamp TIMESTAMPTZ NOT NULL,
                    actor_id TEXT NOT NULL,
                    action TEXT NOT NULL,
                    user_id TEXT,
                    group_id TEXT,
                    permission_id TEXT,
                    ip_address TEXT,
                    user_agent TEXT,
                    request_id TEXT
                )`,
		},
	}
}

// UserMigrations returns the migration adding primary_group_id to the host
// users table. It is kept apart from Migrations because the table belongs
// to the host application.
func (s *Service) UserMigrations() []dbkit.Migration {
	return []dbkit.Migration{
		{
			ID:          "membership-users-001",
			Description: "Add primary_group_id to " + s.cfg.Users.Table,
			SQL:         fmt.Sprintf(`ALTER TABLE %s ADD COLUMN primary_group_id TEXT`, quoteTableName(s.cfg.Users.Table)),
		},
	}
}

// Migrate applies migrations and returns the ids it ran.
//
// With a dbkit connection the applied set is tracked by dbkit. Otherwise the
// statements run in order on the bound database; they are all idempotent
// except the users migration, which callers pass explicitly.
func (s *Service) Migrate(ctx context.Context, migrations ...dbkit.Migration) ([]string, error) {
	if len(migrations) == 0 {
		migrations = s.Migrations()
	}

	if s.kit != nil {
		result, err := s.kit.Migrate(ctx, migrations)
		if err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		applied := make([]string, 0, len(result.Applied))
		for _, m := range result.Applied {
			applied = append(applied, m.ID)
			s.logger.Info("applied migration", zap.String("id", m.ID))
		}
		return applied, nil
	}

	applied := make([]string, 0, len(migrations))
	for _, m := range migrations {
		if _, err := s.db.ExecContext(ctx, m.SQL); err != nil {
			return applied, fmt.Errorf("migration %s: %w", m.ID, err)
		}
		applied = append(applied, m.ID)
		s.logger.Debug("applied migration", zap.String("id", m.ID))
	}
	return applied, nil
}

// quoteTableName quotes each part of a validated, possibly schema-qualified
// table name.
func quoteTableName(table string) string {
	parts := strings.Split(table, ".")
	for i, p := range parts {
		parts[i] = `"` + p + `"`
	}
	return strings.Join(parts, ".")
}
