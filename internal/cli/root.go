// Package cli implements the membershipctl commands.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/fernandezvara/dbkit"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"go.uber.org/zap"

	"github.com/fernandezvara/membership"
)

// Execute runs the CLI.
func Execute() int {
	cmd, a := newRootCmd()
	if err := a.execute(context.Background(), cmd); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// app carries what every command needs once flags are resolved.
type app struct {
	configPath  string
	databaseURL string
	sqlitePath  string
	logLevel    string

	cfg     membership.Config
	logger  *zap.Logger
	service *membership.Service
	closeDB func() error
}

// NewRootCmd builds the command tree. Callers executing it directly should
// prefer Execute, which also releases the store when a command fails.
func NewRootCmd() *cobra.Command {
	cmd, _ := newRootCmd()
	return cmd
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "membershipctl",
		Short:         "Manage groups, permissions and memberships",
		Long:          "Command-line interface for the membership store: groups, permissions, memberships and permission checks.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return a.close()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&a.databaseURL, "database-url", "", "PostgreSQL URL (overrides config and "+membership.EnvDatabaseURL+")")
	rootCmd.PersistentFlags().StringVar(&a.sqlitePath, "sqlite", "", "Use a SQLite database file instead of PostgreSQL")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newMigrateCmd(a),
		newGroupCmd(a),
		newPermissionCmd(a),
		newMemberCmd(a),
		newLeaderCmd(a),
		newGrantCmd(a),
		newRevokeCmd(a),
		newCheckCmd(a),
		newHandleCmd(a),
		newHealthCmd(a),
	)

	return rootCmd, a
}

// execute runs cmd and closes the store whatever the outcome; cobra skips
// the post-run hooks when RunE fails.
func (a *app) execute(ctx context.Context, cmd *cobra.Command) error {
	err := cmd.ExecuteContext(ctx)
	if cerr := a.close(); err == nil {
		err = cerr
	}
	return err
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := membership.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("database-url") {
		cfg.Database.URL = a.databaseURL
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	a.cfg = cfg

	a.logger, err = newLogger(cfg.Log)
	return err
}

// open connects to the store on first use; commands like "handle" never do.
func (a *app) open(ctx context.Context) (*membership.Service, error) {
	if a.service != nil {
		return a.service, nil
	}

	opts := []membership.Option{membership.WithConfig(a.cfg), membership.WithLogger(a.logger)}

	if a.sqlitePath != "" {
		sqldb, err := sql.Open("sqlite3", a.sqlitePath+"?_foreign_keys=on")
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		service, err := membership.NewService(bun.NewDB(sqldb, sqlitedialect.New()), opts...)
		if err != nil {
			sqldb.Close()
			return nil, err
		}
		a.service, a.closeDB = service, sqldb.Close
		return service, nil
	}

	if a.cfg.Database.URL == "" {
		return nil, fmt.Errorf("no database configured: use --database-url, --sqlite or %s", membership.EnvDatabaseURL)
	}
	kit, err := dbkit.New(dbkit.Config{URL: a.cfg.Database.URL})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	service, err := membership.NewServiceFromDBKit(kit, opts...)
	if err != nil {
		kit.Close()
		return nil, err
	}
	if err := membership.NewPoolService(service).ConfigureConnectionPool(a.cfg.Database.Pool); err != nil {
		kit.Close()
		return nil, err
	}
	a.service, a.closeDB = service, kit.Close
	return service, nil
}

func (a *app) close() error {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if a.closeDB == nil {
		return nil
	}
	err := a.closeDB()
	a.service, a.closeDB = nil, nil
	return err
}
