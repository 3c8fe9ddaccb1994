package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fernandezvara/membership"
)

func newMigrateCmd(a *app) *cobra.Command {
	var withUsers bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the membership tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			service, err := a.open(cmd.Context())
			if err != nil {
				return err
			}

			migrations := service.Migrations()
			if withUsers {
				migrations = append(migrations, service.UserMigrations()...)
			}
			applied, err := service.Migrate(cmd.Context(), migrations...)
			if err != nil {
				return err
			}
			for _, id := range applied {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", id)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withUsers, "with-users", false, "Also add primary_group_id to the users table")
	return cmd
}

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the database connection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			service, err := a.open(cmd.Context())
			if err != nil {
				return err
			}

			hs := membership.NewHealthService(service)
			status := hs.Health(cmd.Context())
			stats := hs.GetPoolStats()
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "healthy: %t\nconnections in use: %d\nidle: %d\nmax open: %d\n",
				status.Healthy, stats.InUse, stats.Idle, stats.MaxOpenConnections)
			if !status.Healthy {
				return fmt.Errorf("%w: %s", membership.ErrDatabaseError, status.Error)
			}
			return nil
		},
	}
}
