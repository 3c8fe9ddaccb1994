package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fernandezvara/membership"
)

func newPermissionCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "permission",
		Aliases: []string{"perm"},
		Short:   "Manage permissions",
	}
	cmd.AddCommand(newPermissionCreateCmd(a), newPermissionListCmd(a), newPermissionDeleteCmd(a))
	return cmd
}

func newPermissionCreateCmd(a *app) *cobra.Command {
	var in membership.PermissionInput

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a permission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			in.Name = args[0]
			p, err := service.CreatePermission(cmd.Context(), in)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", p.ID, p.Handle)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Handle, "handle", "", "Permission handle (derived from the name when empty)")
	cmd.Flags().StringVar(&in.Type, "type", "", "Free-form permission category")
	return cmd
}

func newPermissionListCmd(a *app) *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List permissions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			service, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			perms, err := service.ListPermissions(cmd.Context(), membership.Page(page))
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "HANDLE\tNAME\tTYPE")
			for _, p := range perms {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", p.Handle, p.Name, p.Type)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	return cmd
}

func newPermissionDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <permission-handle>",
		Short: "Delete a permission that is no longer granted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			p, err := service.FindPermissionByHandle(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return service.DeletePermission(cmd.Context(), p.ID)
		},
	}
}
