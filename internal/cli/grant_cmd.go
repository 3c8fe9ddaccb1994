package cli

import (
	"github.com/spf13/cobra"

	"github.com/fernandezvara/membership"
)

func newGrantCmd(a *app) *cobra.Command {
	var user bool

	cmd := &cobra.Command{
		Use:   "grant <group-handle|user-id> <permission>...",
		Short: "Grant permissions to a group, or to a user with --user",
		Long: "Grant permissions to a group, or to a single user with --user.\n" +
			"Permissions are looked up by handle, then by name. Each one is granted\n" +
			"independently; failures are reported together at the end.",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			refs := membership.PermissionsByHandle(args[1:]...)

			if user {
				service, err := a.open(ctx)
				if err != nil {
					return err
				}
				return service.GrantUserPermissions(ctx, args[0], refs...)
			}

			service, g, err := a.groupArg(ctx, args[0])
			if err != nil {
				return err
			}
			return service.GrantPermissions(ctx, g.ID, refs...)
		},
	}

	cmd.Flags().BoolVar(&user, "user", false, "Treat the first argument as a user id")
	return cmd
}

func newRevokeCmd(a *app) *cobra.Command {
	var user bool

	cmd := &cobra.Command{
		Use:   "revoke <group-handle|user-id> <permission>...",
		Short: "Revoke permissions from a group, or from a user with --user",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			refs := membership.PermissionsByHandle(args[1:]...)

			if user {
				service, err := a.open(ctx)
				if err != nil {
					return err
				}
				return service.RevokeUserPermissions(ctx, args[0], refs...)
			}

			service, g, err := a.groupArg(ctx, args[0])
			if err != nil {
				return err
			}
			return service.RevokePermissions(ctx, g.ID, refs...)
		},
	}

	cmd.Flags().BoolVar(&user, "user", false, "Treat the first argument as a user id")
	return cmd
}
