package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fernandezvara/membership"
)

func newMemberCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "member",
		Short: "Assign users to groups",
	}
	cmd.AddCommand(newMemberAssignCmd(a), newMemberRetractCmd(a), newMemberListCmd(a))
	return cmd
}

// groupArg resolves a group handle argument.
func (a *app) groupArg(ctx context.Context, handle string) (*membership.Service, *membership.Group, error) {
	service, err := a.open(ctx)
	if err != nil {
		return nil, nil, err
	}
	g, err := service.FindGroupByHandle(ctx, handle)
	if err != nil {
		return nil, nil, err
	}
	return service, g, nil
}

func newMemberAssignCmd(a *app) *cobra.Command {
	var primary bool

	cmd := &cobra.Command{
		Use:   "assign <user-id> <group-handle>",
		Short: "Assign a user to a group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, g, err := a.groupArg(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			return service.Assign(cmd.Context(), args[0], g.ID, primary)
		},
	}

	cmd.Flags().BoolVar(&primary, "primary", false, "Also make the group the user's primary group")
	return cmd
}

func newMemberRetractCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "retract <user-id> <group-handle>",
		Short: "Remove a user from a group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, g, err := a.groupArg(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			return service.Retract(cmd.Context(), args[0], g.ID)
		},
	}
}

func newMemberListCmd(a *app) *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "list <group-handle>",
		Short: "List the members of a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, g, err := a.groupArg(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			ids, err := service.GroupMembers(cmd.Context(), g.ID, membership.Page(page))
			if err != nil {
				return err
			}
			for _, id := range ids {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	return cmd
}

func newLeaderCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leader",
		Short: "Manage group leaders",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <user-id> <group-handle>",
			Short: "Make a user leader of a group",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				service, g, err := a.groupArg(cmd.Context(), args[1])
				if err != nil {
					return err
				}
				return service.AddLeader(cmd.Context(), args[0], g.ID)
			},
		},
		&cobra.Command{
			Use:   "remove <user-id> <group-handle>",
			Short: "Drop a user's leadership of a group",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				service, g, err := a.groupArg(cmd.Context(), args[1])
				if err != nil {
					return err
				}
				return service.RemoveLeader(cmd.Context(), args[0], g.ID)
			},
		},
	)
	return cmd
}
