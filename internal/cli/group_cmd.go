package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fernandezvara/membership"
)

func newGroupCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Manage groups",
	}
	cmd.AddCommand(newGroupCreateCmd(a), newGroupListCmd(a), newGroupDeleteCmd(a))
	return cmd
}

func newGroupCreateCmd(a *app) *cobra.Command {
	var in membership.GroupInput

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			in.Name = args[0]
			g, err := service.CreateGroup(cmd.Context(), in)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", g.ID, g.Handle)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Handle, "handle", "", "Group handle (derived from the name when empty)")
	cmd.Flags().StringVar(&in.OpenTag, "open-tag", "", "Text shown before the name")
	cmd.Flags().StringVar(&in.CloseTag, "close-tag", "", "Text shown after the name")
	cmd.Flags().IntVar(&in.Limit, "limit", 0, "Maximum number of members (0 = unlimited)")
	cmd.Flags().BoolVar(&in.Public, "public", false, "Mark the group as public")
	return cmd
}

func newGroupListCmd(a *app) *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			service, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			groups, err := service.ListGroups(cmd.Context(), membership.Page(page))
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "HANDLE\tNAME\tMEMBERS\tLIMIT\tPUBLIC")
			for i := range groups {
				g := &groups[i]
				members, err := service.CountMembers(cmd.Context(), g.ID)
				if err != nil {
					return err
				}
				limit := "-"
				if !g.Unlimited() {
					limit = strconv.Itoa(g.Limit)
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%t\n", g.Handle, g.FormattedName(), members, limit, g.Public)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	return cmd
}

func newGroupDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <group-handle>",
		Short: "Delete a group with its memberships and grants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			g, err := service.FindGroupByHandle(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return service.DeleteGroup(cmd.Context(), g.ID)
		},
	}
}
