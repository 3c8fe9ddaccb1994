package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fernandezvara/membership"
)

func newCheckCmd(a *app) *cobra.Command {
	var (
		owner      string
		ownerField string
	)

	cmd := &cobra.Command{
		Use:   "check <user-id> <permission-handle>",
		Short: "Ask the gate whether a user holds a permission",
		Long: "Ask the gate whether a user holds a permission.\n" +
			"With --owner the check is scoped to a record owned by that user id.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			service, err := a.open(ctx)
			if err != nil {
				return err
			}

			gate := membership.NewGate(service)
			if err := gate.Boot(ctx); err != nil {
				return err
			}

			var opts []membership.CheckOption
			if cmd.Flags().Changed("owner") {
				field := ownerField
				if field == "" {
					field = membership.DefaultOwnerField
				}
				opts = append(opts, membership.OnResource(membership.Resource{field: owner}, field))
			}

			ok, err := gate.Check(ctx, args[0], args[1], opts...)
			if err != nil {
				return err
			}
			verdict := "denied"
			if ok {
				verdict = "allowed"
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), verdict)
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "Owner user id of the record being checked")
	cmd.Flags().StringVar(&ownerField, "owner-field", "", "Owner field name (default "+membership.DefaultOwnerField+")")
	return cmd
}

func newHandleCmd(a *app) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "handle <text>",
		Short: "Print the handle generated for a name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sep := a.cfg.Permissions.HandleSeparator
			switch kind {
			case "group":
				sep = a.cfg.Groups.HandleSeparator
			case "set":
				sep = a.cfg.Sets.HandleSeparator
			case "permission":
			default:
				return fmt.Errorf("unknown kind %q (group, set, permission)", kind)
			}

			gen, err := membership.NewHandleGenerator(sep, a.cfg.Transliteration)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), gen.Generate(args[0]))
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "permission", "Separator to use: group, set or permission")
	return cmd
}
