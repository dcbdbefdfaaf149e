package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRouteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "route <from> <to>",
		Short: "Print the fewest-hop walking route between two buildings",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.loadService(cmd.Context())
			if err != nil {
				return err
			}
			route, err := svc.Route(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				return writeJSON(out, route)
			}
			fmt.Fprintf(out, "%s -> %s: %d hops\n", route.From, route.To, route.Hops)
			for i, p := range route.Points {
				node := "-"
				if i < len(route.NodeIDs) {
					node = fmt.Sprint(route.NodeIDs[i])
				}
				fmt.Fprintf(out, "  %-4s (%g, %g)\n", node, p.X, p.Y)
			}
			return nil
		},
	}
}
