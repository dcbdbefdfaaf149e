package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var errCheckFailed = errors.New("topology check failed")

func newCheckCmd(opts *rootOptions) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a topology and report routing graph statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := opts.loadService(cmd.Context())
			if err != nil {
				return err
			}
			stats, err := svc.Stats(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				if err := writeJSON(out, stats); err != nil {
					return err
				}
			} else {
				fmt.Fprintf(out, "buildings:          %d\n", stats.Buildings)
				fmt.Fprintf(out, "walkways:           %d (%d skipped)\n", stats.Walkways, stats.Skipped)
				fmt.Fprintf(out, "nodes:              %d\n", stats.Nodes)
				fmt.Fprintf(out, "edges:              %d\n", stats.Edges)
				if len(stats.Unanchored) > 0 {
					fmt.Fprintf(out, "without walkways:   %s\n", strings.Join(stats.Unanchored, ", "))
				}
			}

			if strict && (stats.Skipped > 0 || len(stats.Unanchored) > 0) {
				return fmt.Errorf("%w: %d skipped walkways, %d buildings without walkways",
					errCheckFailed, stats.Skipped, len(stats.Unanchored))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on skipped walkways or buildings without walkways")
	return cmd
}
