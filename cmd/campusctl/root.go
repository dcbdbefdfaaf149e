package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vanshika/campusmap/internal/config"
	"github.com/vanshika/campusmap/internal/logging"
	"github.com/vanshika/campusmap/internal/routing"
	"github.com/vanshika/campusmap/internal/service"
	"github.com/vanshika/campusmap/internal/topology"
)

type rootOptions struct {
	topologyPath string
	tolerance    float64
	maxNodes     int
	jsonOutput   bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "campusctl",
		Short:         "Inspect campus topologies and compute walking routes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.topologyPath, "topology", "t", "static/data/campus.json", "campus topology file (.json, .yaml or .xml)")
	root.PersistentFlags().Float64Var(&opts.tolerance, "tolerance", routing.DefaultTolerance, "per-axis snapping distance")
	root.PersistentFlags().IntVar(&opts.maxNodes, "max-nodes", 0, "fail when the graph exceeds this many nodes (0 = unlimited)")
	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "print results as JSON")

	root.AddCommand(newRouteCmd(opts), newCheckCmd(opts))
	return root
}

// loadService builds a campus service over the topology file and loads it.
func (o *rootOptions) loadService(ctx context.Context) (*service.CampusService, error) {
	svc := service.NewCampusService(
		topology.FileSource{Path: o.topologyPath},
		config.RoutingConfig{SnapTolerance: o.tolerance, MaxNodes: o.maxNodes},
		config.MapConfig{},
		logging.Discard(),
	)
	if err := svc.Reload(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
