package server

import (
	"context"

	"github.com/vanshika/campusmap/internal/graph"
	"github.com/vanshika/campusmap/internal/service"
)

// HealthService defines behaviour for readiness probes.
type HealthService interface {
	Probe(ctx context.Context) error
}

// TopologyHealthService reports healthy once a topology is loaded and, when
// the topology lives in the graph database, the database is reachable.
type TopologyHealthService struct {
	Campus interface{ Ready() bool }
	Client graph.Client
}

// Probe implements the HealthService interface.
func (s TopologyHealthService) Probe(ctx context.Context) error {
	if s.Campus != nil && !s.Campus.Ready() {
		return service.ErrNotReady
	}
	if s.Client == nil {
		return nil
	}
	return s.Client.VerifyConnectivity(ctx)
}
