package routing

import (
	"fmt"

	"github.com/vanshika/campusmap/internal/domain"
)

// Options tunes graph construction.
type Options struct {
	// Tolerance is the per-axis snapping distance. Zero selects
	// DefaultTolerance.
	Tolerance float64
	// MaxNodes caps the node count; zero means unlimited.
	MaxNodes int
}

// DefaultOptions returns the options used by the map service.
func DefaultOptions() Options {
	return Options{Tolerance: DefaultTolerance}
}

type builder struct {
	registry  *Registry
	adjacency [][]NodeID
	edges     int
	anchors   map[string][]NodeID
	maxNodes  int
}

// Build converts buildings and walkways into a routing graph and its anchor
// index.
//
// Walkways whose endpoints are not among buildings are skipped. A walkway
// with via points becomes a chain through those points, anchored to its
// first point on the From side and its last point on the To side. A walkway
// without via points joins the two building centres directly.
//
// When buildings repeat an id the first declaration is used for centres;
// topology.Validate rejects such input before it reaches the map service.
//
// The only error is ErrNodeBudgetExceeded when opts.MaxNodes is set.
func Build(buildings []domain.Building, walkways []domain.Walkway, opts Options) (*Graph, AnchorIndex, error) {
	tolerance := opts.Tolerance
	if tolerance == 0 {
		tolerance = DefaultTolerance
	}
	b := &builder{
		registry: NewRegistry(tolerance),
		anchors:  make(map[string][]NodeID),
		maxNodes: opts.MaxNodes,
	}

	byID := make(map[string]domain.Building, len(buildings))
	for _, bldg := range buildings {
		if _, ok := byID[bldg.ID]; !ok {
			byID[bldg.ID] = bldg
		}
	}

	skipped := 0
	for _, w := range walkways {
		from, okFrom := byID[w.From]
		to, okTo := byID[w.To]
		if !okFrom || !okTo {
			skipped++
			continue
		}

		var chain []NodeID
		if len(w.Via) == 0 {
			chain = []NodeID{
				b.registry.Register(Point{X: from.X, Y: from.Y}),
				b.registry.Register(Point{X: to.X, Y: to.Y}),
			}
		} else {
			chain = make([]NodeID, 0, len(w.Via))
			for _, c := range w.Via {
				chain = append(chain, b.registry.Register(Point{X: c.X(), Y: c.Y()}))
			}
		}
		if err := b.checkBudget(); err != nil {
			return nil, AnchorIndex{}, err
		}

		for i := 1; i < len(chain); i++ {
			b.addEdge(chain[i-1], chain[i])
		}
		b.addAnchor(from.ID, chain[0])
		b.addAnchor(to.ID, chain[len(chain)-1])
	}

	points := make([]Point, b.registry.Len())
	for i := range points {
		points[i], _ = b.registry.Point(NodeID(i))
	}
	adjacency := b.adjacency
	for len(adjacency) < len(points) {
		adjacency = append(adjacency, nil)
	}

	g := &Graph{
		points:    points,
		adjacency: adjacency,
		edges:     b.edges,
		skipped:   skipped,
	}
	return g, AnchorIndex{anchors: b.anchors}, nil
}

func (b *builder) checkBudget() error {
	if b.maxNodes > 0 && b.registry.Len() > b.maxNodes {
		return fmt.Errorf("%w: %d nodes, limit %d", ErrNodeBudgetExceeded, b.registry.Len(), b.maxNodes)
	}
	return nil
}

func (b *builder) addEdge(u, v NodeID) {
	// snapped consecutive points collapse onto one node
	if u == v {
		return
	}
	b.grow(u)
	b.grow(v)
	if containsNode(b.adjacency[u], v) {
		return
	}
	b.adjacency[u] = append(b.adjacency[u], v)
	b.adjacency[v] = append(b.adjacency[v], u)
	b.edges++
}

func (b *builder) grow(id NodeID) {
	for len(b.adjacency) <= int(id) {
		b.adjacency = append(b.adjacency, nil)
	}
}

func (b *builder) addAnchor(buildingID string, id NodeID) {
	if containsNode(b.anchors[buildingID], id) {
		return
	}
	b.anchors[buildingID] = append(b.anchors[buildingID], id)
}
