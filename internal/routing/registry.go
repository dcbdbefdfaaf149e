package routing

import "math"

// DefaultTolerance is the snapping distance, in topology units, under which
// two points are treated as the same node.
const DefaultTolerance = 2.0

// NodeID identifies a node of the routing graph. IDs are dense and assigned
// in registration order starting at zero.
type NodeID int

// Point is a planar coordinate in topology units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type cell struct {
	x, y int64
}

// Registry deduplicates points into node identifiers. A point matches an
// existing node when both axes differ by at most the tolerance; the first
// node created wins and keeps its coordinate.
//
// Nodes are bucketed on a grid whose cells are one tolerance wide, so a
// lookup only inspects the 3x3 block of cells around the query point. The
// result is the same as scanning every node in creation order.
type Registry struct {
	tolerance float64
	cellSize  float64
	points    []Point
	cells     map[cell][]NodeID
}

// NewRegistry returns an empty registry. A negative tolerance is treated as
// zero, which only merges identical coordinates.
func NewRegistry(tolerance float64) *Registry {
	if tolerance < 0 || math.IsNaN(tolerance) {
		tolerance = 0
	}
	// Cells are a hair wider than the tolerance so division rounding can
	// never put two matching points more than one cell apart.
	size := tolerance * (1 + 1e-9)
	if size == 0 {
		size = 1
	}
	return &Registry{
		tolerance: tolerance,
		cellSize:  size,
		cells:     make(map[cell][]NodeID),
	}
}

// Register returns the node for p, creating it when no existing node lies
// within tolerance.
func (r *Registry) Register(p Point) NodeID {
	if id, ok := r.Lookup(p); ok {
		return id
	}
	id := NodeID(len(r.points))
	r.points = append(r.points, p)
	c := r.cellOf(p)
	r.cells[c] = append(r.cells[c], id)
	return id
}

// Lookup reports the node that p would snap to without registering it.
func (r *Registry) Lookup(p Point) (NodeID, bool) {
	center := r.cellOf(p)
	best := NodeID(-1)
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for _, id := range r.cells[cell{center.x + dx, center.y + dy}] {
				if best >= 0 && id >= best {
					// ids within a cell are ascending
					break
				}
				if r.matches(r.points[id], p) {
					best = id
					break
				}
			}
		}
	}
	return best, best >= 0
}

// Len returns the number of distinct nodes.
func (r *Registry) Len() int {
	return len(r.points)
}

// Point returns the canonical coordinate of id.
func (r *Registry) Point(id NodeID) (Point, bool) {
	if id < 0 || int(id) >= len(r.points) {
		return Point{}, false
	}
	return r.points[id], true
}

func (r *Registry) matches(a, b Point) bool {
	return math.Abs(a.X-b.X) <= r.tolerance && math.Abs(a.Y-b.Y) <= r.tolerance
}

func (r *Registry) cellOf(p Point) cell {
	return cell{
		x: int64(math.Floor(p.X / r.cellSize)),
		y: int64(math.Floor(p.Y / r.cellSize)),
	}
}
