package routing

import "sort"

// Graph is an immutable undirected, unweighted point graph. Neighbour lists
// keep the order in which edges were first declared.
type Graph struct {
	points    []Point
	adjacency [][]NodeID
	edges     int
	skipped   int
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.points)
}

// EdgeCount returns the number of distinct undirected edges.
func (g *Graph) EdgeCount() int {
	return g.edges
}

// Skipped returns how many walkways were ignored because they referenced an
// unknown building.
func (g *Graph) Skipped() int {
	return g.skipped
}

// Point returns the coordinate of id.
func (g *Graph) Point(id NodeID) (Point, bool) {
	if !g.valid(id) {
		return Point{}, false
	}
	return g.points[id], true
}

// Points resolves a path of node ids to coordinates. Unknown ids are
// dropped.
func (g *Graph) Points(ids []NodeID) []Point {
	out := make([]Point, 0, len(ids))
	for _, id := range ids {
		if p, ok := g.Point(id); ok {
			out = append(out, p)
		}
	}
	return out
}

// Neighbors returns a copy of the neighbour list of id.
func (g *Graph) Neighbors(id NodeID) []NodeID {
	if !g.valid(id) {
		return nil
	}
	return append([]NodeID(nil), g.adjacency[id]...)
}

// HasEdge reports whether a and b are adjacent.
func (g *Graph) HasEdge(a, b NodeID) bool {
	if !g.valid(a) || !g.valid(b) {
		return false
	}
	return containsNode(g.adjacency[a], b)
}

func (g *Graph) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(g.points)
}

// AnchorIndex maps a building id to the nodes through which the building
// joins the graph, in the order the walkways were declared.
type AnchorIndex struct {
	anchors map[string][]NodeID
}

// Anchors returns a copy of the anchor nodes of a building.
func (a AnchorIndex) Anchors(buildingID string) []NodeID {
	return append([]NodeID(nil), a.anchors[buildingID]...)
}

// Has reports whether the building has at least one anchor.
func (a AnchorIndex) Has(buildingID string) bool {
	return len(a.anchors[buildingID]) > 0
}

// Buildings returns the anchored building ids in lexical order.
func (a AnchorIndex) Buildings() []string {
	out := make([]string, 0, len(a.anchors))
	for id := range a.anchors {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func containsNode(list []NodeID, id NodeID) bool {
	for _, n := range list {
		if n == id {
			return true
		}
	}
	return false
}
