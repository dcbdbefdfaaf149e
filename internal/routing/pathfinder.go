package routing

import "fmt"

// FindPath returns the node ids of a fewest-hop walk from any anchor of
// fromID to any anchor of toID, both ends included.
//
// The search starts from every source anchor at once and stops at the first
// target anchor reached. Among equally short walks the one made of earlier
// declared walkways wins, because neighbour lists follow declaration order.
// Edges are unweighted, so the result is not necessarily the geometrically
// shortest route.
//
// It returns ErrNoAnchors when either building has no anchor and ErrNoPath
// when the anchors are not connected. Callers are expected to handle
// fromID == toID themselves.
func FindPath(g *Graph, anchors AnchorIndex, fromID, toID string) ([]NodeID, error) {
	sources := anchors.anchors[fromID]
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoAnchors, fromID)
	}
	targetList := anchors.anchors[toID]
	if len(targetList) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoAnchors, toID)
	}

	targets := make(map[NodeID]struct{}, len(targetList))
	for _, id := range targetList {
		targets[id] = struct{}{}
	}

	n := g.NodeCount()
	visited := make([]bool, n)
	parent := make([]NodeID, n)
	queue := make([]NodeID, 0, n)

	for _, s := range sources {
		if !g.valid(s) || visited[s] {
			continue
		}
		visited[s] = true
		parent[s] = -1
		if _, ok := targets[s]; ok {
			return []NodeID{s}, nil
		}
		queue = append(queue, s)
	}

	for head := 0; head < len(queue); head++ {
		current := queue[head]
		for _, next := range g.adjacency[current] {
			if visited[next] {
				continue
			}
			visited[next] = true
			parent[next] = current
			if _, ok := targets[next]; ok {
				return walkBack(parent, next), nil
			}
			queue = append(queue, next)
		}
	}

	return nil, fmt.Errorf("%w: %s -> %s", ErrNoPath, fromID, toID)
}

func walkBack(parent []NodeID, end NodeID) []NodeID {
	var path []NodeID
	for id := end; id >= 0; id = parent[id] {
		path = append(path, id)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
