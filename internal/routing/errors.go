// Package routing turns campus walkway declarations into an undirected point
// graph and answers fewest-hop path queries between buildings.
//
// A Graph and its AnchorIndex are built once by Build and never modified
// afterwards, so FindPath may be called from any number of goroutines.
package routing

import "errors"

var (
	// ErrNoAnchors is returned when the source or target building has no
	// walkway endpoint attached to it.
	ErrNoAnchors = errors.New("no walkway endpoints near this building")

	// ErrNoPath is returned when both buildings have anchors but no chain of
	// walkways connects them.
	ErrNoPath = errors.New("no path between buildings")

	// ErrNodeBudgetExceeded is returned by Build when the topology produces
	// more nodes than Options.MaxNodes allows.
	ErrNodeBudgetExceeded = errors.New("routing node budget exceeded")
)
