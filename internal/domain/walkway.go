package domain

import (
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrMalformedCoord is returned when a via point is not exactly [x, y].
var ErrMalformedCoord = errors.New("via point must have exactly two numbers")

// Coord is an [x, y] pair as written in topology files.
type Coord [2]float64

// X returns the horizontal component.
func (c Coord) X() float64 { return c[0] }

// Y returns the vertical component.
func (c Coord) Y() float64 { return c[1] }

// UnmarshalJSON rejects points with fewer or more than two components;
// encoding/json would otherwise pad or truncate the array silently.
func (c *Coord) UnmarshalJSON(data []byte) error {
	var raw []float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return c.set(raw)
}

// UnmarshalYAML applies the same length check to YAML sequences.
func (c *Coord) UnmarshalYAML(node *yaml.Node) error {
	var raw []float64
	if err := node.Decode(&raw); err != nil {
		return err
	}
	if err := c.set(raw); err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	return nil
}

func (c *Coord) set(raw []float64) error {
	if len(raw) != 2 {
		return fmt.Errorf("%w: got %d", ErrMalformedCoord, len(raw))
	}
	c[0], c[1] = raw[0], raw[1]
	return nil
}

// Walkway is one physical path segment between two buildings. Via holds the
// ordered intermediate points of its polyline; when empty the segment runs
// straight between the two building centres.
//
// From and To are not validated: a walkway naming a missing or empty
// building is skipped when the graph is built.
type Walkway struct {
	From string  `json:"from" yaml:"from"`
	To   string  `json:"to" yaml:"to"`
	Via  []Coord `json:"via,omitempty" yaml:"via,omitempty"`
}
