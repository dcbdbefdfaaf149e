// Package topology loads campus descriptions from files and checks them
// before they are handed to the routing graph builder.
package topology

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vanshika/campusmap/internal/domain"
)

var (
	// ErrUnsupportedFormat is returned for files whose extension has no decoder.
	ErrUnsupportedFormat = errors.New("unsupported topology format")

	// ErrInvalidTopology wraps every validation failure.
	ErrInvalidTopology = errors.New("invalid topology")
)

// Source produces a campus description.
type Source interface {
	Load(ctx context.Context) (domain.Campus, error)
}

// FileSource reads a campus description from disk. The decoder is chosen by
// extension: .json, .yaml/.yml or .xml.
type FileSource struct {
	Path string
}

// Load implements Source.
func (s FileSource) Load(ctx context.Context) (domain.Campus, error) {
	if err := ctx.Err(); err != nil {
		return domain.Campus{}, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return domain.Campus{}, fmt.Errorf("read topology %s: %w", s.Path, err)
	}
	campus, err := Decode(filepath.Ext(s.Path), data)
	if err != nil {
		return domain.Campus{}, fmt.Errorf("decode %s: %w", s.Path, err)
	}
	return campus, nil
}

// Decode parses data in the format named by ext and normalizes identifiers.
func Decode(ext string, data []byte) (domain.Campus, error) {
	var (
		campus domain.Campus
		err    error
	)
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "json":
		err = json.NewDecoder(bytes.NewReader(data)).Decode(&campus)
	case "yaml", "yml":
		err = yaml.Unmarshal(data, &campus)
	case "xml":
		campus, err = decodeXML(data)
	default:
		return domain.Campus{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return domain.Campus{}, err
	}
	return Normalize(campus), nil
}

// Normalize trims surrounding whitespace from every identifier so lookups
// compare exactly.
func Normalize(c domain.Campus) domain.Campus {
	out := c
	out.Buildings = make([]domain.Building, len(c.Buildings))
	for i, b := range c.Buildings {
		b.ID = strings.TrimSpace(b.ID)
		out.Buildings[i] = b
	}
	out.Walkways = make([]domain.Walkway, len(c.Walkways))
	for i, w := range c.Walkways {
		w.From = strings.TrimSpace(w.From)
		w.To = strings.TrimSpace(w.To)
		out.Walkways[i] = w
	}
	out.Rooms = make([]domain.Room, len(c.Rooms))
	for i, r := range c.Rooms {
		r.Tag = strings.TrimSpace(r.Tag)
		r.Parent = strings.TrimSpace(r.Parent)
		out.Rooms[i] = r
	}
	if c.Schedules != nil {
		out.Schedules = make(map[string][]domain.ScheduleSlot, len(c.Schedules))
		for tag, slots := range c.Schedules {
			key := strings.TrimSpace(tag)
			out.Schedules[key] = append(out.Schedules[key], slots...)
		}
	}
	return out
}
