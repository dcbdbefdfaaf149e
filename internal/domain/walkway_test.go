package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestCoord_UnmarshalJSON(t *testing.T) {
	var w Walkway
	if err := json.Unmarshal([]byte(`{"from":"A","to":"B","via":[[1.5,2],[3,4]]}`), &w); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(w.Via) != 2 || w.Via[0] != (Coord{1.5, 2}) || w.Via[1].Y() != 4 {
		t.Fatalf("unexpected via: %v", w.Via)
	}

	for _, raw := range []string{`[5]`, `[1,2,3]`, `[]`} {
		var c Coord
		err := json.Unmarshal([]byte(raw), &c)
		if !errors.Is(err, ErrMalformedCoord) {
			t.Fatalf("%s: expected ErrMalformedCoord, got %v", raw, err)
		}
	}

	var c Coord
	if err := json.Unmarshal([]byte(`["x", 1]`), &c); err == nil {
		t.Fatal("expected error for non-numeric component")
	}
}

func TestCoord_UnmarshalYAML(t *testing.T) {
	var w Walkway
	if err := yaml.Unmarshal([]byte("from: A\nto: B\nvia: [[1, 2]]\n"), &w); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(w.Via) != 1 || w.Via[0] != (Coord{1, 2}) {
		t.Fatalf("unexpected via: %v", w.Via)
	}

	var c Coord
	if err := yaml.Unmarshal([]byte("[7]"), &c); err == nil {
		t.Fatal("expected error for single component")
	}
}
