package graph

import (
	"context"
	"errors"
	"testing"
)

func TestRecord_Accessors(t *testing.T) {
	rec := Record{
		"id":  "LIB",
		"x":   int64(100),
		"y":   12.5,
		"via": []any{int64(1), 2.5, float64(3)},
		"bad": []any{"x"},
	}

	if got := rec.String("id"); got != "LIB" {
		t.Fatalf("expected LIB, got %q", got)
	}
	if got := rec.String("x"); got != "" {
		t.Fatalf("expected empty string for non-string, got %q", got)
	}
	if x, ok := rec.Float("x"); !ok || x != 100 {
		t.Fatalf("expected 100, got %v (%v)", x, ok)
	}
	if _, ok := rec.Float("missing"); ok {
		t.Fatal("expected missing float to report !ok")
	}
	via, ok := rec.Floats("via")
	if !ok || len(via) != 3 || via[1] != 2.5 {
		t.Fatalf("unexpected via %v (%v)", via, ok)
	}
	if _, ok := rec.Floats("bad"); ok {
		t.Fatal("expected non-numeric list to fail")
	}
	if v, ok := rec.Floats("missing"); !ok || v != nil {
		t.Fatalf("expected nil list for missing key, got %v", v)
	}
}

func TestMemoryClient(t *testing.T) {
	mem := NewMemoryClient()
	mem.SetReadResult("MATCH (n) RETURN n", Result{Records: []Record{{"n": 1}}})

	res, err := mem.ExecuteRead(context.Background(), "MATCH (n) RETURN n", nil)
	if err != nil || len(res.Records) != 1 {
		t.Fatalf("unexpected result %v, %v", res, err)
	}
	if _, err := mem.ExecuteWrite(context.Background(), "CREATE (n)", map[string]any{"a": 1}); err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}
	if calls := mem.WriteCalls(); len(calls) != 1 || calls[0].Params["a"] != 1 {
		t.Fatalf("unexpected write calls %v", calls)
	}

	boom := errors.New("boom")
	mem.WithError(boom)
	if _, err := mem.ExecuteRead(context.Background(), "MATCH (n) RETURN n", nil); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}
