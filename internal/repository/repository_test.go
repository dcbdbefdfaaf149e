package repository

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/vanshika/campusmap/internal/domain"
	"github.com/vanshika/campusmap/internal/graph"
)

func seededClient() *graph.MemoryClient {
	mem := graph.NewMemoryClient()
	mem.SetReadResult(canvasCypher, graph.Result{Records: []graph.Record{
		{"width": int64(1200), "height": 800.0},
	}})
	mem.SetReadResult(buildingsCypher, graph.Result{Records: []graph.Record{
		{"id": "LIB", "name": "Library", "x": 100.0, "y": int64(200), "w": nil, "h": nil, "img": ""},
		{"id": "GYM", "name": "Gymnasium", "x": 400.0, "y": 200.0, "w": 200.0, "h": int64(80), "img": "/img/gym.png"},
	}})
	mem.SetReadResult(walkwaysCypher, graph.Result{Records: []graph.Record{
		{"from": "LIB", "to": "GYM", "via": []any{160.0, 200.0, int64(340), 200.0}},
		{"from": "GYM", "to": "LIB", "via": nil},
	}})
	mem.SetReadResult(roomsCypher, graph.Result{Records: []graph.Record{
		{"tag": "L101", "name": "Reading Room", "type": "room", "parent": "LIB"},
	}})
	mem.SetReadResult(schedulesCypher, graph.Result{Records: []graph.Record{
		{"tag": "L101", "day": "Mon", "start": "08:00", "end": "09:30", "subject": "Math", "section": "A", "teacher": "Cruz"},
		{"tag": "L101", "day": "Wed", "start": "08:00", "end": "09:30", "subject": "Math", "section": "A", "teacher": "Cruz"},
	}})
	return mem
}

func TestRepository_Load(t *testing.T) {
	repo := New(seededClient())

	campus, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if campus.Canvas.Width != 1200 || campus.Canvas.Height != 800 {
		t.Errorf("unexpected canvas %+v", campus.Canvas)
	}
	if len(campus.Buildings) != 2 {
		t.Fatalf("expected 2 buildings, got %d", len(campus.Buildings))
	}
	if campus.Buildings[0].W != nil {
		t.Errorf("expected LIB width to be unset, got %v", *campus.Buildings[0].W)
	}
	if gym := campus.Buildings[1]; gym.W == nil || *gym.W != 200 || gym.H == nil || *gym.H != 80 {
		t.Errorf("unexpected gym extents %+v", gym)
	}

	wantVia := []domain.Coord{{160, 200}, {340, 200}}
	if !reflect.DeepEqual(campus.Walkways[0].Via, wantVia) {
		t.Errorf("via mismatch: want %v got %v", wantVia, campus.Walkways[0].Via)
	}
	if campus.Walkways[1].Via != nil {
		t.Errorf("expected direct walkway, got via %v", campus.Walkways[1].Via)
	}
	if len(campus.Rooms) != 1 || campus.Rooms[0].Parent != "LIB" {
		t.Errorf("unexpected rooms %+v", campus.Rooms)
	}
	if got := len(campus.Schedules["L101"]); got != 2 {
		t.Errorf("expected 2 schedule slots, got %d", got)
	}
}

func TestRepository_LoadRejectsOddVia(t *testing.T) {
	mem := seededClient()
	mem.SetReadResult(walkwaysCypher, graph.Result{Records: []graph.Record{
		{"from": "LIB", "to": "GYM", "via": []any{1.0, 2.0, 3.0}},
	}})

	_, err := New(mem).Load(context.Background())
	if err == nil || !strings.Contains(err.Error(), "odd length") {
		t.Fatalf("expected odd length error, got %v", err)
	}
}

func TestRepository_LoadPropagatesErrors(t *testing.T) {
	boom := errors.New("connection refused")
	_, err := New(graph.NewMemoryClient().WithError(boom)).Load(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestRepository_UpsertBuilding(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	w := 150.0
	if err := repo.UpsertBuilding(context.Background(), 3, domain.Building{ID: "LIB", Name: "Library", X: 1, Y: 2, W: &w}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	calls := mem.WriteCalls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 write query, got %d", len(calls))
	}
	call := calls[0]
	if call.Query != upsertBuildingCypher {
		t.Fatalf("unexpected query\nexpected:\n%s\ngot:\n%s", upsertBuildingCypher, call.Query)
	}
	props, ok := call.Params["props"].(map[string]any)
	if !ok {
		t.Fatalf("expected props map, got %T", call.Params["props"])
	}
	if props["seq"] != int64(3) || props["w"] != 150.0 || props["h"] != nil {
		t.Errorf("unexpected props %v", props)
	}

	if err := repo.UpsertBuilding(context.Background(), 0, domain.Building{}); err == nil {
		t.Error("expected error for missing id")
	}
}

func TestRepository_UpsertWalkway(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	stored, err := repo.UpsertWalkway(context.Background(), 7, domain.Walkway{
		From: "LIB", To: "GHOST", Via: []domain.Coord{{1, 2}, {3, 4}},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if stored {
		t.Error("expected walkway to an unknown building to be reported as skipped")
	}

	call := mem.WriteCalls()[0]
	if !reflect.DeepEqual(call.Params["via"], []float64{1, 2, 3, 4}) {
		t.Errorf("expected flattened via, got %v", call.Params["via"])
	}
	if call.Params["seq"] != int64(7) {
		t.Errorf("expected seq 7, got %v", call.Params["seq"])
	}
}

func TestRepository_ReplaceSchedule(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	err := repo.ReplaceSchedule(context.Background(), "L101", []domain.ScheduleSlot{
		{Day: "Mon", Start: "08:00", End: "09:00"},
		{Day: "Tue", Start: "10:00", End: "11:00"},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	slots, ok := mem.WriteCalls()[0].Params["slots"].([]map[string]any)
	if !ok || len(slots) != 2 || slots[1]["seq"] != int64(1) {
		t.Fatalf("unexpected slots param %v", mem.WriteCalls()[0].Params["slots"])
	}
}
