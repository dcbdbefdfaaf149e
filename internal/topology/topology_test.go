package topology

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/campusmap/internal/domain"
	"github.com/vanshika/campusmap/internal/logging"
)

const campusJSON = `{
  "canvas": {"width": 1200, "height": 800},
  "buildings": [
    {"id": " LIB ", "name": "Library", "x": 100, "y": 200},
    {"id": "GYM", "name": "Gymnasium", "x": 400, "y": 200, "w": 200, "h": 80, "img": "/static/img/gym.png"}
  ],
  "walkways": [
    {"from": "LIB", "to": "GYM", "via": [[160, 200], [340, 200]]},
    {"from": "GYM", "to": "NOWHERE"}
  ],
  "rooms": [
    {"tag": "L101", "name": "Reading Room", "type": "room", "parent": "LIB"},
    {"tag": "LCR1", "name": "Library CR", "type": "cr", "parent": "LIB "}
  ],
  "schedules": {
    "L101": [{"day": "Mon", "start": "08:00", "end": "09:30", "subject": "Math", "section": "A", "teacher": "Cruz"}]
  }
}`

const campusYAML = `
canvas: {width: 1200, height: 800}
buildings:
  - {id: LIB, name: Library, x: 100, y: 200}
  - {id: GYM, name: Gymnasium, x: 400, y: 200, w: 200, h: 80}
walkways:
  - from: LIB
    to: GYM
    via: [[160, 200], [340, 200]]
rooms:
  - {tag: L101, name: Reading Room, type: room, parent: LIB}
`

const campusXML = `<?xml version="1.0"?>
<campus width="1200" height="800">
  <building id="LIB" name="Library" x="100" y="200"/>
  <building id="GYM" name="Gymnasium" x="400" y="200" w="200" h="80"/>
  <walkway from="LIB" to="GYM">
    <via x="160" y="200"/>
    <via x="340" y="200"/>
  </walkway>
  <room tag="L101" name="Reading Room" type="room" parent="LIB"/>
  <schedule room="L101" day="Mon" start="08:00" end="09:30" subject="Math"/>
</campus>`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFileSource_JSON(t *testing.T) {
	campus, err := FileSource{Path: writeFile(t, "campus.json", campusJSON)}.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, campus.Buildings, 2)
	assert.Equal(t, "LIB", campus.Buildings[0].ID, "ids are trimmed")
	require.NotNil(t, campus.Buildings[1].W)
	assert.Equal(t, 200.0, *campus.Buildings[1].W)
	assert.Nil(t, campus.Buildings[0].W)

	require.Len(t, campus.Walkways, 2)
	assert.Equal(t, []domain.Coord{{160, 200}, {340, 200}}, campus.Walkways[0].Via)
	assert.Equal(t, "LIB", campus.Rooms[1].Parent)
	assert.Len(t, campus.Schedules["L101"], 1)
	assert.Equal(t, 1200.0, campus.Canvas.Width)

	assert.NoError(t, Validate(campus), "dangling walkways are tolerated")
}

func TestFileSource_YAML(t *testing.T) {
	campus, err := FileSource{Path: writeFile(t, "campus.yml", campusYAML)}.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, campus.Buildings, 2)
	assert.Equal(t, 80.0, *campus.Buildings[1].H)
	assert.Equal(t, []domain.Coord{{160, 200}, {340, 200}}, campus.Walkways[0].Via)
	assert.NoError(t, Validate(campus))
}

func TestFileSource_XML(t *testing.T) {
	campus, err := FileSource{Path: writeFile(t, "campus.xml", campusXML)}.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, campus.Buildings, 2)
	assert.Equal(t, "Gymnasium", campus.Buildings[1].Name)
	assert.Equal(t, 200.0, *campus.Buildings[1].W)
	require.Len(t, campus.Walkways, 1)
	assert.Equal(t, []domain.Coord{{160, 200}, {340, 200}}, campus.Walkways[0].Via)
	assert.Equal(t, "Math", campus.Schedules["L101"][0].Subject)
	assert.Equal(t, 800.0, campus.Canvas.Height)
	assert.NoError(t, Validate(campus))
}

func TestDecode_XMLErrors(t *testing.T) {
	_, err := Decode(".xml", []byte(`<map/>`))
	assert.Error(t, err)

	_, err = Decode(".xml", []byte(`<campus><building id="A" x="1"/></campus>`))
	assert.ErrorContains(t, err, "missing attribute y")

	_, err = Decode(".xml", []byte(`<campus><walkway from="A" to="B"><via x="one" y="2"/></walkway></campus>`))
	assert.Error(t, err)
}

func TestDecode_Unsupported(t *testing.T) {
	_, err := Decode(".csv", nil)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestFileSource_Missing(t *testing.T) {
	_, err := FileSource{Path: filepath.Join(t.TempDir(), "absent.json")}.Load(context.Background())
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestValidate(t *testing.T) {
	ok := domain.Campus{
		Buildings: []domain.Building{{ID: "A"}, {ID: "B"}},
		Walkways:  []domain.Walkway{{From: "A", To: "B"}},
		Rooms:     []domain.Room{{Tag: "A1", Type: domain.RoomTypeRoom, Parent: "A"}},
	}
	require.NoError(t, Validate(ok))

	negative := -5.0
	cases := map[string]func(c *domain.Campus){
		"missing building id": func(c *domain.Campus) { c.Buildings[0].ID = "" },
		"duplicate building":  func(c *domain.Campus) { c.Buildings[1].ID = "A" },
		"bad width":           func(c *domain.Campus) { c.Buildings[0].W = &negative },
		"room without tag":    func(c *domain.Campus) { c.Rooms[0].Tag = "" },
		"duplicate room tag": func(c *domain.Campus) {
			c.Rooms = append(c.Rooms, domain.Room{Tag: "A1", Type: domain.RoomTypeComfort, Parent: "B"})
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := ok
			c.Buildings = append([]domain.Building(nil), ok.Buildings...)
			c.Walkways = append([]domain.Walkway(nil), ok.Walkways...)
			c.Rooms = append([]domain.Room(nil), ok.Rooms...)
			mutate(&c)
			err := Validate(c)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidTopology))
		})
	}
}

func TestValidate_ToleratesLooseReferences(t *testing.T) {
	c := domain.Campus{
		Buildings: []domain.Building{{ID: "A"}, {ID: "B"}},
		Walkways: []domain.Walkway{
			{From: "", To: "B"},
			{From: "A"},
			{From: "A", To: "B"},
		},
		Rooms: []domain.Room{
			{Tag: "A1", Type: "lab", Parent: "A"},
			{Tag: "KIOSK"},
		},
	}
	assert.NoError(t, Validate(c))
}

func TestDecode_RejectsMalformedVia(t *testing.T) {
	cases := map[string]string{
		"one component":    `{"walkways": [{"from": "A", "to": "B", "via": [[5]]}]}`,
		"three components": `{"walkways": [{"from": "A", "to": "B", "via": [[1, 2, 3]]}]}`,
		"empty":            `{"walkways": [{"from": "A", "to": "B", "via": [[]]}]}`,
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(".json", []byte(data))
			assert.ErrorIs(t, err, domain.ErrMalformedCoord)
		})
	}

	_, err := Decode(".yaml", []byte("walkways:\n  - {from: A, to: B, via: [[1, 2, 3]]}\n"))
	assert.ErrorContains(t, err, "exactly two numbers")

	campus, err := Decode(".yaml", []byte("walkways:\n  - {from: A, to: B, via: [[1, 2]]}\n"))
	require.NoError(t, err)
	assert.Equal(t, []domain.Coord{{1, 2}}, campus.Walkways[0].Via)
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	path := writeFile(t, "campus.json", campusJSON)

	var calls atomic.Int32
	reloaded := make(chan struct{}, 4)
	w := NewWatcher(path, 20*time.Millisecond, logging.Discard(), func(context.Context) error {
		calls.Add(1)
		reloaded <- struct{}{}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// give the watcher time to register before writing
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "other.json"), []byte("{}"), 0o600))
	require.NoError(t, os.WriteFile(path, []byte(campusJSON), 0o600))

	select {
	case <-reloaded:
	case <-time.After(5 * time.Second):
		t.Fatal("reload was not triggered")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
	assert.GreaterOrEqual(t, calls.Load(), int32(1))
}
