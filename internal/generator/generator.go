package generator

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/vanshika/campusmap/internal/domain"
)

// doorOffset is how far below a building centre its door sits.
const doorOffset = 40.0

// Generator produces synthetic campus topologies for load and snapping tests.
type Generator struct {
	cfg           Config
	rand          *rand.Rand
	nameFragments nameFragments
}

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	def := DefaultConfig()
	if cfg.Rows <= 0 {
		cfg.Rows = def.Rows
	}
	if cfg.Cols <= 0 {
		cfg.Cols = def.Cols
	}
	if cfg.Spacing <= 0 {
		cfg.Spacing = def.Spacing
	}
	if cfg.Jitter < 0 {
		cfg.Jitter = 0
	}
	if cfg.ViaPoints < 0 {
		cfg.ViaPoints = 0
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return &Generator{
		cfg:           cfg,
		rand:          rand.New(rand.NewSource(cfg.Seed)),
		nameFragments: defaultNameFragments(),
	}
}

// Generate synthesises a campus. It respects context cancellation.
func (g *Generator) Generate(ctx context.Context) (domain.Campus, error) {
	campus := domain.Campus{
		Canvas: domain.Canvas{
			Width:  float64(g.cfg.Cols+1) * g.cfg.Spacing,
			Height: float64(g.cfg.Rows+1) * g.cfg.Spacing,
		},
		Schedules: make(map[string][]domain.ScheduleSlot),
	}

	for r := 0; r < g.cfg.Rows; r++ {
		for c := 0; c < g.cfg.Cols; c++ {
			if err := ctx.Err(); err != nil {
				return domain.Campus{}, err
			}
			b := domain.Building{
				ID:   buildingID(r, c),
				Name: g.randomBuildingName(),
				X:    float64(c+1) * g.cfg.Spacing,
				Y:    float64(r+1) * g.cfg.Spacing,
			}
			if g.rand.Float64() < 0.3 {
				w := 80 + float64(g.rand.Intn(5))*20
				b.W = &w
			}
			campus.Buildings = append(campus.Buildings, b)
			g.addRooms(&campus, b.ID)
		}
	}

	for r := 0; r < g.cfg.Rows; r++ {
		for c := 0; c < g.cfg.Cols; c++ {
			if err := ctx.Err(); err != nil {
				return domain.Campus{}, err
			}
			if c+1 < g.cfg.Cols {
				g.maybeWalkway(&campus, r, c, r, c+1)
			}
			if r+1 < g.cfg.Rows {
				g.maybeWalkway(&campus, r, c, r+1, c)
			}
		}
	}

	for i := 0; i < g.cfg.DanglingWalkways && len(campus.Buildings) > 0; i++ {
		from := campus.Buildings[g.rand.Intn(len(campus.Buildings))]
		campus.Walkways = append(campus.Walkways, domain.Walkway{
			From: from.ID,
			To:   fmt.Sprintf("DEMOLISHED-%d", i+1),
		})
	}

	return campus, nil
}

func buildingID(r, c int) string {
	return fmt.Sprintf("B%d-%d", r+1, c+1)
}

// maybeWalkway joins two grid neighbours unless the walkway is dropped.
// Direct walkways run centre to centre; the rest run door to door through
// evenly spaced via points.
func (g *Generator) maybeWalkway(campus *domain.Campus, r1, c1, r2, c2 int) {
	if g.rand.Float64() < g.cfg.DropChance {
		return
	}
	w := domain.Walkway{From: buildingID(r1, c1), To: buildingID(r2, c2)}
	if g.rand.Float64() < g.cfg.DirectChance {
		campus.Walkways = append(campus.Walkways, w)
		return
	}

	fromDoor := g.door(r1, c1)
	toDoor := g.door(r2, c2)
	w.Via = append(w.Via, g.jitter(fromDoor))
	steps := g.cfg.ViaPoints + 1
	for i := 1; i < steps; i++ {
		t := float64(i) / float64(steps)
		w.Via = append(w.Via, domain.Coord{
			fromDoor[0] + (toDoor[0]-fromDoor[0])*t,
			fromDoor[1] + (toDoor[1]-fromDoor[1])*t,
		})
	}
	w.Via = append(w.Via, g.jitter(toDoor))
	campus.Walkways = append(campus.Walkways, w)
}

func (g *Generator) door(r, c int) domain.Coord {
	return domain.Coord{
		float64(c+1) * g.cfg.Spacing,
		float64(r+1)*g.cfg.Spacing + doorOffset,
	}
}

func (g *Generator) jitter(p domain.Coord) domain.Coord {
	if g.cfg.Jitter == 0 {
		return p
	}
	return domain.Coord{
		p[0] + (g.rand.Float64()*2-1)*g.cfg.Jitter,
		p[1] + (g.rand.Float64()*2-1)*g.cfg.Jitter,
	}
}

func (g *Generator) addRooms(campus *domain.Campus, parent string) {
	for i := 0; i < g.cfg.RoomsPerBuilding; i++ {
		tag := fmt.Sprintf("%s-%d", parent, 101+i)
		campus.Rooms = append(campus.Rooms, domain.Room{
			Tag:    tag,
			Name:   g.randomRoomName(),
			Type:   domain.RoomTypeRoom,
			Parent: parent,
		})
		if g.rand.Float64() < g.cfg.ScheduleChance {
			campus.Schedules[tag] = g.randomSchedule()
		}
	}
	if g.rand.Float64() < g.cfg.CRChance {
		campus.Rooms = append(campus.Rooms, domain.Room{
			Tag:    parent + "-CR",
			Name:   "Comfort Room",
			Type:   domain.RoomTypeComfort,
			Parent: parent,
		})
	}
}

func (g *Generator) randomSchedule() []domain.ScheduleSlot {
	days := []string{"Mon", "Tue", "Wed", "Thu", "Fri"}
	count := 1 + g.rand.Intn(3)
	slots := make([]domain.ScheduleSlot, 0, count)
	for i := 0; i < count; i++ {
		startMin := (7+g.rand.Intn(11))*60 + 30*g.rand.Intn(2)
		endMin := startMin + 60 + 30*g.rand.Intn(2)
		slots = append(slots, domain.ScheduleSlot{
			Day:     days[g.rand.Intn(len(days))],
			Start:   clock(startMin),
			End:     clock(endMin),
			Subject: g.nameFragments.subjects[g.rand.Intn(len(g.nameFragments.subjects))],
			Section: fmt.Sprintf("%c", 'A'+rune(g.rand.Intn(4))),
			Teacher: g.nameFragments.last[g.rand.Intn(len(g.nameFragments.last))],
		})
	}
	return slots
}

func clock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func (g *Generator) randomBuildingName() string {
	return fmt.Sprintf("%s %s", g.nameFragments.last[g.rand.Intn(len(g.nameFragments.last))],
		g.nameFragments.buildingKinds[g.rand.Intn(len(g.nameFragments.buildingKinds))])
}

func (g *Generator) randomRoomName() string {
	return g.nameFragments.roomKinds[g.rand.Intn(len(g.nameFragments.roomKinds))]
}

type nameFragments struct {
	last          []string
	buildingKinds []string
	roomKinds     []string
	subjects      []string
}

func defaultNameFragments() nameFragments {
	return nameFragments{
		last:          []string{"Rizal", "Mabini", "Bonifacio", "Aquino", "Santos", "Reyes", "Cruz", "Garcia", "Mendoza", "Torres", "Ramos", "Navarro"},
		buildingKinds: []string{"Hall", "Building", "Annex", "Center", "Pavilion", "Library", "Gymnasium"},
		roomKinds:     []string{"Lecture Room", "Computer Lab", "Chemistry Lab", "Faculty Office", "Seminar Room", "Studio"},
		subjects:      []string{"Calculus", "Physics", "Ethics", "Programming", "Filipino", "Statistics", "Biology", "World History"},
	}
}
