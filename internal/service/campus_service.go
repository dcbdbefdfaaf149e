package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"
	"time"

	"github.com/vanshika/campusmap/internal/config"
	"github.com/vanshika/campusmap/internal/domain"
	"github.com/vanshika/campusmap/internal/routing"
	"github.com/vanshika/campusmap/internal/topology"
)

var (
	// ErrNotReady is returned before the first successful Reload.
	ErrNotReady = errors.New("campus topology not loaded")

	// ErrUnknownBuilding is returned for building ids absent from the topology.
	ErrUnknownBuilding = errors.New("unknown building")

	// ErrUnknownRoom is returned for room tags with neither a room nor a schedule.
	ErrUnknownRoom = errors.New("unknown room")

	// ErrMissingBuilding is returned when a route endpoint is blank.
	ErrMissingBuilding = errors.New("from and to buildings are required")
)

// snapshot is one loaded topology and the routing graph built from it. It
// is never modified after it is published.
type snapshot struct {
	campus    domain.Campus
	buildings map[string]domain.Building
	graph     *routing.Graph
	anchors   routing.AnchorIndex
	loadedAt  time.Time
}

// CampusService answers map and route queries against the current topology.
// Reload replaces the whole snapshot atomically, so queries running during a
// reload finish against the graph they started with.
type CampusService struct {
	source  topology.Source
	routing config.RoutingConfig
	mapCfg  config.MapConfig
	logger  *slog.Logger
	nowFn   func() time.Time
	current atomic.Pointer[snapshot]
}

// NewCampusService constructs a CampusService reading from source. Nothing
// is loaded until Reload is called.
func NewCampusService(source topology.Source, routingCfg config.RoutingConfig, mapCfg config.MapConfig, logger *slog.Logger) *CampusService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CampusService{
		source:  source,
		routing: routingCfg,
		mapCfg:  mapCfg,
		logger:  logger.With("component", "campus"),
		nowFn:   time.Now,
	}
}

// WithClock overrides the time provider (used primarily in tests).
func (s *CampusService) WithClock(nowFn func() time.Time) {
	if nowFn != nil {
		s.nowFn = nowFn
	}
}

// Reload loads, validates and builds the topology, then publishes it. On
// failure the previous snapshot stays in place.
func (s *CampusService) Reload(ctx context.Context) error {
	start := s.nowFn()
	snap, err := s.load(ctx)
	if err != nil {
		topologyReloads.WithLabelValues("error").Inc()
		return err
	}
	s.current.Store(snap)
	topologyReloads.WithLabelValues("ok").Inc()
	graphNodes.Set(float64(snap.graph.NodeCount()))
	graphEdges.Set(float64(snap.graph.EdgeCount()))
	graphSkipped.Set(float64(snap.graph.Skipped()))

	s.logger.Info("topology loaded",
		"buildings", len(snap.campus.Buildings),
		"walkways", len(snap.campus.Walkways),
		"nodes", snap.graph.NodeCount(),
		"edges", snap.graph.EdgeCount(),
		"skipped_walkways", snap.graph.Skipped(),
		"duration", s.nowFn().Sub(start),
	)
	return nil
}

func (s *CampusService) load(ctx context.Context) (*snapshot, error) {
	campus, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load topology: %w", err)
	}
	campus = topology.Normalize(campus)
	if err := topology.Validate(campus); err != nil {
		return nil, err
	}
	g, anchors, err := routing.Build(campus.Buildings, campus.Walkways, routing.Options{
		Tolerance: s.routing.SnapTolerance,
		MaxNodes:  s.routing.MaxNodes,
	})
	if err != nil {
		return nil, fmt.Errorf("build routing graph: %w", err)
	}
	return &snapshot{
		campus:    campus,
		buildings: campus.BuildingByID(),
		graph:     g,
		anchors:   anchors,
		loadedAt:  s.nowFn().UTC(),
	}, nil
}

// Ready reports whether a topology has been loaded.
func (s *CampusService) Ready() bool {
	return s.current.Load() != nil
}

func (s *CampusService) snapshot() (*snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNotReady
	}
	return snap, nil
}

// Route finds the fewest-hop walking route between two buildings.
//
// A route from a building to itself has zero hops and consists of the
// building centre. routing.ErrNoAnchors and routing.ErrNoPath are returned
// wrapped when the graph cannot connect the two buildings.
func (s *CampusService) Route(ctx context.Context, fromID, toID string) (Route, error) {
	start := time.Now()
	defer func() { routeDuration.Observe(time.Since(start).Seconds()) }()

	route, outcome, err := s.route(ctx, fromID, toID)
	routeQueries.WithLabelValues(outcome).Inc()
	return route, err
}

func (s *CampusService) route(ctx context.Context, fromID, toID string) (Route, string, error) {
	if err := ctx.Err(); err != nil {
		return Route{}, outcomeError, err
	}
	snap, err := s.snapshot()
	if err != nil {
		return Route{}, outcomeError, err
	}

	fromID, toID = normalizeID(fromID), normalizeID(toID)
	if fromID == "" || toID == "" {
		return Route{}, outcomeError, ErrMissingBuilding
	}
	from, ok := snap.buildings[fromID]
	if !ok {
		return Route{}, outcomeUnknownBuilding, fmt.Errorf("%w: %s", ErrUnknownBuilding, fromID)
	}
	if _, ok := snap.buildings[toID]; !ok {
		return Route{}, outcomeUnknownBuilding, fmt.Errorf("%w: %s", ErrUnknownBuilding, toID)
	}

	if fromID == toID {
		centre := []routing.Point{{X: from.X, Y: from.Y}}
		return Route{
			From:      fromID,
			To:        toID,
			NodeIDs:   []routing.NodeID{},
			Points:    centre,
			MapPoints: s.toMap(snap, centre),
		}, outcomeSameBuilding, nil
	}

	ids, err := routing.FindPath(snap.graph, snap.anchors, fromID, toID)
	switch {
	case errors.Is(err, routing.ErrNoAnchors):
		return Route{}, outcomeNoAnchors, err
	case errors.Is(err, routing.ErrNoPath):
		return Route{}, outcomeNoPath, err
	case err != nil:
		return Route{}, outcomeError, err
	}

	points := snap.graph.Points(ids)
	return Route{
		From:      fromID,
		To:        toID,
		NodeIDs:   ids,
		Points:    points,
		MapPoints: s.toMap(snap, points),
		Hops:      len(ids) - 1,
	}, outcomeOK, nil
}

// Buildings lists the buildings in declaration order.
func (s *CampusService) Buildings(context.Context) ([]domain.Building, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return append([]domain.Building(nil), snap.campus.Buildings...), nil
}

// Building returns a building with its rooms and comfort rooms.
func (s *CampusService) Building(_ context.Context, id string) (BuildingDetail, error) {
	snap, err := s.snapshot()
	if err != nil {
		return BuildingDetail{}, err
	}
	id = normalizeID(id)
	b, ok := snap.buildings[id]
	if !ok {
		return BuildingDetail{}, fmt.Errorf("%w: %s", ErrUnknownBuilding, id)
	}
	detail := BuildingDetail{Building: b, Rooms: []domain.Room{}, CRs: []domain.Room{}}
	for _, room := range snap.campus.Rooms {
		if room.Parent != id {
			continue
		}
		switch room.Type {
		case domain.RoomTypeRoom:
			detail.Rooms = append(detail.Rooms, room)
		case domain.RoomTypeComfort:
			detail.CRs = append(detail.CRs, room)
		}
	}
	return detail, nil
}

// Rooms lists rooms, optionally only those inside parent.
func (s *CampusService) Rooms(_ context.Context, parent string) ([]domain.Room, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	parent = normalizeID(parent)
	rooms := make([]domain.Room, 0, len(snap.campus.Rooms))
	for _, room := range snap.campus.Rooms {
		if parent == "" || room.Parent == parent {
			rooms = append(rooms, room)
		}
	}
	return rooms, nil
}

// Schedule returns the weekly slots held in the room tagged tag. A known
// room without classes has an empty schedule.
func (s *CampusService) Schedule(_ context.Context, tag string) ([]domain.ScheduleSlot, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	tag = normalizeID(tag)
	slots, ok := snap.campus.Schedules[tag]
	if !ok && !hasRoom(snap.campus.Rooms, tag) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRoom, tag)
	}
	return append([]domain.ScheduleSlot{}, slots...), nil
}

func hasRoom(rooms []domain.Room, tag string) bool {
	for _, room := range rooms {
		if room.Tag == tag {
			return true
		}
	}
	return false
}

// MapView returns the drawable campus: building rectangles, walkway
// polylines and the padded extent covering both, all in map coordinates.
func (s *CampusService) MapView(context.Context) (MapView, error) {
	snap, err := s.snapshot()
	if err != nil {
		return MapView{}, err
	}
	view := MapView{
		Canvas:    s.canvas(snap),
		Buildings: make([]MapBuilding, 0, len(snap.campus.Buildings)),
		Walkways:  make([]Polyline, 0, len(snap.campus.Walkways)),
	}

	var extent *Bounds
	include := func(p routing.Point) {
		if extent == nil {
			extent = &Bounds{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y}
			return
		}
		*extent = extent.extend(p)
	}

	for _, b := range snap.campus.Buildings {
		hw, hh := b.HalfExtents(s.mapCfg.DefaultHalfWidth, s.mapCfg.DefaultHalfHeight)
		corners := s.toMap(snap, []routing.Point{
			{X: b.X - hw, Y: b.Y - hh},
			{X: b.X + hw, Y: b.Y + hh},
		})
		bounds := Bounds{
			MinX: min(corners[0].X, corners[1].X),
			MinY: min(corners[0].Y, corners[1].Y),
			MaxX: max(corners[0].X, corners[1].X),
			MaxY: max(corners[0].Y, corners[1].Y),
		}
		include(routing.Point{X: bounds.MinX, Y: bounds.MinY})
		include(routing.Point{X: bounds.MaxX, Y: bounds.MaxY})
		view.Buildings = append(view.Buildings, MapBuilding{
			ID:     b.ID,
			Name:   b.DisplayName(),
			Img:    b.Img,
			Center: s.toMap(snap, []routing.Point{{X: b.X, Y: b.Y}})[0],
			Bounds: bounds,
		})
	}

	for _, w := range snap.campus.Walkways {
		from, okFrom := snap.buildings[w.From]
		to, okTo := snap.buildings[w.To]
		if !okFrom || !okTo {
			continue
		}
		raw := make([]routing.Point, 0, len(w.Via)+2)
		raw = append(raw, routing.Point{X: from.X, Y: from.Y})
		for _, c := range w.Via {
			raw = append(raw, routing.Point{X: c.X(), Y: c.Y()})
		}
		raw = append(raw, routing.Point{X: to.X, Y: to.Y})
		points := s.toMap(snap, raw)
		for _, p := range points {
			include(p)
		}
		view.Walkways = append(view.Walkways, Polyline{From: w.From, To: w.To, Points: points})
	}

	if extent == nil {
		view.Bounds = Bounds{MaxX: view.Canvas.Width, MaxY: view.Canvas.Height}
		return view, nil
	}
	pad := s.mapCfg.Padding
	view.Bounds = Bounds{
		MinX: extent.MinX - pad,
		MinY: extent.MinY - pad,
		MaxX: extent.MaxX + pad,
		MaxY: extent.MaxY + pad,
	}
	return view, nil
}

func (s *CampusService) canvas(snap *snapshot) domain.Canvas {
	c := snap.campus.Canvas
	if c.Width <= 0 {
		c.Width = s.mapCfg.CanvasWidth
	}
	if c.Height <= 0 {
		c.Height = s.mapCfg.CanvasHeight
	}
	return c
}

// toMap converts topology coordinates, whose y axis grows downwards, into
// map coordinates. With InvertY set the y axis is flipped about the canvas
// height.
func (s *CampusService) toMap(snap *snapshot, points []routing.Point) []routing.Point {
	out := make([]routing.Point, len(points))
	height := s.canvas(snap).Height
	for i, p := range points {
		if s.mapCfg.InvertY {
			p.Y = height - p.Y
		}
		out[i] = p
	}
	return out
}

// Stats summarises the loaded topology and its routing graph.
func (s *CampusService) Stats(context.Context) (Stats, error) {
	snap, err := s.snapshot()
	if err != nil {
		return Stats{}, err
	}
	unanchored := []string{}
	for id := range snap.buildings {
		if !snap.anchors.Has(id) {
			unanchored = append(unanchored, id)
		}
	}
	sort.Strings(unanchored)
	return Stats{
		Buildings:  len(snap.buildings),
		Walkways:   len(snap.campus.Walkways),
		Nodes:      snap.graph.NodeCount(),
		Edges:      snap.graph.EdgeCount(),
		Skipped:    snap.graph.Skipped(),
		Unanchored: unanchored,
		LoadedAt:   snap.loadedAt,
	}, nil
}
