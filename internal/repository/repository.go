package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/vanshika/campusmap/internal/domain"
	"github.com/vanshika/campusmap/internal/graph"
)

// Repository stores and loads the campus topology in the graph database.
//
// Buildings and walkways carry a seq property holding their position in the
// source file. Walkway declaration order decides ties between equally short
// routes, so loads return rows ordered by seq.
type Repository struct {
	client graph.Client
}

// New instantiates a Repository backed by the supplied graph client.
func New(client graph.Client) *Repository {
	return &Repository{client: client}
}

// Load reads the complete campus description. It satisfies topology.Source.
func (r *Repository) Load(ctx context.Context) (domain.Campus, error) {
	var campus domain.Campus

	canvas, err := r.client.ExecuteRead(ctx, canvasCypher, nil)
	if err != nil {
		return domain.Campus{}, fmt.Errorf("load canvas: %w", err)
	}
	if len(canvas.Records) > 0 {
		campus.Canvas.Width, _ = canvas.Records[0].Float("width")
		campus.Canvas.Height, _ = canvas.Records[0].Float("height")
	}

	if campus.Buildings, err = r.loadBuildings(ctx); err != nil {
		return domain.Campus{}, err
	}
	if campus.Walkways, err = r.loadWalkways(ctx); err != nil {
		return domain.Campus{}, err
	}
	if campus.Rooms, err = r.loadRooms(ctx); err != nil {
		return domain.Campus{}, err
	}
	if campus.Schedules, err = r.loadSchedules(ctx); err != nil {
		return domain.Campus{}, err
	}
	return campus, nil
}

func (r *Repository) loadBuildings(ctx context.Context) ([]domain.Building, error) {
	res, err := r.client.ExecuteRead(ctx, buildingsCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("load buildings: %w", err)
	}
	buildings := make([]domain.Building, 0, len(res.Records))
	for _, rec := range res.Records {
		b := domain.Building{
			ID:   rec.String("id"),
			Name: rec.String("name"),
			Img:  rec.String("img"),
		}
		b.X, _ = rec.Float("x")
		b.Y, _ = rec.Float("y")
		if w, ok := rec.Float("w"); ok {
			b.W = &w
		}
		if h, ok := rec.Float("h"); ok {
			b.H = &h
		}
		buildings = append(buildings, b)
	}
	return buildings, nil
}

func (r *Repository) loadWalkways(ctx context.Context) ([]domain.Walkway, error) {
	res, err := r.client.ExecuteRead(ctx, walkwaysCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("load walkways: %w", err)
	}
	walkways := make([]domain.Walkway, 0, len(res.Records))
	for _, rec := range res.Records {
		w := domain.Walkway{From: rec.String("from"), To: rec.String("to")}
		flat, ok := rec.Floats("via")
		if !ok {
			return nil, fmt.Errorf("walkway %s->%s: via is not a numeric list", w.From, w.To)
		}
		if w.Via, err = unflatten(flat); err != nil {
			return nil, fmt.Errorf("walkway %s->%s: %w", w.From, w.To, err)
		}
		walkways = append(walkways, w)
	}
	return walkways, nil
}

func (r *Repository) loadRooms(ctx context.Context) ([]domain.Room, error) {
	res, err := r.client.ExecuteRead(ctx, roomsCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("load rooms: %w", err)
	}
	rooms := make([]domain.Room, 0, len(res.Records))
	for _, rec := range res.Records {
		rooms = append(rooms, domain.Room{
			Tag:    rec.String("tag"),
			Name:   rec.String("name"),
			Type:   rec.String("type"),
			Parent: rec.String("parent"),
		})
	}
	return rooms, nil
}

func (r *Repository) loadSchedules(ctx context.Context) (map[string][]domain.ScheduleSlot, error) {
	res, err := r.client.ExecuteRead(ctx, schedulesCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("load schedules: %w", err)
	}
	if len(res.Records) == 0 {
		return nil, nil
	}
	schedules := make(map[string][]domain.ScheduleSlot)
	for _, rec := range res.Records {
		tag := rec.String("tag")
		schedules[tag] = append(schedules[tag], domain.ScheduleSlot{
			Day:     rec.String("day"),
			Start:   rec.String("start"),
			End:     rec.String("end"),
			Subject: rec.String("subject"),
			Section: rec.String("section"),
			Teacher: rec.String("teacher"),
		})
	}
	return schedules, nil
}

// Reset removes every campus node and relationship.
func (r *Repository) Reset(ctx context.Context) error {
	if _, err := r.client.ExecuteWrite(ctx, resetCypher, nil); err != nil {
		return fmt.Errorf("reset campus: %w", err)
	}
	return nil
}

// UpsertCanvas stores the drawing surface size.
func (r *Repository) UpsertCanvas(ctx context.Context, canvas domain.Canvas) error {
	params := map[string]any{"width": canvas.Width, "height": canvas.Height}
	if _, err := r.client.ExecuteWrite(ctx, upsertCanvasCypher, params); err != nil {
		return fmt.Errorf("upsert canvas: %w", err)
	}
	return nil
}

// UpsertBuilding creates or updates a building. seq is its position in the
// source topology.
func (r *Repository) UpsertBuilding(ctx context.Context, seq int, b domain.Building) error {
	if b.ID == "" {
		return errors.New("building id is required")
	}
	params := map[string]any{
		"buildingId": b.ID,
		"props":      buildingProperties(seq, b),
	}
	if _, err := r.client.ExecuteWrite(ctx, upsertBuildingCypher, params); err != nil {
		return fmt.Errorf("upsert building %s: %w", b.ID, err)
	}
	return nil
}

// UpsertWalkway stores a walkway between two existing buildings. It reports
// false when either building is missing, in which case nothing is written.
func (r *Repository) UpsertWalkway(ctx context.Context, seq int, w domain.Walkway) (bool, error) {
	params := map[string]any{
		"from": w.From,
		"to":   w.To,
		"seq":  int64(seq),
		"via":  flatten(w.Via),
	}
	res, err := r.client.ExecuteWrite(ctx, upsertWalkwayCypher, params)
	if err != nil {
		return false, fmt.Errorf("upsert walkway %s->%s: %w", w.From, w.To, err)
	}
	return len(res.Records) > 0, nil
}

// UpsertRoom creates or updates a room and links it to its building when
// the building exists.
func (r *Repository) UpsertRoom(ctx context.Context, seq int, room domain.Room) error {
	if room.Tag == "" {
		return errors.New("room tag is required")
	}
	params := map[string]any{
		"tag":    room.Tag,
		"parent": room.Parent,
		"props": map[string]any{
			"seq":    int64(seq),
			"name":   room.Name,
			"type":   room.Type,
			"parent": room.Parent,
		},
	}
	if _, err := r.client.ExecuteWrite(ctx, upsertRoomCypher, params); err != nil {
		return fmt.Errorf("upsert room %s: %w", room.Tag, err)
	}
	return nil
}

// ReplaceSchedule swaps the schedule of a room for slots.
func (r *Repository) ReplaceSchedule(ctx context.Context, tag string, slots []domain.ScheduleSlot) error {
	if tag == "" {
		return errors.New("room tag is required")
	}
	params := map[string]any{
		"tag":   tag,
		"slots": slotParams(slots),
	}
	if _, err := r.client.ExecuteWrite(ctx, replaceScheduleCypher, params); err != nil {
		return fmt.Errorf("replace schedule %s: %w", tag, err)
	}
	return nil
}

func buildingProperties(seq int, b domain.Building) map[string]any {
	props := map[string]any{
		"seq":  int64(seq),
		"name": b.Name,
		"x":    b.X,
		"y":    b.Y,
		"img":  b.Img,
	}
	// unset properties come back as null, which the loader reads as "use default"
	props["w"] = nil
	props["h"] = nil
	if b.W != nil {
		props["w"] = *b.W
	}
	if b.H != nil {
		props["h"] = *b.H
	}
	return props
}

func slotParams(slots []domain.ScheduleSlot) []map[string]any {
	out := make([]map[string]any, 0, len(slots))
	for i, s := range slots {
		out = append(out, map[string]any{
			"seq":     int64(i),
			"day":     s.Day,
			"start":   s.Start,
			"end":     s.End,
			"subject": s.Subject,
			"section": s.Section,
			"teacher": s.Teacher,
		})
	}
	return out
}

// flatten stores via points as [x0, y0, x1, y1, ...]; Neo4j properties
// cannot hold nested lists.
func flatten(via []domain.Coord) []float64 {
	out := make([]float64, 0, len(via)*2)
	for _, c := range via {
		out = append(out, c[0], c[1])
	}
	return out
}

func unflatten(flat []float64) ([]domain.Coord, error) {
	if len(flat)%2 != 0 {
		return nil, fmt.Errorf("via list has odd length %d", len(flat))
	}
	if len(flat) == 0 {
		return nil, nil
	}
	out := make([]domain.Coord, 0, len(flat)/2)
	for i := 0; i < len(flat); i += 2 {
		out = append(out, domain.Coord{flat[i], flat[i+1]})
	}
	return out, nil
}

const canvasCypher = `
MATCH (c:Canvas)
RETURN c.width AS width, c.height AS height
LIMIT 1
`

const buildingsCypher = `
MATCH (b:Building)
RETURN b.buildingId AS id,
       b.name AS name,
       b.x AS x,
       b.y AS y,
       b.w AS w,
       b.h AS h,
       b.img AS img
ORDER BY b.seq, b.buildingId
`

const walkwaysCypher = `
MATCH (a:Building)-[w:WALKWAY]->(b:Building)
RETURN a.buildingId AS from, b.buildingId AS to, w.via AS via
ORDER BY w.seq
`

const roomsCypher = `
MATCH (r:Room)
RETURN r.tag AS tag, r.name AS name, r.type AS type, r.parent AS parent
ORDER BY r.seq, r.tag
`

const schedulesCypher = `
MATCH (s:ScheduleSlot)-[:HELD_IN]->(r:Room)
RETURN r.tag AS tag,
       s.day AS day,
       s.start AS start,
       s.end AS end,
       s.subject AS subject,
       s.section AS section,
       s.teacher AS teacher
ORDER BY r.tag, s.seq
`

const resetCypher = `
MATCH (n)
WHERE n:Building OR n:Room OR n:ScheduleSlot OR n:Canvas
DETACH DELETE n
`

const upsertCanvasCypher = `
MERGE (c:Canvas {name: 'campus'})
SET c.width = $width, c.height = $height
`

const upsertBuildingCypher = `
MERGE (b:Building {buildingId: $buildingId})
SET b += $props
RETURN b.buildingId AS buildingId
`

const upsertWalkwayCypher = `
MATCH (a:Building {buildingId: $from})
MATCH (b:Building {buildingId: $to})
MERGE (a)-[w:WALKWAY {seq: $seq}]->(b)
SET w.via = $via
RETURN w.seq AS seq
`

const upsertRoomCypher = `
MERGE (r:Room {tag: $tag})
SET r += $props
WITH r
OPTIONAL MATCH (b:Building {buildingId: $parent})
FOREACH (_ IN CASE WHEN b IS NULL THEN [] ELSE [1] END |
	MERGE (r)-[:IN_BUILDING]->(b)
)
RETURN r.tag AS tag
`

const replaceScheduleCypher = `
MERGE (r:Room {tag: $tag})
WITH r
OPTIONAL MATCH (old:ScheduleSlot)-[:HELD_IN]->(r)
DETACH DELETE old
WITH DISTINCT r
UNWIND $slots AS slot
CREATE (s:ScheduleSlot)-[:HELD_IN]->(r)
SET s = slot
`
