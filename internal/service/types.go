package service

import (
	"time"

	"github.com/vanshika/campusmap/internal/domain"
	"github.com/vanshika/campusmap/internal/routing"
)

// Route is a walking route between two buildings.
type Route struct {
	From    string           `json:"from"`
	To      string           `json:"to"`
	NodeIDs []routing.NodeID `json:"nodeIds"`
	// Points are in topology coordinates, MapPoints in map coordinates.
	Points    []routing.Point `json:"points"`
	MapPoints []routing.Point `json:"mapPoints"`
	Hops      int             `json:"hops"`
}

// BuildingDetail is a building with its rooms split by type.
type BuildingDetail struct {
	Building domain.Building `json:"building"`
	Rooms    []domain.Room   `json:"rooms"`
	CRs      []domain.Room   `json:"crs"`
}

// Bounds is an axis-aligned rectangle in map coordinates.
type Bounds struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

func (b Bounds) extend(p routing.Point) Bounds {
	return Bounds{
		MinX: min(b.MinX, p.X),
		MinY: min(b.MinY, p.Y),
		MaxX: max(b.MaxX, p.X),
		MaxY: max(b.MaxY, p.Y),
	}
}

// MapBuilding is a building as drawn on the map.
type MapBuilding struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Img    string        `json:"img,omitempty"`
	Center routing.Point `json:"center"`
	Bounds Bounds        `json:"bounds"`
}

// Polyline is a walkway drawn from building centre through its via points.
type Polyline struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Points []routing.Point `json:"points"`
}

// MapView carries everything the front-end needs to draw the campus.
type MapView struct {
	Canvas    domain.Canvas `json:"canvas"`
	Bounds    Bounds        `json:"bounds"`
	Buildings []MapBuilding `json:"buildings"`
	Walkways  []Polyline    `json:"walkways"`
}

// Stats summarises the current routing graph.
type Stats struct {
	Buildings  int       `json:"buildings"`
	Walkways   int       `json:"walkways"`
	Nodes      int       `json:"nodes"`
	Edges      int       `json:"edges"`
	Skipped    int       `json:"skippedWalkways"`
	Unanchored []string  `json:"unanchoredBuildings"`
	LoadedAt   time.Time `json:"loadedAt"`
}
