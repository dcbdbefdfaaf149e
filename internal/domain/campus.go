package domain

// Canvas is the drawing surface the topology coordinates refer to.
type Canvas struct {
	Width  float64 `json:"width" yaml:"width" validate:"gte=0"`
	Height float64 `json:"height" yaml:"height" validate:"gte=0"`
}

// Campus is a complete topology description: the buildings, the walkways
// joining them, and the rooms and schedules shown per building.
type Campus struct {
	Canvas    Canvas                    `json:"canvas" yaml:"canvas"`
	Buildings []Building                `json:"buildings" yaml:"buildings" validate:"dive"`
	Walkways  []Walkway                 `json:"walkways" yaml:"walkways" validate:"dive"`
	Rooms     []Room                    `json:"rooms,omitempty" yaml:"rooms,omitempty" validate:"dive"`
	Schedules map[string][]ScheduleSlot `json:"schedules,omitempty" yaml:"schedules,omitempty"`
}

// BuildingByID indexes the campus buildings by id. Later duplicates do not
// replace the first declaration.
func (c Campus) BuildingByID() map[string]Building {
	out := make(map[string]Building, len(c.Buildings))
	for _, b := range c.Buildings {
		if _, ok := out[b.ID]; ok {
			continue
		}
		out[b.ID] = b
	}
	return out
}
