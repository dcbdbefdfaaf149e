package domain

// Default building footprint used when a building omits w/h.
const (
	DefaultBuildingWidth  = 120.0
	DefaultBuildingHeight = 60.0
)

// Building is a named rectangle on the campus map, centred on (X, Y).
type Building struct {
	ID   string   `json:"id" yaml:"id" validate:"required"`
	Name string   `json:"name" yaml:"name"`
	X    float64  `json:"x" yaml:"x"`
	Y    float64  `json:"y" yaml:"y"`
	W    *float64 `json:"w,omitempty" yaml:"w,omitempty" validate:"omitempty,gt=0"`
	H    *float64 `json:"h,omitempty" yaml:"h,omitempty" validate:"omitempty,gt=0"`
	Img  string   `json:"img,omitempty" yaml:"img,omitempty"`
}

// HalfExtents returns half the building's width and height, falling back to
// the supplied defaults when the building does not declare its own size.
func (b Building) HalfExtents(defaultHalfWidth, defaultHalfHeight float64) (float64, float64) {
	hw, hh := defaultHalfWidth, defaultHalfHeight
	if b.W != nil {
		hw = *b.W / 2
	}
	if b.H != nil {
		hh = *b.H / 2
	}
	return hw, hh
}

// DisplayName returns the building name, or its id when unnamed.
func (b Building) DisplayName() string {
	if b.Name != "" {
		return b.Name
	}
	return b.ID
}
