package generator

// Config drives the synthetic campus generator.
//
// Buildings are laid out on a Rows x Cols grid. Every walkway touching a
// building starts or ends at that building's door, displaced by up to
// Jitter per axis, so the routing graph has to snap them together. Keep
// Jitter at or below half the routing snap tolerance for the doors to merge.
type Config struct {
	Rows             int
	Cols             int
	Spacing          float64
	Jitter           float64
	ViaPoints        int
	DirectChance     float64
	DropChance       float64
	DanglingWalkways int
	RoomsPerBuilding int
	CRChance         float64
	ScheduleChance   float64
	Seed             int64
}

// DefaultConfig returns a mid-sized campus.
func DefaultConfig() Config {
	return Config{
		Rows:             6,
		Cols:             8,
		Spacing:          200,
		Jitter:           0.9,
		ViaPoints:        2,
		DirectChance:     0.15,
		DropChance:       0.1,
		DanglingWalkways: 2,
		RoomsPerBuilding: 4,
		CRChance:         0.6,
		ScheduleChance:   0.5,
		Seed:             42,
	}
}
