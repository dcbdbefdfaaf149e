package domain

// Room types used by the building detail view.
const (
	RoomTypeRoom    = "room"
	RoomTypeComfort = "cr"
)

// Room is a bookable room or a comfort room inside a building. Rooms of any
// other type, or without a parent, load fine but appear in no building
// detail.
type Room struct {
	Tag    string `json:"tag" yaml:"tag" validate:"required"`
	Name   string `json:"name" yaml:"name"`
	Type   string `json:"type" yaml:"type"`
	Parent string `json:"parent" yaml:"parent"`
}

// ScheduleSlot is one weekly class meeting held in a room.
type ScheduleSlot struct {
	Day     string `json:"day" yaml:"day"`
	Start   string `json:"start" yaml:"start"`
	End     string `json:"end" yaml:"end"`
	Subject string `json:"subject" yaml:"subject"`
	Section string `json:"section" yaml:"section"`
	Teacher string `json:"teacher" yaml:"teacher"`
}
