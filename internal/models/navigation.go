package models

// DistanceResult describes the walk between two points.
type DistanceResult struct {
	From           Waypoint `json:"from"`
	To             Waypoint `json:"to"`
	DistanceMeters float64  `json:"distanceMeters"`
	Distance       string   `json:"distance"`
	WalkingMinutes int      `json:"walkingMinutes"`
}

// Waypoint is one end of a distance query.
type Waypoint struct {
	BuildingID *int64  `json:"buildingId,omitempty"`
	Name       string  `json:"name,omitempty"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

// ScheduleEntry is a course joined with where it meets.
type ScheduleEntry struct {
	Course    Course     `json:"course"`
	Classroom *Classroom `json:"classroom,omitempty"`
	Building  *Building  `json:"building,omitempty"`
}
