package models

// Classroom is a room inside a building.
type Classroom struct {
	ID         int64  `db:"id" json:"id"`
	BuildingID int64  `db:"building_id" json:"buildingId"`
	RoomNumber string `db:"room_number" json:"roomNumber"`
	Floor      *int   `db:"floor" json:"floor"`
	Capacity   *int   `db:"capacity" json:"capacity"`
}

// CreateClassroomRequest is the payload for POST /classrooms.
type CreateClassroomRequest struct {
	BuildingID int64  `json:"buildingId" validate:"required,gt=0"`
	RoomNumber string `json:"roomNumber" validate:"required"`
	Floor      *int   `json:"floor"`
	Capacity   *int   `json:"capacity" validate:"omitempty,gte=0"`
}
