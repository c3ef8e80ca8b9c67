package models

// FavoriteType discriminates what a favorite points at.
type FavoriteType string

const (
	FavoriteBuilding  FavoriteType = "building"
	FavoriteClassroom FavoriteType = "classroom"
)

// Favorite is a user's bookmark of a building or classroom.
type Favorite struct {
	ID          int64        `db:"id" json:"id"`
	UserID      int64        `db:"user_id" json:"userId"`
	BuildingID  *int64       `db:"building_id" json:"buildingId"`
	ClassroomID *int64       `db:"classroom_id" json:"classroomId"`
	Type        FavoriteType `db:"type" json:"type"`
}

// SameTarget reports whether two favorites bookmark the same thing for the same user.
func (f Favorite) SameTarget(o Favorite) bool {
	return f.UserID == o.UserID && f.Type == o.Type &&
		equalID(f.BuildingID, o.BuildingID) && equalID(f.ClassroomID, o.ClassroomID)
}

func equalID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// CreateFavoriteRequest is the payload for POST /favorites.
type CreateFavoriteRequest struct {
	UserID      int64        `json:"userId" validate:"required,gt=0"`
	BuildingID  *int64       `json:"buildingId" validate:"required_if=Type building,omitempty,gt=0"`
	ClassroomID *int64       `json:"classroomId" validate:"required_if=Type classroom,omitempty,gt=0"`
	Type        FavoriteType `json:"type" validate:"required,oneof=building classroom"`
}

// FavoriteWithBuilding is a favorite enriched with the referenced building.
type FavoriteWithBuilding struct {
	Favorite
	Building *Building `json:"building,omitempty"`
}
