package models

// BuildingType classifies campus buildings for map styling.
type BuildingType string

const (
	BuildingAcademic       BuildingType = "academic"
	BuildingAdministrative BuildingType = "administrative"
	BuildingResidence      BuildingType = "residence"
	BuildingDining         BuildingType = "dining"
	BuildingRecreation     BuildingType = "recreation"
	BuildingLibrary        BuildingType = "library"
	BuildingFacility       BuildingType = "facility"
	BuildingDefault        BuildingType = "default"
)

// Building is a mapped campus structure. Coordinates are decimal-degree strings.
type Building struct {
	ID          int64         `db:"id" json:"id"`
	Name        string        `db:"name" json:"name"`
	ShortName   *string       `db:"short_name" json:"shortName"`
	Description *string       `db:"description" json:"description"`
	Latitude    string        `db:"latitude" json:"latitude"`
	Longitude   string        `db:"longitude" json:"longitude"`
	Type        *BuildingType `db:"type" json:"type"`
	Address     *string       `db:"address" json:"address"`
	Campus      *string       `db:"campus" json:"campus"`
}

// CreateBuildingRequest is the payload for POST /buildings.
type CreateBuildingRequest struct {
	Name        string        `json:"name" validate:"required"`
	ShortName   *string       `json:"shortName"`
	Description *string       `json:"description"`
	Latitude    string        `json:"latitude" validate:"required,latitude"`
	Longitude   string        `json:"longitude" validate:"required,longitude"`
	Type        *BuildingType `json:"type" validate:"omitempty,oneof=academic administrative residence dining recreation library facility default"`
	Address     *string       `json:"address"`
	Campus      *string       `json:"campus"`
}

// NearbyBuilding is a building annotated with its distance from a query point.
type NearbyBuilding struct {
	Building
	DistanceMeters float64 `json:"distanceMeters"`
	Distance       string  `json:"distance"`
	WalkingMinutes int     `json:"walkingMinutes"`
}
