package models

import "time"

// StudentLocation is the single current position a user has reported.
type StudentLocation struct {
	ID         int64     `db:"id" json:"id"`
	UserID     int64     `db:"user_id" json:"userId"`
	Latitude   string    `db:"latitude" json:"latitude"`
	Longitude  string    `db:"longitude" json:"longitude"`
	Accuracy   *float64  `db:"accuracy" json:"accuracy"`
	Timestamp  time.Time `db:"recorded_at" json:"timestamp"`
	IsSharing  bool      `db:"is_sharing" json:"isSharing"`
	BuildingID *int64    `db:"building_id" json:"buildingId"`
}

// LocationUpdate carries the fields of a location write. Omitted fields are
// backfilled when the replacement record is built.
type LocationUpdate struct {
	Latitude   *string  `json:"latitude" validate:"omitempty,latitude"`
	Longitude  *string  `json:"longitude" validate:"omitempty,longitude"`
	Accuracy   *float64 `json:"accuracy" validate:"omitempty,gte=0"`
	IsSharing  *bool    `json:"isSharing"`
	BuildingID *int64   `json:"buildingId" validate:"omitempty,gt=0"`
}

// DefaultCoordinate is stored when a write omits latitude or longitude.
const DefaultCoordinate = "0"

// NewStudentLocation builds the replacement record for a user from an update.
// The id is assigned by the store.
func NewStudentLocation(userID int64, upd LocationUpdate, now time.Time) StudentLocation {
	loc := StudentLocation{
		UserID:     userID,
		Latitude:   DefaultCoordinate,
		Longitude:  DefaultCoordinate,
		Accuracy:   upd.Accuracy,
		Timestamp:  now,
		IsSharing:  true,
		BuildingID: upd.BuildingID,
	}
	if upd.Latitude != nil && *upd.Latitude != "" {
		loc.Latitude = *upd.Latitude
	}
	if upd.Longitude != nil && *upd.Longitude != "" {
		loc.Longitude = *upd.Longitude
	}
	if upd.IsSharing != nil {
		loc.IsSharing = *upd.IsSharing
	}
	return loc
}

// SharingRequest toggles visibility of a user's location.
type SharingRequest struct {
	IsSharing *bool `json:"isSharing" validate:"required"`
}

// SharingResponse acknowledges a sharing toggle.
type SharingResponse struct {
	Success   bool `json:"success"`
	IsSharing bool `json:"isSharing"`
}

// SharedLocation is a sharing location enriched with public user fields.
type SharedLocation struct {
	StudentLocation
	User *PublicUser `json:"user"`
}
