package models

// Event is a dated campus happening attached to a building.
type Event struct {
	ID             int64   `db:"id" json:"id"`
	Title          string  `db:"title" json:"title"`
	BuildingID     int64   `db:"building_id" json:"buildingId"`
	RoomIdentifier *string `db:"room_identifier" json:"roomIdentifier"`
	Date           string  `db:"date" json:"date"`
	StartTime      string  `db:"start_time" json:"startTime"`
	EndTime        *string `db:"end_time" json:"endTime"`
	Description    *string `db:"description" json:"description"`
	IsPinned       bool    `db:"is_pinned" json:"isPinned"`
	CreatedBy      int64   `db:"created_by" json:"createdBy"`
}

// CreateEventRequest is the payload for POST /events.
type CreateEventRequest struct {
	Title          string  `json:"title" validate:"required"`
	BuildingID     int64   `json:"buildingId" validate:"required,gt=0"`
	RoomIdentifier *string `json:"roomIdentifier"`
	Date           string  `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime      string  `json:"startTime" validate:"required,datetime=15:04"`
	EndTime        *string `json:"endTime" validate:"omitempty,datetime=15:04"`
	Description    *string `json:"description"`
	IsPinned       bool    `json:"isPinned"`
	CreatedBy      int64   `json:"createdBy" validate:"required,gt=0"`
}

// EventPatch carries a partial event update. Nil fields are left untouched.
type EventPatch struct {
	Title          *string `json:"title" validate:"omitempty,min=1"`
	BuildingID     *int64  `json:"buildingId" validate:"omitempty,gt=0"`
	RoomIdentifier *string `json:"roomIdentifier"`
	Date           *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	StartTime      *string `json:"startTime" validate:"omitempty,datetime=15:04"`
	EndTime        *string `json:"endTime" validate:"omitempty,datetime=15:04"`
	Description    *string `json:"description"`
	IsPinned       *bool   `json:"isPinned"`
}

// Empty reports whether the patch changes nothing.
func (p EventPatch) Empty() bool {
	return p.Title == nil && p.BuildingID == nil && p.RoomIdentifier == nil && p.Date == nil &&
		p.StartTime == nil && p.EndTime == nil && p.Description == nil && p.IsPinned == nil
}

// Apply merges the patch into the event, copying values so the event never
// aliases the patch.
func (p EventPatch) Apply(e *Event) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.BuildingID != nil {
		e.BuildingID = *p.BuildingID
	}
	if p.RoomIdentifier != nil {
		v := *p.RoomIdentifier
		e.RoomIdentifier = &v
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.StartTime != nil {
		e.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		v := *p.EndTime
		e.EndTime = &v
	}
	if p.Description != nil {
		v := *p.Description
		e.Description = &v
	}
	if p.IsPinned != nil {
		e.IsPinned = *p.IsPinned
	}
}
