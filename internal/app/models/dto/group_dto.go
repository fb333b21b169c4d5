package dto

// GroupRequest represents a group to create
type GroupRequest struct {
	Name                    string   `json:"name" binding:"required"`
	StudyYear               *int     `json:"studyYear"`
	SpecializationShortName string   `json:"specializationShortName"`
	GroupIDs                []string `json:"groupIds"`
}

// UpdateGroupRequest represents a partial group update
type UpdateGroupRequest struct {
	Name                    *string   `json:"name"`
	StudyYear               *int      `json:"studyYear"`
	SpecializationShortName *string   `json:"specializationShortName"`
	GroupIDs                *[]string `json:"groupIds"`
}

// RoomRequest represents a room to create
type RoomRequest struct {
	Name         string `json:"name" binding:"required"`
	ShortName    string `json:"shortName"`
	BuildingName string `json:"buildingName"`
	Capacity     int    `json:"capacity" binding:"min=0"`
	Computers    int    `json:"computers" binding:"min=0"`
}

// UpdateRoomRequest represents a partial room update
type UpdateRoomRequest struct {
	Name         *string `json:"name"`
	ShortName    *string `json:"shortName"`
	BuildingName *string `json:"buildingName"`
	Capacity     *int    `json:"capacity" binding:"omitempty,min=0"`
	Computers    *int    `json:"computers" binding:"omitempty,min=0"`
}
