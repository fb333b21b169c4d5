package models

// Room is an exam room
type Room struct {
	ID           int64  `json:"id" example:"1"`
	Name         string `json:"name" example:"C201"`
	ShortName    string `json:"shortName" example:"C201"`
	BuildingName string `json:"buildingName" example:"C"`
	Capacity     int    `json:"capacity" example:"30"`
	Computers    int    `json:"computers" example:"0"`
}
