package models

// Group is a student group (subgroup) of a specialization and study year
type Group struct {
	ID                      int64    `json:"id" example:"1"`
	Name                    string   `json:"name" example:"3141"`
	StudyYear               *int     `json:"studyYear" example:"3"`
	SpecializationShortName string   `json:"specializationShortName" example:"C"`
	GroupIDs                []string `json:"groupIds"` // identifiers of the merged timetable subgroups
}
