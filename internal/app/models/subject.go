package models

// Subject is a course taught to one group by one teacher
type Subject struct {
	ID           int64   `json:"id" example:"1"`
	Name         string  `json:"name" example:"Programarea calculatoarelor"`
	ShortName    string  `json:"shortName" example:"PC"`
	StudyProgram *string `json:"studyProgram,omitempty"`
	StudyYear    *int    `json:"studyYear,omitempty"`
	GroupID      int64   `json:"groupId"`
	TeacherID    int64   `json:"teacherId"`
	AssistantIDs []int64 `json:"assistantIds"`
}
