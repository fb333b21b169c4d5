package dto

// SubjectRequest represents a subject to create
type SubjectRequest struct {
	Name         string  `json:"name" binding:"required"`
	ShortName    string  `json:"shortName"`
	StudyProgram *string `json:"studyProgram"`
	StudyYear    *int    `json:"studyYear"`
	GroupID      int64   `json:"groupId" binding:"required"`
	TeacherID    int64   `json:"teacherId" binding:"required"`
	AssistantIDs []int64 `json:"assistantIds"`
}

// UpdateSubjectRequest represents a partial subject update
type UpdateSubjectRequest struct {
	Name         *string  `json:"name"`
	ShortName    *string  `json:"shortName"`
	StudyProgram *string  `json:"studyProgram"`
	StudyYear    *int     `json:"studyYear"`
	GroupID      *int64   `json:"groupId"`
	TeacherID    *int64   `json:"teacherId"`
	AssistantIDs *[]int64 `json:"assistantIds"`
}
