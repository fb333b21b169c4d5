package dto

// ExamResponse is one exam row with subject, teacher, group and room details
type ExamResponse struct {
	ID                      int64    `json:"id"`
	SubjectID               int64    `json:"subjectId"`
	SubjectName             string   `json:"subjectName"`
	SubjectShortName        string   `json:"subjectShortName"`
	StudyProgram            *string  `json:"studyProgram"`
	TeacherID               int64    `json:"teacherId"`
	TeacherName             string   `json:"teacherName" example:"Neagu Matei"`
	TeacherEmail            string   `json:"teacherEmail"`
	TeacherPhone            *string  `json:"teacherPhone"`
	RoomIDs                 []int64  `json:"roomIds"`
	RoomNames               []string `json:"roomNames"`
	Date                    *string  `json:"date"`
	StartTime               *string  `json:"startTime"`
	EndTime                 *string  `json:"endTime"`
	Duration                int      `json:"duration"`
	Status                  *string  `json:"status"`
	Message                 *string  `json:"message"`
	GroupID                 int64    `json:"groupId"`
	GroupName               string   `json:"groupName"`
	SpecializationShortName string   `json:"specializationShortName"`
	StudyYear               *int     `json:"studyYear"`
}

// ExamProposalRequest is a group's proposal for a subject's exam
type ExamProposalRequest struct {
	SubjectID int64   `json:"subjectId" binding:"required"`
	Date      *string `json:"date" example:"2025-06-10"`
	StartTime *string `json:"startTime" binding:"omitempty,clock"`
	EndTime   *string `json:"endTime" binding:"omitempty,clock"`
	RoomIDs   []int64 `json:"roomIds"`
	Status    *string `json:"status"`
	Message   *string `json:"message" binding:"omitempty,max=200"`
}

// ExamQuery carries the optional exam listing filters
type ExamQuery struct {
	Program   string `form:"program"`
	TeacherID int64  `form:"teacherId"`
	GroupID   int64  `form:"groupId"`
	Status    string `form:"status"`
}
