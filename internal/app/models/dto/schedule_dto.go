package dto

// ScheduleRequest represents a schedule to create
type ScheduleRequest struct {
	SubjectID int64   `json:"subjectId" binding:"required"`
	RoomIDs   []int64 `json:"roomIds"`
	Date      *string `json:"date" example:"2025-06-10"`
	StartTime *string `json:"startTime" binding:"omitempty,clock" example:"10:00"`
	EndTime   *string `json:"endTime" binding:"omitempty,clock" example:"12:00"`
	Status    *string `json:"status" example:"pending"`
	Message   *string `json:"message" binding:"omitempty,max=200"`
}

// UpdateScheduleRequest represents a partial schedule update. Only present fields change.
type UpdateScheduleRequest struct {
	SubjectID *int64   `json:"subjectId"`
	RoomIDs   *[]int64 `json:"roomIds"`
	Date      *string  `json:"date"`
	StartTime *string  `json:"startTime" binding:"omitempty,clock"`
	EndTime   *string  `json:"endTime" binding:"omitempty,clock"`
	Status    *string  `json:"status"`
	Message   *string  `json:"message" binding:"omitempty,max=200"`
}

// ScheduleResponse is the wire form of a schedule
type ScheduleResponse struct {
	ID        int64   `json:"id"`
	SubjectID int64   `json:"subjectId"`
	RoomIDs   []int64 `json:"roomIds"`
	Date      *string `json:"date"`
	StartTime *string `json:"startTime"`
	EndTime   *string `json:"endTime"`
	Status    *string `json:"status"`
	Message   *string `json:"message"`
}

// ConflictCheckRequest describes a candidate slot
type ConflictCheckRequest struct {
	Date         string  `json:"date" binding:"required" example:"2025-06-10"`
	StartTime    string  `json:"startTime" binding:"required,clock" example:"10:00"`
	EndTime      string  `json:"endTime" binding:"required,clock" example:"12:00"`
	ScheduleID   *int64  `json:"scheduleId"`
	RoomIDs      []int64 `json:"roomIds"`
	AssistantIDs []int64 `json:"assistantIds"`
}

// RoomConflict is one approved exam occupying a requested room in an overlapping slot
type RoomConflict struct {
	RoomID      int64  `json:"roomId"`
	RoomName    string `json:"roomName"`
	ScheduleID  int64  `json:"scheduleId"`
	SubjectID   int64  `json:"subjectId"`
	SubjectName string `json:"subjectName"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
}

// PersonConflict is an overlapping exam for an assistant or teacher
type PersonConflict struct {
	UserID     int64  `json:"userId"`
	ScheduleID int64  `json:"scheduleId"`
	SubjectID  int64  `json:"subjectId"`
	Date       string `json:"date"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
}

// ConflictReport is the result of a conflict check. UncheckedDimensions names the
// dimensions that are not evaluated yet; their lists are always empty.
type ConflictReport struct {
	HasConflicts        bool             `json:"hasConflicts"`
	RoomConflicts       []RoomConflict   `json:"roomConflicts"`
	AssistantConflicts  []PersonConflict `json:"assistantConflicts"`
	TeacherConflicts    []PersonConflict `json:"teacherConflicts"`
	UncheckedDimensions []string         `json:"uncheckedDimensions"`
}
