package models

import (
	"strings"
	"time"
)

// Exam is the joined read model of a schedule with its subject, group, teacher and rooms
type Exam struct {
	ID                      int64
	SubjectID               int64
	SubjectName             string
	SubjectShortName        string
	StudyProgram            *string
	TeacherID               int64
	TeacherFirstName        string
	TeacherLastName         string
	TeacherEmail            string
	TeacherPhone            *string
	RoomIDs                 []int64
	RoomNames               []string
	Date                    *time.Time
	StartTime               *string
	EndTime                 *string
	Status                  *ScheduleStatus
	Message                 *string
	GroupID                 int64
	GroupName               string
	SpecializationShortName string
	StudyYear               *int
}

// ExamFilter narrows exam listings. Zero fields are ignored.
type ExamFilter struct {
	StudyProgram string
	TeacherID    int64
	GroupID      int64
	Status       string
}

// TeacherName returns "Last First"
func (e *Exam) TeacherName() string {
	return strings.TrimSpace(e.TeacherLastName + " " + e.TeacherFirstName)
}

// DurationHours is the exam length rounded down to whole hours, at least 1 when both
// times are set and 0 otherwise
func (e *Exam) DurationHours() int {
	if e.StartTime == nil || e.EndTime == nil {
		return 0
	}
	start, errStart := time.Parse("15:04", *e.StartTime)
	end, errEnd := time.Parse("15:04", *e.EndTime)
	if errStart != nil || errEnd != nil {
		return 0
	}
	hours := int(end.Sub(start).Hours())
	if hours < 1 {
		return 1
	}
	return hours
}
