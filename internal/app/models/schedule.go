package models

import "time"

// Schedule is the mutable exam record of a subject. At most one exists per subject.
type Schedule struct {
	ID        int64
	SubjectID int64
	RoomIDs   []int64
	Date      *time.Time
	StartTime *string // HH:MM
	EndTime   *string // HH:MM
	Status    *ScheduleStatus
	Message   *string
}

// StatusOrEmpty returns the status or "" when unset
func (s *Schedule) StatusOrEmpty() ScheduleStatus {
	if s.Status == nil {
		return ""
	}
	return *s.Status
}
