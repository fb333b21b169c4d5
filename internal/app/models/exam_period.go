package models

import "time"

// ExamPeriod is an exam-session window. The most recently modified one is current.
type ExamPeriod struct {
	ID         int64
	StartDate  time.Time
	EndDate    time.Time
	ModifiedAt time.Time
}

// Contains reports whether day falls inside the period, both ends inclusive
func (p *ExamPeriod) Contains(day time.Time) bool {
	d := truncateDay(day)
	return !d.Before(truncateDay(p.StartDate)) && !d.After(truncateDay(p.EndDate))
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
