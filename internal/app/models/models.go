package models

import (
	"fmt"
	"strings"
)

// Role defines the user role
type Role string

const (
	RoleStudentGroup Role = "SG"  // Student group representative
	RoleTeacher      Role = "CD"  // Course director (cadru didactic)
	RoleSecretariat  Role = "SEC" // Secretariat
	RoleAdmin        Role = "ADM" // Administrator
)

// AllRoles lists every valid role
var AllRoles = []Role{RoleStudentGroup, RoleTeacher, RoleSecretariat, RoleAdmin}

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

// ParseRole normalizes s into a Role
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", fmt.Errorf("invalid role '%s'. Allowed values: SG, CD, SEC, ADM", s)
	}
	return r, nil
}

// ScheduleStatus is the state of an exam schedule
type ScheduleStatus string

const (
	StatusPending  ScheduleStatus = "pending"
	StatusProposed ScheduleStatus = "proposed"
	StatusApproved ScheduleStatus = "approved"
	StatusRejected ScheduleStatus = "rejected"
)

// AllStatuses lists the valid schedule statuses in workflow order
var AllStatuses = []ScheduleStatus{StatusPending, StatusProposed, StatusApproved, StatusRejected}

// Notification statuses
const (
	NotificationSent = "trimis"
	NotificationRead = "citit"
)

// Excel template types
const (
	TemplateTypeRoom       = "room"
	TemplateTypeProfessor  = "professor"
	TemplateTypeStudent    = "student"
	TemplateTypeExamReport = "exam-report"
)

// TemplateTypes lists the accepted Excel template types
var TemplateTypes = []string{TemplateTypeRoom, TemplateTypeProfessor, TemplateTypeStudent, TemplateTypeExamReport}
