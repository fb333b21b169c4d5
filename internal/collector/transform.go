package collector

import (
	"strconv"
	"strings"

	"github.com/twaaos/examscheduler/internal/app/models"
	"github.com/twaaos/examscheduler/internal/app/models/dto"
)

const (
	lectureType        = "curs"
	externalDepartment = "Exterior"
	unknownBuilding    = "Unknown"
)

// Person identifies a teacher by name as the timetable spells it
type Person struct {
	LastName  string
	FirstName string
}

func (p Person) key() string {
	return strings.ToLower(strings.TrimSpace(p.LastName)) + "|" + strings.ToLower(strings.TrimSpace(p.FirstName))
}

func (p Person) String() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// SubjectDraft is a subject taken from a group timetable, before teacher ids are known
type SubjectDraft struct {
	Name       string
	ShortName  string
	Teacher    Person
	Assistants []Person
}

// FindFaculty returns the id of the faculty with the given short name
func FindFaculty(faculties []Faculty, shortName string) (string, bool) {
	for _, f := range faculties {
		if f.ShortName == shortName && f.ID != "" {
			return string(f.ID), true
		}
	}
	return "", false
}

// TransformGroups keeps the groups of facultyID and merges rows that share name, study
// year and specialization. The upstream ids of merged rows are kept in GroupIDs.
func TransformGroups(groups []Group, facultyID string) []dto.GroupRequest {
	var out []dto.GroupRequest
	index := make(map[string]int)

	for _, g := range groups {
		if string(g.FacultyID) != facultyID || strings.TrimSpace(g.GroupName) == "" {
			continue
		}
		year := int(g.StudyYear)
		if year == 0 {
			year = 1
		}
		spec := strings.TrimSpace(g.SpecializationShortName)
		name := strings.TrimSpace(g.GroupName)
		key := name + "_" + strconv.Itoa(year) + "_" + spec

		if i, seen := index[key]; seen {
			if g.ID != "" {
				out[i].GroupIDs = append(out[i].GroupIDs, string(g.ID))
			}
			continue
		}

		req := dto.GroupRequest{
			Name:                    name,
			StudyYear:               &year,
			SpecializationShortName: spec,
			GroupIDs:                []string{},
		}
		if g.ID != "" {
			req.GroupIDs = append(req.GroupIDs, string(g.ID))
		}
		index[key] = len(out)
		out = append(out, req)
	}
	return out
}

// TransformRooms drops unnamed rooms and fills missing fields
func TransformRooms(rooms []Room) []dto.RoomRequest {
	out := make([]dto.RoomRequest, 0, len(rooms))
	for _, r := range rooms {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			continue
		}
		short := strings.TrimSpace(r.ShortName)
		if short == "" {
			short = name
		}
		building := strings.TrimSpace(r.BuildingName)
		if building == "" {
			building = unknownBuilding
		}
		out = append(out, dto.RoomRequest{
			Name:         name,
			ShortName:    short,
			BuildingName: building,
			Capacity:     nonNegative(int(r.Capacity)),
			Computers:    nonNegative(int(r.Computers)),
		})
	}
	return out
}

// TransformStaff keeps members of the target faculty or the external department that
// have a full name and an email address, and maps them to teacher accounts.
func TransformStaff(staff []StaffMember, targetFaculty string) []dto.CreateUserRequest {
	out := make([]dto.CreateUserRequest, 0, len(staff))
	for _, s := range staff {
		if s.FacultyName != targetFaculty && s.DepartmentName != externalDepartment {
			continue
		}
		last, first, email := strings.TrimSpace(s.LastName), strings.TrimSpace(s.FirstName), strings.TrimSpace(s.EmailAddress)
		if last == "" || first == "" || email == "" {
			continue
		}
		out = append(out, dto.CreateUserRequest{
			FirstName:  first,
			LastName:   last,
			Email:      strings.ToLower(email),
			Role:       string(models.RoleTeacher),
			Phone:      optional(s.PhoneNumber),
			Department: optional(s.DepartmentName),
		})
	}
	return out
}

// TransformSubjects turns the lectures of a timetable into subjects, one per topic short
// name. Teachers of other activity types on the same topic become assistants.
func TransformSubjects(activities []Activity) []SubjectDraft {
	var out []SubjectDraft
	index := make(map[string]int)

	for _, a := range activities {
		if a.TypeLongName != lectureType || a.TopicLongName == "" || a.TopicShortName == "" {
			continue
		}
		if _, seen := index[a.TopicShortName]; seen {
			continue
		}
		index[a.TopicShortName] = len(out)
		out = append(out, SubjectDraft{
			Name:      strings.TrimSpace(a.TopicLongName),
			ShortName: strings.TrimSpace(a.TopicShortName),
			Teacher:   Person{LastName: strings.TrimSpace(a.TeacherLastName), FirstName: strings.TrimSpace(a.TeacherFirstName)},
		})
	}

	for _, a := range activities {
		i, ok := index[a.TopicShortName]
		if a.TypeLongName == lectureType || !ok {
			continue
		}
		p := Person{LastName: strings.TrimSpace(a.TeacherLastName), FirstName: strings.TrimSpace(a.TeacherFirstName)}
		if p.LastName == "" || p.FirstName == "" || p.key() == out[i].Teacher.key() {
			continue
		}
		if !containsPerson(out[i].Assistants, p) {
			out[i].Assistants = append(out[i].Assistants, p)
		}
	}
	return out
}

func containsPerson(people []Person, p Person) bool {
	for _, q := range people {
		if q.key() == p.key() {
			return true
		}
	}
	return false
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
