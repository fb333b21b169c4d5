package collector

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const targetFaculty = "Facultatea de Inginerie Electrică şi Ştiinţa Calculatoarelor"

func TestFlexDecoding(t *testing.T) {
	var g Group
	require.NoError(t, json.Unmarshal([]byte(`{"id":1234,"facultyId":" 5 ","studyYear":"3"}`), &g))
	assert.Equal(t, flexString("1234"), g.ID)
	assert.Equal(t, flexString("5"), g.FacultyID)
	assert.Equal(t, flexInt(3), g.StudyYear)

	var r Room
	require.NoError(t, json.Unmarshal([]byte(`{"name":"C201","capacity":null,"computers":"n/a"}`), &r))
	assert.Equal(t, flexInt(0), r.Capacity)
	assert.Equal(t, flexInt(0), r.Computers)
}

func TestFindFaculty(t *testing.T) {
	faculties := []Faculty{{ID: "7", ShortName: "FEAA"}, {ID: "5", ShortName: "FIESC"}}

	id, ok := FindFaculty(faculties, "FIESC")
	assert.True(t, ok)
	assert.Equal(t, "5", id)

	_, ok = FindFaculty(faculties, "FIM")
	assert.False(t, ok)
}

func TestTransformGroups(t *testing.T) {
	groups := []Group{
		{ID: "101", GroupName: "3141a", FacultyID: "5", StudyYear: 3, SpecializationShortName: "C"},
		{ID: "102", GroupName: "3141a", FacultyID: "5", StudyYear: 3, SpecializationShortName: "C"},
		{ID: "103", GroupName: "3141a", FacultyID: "5", StudyYear: 3, SpecializationShortName: "AIA"},
		{ID: "104", GroupName: "1111", FacultyID: "5"},
		{ID: "105", GroupName: "", FacultyID: "5"},
		{ID: "200", GroupName: "3141a", FacultyID: "7", StudyYear: 3, SpecializationShortName: "C"},
	}

	out := TransformGroups(groups, "5")

	require.Len(t, out, 3)
	assert.Equal(t, "3141a", out[0].Name)
	assert.Equal(t, []string{"101", "102"}, out[0].GroupIDs)
	assert.Equal(t, 3, *out[0].StudyYear)
	assert.Equal(t, []string{"103"}, out[1].GroupIDs)
	assert.Equal(t, "AIA", out[1].SpecializationShortName)
	assert.Equal(t, 1, *out[2].StudyYear)
}

func TestTransformRooms(t *testing.T) {
	out := TransformRooms([]Room{
		{Name: "C201", Capacity: 30},
		{Name: " "},
		{Name: "Aula", ShortName: "A", BuildingName: "E", Capacity: -4, Computers: 12},
	})

	require.Len(t, out, 2)
	assert.Equal(t, "C201", out[0].ShortName)
	assert.Equal(t, "Unknown", out[0].BuildingName)
	assert.Equal(t, 30, out[0].Capacity)
	assert.Equal(t, 0, out[1].Capacity)
	assert.Equal(t, 12, out[1].Computers)
}

func TestTransformStaff(t *testing.T) {
	out := TransformStaff([]StaffMember{
		{LastName: "Popescu", FirstName: "Ion", EmailAddress: "Ion.Popescu@usv.ro", FacultyName: targetFaculty, DepartmentName: "Calculatoare", PhoneNumber: "0230"},
		{LastName: "Ionescu", FirstName: "Ana", EmailAddress: "ana@usv.ro", FacultyName: "Alta", DepartmentName: "Exterior"},
		{LastName: "Fara", FirstName: "Email", FacultyName: targetFaculty},
		{LastName: "Alt", FirstName: "Cadru", EmailAddress: "alt@usv.ro", FacultyName: "Alta", DepartmentName: "Istorie"},
	}, targetFaculty)

	require.Len(t, out, 2)
	assert.Equal(t, "ion.popescu@usv.ro", out[0].Email)
	assert.Equal(t, "CD", out[0].Role)
	require.NotNil(t, out[0].Phone)
	assert.Equal(t, "0230", *out[0].Phone)
	assert.Nil(t, out[1].Phone)
	assert.Equal(t, "Exterior", *out[1].Department)
}

func TestTransformSubjects(t *testing.T) {
	activities := []Activity{
		{TypeLongName: "curs", TopicLongName: "Programare Web", TopicShortName: "PW", TeacherLastName: "Popescu", TeacherFirstName: "Ion"},
		{TypeLongName: "curs", TopicLongName: "Programare Web", TopicShortName: "PW", TeacherLastName: "Altul", TeacherFirstName: "Prof"},
		{TypeLongName: "laborator", TopicShortName: "PW", TeacherLastName: "Ionescu", TeacherFirstName: "Ana"},
		{TypeLongName: "seminar", TopicShortName: "PW", TeacherLastName: "Ionescu", TeacherFirstName: "Ana"},
		{TypeLongName: "laborator", TopicShortName: "PW", TeacherLastName: "popescu", TeacherFirstName: "ion"},
		{TypeLongName: "laborator", TopicShortName: "XX", TeacherLastName: "Nimeni", TeacherFirstName: "Nimic"},
		{TypeLongName: "curs", TopicLongName: "", TopicShortName: "BD"},
	}

	out := TransformSubjects(activities)

	require.Len(t, out, 1)
	assert.Equal(t, "Programare Web", out[0].Name)
	assert.Equal(t, Person{LastName: "Popescu", FirstName: "Ion"}, out[0].Teacher)
	assert.Equal(t, []Person{{LastName: "Ionescu", FirstName: "Ana"}}, out[0].Assistants)
}
