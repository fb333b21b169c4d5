package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twaaos/examscheduler/internal/app/models/dto"
)

func upstreamServer(t *testing.T, overrides map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	bodies := map[string]string{
		"/faculties": `[{"id":"7","shortName":"FEAA"},{"id":5,"shortName":"FIESC"}]`,
		"/groups": `[
			{"id":"101","groupName":"3141a","facultyId":"5","studyYear":"3","specializationShortName":"C"},
			{"id":"102","groupName":"3141a","facultyId":"5","studyYear":"3","specializationShortName":"C"},
			{"id":"103","groupName":"3142a","facultyId":5,"studyYear":3,"specializationShortName":"C"},
			{"id":"200","groupName":"1011","facultyId":"7"}]`,
		"/rooms": `[{"name":"C201","shortName":"","buildingName":null,"capacity":"30","computers":null},{"name":""}]`,
		"/staff": fmt.Sprintf(`[
			{"lastName":"Popescu","firstName":"Ion","emailAddress":"ion.popescu@usv.ro","facultyName":%q,"departmentName":"Calculatoare"},
			{"lastName":"Ionescu","firstName":"Ana","emailAddress":"ana.ionescu@usv.ro","facultyName":"Alta","departmentName":"Exterior"},
			{"lastName":"Alt","firstName":"Cadru","emailAddress":"alt@usv.ro","facultyName":"Alta","departmentName":"Istorie"}]`, targetFaculty),
	}

	mux := http.NewServeMux()
	for path, body := range bodies {
		body := body
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(body))
		})
	}
	mux.HandleFunc("/timetable", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("ID") {
		case "101":
			_, _ = w.Write([]byte(`[[
				{"typeLongName":"curs","topicLongName":"Programare Web","topicShortName":"PW","teacherLastName":"Popescu","teacherFirstName":"Ion"},
				{"typeLongName":"laborator","topicLongName":"Programare Web","topicShortName":"PW","teacherLastName":"Ionescu","teacherFirstName":"Ana"},
				{"typeLongName":"curs","topicLongName":"Baze de date","topicShortName":"BD","teacherLastName":"Necunoscut","teacherFirstName":"Prof"}
			],{"1":"3141a"}]`))
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	})
	for path, h := range overrides {
		mux.HandleFunc("/override"+path, h)
	}

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func sourceConfig(base string) SourceConfig {
	return SourceConfig{
		FacultiesURL: base + "/faculties",
		GroupsURL:    base + "/groups",
		RoomsURL:     base + "/rooms",
		StaffURL:     base + "/staff",
		TimetableURL: base + "/timetable?ID=%s",
		RetryBase:    time.Millisecond,
	}
}

type memStore struct {
	nextID   int64
	groups   []dto.GroupRequest
	rooms    []dto.RoomRequest
	users    []dto.CreateUserRequest
	subjects []dto.SubjectRequest
	rejectAt string
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) CreateGroup(_ context.Context, req dto.GroupRequest) (int64, error) {
	m.groups = append(m.groups, req)
	return m.id(), nil
}

func (m *memStore) CreateRoom(_ context.Context, req dto.RoomRequest) (int64, error) {
	m.rooms = append(m.rooms, req)
	return m.id(), nil
}

func (m *memStore) CreateUser(_ context.Context, req dto.CreateUserRequest) (int64, error) {
	if req.Email == m.rejectAt {
		return 0, errors.New("status 409: Email already exists")
	}
	m.users = append(m.users, req)
	return m.id(), nil
}

func (m *memStore) CreateSubject(_ context.Context, req dto.SubjectRequest) (int64, error) {
	m.subjects = append(m.subjects, req)
	return m.id(), nil
}

func newTestCollector(base string, store Store) *Collector {
	return New(NewSource(sourceConfig(base)), store, Options{
		FacultyShortName: "FIESC",
		TargetFaculty:    targetFaculty,
	}, zerolog.Nop())
}

func TestCollectorRun(t *testing.T) {
	srv := upstreamServer(t, nil)
	store := &memStore{}

	resp, err := newTestCollector(srv.URL, store).Run(context.Background())
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.Groups.Count)
	assert.Equal(t, []string{"101", "102"}, store.groups[0].GroupIDs)
	assert.Equal(t, 1, resp.Rooms.Count)
	assert.Equal(t, "Unknown", store.rooms[0].BuildingName)
	assert.Equal(t, 30, store.rooms[0].Capacity)
	assert.Equal(t, 2, resp.Users.Count)

	// ids: groups 1,2; room 3; users 4 (Popescu), 5 (Ionescu); subject 6
	require.Len(t, store.subjects, 1)
	assert.Equal(t, dto.SubjectRequest{
		Name: "Programare Web", ShortName: "PW", GroupID: 1, TeacherID: 4, AssistantIDs: []int64{5},
	}, store.subjects[0])

	assert.Equal(t, 2, resp.Subjects.Count)
	require.Len(t, resp.Subjects.Results, 2)
	assert.Equal(t, dto.CollectorItemResult{Name: "Programare Web", Status: "success", ID: 6}, resp.Subjects.Results[0])
	assert.Equal(t, "error", resp.Subjects.Results[1].Status)
	assert.Contains(t, resp.Subjects.Results[1].Message, "Prof Necunoscut")
	assert.Equal(t, "Successfully processed 2 groups, 1 rooms, 2 faculty staff and 2 subjects", resp.Message)
}

func TestCollectorRun_StoreFailureIsReported(t *testing.T) {
	srv := upstreamServer(t, nil)
	store := &memStore{rejectAt: "ana.ionescu@usv.ro"}

	resp, err := newTestCollector(srv.URL, store).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, resp.Users.Results, 2)
	assert.Equal(t, dto.CollectorItemResult{Name: "Ana Ionescu", Status: "error", Message: "status 409: Email already exists"}, resp.Users.Results[1])
	require.Len(t, store.subjects, 1)
	assert.Empty(t, store.subjects[0].AssistantIDs)
}

func TestCollectorRun_UpstreamFailure(t *testing.T) {
	srv := upstreamServer(t, nil)
	cfg := sourceConfig(srv.URL)
	cfg.RoomsURL = srv.URL + "/missing"
	c := New(NewSource(cfg), &memStore{}, Options{FacultyShortName: "FIESC"}, zerolog.Nop())

	_, err := c.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch rooms")
}

func TestCollectorRun_UnknownFacultySkipsGroups(t *testing.T) {
	srv := upstreamServer(t, nil)
	store := &memStore{}
	c := New(NewSource(sourceConfig(srv.URL)), store, Options{FacultyShortName: "FIM", TargetFaculty: targetFaculty}, zerolog.Nop())

	resp, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Groups.Count)
	assert.Empty(t, store.subjects)
	assert.Equal(t, 1, resp.Rooms.Count)
}

func TestSourceRetriesServerErrors(t *testing.T) {
	var hits int32
	srv := upstreamServer(t, map[string]http.HandlerFunc{
		"/flaky": func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&hits, 1) == 1 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_, _ = w.Write([]byte(`[{"id":"5","shortName":"FIESC"}]`))
		},
	})
	cfg := sourceConfig(srv.URL)
	cfg.FacultiesURL = srv.URL + "/override/flaky"
	cfg.Retries = 2

	faculties, err := NewSource(cfg).Faculties(context.Background())
	require.NoError(t, err)
	assert.Len(t, faculties, 1)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestStoreEach_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := New(nil, nil, Options{Delay: time.Second}, zerolog.Nop())

	calls := 0
	_, err := storeEach(ctx, c, []string{"a", "b"}, func(s string) string { return s },
		func(context.Context, string) (int64, error) { calls++; return 1, nil }, nil)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
