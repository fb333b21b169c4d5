package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	authz "github.com/twaaos/examscheduler/internal/app/auth"
	"github.com/twaaos/examscheduler/internal/app/models"
	"github.com/twaaos/examscheduler/internal/app/models/dto"
	"github.com/twaaos/examscheduler/internal/app/services"
	"github.com/twaaos/examscheduler/internal/middleware"
	"github.com/twaaos/examscheduler/internal/pkg/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.RegisterValidators()
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     string
	wantCode int
}

func runHTTPTests(t *testing.T, r *gin.Engine, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(tt.method, tt.path, body)
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.wantCode, w.Code, w.Body.String())
		})
	}
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, target))
}

type stubSchedules struct {
	services.ScheduleService
	created *dto.ScheduleRequest
}

func (s *stubSchedules) GetByID(_ context.Context, id int64) (*models.Schedule, error) {
	if id != 1 {
		return nil, apperrors.NewCustomError(apperrors.ErrScheduleNotFound, "Schedule with ID 2 not found")
	}
	pending := models.StatusPending
	return &models.Schedule{ID: 1, SubjectID: 4, Status: &pending}, nil
}

func (s *stubSchedules) GetByStatus(_ context.Context, status string) ([]*models.Schedule, error) {
	if _, err := services.CheckStatus(status); err != nil {
		return nil, err
	}
	return []*models.Schedule{}, nil
}

func (s *stubSchedules) Create(_ context.Context, req *dto.ScheduleRequest) (*models.Schedule, error) {
	s.created = req
	return &models.Schedule{ID: 9, SubjectID: req.SubjectID, RoomIDs: req.RoomIDs}, nil
}

func (s *stubSchedules) Update(_ context.Context, id int64, _ *dto.UpdateScheduleRequest) (*models.Schedule, error) {
	return nil, apperrors.NewCustomError(apperrors.ErrScheduleConflict, "Schedule conflicts with approved exams")
}

func (s *stubSchedules) Delete(context.Context, int64) error { return nil }

func (s *stubSchedules) CheckConflicts(_ context.Context, req *dto.ConflictCheckRequest) (*dto.ConflictReport, error) {
	return &dto.ConflictReport{RoomConflicts: []dto.RoomConflict{}, UncheckedDimensions: []string{"assistants", "teachers"}}, nil
}

func TestScheduleController(t *testing.T) {
	stub := &stubSchedules{}
	c := NewScheduleController(stub, zerolog.Nop())
	r := gin.New()
	r.GET("/schedules/:id", c.GetByID)
	r.GET("/schedules/status/:status", c.GetByStatus)
	r.POST("/schedules", c.Create)
	r.PUT("/schedules/:id", c.Update)
	r.DELETE("/schedules/:id", c.Delete)
	r.POST("/schedules/check-conflicts", c.CheckConflicts)

	runHTTPTests(t, r, []httpTest{
		{"get existing", http.MethodGet, "/schedules/1", "", http.StatusOK},
		{"get missing", http.MethodGet, "/schedules/2", "", http.StatusNotFound},
		{"bad id", http.MethodGet, "/schedules/abc", "", http.StatusBadRequest},
		{"known status", http.MethodGet, "/schedules/status/approved", "", http.StatusOK},
		{"unknown status", http.MethodGet, "/schedules/status/done", "", http.StatusBadRequest},
		{"create", http.MethodPost, "/schedules", `{"subjectId":4,"roomIds":[1],"startTime":"10:00","endTime":"12:00"}`, http.StatusCreated},
		{"create without subject", http.MethodPost, "/schedules", `{"roomIds":[1]}`, http.StatusBadRequest},
		{"create with bad clock", http.MethodPost, "/schedules", `{"subjectId":4,"startTime":"25:99"}`, http.StatusBadRequest},
		{"create with long message", http.MethodPost, "/schedules", `{"subjectId":4,"message":"` + strings.Repeat("x", 201) + `"}`, http.StatusBadRequest},
		{"blocked approval", http.MethodPut, "/schedules/1", `{"status":"approved"}`, http.StatusConflict},
		{"delete", http.MethodDelete, "/schedules/1", "", http.StatusNoContent},
		{"conflict check", http.MethodPost, "/schedules/check-conflicts", `{"date":"2025-06-10","startTime":"10:00","endTime":"12:00","roomIds":[1]}`, http.StatusOK},
		{"conflict check missing times", http.MethodPost, "/schedules/check-conflicts", `{"date":"2025-06-10"}`, http.StatusBadRequest},
	})

	t.Run("schedule response shape", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/schedules/1", nil))
		var got dto.ScheduleResponse
		decodeData(t, w, &got)
		assert.Equal(t, int64(4), got.SubjectID)
		assert.Equal(t, []int64{}, got.RoomIDs)
		require.NotNil(t, got.Status)
		assert.Equal(t, "pending", *got.Status)
	})
}

type stubUsers struct {
	services.UserService
}

func (stubUsers) Create(_ context.Context, req *dto.CreateUserRequest) (*models.User, error) {
	if req.Email == "taken@usv.ro" {
		return nil, apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists, "User with email taken@usv.ro already exists")
	}
	if req.Role == "SG" && req.GroupID == nil {
		return nil, apperrors.NewValidationError("Group ID is required for users with role 'SG'")
	}
	return &models.User{ID: 5, Email: req.Email, Role: models.Role(req.Role)}, nil
}

func (stubUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	if id == 1 {
		return &models.User{ID: 1, Email: "admin@usv.ro", Role: models.RoleAdmin}, nil
	}
	return &models.User{ID: id, Email: "t@usv.ro", Role: models.RoleTeacher}, nil
}

func (stubUsers) Update(_ context.Context, id int64, _ *dto.UpdateUserRequest) (*models.User, error) {
	return &models.User{ID: id}, nil
}

func (stubUsers) GetByRole(_ context.Context, role string) ([]*models.User, error) {
	if _, err := models.ParseRole(role); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	return []*models.User{}, nil
}

func TestUserController(t *testing.T) {
	c := NewUserController(stubUsers{})
	r := gin.New()
	r.POST("/users", asActor(2, models.RoleSecretariat, nil), c.Create)
	r.PUT("/users/:id", asActor(2, models.RoleSecretariat, nil), c.Update)
	r.PUT("/admin/users/:id", asActor(1, models.RoleAdmin, nil), c.Update)
	r.POST("/anonymous/users", c.Create)
	r.GET("/users/role/:role", c.GetByRole)

	runHTTPTests(t, r, []httpTest{
		{"create teacher", http.MethodPost, "/users", `{"firstName":"A","lastName":"B","email":"a@usv.ro","role":"CD"}`, http.StatusCreated},
		{"duplicate email", http.MethodPost, "/users", `{"firstName":"A","lastName":"B","email":"taken@usv.ro","role":"CD"}`, http.StatusConflict},
		{"student without group", http.MethodPost, "/users", `{"firstName":"A","lastName":"B","email":"s@student.usv.ro","role":"SG"}`, http.StatusBadRequest},
		{"invalid email", http.MethodPost, "/users", `{"firstName":"A","lastName":"B","email":"nope","role":"CD"}`, http.StatusBadRequest},
		{"secretariat cannot create admin", http.MethodPost, "/users", `{"firstName":"A","lastName":"B","email":"x@usv.ro","role":"ADM","password":"pw"}`, http.StatusForbidden},
		{"no actor", http.MethodPost, "/anonymous/users", `{"firstName":"A","lastName":"B","email":"a@usv.ro","role":"CD"}`, http.StatusUnauthorized},
		{"secretariat updates teacher", http.MethodPut, "/users/5", `{"password":"newpass"}`, http.StatusOK},
		{"secretariat cannot reset admin password", http.MethodPut, "/users/1", `{"password":"owned"}`, http.StatusForbidden},
		{"secretariat cannot promote to admin", http.MethodPut, "/users/5", `{"role":"ADM"}`, http.StatusForbidden},
		{"admin updates admin", http.MethodPut, "/admin/users/1", `{"password":"rotated"}`, http.StatusOK},
		{"role filter", http.MethodGet, "/users/role/CD", "", http.StatusOK},
		{"unknown role", http.MethodGet, "/users/role/XX", "", http.StatusBadRequest},
	})
}

type stubExams struct {
	services.ExamService
	actor authz.Actor
	query dto.ExamQuery
}

func (s *stubExams) GetFiltered(_ context.Context, query dto.ExamQuery) ([]dto.ExamResponse, error) {
	s.query = query
	return []dto.ExamResponse{}, nil
}

func (s *stubExams) CreateExamProposal(_ context.Context, actor authz.Actor, req *dto.ExamProposalRequest) (*dto.ExamResponse, error) {
	s.actor = actor
	if actor.GroupID == nil || *actor.GroupID != 7 {
		return nil, apperrors.NewForbiddenError("You can only propose exams for your own group")
	}
	return &dto.ExamResponse{ID: 1, SubjectID: req.SubjectID}, nil
}

func (s *stubExams) ExportExcel(context.Context, dto.ExamQuery) ([]byte, error) {
	return []byte("xlsx"), nil
}

func asActor(userID int64, role models.Role, groupID *int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Set(middleware.ContextRole, string(role))
		if groupID != nil {
			c.Set(middleware.ContextGroupID, *groupID)
		}
		c.Next()
	}
}

func TestExamController(t *testing.T) {
	stub := &stubExams{}
	c := NewExamController(stub, zerolog.Nop())
	group7, group8 := int64(7), int64(8)

	r := gin.New()
	r.GET("/exams", c.GetAll)
	r.GET("/exams/export/excel", c.ExportExcel)
	r.POST("/exams/propose", c.Propose)
	r.POST("/own/propose", asActor(12, models.RoleStudentGroup, &group7), c.Propose)
	r.POST("/other/propose", asActor(13, models.RoleStudentGroup, &group8), c.Propose)

	runHTTPTests(t, r, []httpTest{
		{"list", http.MethodGet, "/exams?program=Calculatoare&groupId=7", "", http.StatusOK},
		{"bad filter", http.MethodGet, "/exams?teacherId=abc", "", http.StatusBadRequest},
		{"propose anonymous", http.MethodPost, "/exams/propose", `{"subjectId":4}`, http.StatusUnauthorized},
		{"propose own group", http.MethodPost, "/own/propose", `{"subjectId":4,"date":"2025-06-10"}`, http.StatusCreated},
		{"propose other group", http.MethodPost, "/other/propose", `{"subjectId":4}`, http.StatusForbidden},
		{"propose without subject", http.MethodPost, "/own/propose", `{}`, http.StatusBadRequest},
	})

	t.Run("query reaches service", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/exams?program=Calculatoare&teacherId=3&status=approved", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, dto.ExamQuery{Program: "Calculatoare", TeacherID: 3, Status: "approved"}, stub.query)
	})

	t.Run("actor comes from context", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/own/propose", strings.NewReader(`{"subjectId":4}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		assert.Equal(t, int64(12), stub.actor.UserID)
		assert.Equal(t, models.RoleStudentGroup, stub.actor.Role)
	})

	t.Run("excel export is an attachment", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/exams/export/excel", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, contentTypeXLSX, w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment; filename=\"examene_")
		assert.Equal(t, "xlsx", w.Body.String())
	})
}

type stubTemplates struct {
	services.ExcelTemplateService
	form dto.ExcelTemplateForm
	file *services.UploadedFile
}

func (s *stubTemplates) Upload(_ context.Context, form dto.ExcelTemplateForm, file services.UploadedFile) (*models.ExcelTemplate, error) {
	s.form, s.file = form, &file
	return &models.ExcelTemplate{ID: 1, Name: form.Name, Type: form.Type, FileName: file.Name}, nil
}

func (s *stubTemplates) Update(_ context.Context, id int64, form dto.ExcelTemplateForm, file *services.UploadedFile) (*models.ExcelTemplate, error) {
	s.form, s.file = form, file
	return &models.ExcelTemplate{ID: id, Name: form.Name}, nil
}

func (s *stubTemplates) Download(_ context.Context, id int64) (*models.ExcelTemplate, error) {
	return &models.ExcelTemplate{ID: id, FileName: "old.xls", Content: []byte("legacy")}, nil
}

func multipartBody(t *testing.T, fields map[string]string, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

func TestExcelTemplateController(t *testing.T) {
	stub := &stubTemplates{}
	c := NewExcelTemplateController(stub)
	r := gin.New()
	r.POST("/excel-templates", c.Upload)
	r.PUT("/excel-templates/:id", c.Update)
	r.GET("/excel-templates/:id/download", c.Download)

	t.Run("upload reads fields and file", func(t *testing.T) {
		body, contentType := multipartBody(t, map[string]string{"name": "Sesiune", "type": "exam-report", "groupId": "7"}, "sesiune.xlsx", []byte("data"))
		req := httptest.NewRequest(http.MethodPost, "/excel-templates", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, "Sesiune", stub.form.Name)
		require.NotNil(t, stub.form.GroupID)
		assert.Equal(t, int64(7), *stub.form.GroupID)
		assert.Equal(t, "sesiune.xlsx", stub.file.Name)
		assert.Equal(t, []byte("data"), stub.file.Content)
	})

	t.Run("upload without file", func(t *testing.T) {
		body, contentType := multipartBody(t, map[string]string{"type": "exam-report"}, "", nil)
		req := httptest.NewRequest(http.MethodPost, "/excel-templates", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("update keeps content when no file is sent", func(t *testing.T) {
		body, contentType := multipartBody(t, map[string]string{"name": "Nou"}, "", nil)
		req := httptest.NewRequest(http.MethodPut, "/excel-templates/3", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Nil(t, stub.file)
	})

	t.Run("download of an xls template", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/excel-templates/3/download", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/vnd.ms-excel", w.Header().Get("Content-Type"))
		assert.Equal(t, "legacy", w.Body.String())
	})
}

type stubSync struct {
	services.SyncService
}

func (stubSync) SyncAllData(context.Context) (*dto.SyncResult, error) {
	return &dto.SyncResult{Success: true, Message: "Synchronization completed with 1 error(s)", Errors: []string{"collector: down"}}, nil
}

func (stubSync) DeleteAllRooms(context.Context) (int64, error) { return 4, nil }

func TestSyncController(t *testing.T) {
	c := NewSyncController(stubSync{}, zerolog.Nop())
	r := gin.New()
	r.POST("/sync/data", c.SyncAllData)
	r.DELETE("/sync/rooms", c.DeleteAllRooms)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sync/data", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var result dto.SyncResult
	decodeData(t, w, &result)
	assert.True(t, result.Success)
	assert.Equal(t, []string{"collector: down"}, result.Errors)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/sync/rooms", nil))
	var count dto.CountResponse
	decodeData(t, w, &count)
	assert.Equal(t, int64(4), count.Count)
}

type stubGroups struct {
	services.GroupService
}

func (stubGroups) GetByName(_ context.Context, name string) (*models.Group, error) {
	if name != "3141" {
		return nil, apperrors.NewCustomError(apperrors.ErrGroupNotFound, "Group with name '"+name+"' not found")
	}
	return &models.Group{ID: 7, Name: name}, nil
}

type stubRooms struct {
	services.RoomService
}

func (stubRooms) GetByBuilding(_ context.Context, building string) ([]*models.Room, error) {
	return []*models.Room{{ID: 1, Name: "C201", BuildingName: building}}, nil
}

type stubSubjects struct {
	services.SubjectService
}

func (stubSubjects) GetByAssistant(_ context.Context, assistantID int64) ([]*models.Subject, error) {
	return []*models.Subject{{ID: 3, Name: "PC", AssistantIDs: []int64{assistantID}}}, nil
}

func TestLookupControllers(t *testing.T) {
	r := gin.New()
	r.GET("/groups/name/:name", NewGroupController(stubGroups{}).GetByName)
	r.GET("/rooms/building/:building", NewRoomController(stubRooms{}).GetByBuilding)
	r.GET("/subjects/assistant/:assistantId", NewSubjectController(stubSubjects{}).GetByAssistant)

	runHTTPTests(t, r, []httpTest{
		{"group by name", http.MethodGet, "/groups/name/3141", "", http.StatusOK},
		{"unknown group name", http.MethodGet, "/groups/name/9999", "", http.StatusNotFound},
		{"rooms by building", http.MethodGet, "/rooms/building/C", "", http.StatusOK},
		{"subjects by assistant", http.MethodGet, "/subjects/assistant/11", "", http.StatusOK},
		{"bad assistant id", http.MethodGet, "/subjects/assistant/abc", "", http.StatusBadRequest},
	})

	req := httptest.NewRequest(http.MethodGet, "/subjects/assistant/11", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var subjects []models.Subject
	decodeData(t, w, &subjects)
	require.Len(t, subjects, 1)
	assert.Equal(t, []int64{11}, subjects[0].AssistantIDs)
}
