package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twaaos/examscheduler/internal/app/controllers"
	"github.com/twaaos/examscheduler/internal/app/models"
	"github.com/twaaos/examscheduler/internal/middleware"
	"github.com/twaaos/examscheduler/internal/pkg/auth"
)

// Only the middleware chain is exercised, so the controllers carry no services.
func newTestRouter(t *testing.T) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "routes-secret", AccessTokenExp: time.Hour, TokenIssuer: "test"})
	log := zerolog.Nop()

	router := gin.New()
	SetupRouter(router, Controllers{
		Auth:          controllers.NewAuthController(nil, log),
		User:          controllers.NewUserController(nil),
		Group:         controllers.NewGroupController(nil),
		Room:          controllers.NewRoomController(nil),
		Subject:       controllers.NewSubjectController(nil),
		Schedule:      controllers.NewScheduleController(nil, log),
		Exam:          controllers.NewExamController(nil, log),
		Config:        controllers.NewConfigController(nil),
		Notification:  controllers.NewNotificationController(nil),
		ExcelTemplate: controllers.NewExcelTemplateController(nil),
		Excel:         controllers.NewExcelController(nil, log),
		Sync:          controllers.NewSyncController(nil, log),
	}, middleware.NewAuthMiddleware(jwtService))
	return router, jwtService
}

func bearer(t *testing.T, jwtService *auth.JWTService, role models.Role) string {
	t.Helper()
	token, _, err := jwtService.GenerateAccessToken(&models.User{ID: 1, Email: "u@usv.ro", Role: role})
	require.NoError(t, err)
	return "Bearer " + token
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestProtectedRoutes(t *testing.T) {
	router, jwtService := newTestRouter(t)

	tests := []struct {
		name     string
		method   string
		path     string
		auth     string
		wantCode int
	}{
		{"sync needs a token", http.MethodPost, "/sync/data", "", http.StatusUnauthorized},
		{"sync is admin only", http.MethodPost, "/sync/data", bearer(t, jwtService, models.RoleSecretariat), http.StatusForbidden},
		{"bulk delete is admin only", http.MethodDelete, "/sync/users", bearer(t, jwtService, models.RoleTeacher), http.StatusForbidden},
		{"config writes need staff", http.MethodPost, "/configs", bearer(t, jwtService, models.RoleStudentGroup), http.StatusForbidden},
		{"config delete needs a token", http.MethodDelete, "/configs/1", "", http.StatusUnauthorized},
		{"proposal needs a token", http.MethodPost, "/exams/propose", "", http.StatusUnauthorized},
		{"exam review needs a token", http.MethodPut, "/exams/1", "", http.StatusUnauthorized},
		{"me needs a token", http.MethodGet, "/auth/me", "", http.StatusUnauthorized},
		{"malformed token", http.MethodGet, "/auth/me", "Bearer x.y.z", http.StatusUnauthorized},
		{"anonymous user create", http.MethodPost, "/users", "", http.StatusUnauthorized},
		{"anonymous user update", http.MethodPut, "/users/1", "", http.StatusUnauthorized},
		{"user create needs staff", http.MethodPost, "/users", bearer(t, jwtService, models.RoleTeacher), http.StatusForbidden},
		{"user delete is admin only", http.MethodDelete, "/users/1", bearer(t, jwtService, models.RoleSecretariat), http.StatusForbidden},
		{"anonymous schedule update", http.MethodPut, "/schedules/1", "", http.StatusUnauthorized},
		{"schedule update needs staff", http.MethodPut, "/schedules/1", bearer(t, jwtService, models.RoleStudentGroup), http.StatusForbidden},
		{"anonymous schedule create", http.MethodPost, "/schedules", "", http.StatusUnauthorized},
		{"anonymous group create", http.MethodPost, "/groups", "", http.StatusUnauthorized},
		{"anonymous room update", http.MethodPut, "/rooms/1", "", http.StatusUnauthorized},
		{"subject create needs staff", http.MethodPost, "/subjects", bearer(t, jwtService, models.RoleTeacher), http.StatusForbidden},
		{"anonymous template upload", http.MethodPost, "/excel-templates", "", http.StatusUnauthorized},
		{"template delete is admin only", http.MethodDelete, "/excel-templates/1", bearer(t, jwtService, models.RoleSecretariat), http.StatusForbidden},
		{"anonymous group leader import", http.MethodPost, "/excel/group-leaders", "", http.StatusUnauthorized},
		{"anonymous notification create", http.MethodPost, "/notifications", "", http.StatusUnauthorized},
		{"mark read needs a token", http.MethodPut, "/notifications/1/read", "", http.StatusUnauthorized},
		{"bad id before service", http.MethodGet, "/schedules/zero", "", http.StatusBadRequest},
		{"bad assistant id before service", http.MethodGet, "/subjects/assistant/x", "", http.StatusBadRequest},
		{"unknown route", http.MethodGet, "/nope", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestSecretariatCannotCreateAdmin(t *testing.T) {
	router, jwtService := newTestRouter(t)

	body := strings.NewReader(`{"firstName":"Eve","lastName":"X","email":"eve@usv.ro","role":"ADM","password":"pw"}`)
	req := httptest.NewRequest(http.MethodPost, "/users", body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(t, jwtService, models.RoleSecretariat))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Only administrators can manage administrator accounts")
}
