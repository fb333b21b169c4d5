package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/twaaos/examscheduler/internal/app/controllers"
	"github.com/twaaos/examscheduler/internal/app/models"
	"github.com/twaaos/examscheduler/internal/middleware"
)

// Controllers groups every controller mounted by SetupRouter
type Controllers struct {
	Auth          *controllers.AuthController
	User          *controllers.UserController
	Group         *controllers.GroupController
	Room          *controllers.RoomController
	Subject       *controllers.SubjectController
	Schedule      *controllers.ScheduleController
	Exam          *controllers.ExamController
	Config        *controllers.ConfigController
	Notification  *controllers.NotificationController
	ExcelTemplate *controllers.ExcelTemplateController
	Excel         *controllers.ExcelController
	Sync          *controllers.SyncController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	jwt := authMiddleware.JWTAuth()
	staffOnly := authMiddleware.RoleRequired(models.RoleAdmin, models.RoleSecretariat)
	adminOnly := authMiddleware.RoleRequired(models.RoleAdmin)

	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/ping", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	auth := router.Group("/auth")
	{
		auth.POST("/login", c.Auth.Login)
		auth.POST("/google", c.Auth.GoogleLogin)
		auth.POST("/change-password", jwt, c.Auth.ChangePassword)
		auth.GET("/me", jwt, c.Auth.Me)
	}

	// Reads are public. Writes need a staff token, deletes an admin token. The collector
	// writes with a secretariat service token.
	users := router.Group("/users")
	{
		users.GET("", c.User.GetAll)
		users.GET("/:id", c.User.GetByID)
		users.GET("/email/:email", c.User.GetByEmail)
		users.GET("/role/:role", c.User.GetByRole)
		users.POST("", jwt, staffOnly, c.User.Create)
		users.PUT("/:id", jwt, staffOnly, c.User.Update)
		users.DELETE("/:id", jwt, adminOnly, c.User.Delete)
	}

	groups := router.Group("/groups")
	{
		groups.GET("", c.Group.GetAll)
		groups.GET("/:id", c.Group.GetByID)
		groups.GET("/name/:name", c.Group.GetByName)
		groups.POST("", jwt, staffOnly, c.Group.Create)
		groups.PUT("/:id", jwt, staffOnly, c.Group.Update)
		groups.DELETE("/:id", jwt, adminOnly, c.Group.Delete)
	}

	rooms := router.Group("/rooms")
	{
		rooms.GET("", c.Room.GetAll)
		rooms.GET("/:id", c.Room.GetByID)
		rooms.GET("/building/:building", c.Room.GetByBuilding)
		rooms.POST("", jwt, staffOnly, c.Room.Create)
		rooms.PUT("/:id", jwt, staffOnly, c.Room.Update)
		rooms.DELETE("/:id", jwt, adminOnly, c.Room.Delete)
	}

	subjects := router.Group("/subjects")
	{
		subjects.GET("", c.Subject.GetAll)
		subjects.GET("/:id", c.Subject.GetByID)
		subjects.GET("/group/:groupId", c.Subject.GetByGroup)
		subjects.GET("/teacher/:teacherId", c.Subject.GetByTeacher)
		subjects.GET("/assistant/:assistantId", c.Subject.GetByAssistant)
		subjects.POST("", jwt, staffOnly, c.Subject.Create)
		subjects.PUT("/:id", jwt, staffOnly, c.Subject.Update)
		subjects.DELETE("/:id", jwt, adminOnly, c.Subject.Delete)
	}

	// Teachers and group representatives change schedules through /exams, which checks ownership
	schedules := router.Group("/schedules")
	{
		schedules.GET("", c.Schedule.GetAll)
		schedules.GET("/:id", c.Schedule.GetByID)
		schedules.GET("/room/:roomId", c.Schedule.GetByRoom)
		schedules.GET("/subject/:subjectId", c.Schedule.GetBySubject)
		schedules.GET("/date/:date", c.Schedule.GetByDate)
		schedules.GET("/status/:status", c.Schedule.GetByStatus)
		schedules.GET("/teacher/:teacherId", c.Schedule.GetByTeacher)
		schedules.GET("/group/:groupId", c.Schedule.GetByGroup)
		schedules.GET("/assistants/:subjectId", c.Schedule.GetAssistants)
		schedules.POST("/check-conflicts", c.Schedule.CheckConflicts)
		schedules.POST("", jwt, staffOnly, c.Schedule.Create)
		schedules.PUT("/:id", jwt, staffOnly, c.Schedule.Update)
		schedules.DELETE("/:id", jwt, adminOnly, c.Schedule.Delete)
	}

	exams := router.Group("/exams")
	{
		exams.GET("", c.Exam.GetAll)
		exams.GET("/program/:code", c.Exam.GetByStudyProgram)
		exams.GET("/teacher/:teacherId", c.Exam.GetByTeacher)
		exams.GET("/group/:groupId", c.Exam.GetByGroup)
		exams.GET("/export/excel", c.Exam.ExportExcel)
		exams.GET("/export/pdf", c.Exam.ExportPDF)
		exams.POST("/propose", jwt, c.Exam.Propose)
		exams.PUT("/:id", jwt, c.Exam.Update)
	}

	configs := router.Group("/configs")
	{
		configs.GET("", c.Config.GetAll)
		configs.GET("/current", c.Config.GetCurrent)
		configs.GET("/:id", c.Config.GetByID)
		configs.POST("", jwt, staffOnly, c.Config.Create)
		configs.PUT("/:id", jwt, staffOnly, c.Config.Update)
		configs.DELETE("/:id", jwt, staffOnly, c.Config.Delete)
	}

	notifications := router.Group("/notifications")
	{
		notifications.GET("", c.Notification.GetAll)
		notifications.GET("/:id", c.Notification.GetByID)
		notifications.GET("/user/:userId", c.Notification.GetByUser)
		notifications.GET("/status/:status", c.Notification.GetByStatus)
		notifications.PUT("/:id/read", jwt, c.Notification.MarkAsRead)
		notifications.POST("", jwt, staffOnly, c.Notification.Create)
		notifications.PUT("/:id", jwt, staffOnly, c.Notification.Update)
		notifications.DELETE("/:id", jwt, adminOnly, c.Notification.Delete)
	}

	templates := router.Group("/excel-templates")
	{
		templates.GET("", c.ExcelTemplate.GetAll)
		templates.GET("/:id", c.ExcelTemplate.GetByID)
		templates.GET("/name/:name", c.ExcelTemplate.GetByName)
		templates.GET("/:id/download", c.ExcelTemplate.Download)
		templates.POST("", jwt, staffOnly, c.ExcelTemplate.Upload)
		templates.PUT("/:id", jwt, staffOnly, c.ExcelTemplate.Update)
		templates.DELETE("/:id", jwt, adminOnly, c.ExcelTemplate.Delete)
	}

	router.POST("/excel/group-leaders", jwt, staffOnly, c.Excel.ImportGroupLeaders)

	sync := router.Group("/sync", jwt, adminOnly)
	{
		sync.POST("/data", c.Sync.SyncAllData)
		sync.DELETE("/groups", c.Sync.DeleteAllGroups)
		sync.DELETE("/rooms", c.Sync.DeleteAllRooms)
		sync.DELETE("/users", c.Sync.DeleteAllUsers)
	}
}
