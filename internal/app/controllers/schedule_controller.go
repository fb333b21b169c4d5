package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/twaaos/examscheduler/internal/app/models"
	"github.com/twaaos/examscheduler/internal/app/models/dto"
	"github.com/twaaos/examscheduler/internal/app/services"
	"github.com/twaaos/examscheduler/internal/middleware"
)

// ScheduleController handles schedule endpoints
type ScheduleController struct {
	scheduleService services.ScheduleService
	logger          zerolog.Logger
}

// NewScheduleController creates a new schedule controller
func NewScheduleController(scheduleService services.ScheduleService, logger zerolog.Logger) *ScheduleController {
	return &ScheduleController{scheduleService: scheduleService, logger: logger}
}

func (c *ScheduleController) respondList(ctx *gin.Context, list []*models.Schedule, err error) {
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, services.ToScheduleResponses(list))
}

// GetAll godoc
// @Summary List schedules
// @Tags schedules
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.ScheduleResponse}
// @Router /schedules [get]
func (c *ScheduleController) GetAll(ctx *gin.Context) {
	list, err := c.scheduleService.GetAll(ctx.Request.Context())
	c.respondList(ctx, list, err)
}

// GetByID godoc
// @Summary Get schedule
// @Tags schedules
// @Produce json
// @Param id path int true "Schedule ID"
// @Success 200 {object} dto.APIResponse{data=dto.ScheduleResponse}
// @Failure 404 {object} dto.ErrorResponse "Schedule not found"
// @Router /schedules/{id} [get]
func (c *ScheduleController) GetByID(ctx *gin.Context) {
	id, valid := pathID(ctx, "id", "schedule ID")
	if !valid {
		return
	}
	schedule, err := c.scheduleService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, services.ToScheduleResponse(schedule))
}

// GetByRoom godoc
// @Summary List schedules using a room
// @Tags schedules
// @Produce json
// @Param roomId path int true "Room ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.ScheduleResponse}
// @Router /schedules/room/{roomId} [get]
func (c *ScheduleController) GetByRoom(ctx *gin.Context) {
	roomID, valid := pathID(ctx, "roomId", "room ID")
	if !valid {
		return
	}
	list, err := c.scheduleService.GetByRoom(ctx.Request.Context(), roomID)
	c.respondList(ctx, list, err)
}

// GetBySubject godoc
// @Summary Get the schedule of a subject
// @Tags schedules
// @Produce json
// @Param subjectId path int true "Subject ID"
// @Success 200 {object} dto.APIResponse{data=dto.ScheduleResponse}
// @Failure 404 {object} dto.ErrorResponse "Schedule not found"
// @Router /schedules/subject/{subjectId} [get]
func (c *ScheduleController) GetBySubject(ctx *gin.Context) {
	subjectID, valid := pathID(ctx, "subjectId", "subject ID")
	if !valid {
		return
	}
	schedule, err := c.scheduleService.GetBySubject(ctx.Request.Context(), subjectID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, services.ToScheduleResponse(schedule))
}

// GetByDate godoc
// @Summary List schedules on a date
// @Tags schedules
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {object} dto.APIResponse{data=[]dto.ScheduleResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid date"
// @Router /schedules/date/{date} [get]
func (c *ScheduleController) GetByDate(ctx *gin.Context) {
	list, err := c.scheduleService.GetByDate(ctx.Request.Context(), ctx.Param("date"))
	c.respondList(ctx, list, err)
}

// GetByStatus godoc
// @Summary List schedules with a status
// @Tags schedules
// @Produce json
// @Param status path string true "pending, proposed, approved or rejected"
// @Success 200 {object} dto.APIResponse{data=[]dto.ScheduleResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid status"
// @Router /schedules/status/{status} [get]
func (c *ScheduleController) GetByStatus(ctx *gin.Context) {
	list, err := c.scheduleService.GetByStatus(ctx.Request.Context(), ctx.Param("status"))
	c.respondList(ctx, list, err)
}

// GetByTeacher godoc
// @Summary List a teacher's schedules
// @Tags schedules
// @Produce json
// @Param teacherId path int true "Teacher ID"
// @Param status query string false "Status filter"
// @Success 200 {object} dto.APIResponse{data=[]dto.ScheduleResponse}
// @Router /schedules/teacher/{teacherId} [get]
func (c *ScheduleController) GetByTeacher(ctx *gin.Context) {
	teacherID, valid := pathID(ctx, "teacherId", "teacher ID")
	if !valid {
		return
	}
	list, err := c.scheduleService.GetByTeacher(ctx.Request.Context(), teacherID, ctx.Query("status"))
	c.respondList(ctx, list, err)
}

// GetByGroup godoc
// @Summary List a group's schedules
// @Tags schedules
// @Produce json
// @Param groupId path int true "Group ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.ScheduleResponse}
// @Router /schedules/group/{groupId} [get]
func (c *ScheduleController) GetByGroup(ctx *gin.Context) {
	groupID, valid := pathID(ctx, "groupId", "group ID")
	if !valid {
		return
	}
	list, err := c.scheduleService.GetByGroup(ctx.Request.Context(), groupID)
	c.respondList(ctx, list, err)
}

// GetAssistants godoc
// @Summary List the assistants of a subject
// @Tags schedules
// @Produce json
// @Param subjectId path int true "Subject ID"
// @Success 200 {object} dto.APIResponse{data=[]models.User}
// @Router /schedules/assistants/{subjectId} [get]
func (c *ScheduleController) GetAssistants(ctx *gin.Context) {
	subjectID, valid := pathID(ctx, "subjectId", "subject ID")
	if !valid {
		return
	}
	users, err := c.scheduleService.GetAssistants(ctx.Request.Context(), subjectID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, users)
}

// Create godoc
// @Summary Create schedule
// @Tags schedules
// @Accept json
// @Produce json
// @Param request body dto.ScheduleRequest true "Schedule"
// @Success 201 {object} dto.APIResponse{data=dto.ScheduleResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 409 {object} dto.ErrorResponse "Conflicts with an approved exam"
// @Security BearerAuth
// @Router /schedules [post]
func (c *ScheduleController) Create(ctx *gin.Context) {
	var req dto.ScheduleRequest
	if !bindJSON(ctx, &req) {
		return
	}
	schedule, err := c.scheduleService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.logger.Info().Int64("scheduleId", schedule.ID).Int64("subjectId", schedule.SubjectID).Msg("Schedule created")
	created(ctx, services.ToScheduleResponse(schedule))
}

// Update godoc
// @Summary Update schedule
// @Description Only the fields present in the body change. Approving re-checks room conflicts.
// @Tags schedules
// @Accept json
// @Produce json
// @Param id path int true "Schedule ID"
// @Param request body dto.UpdateScheduleRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.ScheduleResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 404 {object} dto.ErrorResponse "Schedule not found"
// @Failure 409 {object} dto.ErrorResponse "Conflicts with an approved exam"
// @Security BearerAuth
// @Router /schedules/{id} [put]
func (c *ScheduleController) Update(ctx *gin.Context) {
	id, valid := pathID(ctx, "id", "schedule ID")
	if !valid {
		return
	}
	var req dto.UpdateScheduleRequest
	if !bindJSON(ctx, &req) {
		return
	}
	schedule, err := c.scheduleService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, services.ToScheduleResponse(schedule))
}

// Delete godoc
// @Summary Delete schedule
// @Tags schedules
// @Param id path int true "Schedule ID"
// @Success 204
// @Security BearerAuth
// @Router /schedules/{id} [delete]
func (c *ScheduleController) Delete(ctx *gin.Context) {
	id, valid := pathID(ctx, "id", "schedule ID")
	if !valid {
		return
	}
	if err := c.scheduleService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// CheckConflicts godoc
// @Summary Check a slot against approved exams
// @Tags schedules
// @Accept json
// @Produce json
// @Param request body dto.ConflictCheckRequest true "Candidate slot"
// @Success 200 {object} dto.APIResponse{data=dto.ConflictReport}
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Router /schedules/check-conflicts [post]
func (c *ScheduleController) CheckConflicts(ctx *gin.Context) {
	var req dto.ConflictCheckRequest
	if !bindJSON(ctx, &req) {
		return
	}
	report, err := c.scheduleService.CheckConflicts(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, report)
}
