package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/twaaos/examscheduler/internal/app/models/dto"
	"github.com/twaaos/examscheduler/internal/app/services"
	"github.com/twaaos/examscheduler/internal/middleware"
)

// SubjectController handles subject endpoints
type SubjectController struct {
	subjectService services.SubjectService
}

// NewSubjectController creates a new subject controller
func NewSubjectController(subjectService services.SubjectService) *SubjectController {
	return &SubjectController{subjectService: subjectService}
}

// GetAll godoc
// @Summary List subjects
// @Tags subjects
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Subject}
// @Router /subjects [get]
func (c *SubjectController) GetAll(ctx *gin.Context) {
	subjects, err := c.subjectService.GetAll(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, subjects)
}

// GetByID godoc
// @Summary Get subject
// @Tags subjects
// @Produce json
// @Param id path int true "Subject ID"
// @Success 200 {object} dto.APIResponse{data=models.Subject}
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Router /subjects/{id} [get]
func (c *SubjectController) GetByID(ctx *gin.Context) {
	id, valid := pathID(ctx, "id", "subject ID")
	if !valid {
		return
	}
	subject, err := c.subjectService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, subject)
}

// GetByGroup godoc
// @Summary List a group's subjects
// @Tags subjects
// @Produce json
// @Param groupId path int true "Group ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Subject}
// @Router /subjects/group/{groupId} [get]
func (c *SubjectController) GetByGroup(ctx *gin.Context) {
	groupID, valid := pathID(ctx, "groupId", "group ID")
	if !valid {
		return
	}
	subjects, err := c.subjectService.GetByGroup(ctx.Request.Context(), groupID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, subjects)
}

// GetByTeacher godoc
// @Summary List a teacher's subjects
// @Tags subjects
// @Produce json
// @Param teacherId path int true "Teacher ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Subject}
// @Router /subjects/teacher/{teacherId} [get]
func (c *SubjectController) GetByTeacher(ctx *gin.Context) {
	teacherID, valid := pathID(ctx, "teacherId", "teacher ID")
	if !valid {
		return
	}
	subjects, err := c.subjectService.GetByTeacher(ctx.Request.Context(), teacherID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, subjects)
}

// GetByAssistant godoc
// @Summary List an assistant's subjects
// @Tags subjects
// @Produce json
// @Param assistantId path int true "Assistant ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Subject}
// @Router /subjects/assistant/{assistantId} [get]
func (c *SubjectController) GetByAssistant(ctx *gin.Context) {
	assistantID, valid := pathID(ctx, "assistantId", "assistant ID")
	if !valid {
		return
	}
	subjects, err := c.subjectService.GetByAssistant(ctx.Request.Context(), assistantID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, subjects)
}

// Create godoc
// @Summary Create subject
// @Tags subjects
// @Accept json
// @Produce json
// @Param request body dto.SubjectRequest true "Subject"
// @Success 201 {object} dto.APIResponse{data=models.Subject}
// @Failure 400 {object} dto.ErrorResponse "Teacher, assistant or group invalid"
// @Security BearerAuth
// @Router /subjects [post]
func (c *SubjectController) Create(ctx *gin.Context) {
	var req dto.SubjectRequest
	if !bindJSON(ctx, &req) {
		return
	}
	subject, err := c.subjectService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	created(ctx, subject)
}

// Update godoc
// @Summary Update subject
// @Tags subjects
// @Accept json
// @Produce json
// @Param id path int true "Subject ID"
// @Param request body dto.UpdateSubjectRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Subject}
// @Security BearerAuth
// @Router /subjects/{id} [put]
func (c *SubjectController) Update(ctx *gin.Context) {
	id, valid := pathID(ctx, "id", "subject ID")
	if !valid {
		return
	}
	var req dto.UpdateSubjectRequest
	if !bindJSON(ctx, &req) {
		return
	}
	subject, err := c.subjectService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, subject)
}

// Delete godoc
// @Summary Delete subject
// @Tags subjects
// @Param id path int true "Subject ID"
// @Success 204
// @Security BearerAuth
// @Router /subjects/{id} [delete]
func (c *SubjectController) Delete(ctx *gin.Context) {
	id, valid := pathID(ctx, "id", "subject ID")
	if !valid {
		return
	}
	if err := c.subjectService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
