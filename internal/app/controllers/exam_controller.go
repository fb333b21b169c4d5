package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/twaaos/examscheduler/internal/app/models/dto"
	"github.com/twaaos/examscheduler/internal/app/services"
	"github.com/twaaos/examscheduler/internal/middleware"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

// ExamController handles the exam listing, proposal and export endpoints
type ExamController struct {
	examService services.ExamService
	logger      zerolog.Logger
}

// NewExamController creates a new exam controller
func NewExamController(examService services.ExamService, logger zerolog.Logger) *ExamController {
	return &ExamController{examService: examService, logger: logger}
}

func bindExamQuery(ctx *gin.Context) (dto.ExamQuery, bool) {
	var query dto.ExamQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.BindError(ctx, err)
		return query, false
	}
	return query, true
}

func (c *ExamController) respondList(ctx *gin.Context, exams []dto.ExamResponse, err error) {
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, exams)
}

// GetAll lists exams, optionally filtered
// @Summary List exams
// @Tags exams
// @Produce json
// @Param program query string false "Study program"
// @Param teacherId query int false "Teacher ID"
// @Param groupId query int false "Group ID"
// @Param status query string false "Schedule status"
// @Success 200 {object} dto.APIResponse{data=[]dto.ExamResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Router /exams [get]
func (c *ExamController) GetAll(ctx *gin.Context) {
	query, valid := bindExamQuery(ctx)
	if !valid {
		return
	}
	exams, err := c.examService.GetFiltered(ctx.Request.Context(), query)
	c.respondList(ctx, exams, err)
}

// GetByStudyProgram godoc
// @Summary List exams of a study program
// @Tags exams
// @Produce json
// @Param code path string true "Study program"
// @Success 200 {object} dto.APIResponse{data=[]dto.ExamResponse}
// @Router /exams/program/{code} [get]
func (c *ExamController) GetByStudyProgram(ctx *gin.Context) {
	exams, err := c.examService.GetByStudyProgram(ctx.Request.Context(), ctx.Param("code"))
	c.respondList(ctx, exams, err)
}

// GetByTeacher godoc
// @Summary List a teacher's exams
// @Tags exams
// @Produce json
// @Param teacherId path int true "Teacher ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.ExamResponse}
// @Router /exams/teacher/{teacherId} [get]
func (c *ExamController) GetByTeacher(ctx *gin.Context) {
	teacherID, valid := pathID(ctx, "teacherId", "teacher ID")
	if !valid {
		return
	}
	exams, err := c.examService.GetByTeacher(ctx.Request.Context(), teacherID)
	c.respondList(ctx, exams, err)
}

// GetByGroup godoc
// @Summary List a group's exams
// @Tags exams
// @Produce json
// @Param groupId path int true "Group ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.ExamResponse}
// @Router /exams/group/{groupId} [get]
func (c *ExamController) GetByGroup(ctx *gin.Context) {
	groupID, valid := pathID(ctx, "groupId", "group ID")
	if !valid {
		return
	}
	exams, err := c.examService.GetByGroup(ctx.Request.Context(), groupID)
	c.respondList(ctx, exams, err)
}

// Propose records a group's exam proposal
// @Summary Propose an exam
// @Description A student group leader proposes a date, time and rooms for one of the group's subjects
// @Tags exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ExamProposalRequest true "Proposal"
// @Success 201 {object} dto.APIResponse{data=dto.ExamResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Subject belongs to another group"
// @Router /exams/propose [post]
func (c *ExamController) Propose(ctx *gin.Context) {
	actor, found := currentActor(ctx)
	if !found {
		return
	}
	var req dto.ExamProposalRequest
	if !bindJSON(ctx, &req) {
		return
	}

	exam, err := c.examService.CreateExamProposal(ctx.Request.Context(), actor, &req)
	if err != nil {
		c.logger.Warn().Err(err).Int64("userId", actor.UserID).Int64("subjectId", req.SubjectID).Msg("Exam proposal rejected")
		middleware.HandleAPIError(ctx, err)
		return
	}
	created(ctx, exam)
}

// Update reviews or edits an exam
// @Summary Update an exam
// @Description Teachers review proposals for their subjects; staff may edit any exam
// @Tags exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Schedule ID"
// @Param request body dto.UpdateScheduleRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.ExamResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 403 {object} dto.ErrorResponse "Not allowed"
// @Failure 409 {object} dto.ErrorResponse "Conflicts with an approved exam"
// @Router /exams/{id} [put]
func (c *ExamController) Update(ctx *gin.Context) {
	actor, found := currentActor(ctx)
	if !found {
		return
	}
	id, valid := pathID(ctx, "id", "exam ID")
	if !valid {
		return
	}
	var req dto.UpdateScheduleRequest
	if !bindJSON(ctx, &req) {
		return
	}

	exam, err := c.examService.UpdateExam(ctx.Request.Context(), actor, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, exam)
}

// ExportExcel godoc
// @Summary Export exams as a spreadsheet
// @Tags exams
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param program query string false "Study program"
// @Param teacherId query int false "Teacher ID"
// @Param groupId query int false "Group ID"
// @Param status query string false "Schedule status"
// @Success 200 {file} binary
// @Router /exams/export/excel [get]
func (c *ExamController) ExportExcel(ctx *gin.Context) {
	query, valid := bindExamQuery(ctx)
	if !valid {
		return
	}
	content, err := c.examService.ExportExcel(ctx.Request.Context(), query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	attachment(ctx, exportName("examene", "xlsx"), contentTypeXLSX, content)
}

// ExportPDF godoc
// @Summary Export exams as a PDF
// @Tags exams
// @Produce application/pdf
// @Param program query string false "Study program"
// @Param teacherId query int false "Teacher ID"
// @Param groupId query int false "Group ID"
// @Param status query string false "Schedule status"
// @Success 200 {file} binary
// @Router /exams/export/pdf [get]
func (c *ExamController) ExportPDF(ctx *gin.Context) {
	query, valid := bindExamQuery(ctx)
	if !valid {
		return
	}
	content, err := c.examService.ExportPDF(ctx.Request.Context(), query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	attachment(ctx, exportName("examene", "pdf"), contentTypePDF, content)
}
