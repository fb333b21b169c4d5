package controllers

import (
	"bytes"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/twaaos/examscheduler/internal/app/services"
	"github.com/twaaos/examscheduler/internal/middleware"
	"github.com/twaaos/examscheduler/internal/pkg/validation"
)

// ExcelController handles spreadsheet imports
type ExcelController struct {
	excelService services.ExcelService
	logger       zerolog.Logger
}

// NewExcelController creates a new excel controller
func NewExcelController(excelService services.ExcelService, logger zerolog.Logger) *ExcelController {
	return &ExcelController{excelService: excelService, logger: logger}
}

// ImportGroupLeaders creates SG users from a spreadsheet
// @Summary Import group leaders
// @Description Reads the columns Nume, Prenume, Email and Grupa from the first sheet and creates one SG user per row. Existing emails are skipped.
// @Tags excel
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Spreadsheet"
// @Success 200 {object} dto.APIResponse{data=dto.ImportResult}
// @Failure 400 {object} dto.ErrorResponse "Invalid file"
// @Security BearerAuth
// @Router /excel/group-leaders [post]
func (c *ExcelController) ImportGroupLeaders(ctx *gin.Context) {
	file, err := readUpload(ctx)
	if err != nil {
		badUpload(ctx, err.Error())
		return
	}
	if file == nil {
		badUpload(ctx, "No file uploaded")
		return
	}
	if !validation.IsSpreadsheetName(file.Name) {
		badUpload(ctx, "File must be an Excel spreadsheet (.xlsx, .xls, .xlsm)")
		return
	}

	result, err := c.excelService.ImportGroupLeaders(ctx.Request.Context(), bytes.NewReader(file.Content))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.logger.Info().Int("created", result.Created).Int("failed", result.Failed).Int("skipped", result.Skipped).Msg("Group leaders imported")
	ok(ctx, result)
}
