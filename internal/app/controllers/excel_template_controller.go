package controllers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/twaaos/examscheduler/internal/app/models/dto"
	"github.com/twaaos/examscheduler/internal/app/services"
	"github.com/twaaos/examscheduler/internal/middleware"
)

// maxUploadSize caps spreadsheet uploads
const maxUploadSize = 10 << 20

// ExcelTemplateController handles stored spreadsheet templates
type ExcelTemplateController struct {
	templateService services.ExcelTemplateService
}

// NewExcelTemplateController creates a new excel template controller
func NewExcelTemplateController(templateService services.ExcelTemplateService) *ExcelTemplateController {
	return &ExcelTemplateController{templateService: templateService}
}

func badUpload(ctx *gin.Context, message string) {
	ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
		dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message).WithField("file")))
}

// readUpload reads the "file" part of a multipart request. A missing part yields nil.
func readUpload(ctx *gin.Context) (*services.UploadedFile, error) {
	header, err := ctx.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	return openUpload(header)
}

func openUpload(header *multipart.FileHeader) (*services.UploadedFile, error) {
	if header.Size > maxUploadSize {
		return nil, fmt.Errorf("file %s is larger than %d MB", header.Filename, maxUploadSize>>20)
	}
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &services.UploadedFile{Name: filepath.Base(header.Filename), Content: content}, nil
}

// GetAll godoc
// @Summary List templates
// @Tags excel-templates
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.ExcelTemplate}
// @Router /excel-templates [get]
func (c *ExcelTemplateController) GetAll(ctx *gin.Context) {
	templates, err := c.templateService.GetAll(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, templates)
}

// GetByID godoc
// @Summary Get template metadata
// @Tags excel-templates
// @Produce json
// @Param id path int true "Template ID"
// @Success 200 {object} dto.APIResponse{data=models.ExcelTemplate}
// @Failure 404 {object} dto.ErrorResponse "Template not found"
// @Router /excel-templates/{id} [get]
func (c *ExcelTemplateController) GetByID(ctx *gin.Context) {
	id, valid := pathID(ctx, "id", "template ID")
	if !valid {
		return
	}
	t, err := c.templateService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, t)
}

// GetByName godoc
// @Summary Get template by name
// @Tags excel-templates
// @Produce json
// @Param name path string true "Template name"
// @Success 200 {object} dto.APIResponse{data=models.ExcelTemplate}
// @Router /excel-templates/name/{name} [get]
func (c *ExcelTemplateController) GetByName(ctx *gin.Context) {
	t, err := c.templateService.GetByName(ctx.Request.Context(), ctx.Param("name"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, t)
}

// Download godoc
// @Summary Download template file
// @Tags excel-templates
// @Produce application/octet-stream
// @Param id path int true "Template ID"
// @Success 200 {file} binary
// @Failure 404 {object} dto.ErrorResponse "Template not found"
// @Router /excel-templates/{id}/download [get]
func (c *ExcelTemplateController) Download(ctx *gin.Context) {
	id, valid := pathID(ctx, "id", "template ID")
	if !valid {
		return
	}
	t, err := c.templateService.Download(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	contentType := contentTypeXLSX
	if strings.EqualFold(filepath.Ext(t.FileName), ".xls") {
		contentType = "application/vnd.ms-excel"
	}
	attachment(ctx, t.FileName, contentType, t.Content)
}

// Upload godoc
// @Summary Upload template
// @Tags excel-templates
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Spreadsheet (.xlsx, .xls, .xlsm)"
// @Param name formData string false "Template name"
// @Param type formData string true "Template type"
// @Param groupId formData int false "Group ID"
// @Param description formData string false "Description"
// @Success 201 {object} dto.APIResponse{data=models.ExcelTemplate}
// @Failure 400 {object} dto.ErrorResponse "Invalid file or fields"
// @Security BearerAuth
// @Router /excel-templates [post]
func (c *ExcelTemplateController) Upload(ctx *gin.Context) {
	var form dto.ExcelTemplateForm
	if err := ctx.ShouldBind(&form); err != nil {
		middleware.BindError(ctx, err)
		return
	}
	file, err := readUpload(ctx)
	if err != nil {
		badUpload(ctx, err.Error())
		return
	}
	if file == nil {
		badUpload(ctx, "No file uploaded")
		return
	}

	t, err := c.templateService.Upload(ctx.Request.Context(), form, *file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	created(ctx, t)
}

// Update godoc
// @Summary Update template
// @Description Metadata fields change when present. A new file replaces the content.
// @Tags excel-templates
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Template ID"
// @Param file formData file false "Spreadsheet (.xlsx, .xls, .xlsm)"
// @Param name formData string false "Template name"
// @Param type formData string false "Template type"
// @Success 200 {object} dto.APIResponse{data=models.ExcelTemplate}
// @Security BearerAuth
// @Router /excel-templates/{id} [put]
func (c *ExcelTemplateController) Update(ctx *gin.Context) {
	id, valid := pathID(ctx, "id", "template ID")
	if !valid {
		return
	}
	var form dto.ExcelTemplateForm
	if err := ctx.ShouldBind(&form); err != nil {
		middleware.BindError(ctx, err)
		return
	}
	file, err := readUpload(ctx)
	if err != nil {
		badUpload(ctx, err.Error())
		return
	}

	t, err := c.templateService.Update(ctx.Request.Context(), id, form, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, t)
}

// Delete godoc
// @Summary Delete template
// @Tags excel-templates
// @Param id path int true "Template ID"
// @Success 204
// @Security BearerAuth
// @Router /excel-templates/{id} [delete]
func (c *ExcelTemplateController) Delete(ctx *gin.Context) {
	id, valid := pathID(ctx, "id", "template ID")
	if !valid {
		return
	}
	if err := c.templateService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
