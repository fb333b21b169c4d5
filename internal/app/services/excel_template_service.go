package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/twaaos/examscheduler/internal/app/models"
	"github.com/twaaos/examscheduler/internal/app/models/dto"
	"github.com/twaaos/examscheduler/internal/app/repositories"
	"github.com/twaaos/examscheduler/internal/pkg/apperrors"
	"github.com/twaaos/examscheduler/internal/pkg/excel"
	"github.com/twaaos/examscheduler/internal/pkg/validation"
)

// UploadedFile is a file received from a multipart form
type UploadedFile struct {
	Name    string
	Content []byte
}

// ExcelTemplateService manages stored spreadsheet templates
type ExcelTemplateService interface {
	GetAll(ctx context.Context) ([]*models.ExcelTemplate, error)
	GetByID(ctx context.Context, id int64) (*models.ExcelTemplate, error)
	GetByName(ctx context.Context, name string) (*models.ExcelTemplate, error)
	// Download returns the template including its file content
	Download(ctx context.Context, id int64) (*models.ExcelTemplate, error)
	Upload(ctx context.Context, form dto.ExcelTemplateForm, file UploadedFile) (*models.ExcelTemplate, error)
	// Update changes metadata and, when file is non-nil, replaces the content
	Update(ctx context.Context, id int64, form dto.ExcelTemplateForm, file *UploadedFile) (*models.ExcelTemplate, error)
	Delete(ctx context.Context, id int64) error
}

type excelTemplateServiceImpl struct {
	templateRepo repositories.IExcelTemplateRepository
	groupRepo    repositories.IGroupRepository
}

// NewExcelTemplateService creates a new excel template service instance
func NewExcelTemplateService(templateRepo repositories.IExcelTemplateRepository, groupRepo repositories.IGroupRepository) ExcelTemplateService {
	return &excelTemplateServiceImpl{templateRepo: templateRepo, groupRepo: groupRepo}
}

// checkSpreadsheet validates the extension and, for OOXML files, that the content opens as a workbook
func checkSpreadsheet(file UploadedFile) error {
	if len(file.Content) == 0 {
		return invalidf("Uploaded file is empty")
	}
	if !validation.IsSpreadsheetName(file.Name) {
		return invalidf("Invalid file type '%s'. Allowed extensions: %s",
			filepath.Ext(file.Name), strings.Join(validation.SpreadsheetExtensions, ", "))
	}
	if strings.EqualFold(filepath.Ext(file.Name), ".xls") {
		return nil
	}
	if err := excel.ValidateWorkbook(file.Content); err != nil {
		return invalidf("File '%s' is not a valid Excel workbook", file.Name)
	}
	return nil
}

func checkTemplateType(kind string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(kind))
	for _, allowed := range models.TemplateTypes {
		if normalized == allowed {
			return normalized, nil
		}
	}
	return "", invalidf("Invalid template type '%s'. Allowed values: %s", kind, strings.Join(models.TemplateTypes, ", "))
}

func (s *excelTemplateServiceImpl) checkGroup(ctx context.Context, groupID *int64) error {
	if groupID == nil {
		return nil
	}
	exists, err := s.groupRepo.Exists(ctx, *groupID)
	if err != nil {
		return fmt.Errorf("error checking group: %w", err)
	}
	if !exists {
		return invalidf("Group with ID %d not found", *groupID)
	}
	return nil
}

func (s *excelTemplateServiceImpl) GetAll(ctx context.Context) ([]*models.ExcelTemplate, error) {
	return s.templateRepo.GetAll(ctx)
}

func (s *excelTemplateServiceImpl) GetByID(ctx context.Context, id int64) (*models.ExcelTemplate, error) {
	template, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, describeNotFound(err, apperrors.ErrTemplateNotFound, "Excel template with ID %d not found", id)
	}
	return template, nil
}

func (s *excelTemplateServiceImpl) GetByName(ctx context.Context, name string) (*models.ExcelTemplate, error) {
	template, err := s.templateRepo.GetByName(ctx, name)
	if err != nil {
		return nil, describeNotFound(err, apperrors.ErrTemplateNotFound, "Excel template '%s' not found", name)
	}
	return template, nil
}

func (s *excelTemplateServiceImpl) Download(ctx context.Context, id int64) (*models.ExcelTemplate, error) {
	template, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(template.Content) == 0 {
		return nil, notFoundf(apperrors.ErrTemplateNotFound, "Excel template with ID %d has no file", id)
	}
	return template, nil
}

func (s *excelTemplateServiceImpl) Upload(ctx context.Context, form dto.ExcelTemplateForm, file UploadedFile) (*models.ExcelTemplate, error) {
	if err := checkSpreadsheet(file); err != nil {
		return nil, err
	}
	kind, err := checkTemplateType(form.Type)
	if err != nil {
		return nil, err
	}
	if err := s.checkGroup(ctx, form.GroupID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(form.Name)
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(file.Name), filepath.Ext(file.Name))
	}
	template := &models.ExcelTemplate{
		Name:        name,
		Type:        kind,
		GroupID:     form.GroupID,
		Content:     file.Content,
		FileName:    filepath.Base(file.Name),
		Description: form.Description,
	}
	if err := s.templateRepo.Create(ctx, template); err != nil {
		return nil, referenceErr(err, apperrors.ErrGroupNotFound, "Group with ID %d not found", derefID(form.GroupID))
	}
	return template, nil
}

func (s *excelTemplateServiceImpl) Update(ctx context.Context, id int64, form dto.ExcelTemplateForm, file *UploadedFile) (*models.ExcelTemplate, error) {
	template, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(form.Name); name != "" {
		template.Name = name
	}
	if form.Type != "" {
		if template.Type, err = checkTemplateType(form.Type); err != nil {
			return nil, err
		}
	}
	if form.GroupID != nil {
		if err := s.checkGroup(ctx, form.GroupID); err != nil {
			return nil, err
		}
		template.GroupID = form.GroupID
	}
	if form.Description != nil {
		template.Description = form.Description
	}
	if file != nil {
		if err := checkSpreadsheet(*file); err != nil {
			return nil, err
		}
		template.Content = file.Content
		template.FileName = filepath.Base(file.Name)
	}
	if err := s.templateRepo.Update(ctx, template); err != nil {
		return nil, describeNotFound(err, apperrors.ErrTemplateNotFound, "Excel template with ID %d not found", id)
	}
	return template, nil
}

func (s *excelTemplateServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.templateRepo.Delete(ctx, id); err != nil {
		return describeNotFound(err, apperrors.ErrTemplateNotFound, "Excel template with ID %d not found", id)
	}
	return nil
}

func derefID(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}
