package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/twaaos/examscheduler/internal/app/models"
	"github.com/twaaos/examscheduler/internal/app/models/dto"
	"github.com/twaaos/examscheduler/internal/app/services"
	"github.com/twaaos/examscheduler/internal/middleware"
)

// ConfigController handles exam period configuration
type ConfigController struct {
	configService services.ConfigService
}

// NewConfigController creates a new config controller
func NewConfigController(configService services.ConfigService) *ConfigController {
	return &ConfigController{configService: configService}
}

func configResponses(periods []*models.ExamPeriod) []dto.ConfigResponse {
	out := make([]dto.ConfigResponse, 0, len(periods))
	for _, p := range periods {
		out = append(out, services.ToConfigResponse(p))
	}
	return out
}

// GetAll godoc
// @Summary List exam periods
// @Tags configs
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.ConfigResponse}
// @Router /configs [get]
func (c *ConfigController) GetAll(ctx *gin.Context) {
	periods, err := c.configService.GetAll(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, configResponses(periods))
}

// GetCurrent godoc
// @Summary Current exam period
// @Description The most recently modified exam period
// @Tags configs
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ConfigResponse}
// @Failure 404 {object} dto.ErrorResponse "No exam period configured"
// @Router /configs/current [get]
func (c *ConfigController) GetCurrent(ctx *gin.Context) {
	period, err := c.configService.GetCurrent(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, services.ToConfigResponse(period))
}

// GetByID godoc
// @Summary Get exam period
// @Tags configs
// @Produce json
// @Param id path int true "Config ID"
// @Success 200 {object} dto.APIResponse{data=dto.ConfigResponse}
// @Router /configs/{id} [get]
func (c *ConfigController) GetByID(ctx *gin.Context) {
	id, valid := pathID(ctx, "id", "config ID")
	if !valid {
		return
	}
	period, err := c.configService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, services.ToConfigResponse(period))
}

// Create sets a new exam period
// @Summary Create exam period
// @Description Resets student group schedules to pending and notifies group leaders
// @Tags configs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ConfigRequest true "Exam period"
// @Success 201 {object} dto.APIResponse{data=dto.ConfigResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid dates"
// @Failure 403 {object} dto.ErrorResponse "ADM or SEC only"
// @Router /configs [post]
func (c *ConfigController) Create(ctx *gin.Context) {
	var req dto.ConfigRequest
	if !bindJSON(ctx, &req) {
		return
	}
	period, err := c.configService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	created(ctx, services.ToConfigResponse(period))
}

// Update godoc
// @Summary Update exam period
// @Tags configs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Config ID"
// @Param request body dto.UpdateConfigRequest true "Dates to change"
// @Success 200 {object} dto.APIResponse{data=dto.ConfigResponse}
// @Router /configs/{id} [put]
func (c *ConfigController) Update(ctx *gin.Context) {
	id, valid := pathID(ctx, "id", "config ID")
	if !valid {
		return
	}
	var req dto.UpdateConfigRequest
	if !bindJSON(ctx, &req) {
		return
	}
	period, err := c.configService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, services.ToConfigResponse(period))
}

// Delete godoc
// @Summary Delete exam period
// @Tags configs
// @Security BearerAuth
// @Param id path int true "Config ID"
// @Success 204
// @Router /configs/{id} [delete]
func (c *ConfigController) Delete(ctx *gin.Context) {
	id, valid := pathID(ctx, "id", "config ID")
	if !valid {
		return
	}
	if err := c.configService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
