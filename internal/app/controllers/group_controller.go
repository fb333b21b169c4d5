package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/twaaos/examscheduler/internal/app/models/dto"
	"github.com/twaaos/examscheduler/internal/app/services"
	"github.com/twaaos/examscheduler/internal/middleware"
)

// GroupController handles student group endpoints
type GroupController struct {
	groupService services.GroupService
}

// NewGroupController creates a new group controller
func NewGroupController(groupService services.GroupService) *GroupController {
	return &GroupController{groupService: groupService}
}

// GetAll godoc
// @Summary List groups
// @Tags groups
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Group}
// @Router /groups [get]
func (c *GroupController) GetAll(ctx *gin.Context) {
	groups, err := c.groupService.GetAll(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, groups)
}

// GetByID godoc
// @Summary Get group
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {object} dto.APIResponse{data=models.Group}
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Router /groups/{id} [get]
func (c *GroupController) GetByID(ctx *gin.Context) {
	id, valid := pathID(ctx, "id", "group ID")
	if !valid {
		return
	}
	group, err := c.groupService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, group)
}

// GetByName godoc
// @Summary Get group by name
// @Tags groups
// @Produce json
// @Param name path string true "Group name"
// @Success 200 {object} dto.APIResponse{data=models.Group}
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Router /groups/name/{name} [get]
func (c *GroupController) GetByName(ctx *gin.Context) {
	group, err := c.groupService.GetByName(ctx.Request.Context(), ctx.Param("name"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, group)
}

// Create godoc
// @Summary Create group
// @Tags groups
// @Accept json
// @Produce json
// @Param request body dto.GroupRequest true "Group"
// @Success 201 {object} dto.APIResponse{data=models.Group}
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Security BearerAuth
// @Router /groups [post]
func (c *GroupController) Create(ctx *gin.Context) {
	var req dto.GroupRequest
	if !bindJSON(ctx, &req) {
		return
	}
	group, err := c.groupService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	created(ctx, group)
}

// Update godoc
// @Summary Update group
// @Tags groups
// @Accept json
// @Produce json
// @Param id path int true "Group ID"
// @Param request body dto.UpdateGroupRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Group}
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Security BearerAuth
// @Router /groups/{id} [put]
func (c *GroupController) Update(ctx *gin.Context) {
	id, valid := pathID(ctx, "id", "group ID")
	if !valid {
		return
	}
	var req dto.UpdateGroupRequest
	if !bindJSON(ctx, &req) {
		return
	}
	group, err := c.groupService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, group)
}

// Delete godoc
// @Summary Delete group
// @Tags groups
// @Param id path int true "Group ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Security BearerAuth
// @Router /groups/{id} [delete]
func (c *GroupController) Delete(ctx *gin.Context) {
	id, valid := pathID(ctx, "id", "group ID")
	if !valid {
		return
	}
	if err := c.groupService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
