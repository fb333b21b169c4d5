package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/twaaos/examscheduler/internal/app/models/dto"
	"github.com/twaaos/examscheduler/internal/app/services"
	"github.com/twaaos/examscheduler/internal/middleware"
)

// RoomController handles room endpoints
type RoomController struct {
	roomService services.RoomService
}

// NewRoomController creates a new room controller
func NewRoomController(roomService services.RoomService) *RoomController {
	return &RoomController{roomService: roomService}
}

// GetAll godoc
// @Summary List rooms
// @Tags rooms
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Room}
// @Router /rooms [get]
func (c *RoomController) GetAll(ctx *gin.Context) {
	rooms, err := c.roomService.GetAll(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, rooms)
}

// GetByID godoc
// @Summary Get room
// @Tags rooms
// @Produce json
// @Param id path int true "Room ID"
// @Success 200 {object} dto.APIResponse{data=models.Room}
// @Failure 404 {object} dto.ErrorResponse "Room not found"
// @Router /rooms/{id} [get]
func (c *RoomController) GetByID(ctx *gin.Context) {
	id, valid := pathID(ctx, "id", "room ID")
	if !valid {
		return
	}
	room, err := c.roomService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, room)
}

// GetByBuilding godoc
// @Summary List a building's rooms
// @Tags rooms
// @Produce json
// @Param building path string true "Building name"
// @Success 200 {object} dto.APIResponse{data=[]models.Room}
// @Failure 400 {object} dto.ErrorResponse "Missing building name"
// @Router /rooms/building/{building} [get]
func (c *RoomController) GetByBuilding(ctx *gin.Context) {
	rooms, err := c.roomService.GetByBuilding(ctx.Request.Context(), ctx.Param("building"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, rooms)
}

// Create godoc
// @Summary Create room
// @Tags rooms
// @Accept json
// @Produce json
// @Param request body dto.RoomRequest true "Room"
// @Success 201 {object} dto.APIResponse{data=models.Room}
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Security BearerAuth
// @Router /rooms [post]
func (c *RoomController) Create(ctx *gin.Context) {
	var req dto.RoomRequest
	if !bindJSON(ctx, &req) {
		return
	}
	room, err := c.roomService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	created(ctx, room)
}

// Update godoc
// @Summary Update room
// @Tags rooms
// @Accept json
// @Produce json
// @Param id path int true "Room ID"
// @Param request body dto.UpdateRoomRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Room}
// @Security BearerAuth
// @Router /rooms/{id} [put]
func (c *RoomController) Update(ctx *gin.Context) {
	id, valid := pathID(ctx, "id", "room ID")
	if !valid {
		return
	}
	var req dto.UpdateRoomRequest
	if !bindJSON(ctx, &req) {
		return
	}
	room, err := c.roomService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, room)
}

// Delete godoc
// @Summary Delete room
// @Tags rooms
// @Param id path int true "Room ID"
// @Success 204
// @Security BearerAuth
// @Router /rooms/{id} [delete]
func (c *RoomController) Delete(ctx *gin.Context) {
	id, valid := pathID(ctx, "id", "room ID")
	if !valid {
		return
	}
	if err := c.roomService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
