package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/twaaos/examscheduler/internal/app/models/dto"
	"github.com/twaaos/examscheduler/internal/app/services"
	"github.com/twaaos/examscheduler/internal/middleware"
)

// SyncController handles the full synchronization and bulk deletes
type SyncController struct {
	syncService services.SyncService
	logger      zerolog.Logger
}

// NewSyncController creates a new sync controller
func NewSyncController(syncService services.SyncService, logger zerolog.Logger) *SyncController {
	return &SyncController{syncService: syncService, logger: logger}
}

// SyncAllData rebuilds the data set from the external timetable
// @Summary Synchronize all data
// @Description Deletes every record, runs the collector, recreates the fixture accounts, rebuilds pending schedules and uploads the fixture template. Step failures are reported in errors.
// @Tags sync
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SyncResult}
// @Failure 403 {object} dto.ErrorResponse "ADM only"
// @Router /sync/data [post]
func (c *SyncController) SyncAllData(ctx *gin.Context) {
	result, err := c.syncService.SyncAllData(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, result)
}

func (c *SyncController) deleteAll(ctx *gin.Context, what string, fn func(*gin.Context) (int64, error)) {
	n, err := fn(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, dto.CountResponse{Count: n, Message: "All " + what + " deleted"})
}

// DeleteAllGroups godoc
// @Summary Delete all groups
// @Tags sync
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CountResponse}
// @Router /sync/groups [delete]
func (c *SyncController) DeleteAllGroups(ctx *gin.Context) {
	c.deleteAll(ctx, "groups", func(ctx *gin.Context) (int64, error) {
		return c.syncService.DeleteAllGroups(ctx.Request.Context())
	})
}

// DeleteAllRooms godoc
// @Summary Delete all rooms
// @Tags sync
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CountResponse}
// @Router /sync/rooms [delete]
func (c *SyncController) DeleteAllRooms(ctx *gin.Context) {
	c.deleteAll(ctx, "rooms", func(ctx *gin.Context) (int64, error) {
		return c.syncService.DeleteAllRooms(ctx.Request.Context())
	})
}

// DeleteAllUsers godoc
// @Summary Delete all users
// @Tags sync
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CountResponse}
// @Router /sync/users [delete]
func (c *SyncController) DeleteAllUsers(ctx *gin.Context) {
	c.deleteAll(ctx, "users", func(ctx *gin.Context) (int64, error) {
		return c.syncService.DeleteAllUsers(ctx.Request.Context())
	})
}
