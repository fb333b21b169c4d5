package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/twaaos/examscheduler/internal/app/models/dto"
	"github.com/twaaos/examscheduler/internal/app/services"
	"github.com/twaaos/examscheduler/internal/middleware"
)

// NotificationController handles notification endpoints
type NotificationController struct {
	notificationService services.NotificationService
}

// NewNotificationController creates a new notification controller
func NewNotificationController(notificationService services.NotificationService) *NotificationController {
	return &NotificationController{notificationService: notificationService}
}

// GetAll godoc
// @Summary List notifications
// @Tags notifications
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Notification}
// @Router /notifications [get]
func (c *NotificationController) GetAll(ctx *gin.Context) {
	list, err := c.notificationService.GetAll(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, list)
}

// GetByID godoc
// @Summary Get notification
// @Tags notifications
// @Produce json
// @Param id path int true "Notification ID"
// @Success 200 {object} dto.APIResponse{data=models.Notification}
// @Router /notifications/{id} [get]
func (c *NotificationController) GetByID(ctx *gin.Context) {
	id, valid := pathID(ctx, "id", "notification ID")
	if !valid {
		return
	}
	n, err := c.notificationService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, n)
}

// GetByUser godoc
// @Summary List a user's notifications
// @Tags notifications
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Notification}
// @Router /notifications/user/{userId} [get]
func (c *NotificationController) GetByUser(ctx *gin.Context) {
	userID, valid := pathID(ctx, "userId", "user ID")
	if !valid {
		return
	}
	list, err := c.notificationService.GetByUser(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, list)
}

// GetByStatus godoc
// @Summary List notifications by status
// @Tags notifications
// @Produce json
// @Param status path string true "trimis or citit"
// @Success 200 {object} dto.APIResponse{data=[]models.Notification}
// @Router /notifications/status/{status} [get]
func (c *NotificationController) GetByStatus(ctx *gin.Context) {
	list, err := c.notificationService.GetByStatus(ctx.Request.Context(), ctx.Param("status"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, list)
}

// Create godoc
// @Summary Create notification
// @Tags notifications
// @Accept json
// @Produce json
// @Param request body dto.NotificationRequest true "Notification"
// @Success 201 {object} dto.APIResponse{data=models.Notification}
// @Failure 400 {object} dto.ErrorResponse "User not found"
// @Security BearerAuth
// @Router /notifications [post]
func (c *NotificationController) Create(ctx *gin.Context) {
	var req dto.NotificationRequest
	if !bindJSON(ctx, &req) {
		return
	}
	n, err := c.notificationService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	created(ctx, n)
}

// Update godoc
// @Summary Update notification
// @Tags notifications
// @Accept json
// @Produce json
// @Param id path int true "Notification ID"
// @Param request body dto.UpdateNotificationRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Notification}
// @Security BearerAuth
// @Router /notifications/{id} [put]
func (c *NotificationController) Update(ctx *gin.Context) {
	id, valid := pathID(ctx, "id", "notification ID")
	if !valid {
		return
	}
	var req dto.UpdateNotificationRequest
	if !bindJSON(ctx, &req) {
		return
	}
	n, err := c.notificationService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, n)
}

// MarkAsRead godoc
// @Summary Mark notification as read
// @Tags notifications
// @Produce json
// @Param id path int true "Notification ID"
// @Success 200 {object} dto.APIResponse{data=models.Notification}
// @Security BearerAuth
// @Router /notifications/{id}/read [put]
func (c *NotificationController) MarkAsRead(ctx *gin.Context) {
	id, valid := pathID(ctx, "id", "notification ID")
	if !valid {
		return
	}
	n, err := c.notificationService.MarkAsRead(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, n)
}

// Delete godoc
// @Summary Delete notification
// @Tags notifications
// @Param id path int true "Notification ID"
// @Success 204
// @Security BearerAuth
// @Router /notifications/{id} [delete]
func (c *NotificationController) Delete(ctx *gin.Context) {
	id, valid := pathID(ctx, "id", "notification ID")
	if !valid {
		return
	}
	if err := c.notificationService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
