package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	authz "github.com/twaaos/examscheduler/internal/app/auth"
	"github.com/twaaos/examscheduler/internal/app/models"
	"github.com/twaaos/examscheduler/internal/app/models/dto"
	"github.com/twaaos/examscheduler/internal/app/services"
	"github.com/twaaos/examscheduler/internal/middleware"
)

// UserController handles user-related operations
type UserController struct {
	userService services.UserService
}

// NewUserController creates a new user controller
func NewUserController(userService services.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

// GetAll lists users
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.User}
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users [get]
func (c *UserController) GetAll(ctx *gin.Context) {
	users, err := c.userService.GetAll(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, users)
}

// GetByID retrieves user information by ID
// @Summary Get user by ID
// @Tags users
// @Produce json
// @Param id path int true "User ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=models.User}
// @Failure 400 {object} dto.ErrorResponse "Invalid user ID format"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/{id} [get]
func (c *UserController) GetByID(ctx *gin.Context) {
	id, valid := pathID(ctx, "id", "user ID")
	if !valid {
		return
	}

	user, err := c.userService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, user)
}

// GetByEmail retrieves a user by email
// @Summary Get user by email
// @Tags users
// @Produce json
// @Param email path string true "Email"
// @Success 200 {object} dto.APIResponse{data=models.User}
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/email/{email} [get]
func (c *UserController) GetByEmail(ctx *gin.Context) {
	user, err := c.userService.GetByEmail(ctx.Request.Context(), ctx.Param("email"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, user)
}

// GetByRole lists users with a role
// @Summary List users by role
// @Tags users
// @Produce json
// @Param role path string true "Role (SG, CD, SEC, ADM)"
// @Success 200 {object} dto.APIResponse{data=[]models.User}
// @Failure 400 {object} dto.ErrorResponse "Invalid role"
// @Router /users/role/{role} [get]
func (c *UserController) GetByRole(ctx *gin.Context) {
	users, err := c.userService.GetByRole(ctx.Request.Context(), ctx.Param("role"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, users)
}

// Create adds a user
// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.CreateUserRequest true "User"
// @Success 201 {object} dto.APIResponse{data=models.User}
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Failure 403 {object} dto.ErrorResponse "Administrator accounts need an administrator"
// @Security BearerAuth
// @Router /users [post]
func (c *UserController) Create(ctx *gin.Context) {
	actor, found := currentActor(ctx)
	if !found {
		return
	}
	var req dto.CreateUserRequest
	if !bindJSON(ctx, &req) {
		return
	}
	if err := authz.CanManageUser(actor, models.Role(req.Role)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	user, err := c.userService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	created(ctx, user)
}

// Update changes a user
// @Summary Update user
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body dto.UpdateUserRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.User}
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 403 {object} dto.ErrorResponse "Administrator accounts need an administrator"
// @Security BearerAuth
// @Router /users/{id} [put]
func (c *UserController) Update(ctx *gin.Context) {
	id, valid := pathID(ctx, "id", "user ID")
	if !valid {
		return
	}
	actor, found := currentActor(ctx)
	if !found {
		return
	}
	var req dto.UpdateUserRequest
	if !bindJSON(ctx, &req) {
		return
	}
	if actor.Role != models.RoleAdmin {
		target, err := c.userService.GetByID(ctx.Request.Context(), id)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		roles := []models.Role{target.Role}
		if req.Role != nil {
			roles = append(roles, models.Role(*req.Role))
		}
		if err := authz.CanManageUser(actor, roles...); err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
	}

	user, err := c.userService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, user)
}

// Delete removes a user
// @Summary Delete user
// @Tags users
// @Param id path int true "User ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Security BearerAuth
// @Router /users/{id} [delete]
func (c *UserController) Delete(ctx *gin.Context) {
	id, valid := pathID(ctx, "id", "user ID")
	if !valid {
		return
	}
	if err := c.userService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
