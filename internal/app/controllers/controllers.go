// Package controllers handles HTTP request handling
package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	authz "github.com/twaaos/examscheduler/internal/app/auth"
	"github.com/twaaos/examscheduler/internal/app/models/dto"
	"github.com/twaaos/examscheduler/internal/middleware"
)

// pathID parses a positive int64 path parameter. On failure it writes a 400 and returns false.
func pathID(ctx *gin.Context, param, label string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(param), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, fmt.Sprintf("Invalid %s", label)).
			WithField(param).
			WithDetails(fmt.Sprintf("%s must be a valid number", label))
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// bindJSON binds the body into req and writes a 400 when binding fails
func bindJSON(ctx *gin.Context, req interface{}) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		middleware.BindError(ctx, err)
		return false
	}
	return true
}

// currentActor returns the authenticated caller, writing a 401 when the request has none
func currentActor(ctx *gin.Context) (authz.Actor, bool) {
	actor, found := middleware.CurrentActor(ctx)
	if !found {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
	}
	return actor, found
}

func ok(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

func created(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

func attachment(ctx *gin.Context, filename, contentType string, content []byte) {
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Data(http.StatusOK, contentType, content)
}

// exportName stamps an export file name with the current date
func exportName(prefix, ext string) string {
	return fmt.Sprintf("%s_%s.%s", prefix, time.Now().Format("2006-01-02"), ext)
}
