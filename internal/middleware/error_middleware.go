package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/twaaos/examscheduler/internal/app/models/dto"
	"github.com/twaaos/examscheduler/internal/pkg/apperrors"
)

var kindResponses = map[apperrors.Kind]struct {
	status  int
	code    dto.ErrorCode
	message string
}{
	apperrors.KindNotFound:     {http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"},
	apperrors.KindInvalid:      {http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"},
	apperrors.KindConflict:     {http.StatusConflict, dto.ErrorCodeConflict, "Conflict"},
	apperrors.KindForbidden:    {http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"},
	apperrors.KindUnauthorized: {http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"},
	apperrors.KindExternal:     {http.StatusBadGateway, dto.ErrorCodeExternalServiceError, "External service unavailable"},
}

// HandleAPIError writes the response for a failed service call
func HandleAPIError(c *gin.Context, err error) {
	kind := apperrors.KindOf(err)
	resp, ok := kindResponses[kind]
	if !ok {
		detail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").
			WithSeverity(dto.ErrorSeverityCritical)
		if err != nil {
			detail = detail.WithDetails(err.Error())
		}
		c.JSON(http.StatusInternalServerError, dto.APIResponse{Error: detail, Timestamp: time.Now()})
		return
	}

	detail := dto.NewErrorDetail(resp.code, apperrors.MessageOf(err, resp.message))
	switch {
	case kind == apperrors.KindConflict && apperrors.Is(err, apperrors.ErrEmailAlreadyExists, apperrors.ErrResourceAlreadyExists):
		detail.Code = dto.ErrorCodeResourceAlreadyExists
	case kind == apperrors.KindUnauthorized && apperrors.Is(err, apperrors.ErrTokenExpired):
		detail.Code = dto.ErrorCodeExpiredToken
	case kind == apperrors.KindUnauthorized && apperrors.Is(err, apperrors.ErrTokenInvalid, apperrors.ErrInvalidFormat):
		detail.Code = dto.ErrorCodeInvalidToken
	}
	if details := apperrors.DetailsOf(err); details != nil {
		detail = detail.WithDetails(details)
	}
	c.JSON(resp.status, dto.APIResponse{Error: detail, Timestamp: time.Now()})
}

// BindError writes a 400 for a request that failed binding or validation
func BindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
}
