package common

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIResponse standard API response structure
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// Meta pagination metadata
type Meta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

// ErrorInfo error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// NewMeta creates Meta with computed total_pages
func NewMeta(page, pageSize int, total int64) *Meta {
	totalPages := total / int64(pageSize)
	if total%int64(pageSize) > 0 {
		totalPages++
	}
	return &Meta{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}

// SuccessResponse returns a successful JSON response
func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}

// SuccessWithMeta returns a successful JSON response with pagination
func SuccessWithMeta(c *gin.Context, data interface{}, meta *Meta) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

// CreatedResponse returns a 201 Created response
func CreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Data:    data,
	})
}

// ErrorResponse returns an error JSON response
func ErrorResponse(c *gin.Context, status int, message string, err error) {
	errInfo := &ErrorInfo{
		Code:    getErrorCode(status),
		Message: message,
	}
	if err != nil {
		errInfo.Details = err.Error()
	}

	c.JSON(status, APIResponse{
		Success: false,
		Error:   errInfo,
	})
}

// FailFromError maps a business error to its HTTP status and responds.
// Error kinds are never converted while propagating: a Forbidden stays 403,
// never a generic 500.
func FailFromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidContent), errors.Is(err, ErrInvalidInput):
		ErrorResponse(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidToken), errors.Is(err, ErrExpiredToken), errors.Is(err, ErrInvalidCredentials):
		ErrorResponse(c, http.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, ErrForbidden):
		ErrorResponse(c, http.StatusForbidden, err.Error(), nil)
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrSubmissionNotFound), errors.Is(err, ErrUserNotFound):
		ErrorResponse(c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, ErrIllegalTransition), errors.Is(err, ErrConflict), errors.Is(err, ErrUserAlreadyExists):
		ErrorResponse(c, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, ErrUnavailable):
		ErrorResponse(c, http.StatusServiceUnavailable, err.Error(), nil)
	default:
		ErrorResponse(c, http.StatusInternalServerError, "internal server error", err)
	}
}

// getErrorCode generates error code from HTTP status
func getErrorCode(status int) string {
	switch status {
	case 400:
		return "BAD_REQUEST"
	case 401:
		return "UNAUTHORIZED"
	case 403:
		return "FORBIDDEN"
	case 404:
		return "NOT_FOUND"
	case 409:
		return "CONFLICT"
	case 503:
		return "SERVICE_UNAVAILABLE"
	case 500:
		return "INTERNAL_SERVER_ERROR"
	default:
		return "ERROR"
	}
}
