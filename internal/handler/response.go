package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skinsewa/api/pkg/errors"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// StatusOf maps an application error code to an HTTP status.
func StatusOf(err error) int {
	switch errors.CodeOf(err) {
	case errors.ErrNotFound:
		return http.StatusNotFound
	case errors.ErrBadRequest, errors.ErrValidation, errors.ErrUnsupportedInput:
		return http.StatusBadRequest
	case errors.ErrUnauthorized:
		return http.StatusUnauthorized
	case errors.ErrForbidden:
		return http.StatusForbidden
	case errors.ErrConflict:
		return http.StatusConflict
	case errors.ErrGateway, errors.ErrParse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error writes the standard error envelope for err.
func Error(c *gin.Context, err error) {
	c.JSON(StatusOf(err), NewErrorResponse(err.Error()))
}
