package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/smartodonto/clinic-api/pkg/errors"
	"github.com/smartodonto/clinic-api/pkg/validator"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response wraps all API responses
type Response struct {
	Status  string            `json:"status"`
	Message string            `json:"message,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: StatusSuccess,
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  StatusError,
		Message: message,
	}
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, NewSuccessResponse(data))
}

// RespondWithError sends the error envelope for err.
func RespondWithError(c *gin.Context, err error) {
	status, resp := ErrorResponse(err)
	c.JSON(status, resp)
}

// ErrorResponse maps err to an HTTP status and error envelope. Internal
// details never reach the client.
func ErrorResponse(err error) (int, *Response) {
	if fields, ok := validator.FieldErrors(err); ok {
		resp := NewErrorResponse("validation failed")
		resp.Errors = fields
		return http.StatusBadRequest, resp
	}

	if appErr, ok := apperrors.As(err); ok {
		if appErr.Code == apperrors.ErrInternal {
			return http.StatusInternalServerError, NewErrorResponse(appErr.Message)
		}
		return appErr.StatusCode(), NewErrorResponse(appErr.Message)
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, NewErrorResponse("request timeout")
	case isBodyError(err):
		return http.StatusBadRequest, NewErrorResponse("invalid request body")
	}

	return http.StatusInternalServerError, NewErrorResponse("internal server error")
}

func isBodyError(err error) bool {
	var (
		syntaxErr   *json.SyntaxError
		typeErr     *json.UnmarshalTypeError
		maxBytesErr *http.MaxBytesError
	)
	return errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.As(err, &syntaxErr) ||
		errors.As(err, &typeErr) ||
		errors.As(err, &maxBytesErr)
}
