package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/huynhanx03/go-batchbuffer/pkg/common/apperr"
)

// Application codes. The first three digits mirror the HTTP status.
const (
	CodeSuccess            = 20000
	CodeAccepted           = 20200
	CodeParamInvalid       = 40001
	CodeValidationFailed   = 40002
	CodeInternalServer     = 50000
	CodeServiceUnavailable = 50300
)

var statusByCode = map[int]int{
	CodeSuccess:            http.StatusOK,
	CodeAccepted:           http.StatusAccepted,
	CodeParamInvalid:       http.StatusBadRequest,
	CodeValidationFailed:   http.StatusUnprocessableEntity,
	CodeInternalServer:     http.StatusInternalServerError,
	CodeServiceUnavailable: http.StatusServiceUnavailable,
}

// Response is the envelope of every API answer.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func SuccessResponse(c *gin.Context, code int, data any) {
	c.JSON(HTTPStatus(code), Response{Code: code, Message: "success", Data: data})
}

// ErrorResponse writes err. An *apperr.AppError in the chain overrides code and status.
func ErrorResponse(c *gin.Context, code int, err error) {
	status := HTTPStatus(code)
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
		_ = c.Error(err)
	}

	var appErr *apperr.AppError
	if errors.As(err, &appErr) {
		code = appErr.Code
		status = appErr.HTTPStatus
	}

	c.AbortWithStatusJSON(status, Response{Code: code, Message: msg})
}

// HTTPStatus maps an application code to its HTTP status.
func HTTPStatus(code int) int {
	if s, ok := statusByCode[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}
