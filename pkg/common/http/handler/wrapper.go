package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/huynhanx03/go-batchbuffer/pkg/common/http/request"
	"github.com/huynhanx03/go-batchbuffer/pkg/common/http/response"
)

// HandlerFunc is the generic function signature
type HandlerFunc[T any, R any] func(context.Context, *T) (R, error)

// Wrap converts a generic handler to a Gin handler answering with code on success.
func Wrap[T any, R any](code int, h HandlerFunc[T, R]) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := request.ParseRequest[T](c)
		if err != nil {
			var verr *request.ValidationError
			if errors.As(err, &verr) {
				response.ErrorResponse(c, response.CodeValidationFailed, err)
				return
			}
			response.ErrorResponse(c, response.CodeParamInvalid, err)
			return
		}

		res, err := h(c.Request.Context(), req)
		if err != nil {
			response.ErrorResponse(c, response.CodeInternalServer, err)
			return
		}

		response.SuccessResponse(c, code, res)
	}
}

// WrapQuery is Wrap for handlers without a request body.
func WrapQuery[R any](h func(context.Context) (R, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := h(c.Request.Context())
		if err != nil {
			response.ErrorResponse(c, response.CodeInternalServer, err)
			return
		}
		response.SuccessResponse(c, response.CodeSuccess, res)
	}
}
