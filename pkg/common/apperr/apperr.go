package apperr

import (
	"fmt"
	"net/http"
)

// AppError is an error carrying an application code and the HTTP status to answer with.
type AppError struct {
	Code       int    `json:"code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates an AppError. A zero httpStatus means 500.
func New(code int, msg string, httpStatus int, cause error) *AppError {
	if httpStatus == 0 {
		httpStatus = http.StatusInternalServerError
	}
	return &AppError{Code: code, Message: msg, HTTPStatus: httpStatus, Err: cause}
}

// Wrap returns nil for a nil err.
func Wrap(err error, code int, msg string, httpStatus int) *AppError {
	if err == nil {
		return nil
	}
	return New(code, msg, httpStatus, err)
}
