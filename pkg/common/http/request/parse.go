package request

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidationError reports a body that decoded but failed its validate tags.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return fmt.Sprintf("validation failed: %v", e.Err) }

func (e *ValidationError) Unwrap() error { return e.Err }

// ParseRequest binds the JSON body into T and runs its validate tags.
func ParseRequest[T any](c *gin.Context) (*T, error) {
	var req T
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, err
	}

	if err := validate.Struct(&req); err != nil {
		return nil, &ValidationError{Err: err}
	}

	return &req, nil
}
