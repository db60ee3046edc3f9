package response

import (
	"github.com/gin-gonic/gin"
)

// ErrorBody is the uniform error payload: a human-readable detail plus
// optional field-level errors from request validation.
type ErrorBody struct {
	Detail string            `json:"detail"`
	Errors map[string]string `json:"errors,omitempty"`
}

// JSON writes a success body as-is. Resource representations are
// returned at the top level, not wrapped in an envelope.
func JSON(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// Err writes the uniform error payload.
func Err(c *gin.Context, status int, detail string) {
	c.JSON(status, ErrorBody{Detail: detail})
}

// ErrWithFields writes an error payload carrying field-level details.
func ErrWithFields(c *gin.Context, status int, detail string, fields map[string]string) {
	c.JSON(status, ErrorBody{Detail: detail, Errors: fields})
}

// AbortErr writes the error payload and aborts the handler chain. Meant
// for middleware.
func AbortErr(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, ErrorBody{Detail: detail})
}
