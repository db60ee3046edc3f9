package validation

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Init configures the global validator used by Gin's binding.
// - Uses JSON tag names in errors.
// - Registers alias tags for common validations.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		v.RegisterAlias("pwd", "min=8") // password minimum length
		v.RegisterAlias("uname", "min=3,max=64,alphanum")
	}
}

// ToDetails converts validation/binding errors into a map[field]message
// suitable for the errors field of the API error payload.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	// Invalid JSON payloads
	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return map[string]string{"payload": "invalid json"}
	}

	// Validation errors from validator.v10
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = formatFieldError(fe)
		}
		return out
	}

	// Fallback
	return map[string]string{"payload": "invalid payload"}
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "alphanum":
		return "must contain alphanumeric characters only"
	case "min":
		if fe.Kind() == reflect.String {
			return "must be at least " + fe.Param() + " characters long"
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "must be at most " + fe.Param() + " characters long"
		}
		return "must be at most " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "pwd":
		return "must be at least 8 characters long"
	case "uname":
		return "must be 3-64 alphanumeric characters"
	default:
		return "is invalid"
	}
}
