// internal/pkg/response/validation.go
package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ValidationError describes one rejected field
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// BindError writes a 400 for a failed ShouldBind*. Validator failures are
// reported per field; anything else (malformed JSON) as a plain bad request.
func BindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		BadRequest(c, "Invalid request data", err.Error())
		return
	}

	details := make([]ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, ValidationError{
			Field:   lowerFirst(fe.Field()),
			Tag:     fe.Tag(),
			Message: validationMessage(fe),
		})
	}
	Error(c, http.StatusBadRequest, CodeValidation, "Invalid request data", details)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
