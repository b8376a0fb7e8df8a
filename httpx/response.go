// Package httpx writes JSON error responses for gin handlers.
package httpx

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"taskmanager/model"
)

type ErrorResponse struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// Status maps an error to its HTTP status and caller-facing message. Errors
// of no known kind are 500 with a generic message.
func Status(err error) (int, ErrorResponse) {
	var validationErr *model.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, ErrorResponse{Message: validationErr.Message, Field: validationErr.Field}
	}

	msg := ""
	var kindErr *model.Error
	if errors.As(err, &kindErr) {
		msg = kindErr.Message
	}

	switch {
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest, ErrorResponse{Message: orDefault(msg, "Invalid request")}
	case errors.Is(err, model.ErrUnauthorized):
		return http.StatusUnauthorized, ErrorResponse{Message: orDefault(msg, "Not authorized, token failed")}
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden, ErrorResponse{Message: orDefault(msg, "Forbidden")}
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Message: orDefault(msg, "Not found")}
	case errors.Is(err, model.ErrExternal):
		return http.StatusInternalServerError, ErrorResponse{Message: "Image service failed, the operation was aborted"}
	default:
		return http.StatusInternalServerError, ErrorResponse{Message: "Server error"}
	}
}

// Error aborts the request with the mapped status. Server-side failures are
// logged with their full chain.
func Error(c *gin.Context, err error) {
	code, body := Status(err)
	if code >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method, "path", c.FullPath(), "error", err)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(code, body)
}

// Message writes {"message": msg}.
func Message(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{"message": msg})
}

// BindError converts a gin binding failure into a ValidationError naming the
// first offending field.
func BindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &model.ValidationError{Field: fe.Field(), Message: describe(fe)}
	}
	return model.InvalidInput("Invalid request body")
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return fmt.Sprintf("failed on '%s' validation", fe.Tag())
	}
}

// UseJSONFieldNames makes validation errors report json/form field names
// instead of Go struct field names.
func UseJSONFieldNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
}

func orDefault(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}
