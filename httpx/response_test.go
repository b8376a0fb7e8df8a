package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmanager/model"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"validation", &model.ValidationError{Field: "email", Message: "taken"}, http.StatusBadRequest, "taken"},
		{"invalid", model.InvalidInput("Task title is required"), http.StatusBadRequest, "Task title is required"},
		{"bare invalid", model.ErrInvalidInput, http.StatusBadRequest, "Invalid request"},
		{"unauthorized", model.Unauthorized("Not authorized, no token"), http.StatusUnauthorized, "Not authorized, no token"},
		{"forbidden", fmt.Errorf("update: %w", model.Forbidden("Only the creator can update this task")), http.StatusForbidden, "Only the creator can update this task"},
		{"not found", model.NotFound("Task not found"), http.StatusNotFound, "Task not found"},
		{"external", &model.ExternalError{Op: "upload", Err: errors.New("bucket gone")}, http.StatusInternalServerError, "Image service failed, the operation was aborted"},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, "Server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := Status(tc.err)
			assert.Equal(t, tc.code, code)
			assert.Equal(t, tc.msg, body.Message)
		})
	}
}

func TestStatusKeepsValidationField(t *testing.T) {
	_, body := Status(&model.ValidationError{Field: "email", Message: "taken"})
	assert.Equal(t, "email", body.Field)
}

type loginBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func TestBindErrorNamesJSONField(t *testing.T) {
	gin.SetMode(gin.TestMode)
	UseJSONFieldNames()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@example.com","password":"123"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	var body loginBody
	err := BindError(c.ShouldBindJSON(&body))
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "password", verr.Field)
	assert.Equal(t, "must be at least 6 characters", verr.Message)
}

func TestBindErrorOnMalformedBody(t *testing.T) {
	err := BindError(errors.New("unexpected EOF"))
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestErrorAbortsWithJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Error(c, model.NotFound("Work not found"))

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Work not found"}`, w.Body.String())
}
