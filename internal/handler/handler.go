package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"stockbook/internal/model"
	"stockbook/internal/service"
	"stockbook/pkg/response"

	"github.com/gin-gonic/gin"
)

// Role sets used by RegisterRoutes
var (
	anyRole     = []string{model.RoleAdmin, model.RoleManager, model.RoleStaff}
	managerRole = []string{model.RoleAdmin, model.RoleManager}
	adminRole   = []string{model.RoleAdmin}
)

// now is the clock used for date-relative reports.
var now = func() time.Time { return time.Now().UTC() }

// statusFor maps the service error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrInvalidEntityType):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// fail writes err as an error envelope. Internal errors are recorded on the
// context for the request logger and replaced with a generic message.
func fail(c *gin.Context, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		message = "internal server error"
	}
	c.JSON(status, response.Error(status, message))
}

// bindJSON decodes the body and runs binding validation, replying 400 on failure.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return false
	}
	return true
}

// queryInt parses an optional integer query parameter. Missing values yield fallback.
func queryInt(c *gin.Context, key string, fallback int) (int, bool) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, key+" must be an integer"))
		return 0, false
	}
	return v, true
}

func success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, data))
}

func created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, data))
}
