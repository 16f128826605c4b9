package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/microshell/internal/domain/descriptor"
	"github.com/GriffinCanCode/microshell/internal/domain/nav"
	"github.com/GriffinCanCode/microshell/internal/domain/routes"
	"github.com/GriffinCanCode/microshell/internal/domain/session"
	"github.com/GriffinCanCode/microshell/internal/shared/utils"
)

// statusOf maps domain errors to HTTP status codes
func statusOf(err error) int {
	switch {
	case errors.Is(err, utils.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrSessionNotFound), errors.Is(err, nav.ErrTabNotFound):
		return http.StatusNotFound
	case errors.Is(err, nav.ErrTabNotClosable):
		return http.StatusConflict
	case errors.Is(err, descriptor.ErrInvalidDescriptor),
		errors.Is(err, routes.ErrInvalidRoute),
		errors.Is(err, routes.ErrCatchAllOrder),
		errors.Is(err, routes.ErrDuplicateName):
		return http.StatusUnprocessableEntity
	case errors.Is(err, descriptor.ErrUnexpectedStatus):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
