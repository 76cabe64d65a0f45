package apihandlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/january-msemakweli/MoAfyaCamps/pkg/camp"
)

func (h *HttpEndpoints) currentUser(c *gin.Context) *camp.User {
	return c.MustGet("currentUser").(*camp.User)
}

// respondValidationError maps validation failures to a 400 with the issue
// list; returns false when err was no validation error.
func respondValidationError(c *gin.Context, err error) bool {
	var issues camp.ValidationErrors
	if !errors.As(err, &issues) {
		return false
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": issues.Error(), "issues": issues})
	return true
}

// emptyIfNil keeps list responses as JSON arrays instead of null.
func emptyIfNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}
