package apihandlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	emailsending "github.com/january-msemakweli/MoAfyaCamps/pkg/messaging/email-sending"
	usermanagement "github.com/january-msemakweli/MoAfyaCamps/pkg/user-management"
)

func (h *HttpEndpoints) getUsers(c *gin.Context) {
	users, err := usermanagement.ListUsers(c.Request.Context(), h.identity, h.tables)
	if err != nil {
		slog.Error("getUsers: error listing users", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error getting users"})
		return
	}
	c.JSON(http.StatusOK, emptyIfNil(users))
}

func (h *HttpEndpoints) createUser(c *gin.Context) {
	admin := h.currentUser(c)

	var req usermanagement.ProvisionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("createUser: error parsing payload", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "error parsing payload"})
		return
	}

	created, err := usermanagement.ProvisionAccount(c.Request.Context(), h.identity, h.tables, req)
	if err != nil {
		if respondValidationError(c, err) {
			return
		}
		slog.Error("createUser: error provisioning account", slog.String("adminID", admin.ID),
			slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error creating user"})
		return
	}

	slog.Info("createUser: account provisioned", slog.String("adminID", admin.ID),
		slog.String("userID", created.ID), slog.Bool("isAdmin", created.IsAdmin))

	go emailsending.SendWelcomeEmail(h.emailClients, created.Email, h.loginURL)

	c.JSON(http.StatusOK, created)
}

func (h *HttpEndpoints) deleteUser(c *gin.Context) {
	admin := h.currentUser(c)
	userID := c.Param("userID")

	slog.Info("deleteUser: deleting user", slog.String("adminID", admin.ID), slog.String("userID", userID))

	if err := usermanagement.DeleteUser(c.Request.Context(), h.identity, h.tables, userID); err != nil {
		slog.Error("deleteUser: error deleting user", slog.String("userID", userID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error deleting user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
