package apihandlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/january-msemakweli/MoAfyaCamps/pkg/backend"
	"github.com/january-msemakweli/MoAfyaCamps/pkg/camp"
)

func (h *HttpEndpoints) getForms(c *gin.Context) {
	forms, err := h.tables.Select(c.Request.Context(), camp.TableForms)
	if err != nil {
		slog.Error("getForms: error retrieving forms", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error getting forms"})
		return
	}
	c.JSON(http.StatusOK, emptyIfNil(forms))
}

func (h *HttpEndpoints) getForm(c *gin.Context) {
	formID := c.Param("formID")

	forms, err := h.tables.Select(c.Request.Context(), camp.TableForms, backend.Eq("id", formID))
	if err != nil {
		slog.Error("getForm: error retrieving form", slog.String("formID", formID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error getting form"})
		return
	}
	if len(forms) == 0 {
		// Missing rows surface as a generic backend failure, there is no
		// dedicated 404 mapping for record lookups.
		slog.Error("getForm: form not found", slog.String("formID", formID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error getting form"})
		return
	}
	c.JSON(http.StatusOK, forms[0])
}

type CreateFormReq struct {
	Name      string      `json:"name"`
	ProjectID string      `json:"project_id"`
	Fields    interface{} `json:"fields"`
}

func (h *HttpEndpoints) createForm(c *gin.Context) {
	user := h.currentUser(c)

	var req CreateFormReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("createForm: error parsing payload", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "error parsing payload"})
		return
	}
	if req.Name == "" || req.ProjectID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and project_id are required"})
		return
	}

	slog.Info("createForm: creating form", slog.String("userID", user.ID),
		slog.String("projectID", req.ProjectID), slog.String("name", req.Name))

	form, err := h.tables.Insert(c.Request.Context(), camp.TableForms, backend.Row{
		"name":       req.Name,
		"project_id": req.ProjectID,
		"fields":     req.Fields,
		"created_at": time.Now().Format(camp.TimestampLayout),
	})
	if err != nil {
		slog.Error("createForm: error creating form", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error creating form"})
		return
	}
	c.JSON(http.StatusOK, form)
}

func (h *HttpEndpoints) deleteForm(c *gin.Context) {
	user := h.currentUser(c)
	formID := c.Param("formID")

	slog.Info("deleteForm: deleting form", slog.String("userID", user.ID), slog.String("formID", formID))

	if err := h.tables.Delete(c.Request.Context(), camp.TableForms, backend.Eq("id", formID)); err != nil {
		slog.Error("deleteForm: error deleting form", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error deleting form"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Form deleted successfully"})
}
