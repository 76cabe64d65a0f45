package apihandlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/january-msemakweli/MoAfyaCamps/pkg/backend"
	"github.com/january-msemakweli/MoAfyaCamps/pkg/camp"
)

func (h *HttpEndpoints) getProjects(c *gin.Context) {
	projects, err := h.tables.Select(c.Request.Context(), camp.TableProjects)
	if err != nil {
		slog.Error("getProjects: error retrieving projects", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error getting projects"})
		return
	}
	c.JSON(http.StatusOK, emptyIfNil(projects))
}

type CreateProjectReq struct {
	Name string `json:"name"`
}

func (h *HttpEndpoints) createProject(c *gin.Context) {
	user := h.currentUser(c)

	var req CreateProjectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("createProject: error parsing payload", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "error parsing payload"})
		return
	}
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	slog.Info("createProject: creating project", slog.String("userID", user.ID), slog.String("name", req.Name))

	project, err := h.tables.Insert(c.Request.Context(), camp.TableProjects, camp.NewProjectRecord(req.Name, time.Now()))
	if err != nil {
		slog.Error("createProject: error creating project", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error creating project"})
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *HttpEndpoints) deleteProject(c *gin.Context) {
	user := h.currentUser(c)
	projectID := c.Param("projectID")

	slog.Info("deleteProject: deleting project", slog.String("userID", user.ID), slog.String("projectID", projectID))

	if err := h.tables.Delete(c.Request.Context(), camp.TableProjects, backend.Eq("id", projectID)); err != nil {
		slog.Error("deleteProject: error deleting project", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error deleting project"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

func (h *HttpEndpoints) getProjectForms(c *gin.Context) {
	projectID := c.Param("projectID")

	forms, err := h.tables.Select(c.Request.Context(), camp.TableForms, backend.Eq("project_id", projectID))
	if err != nil {
		slog.Error("getProjectForms: error retrieving forms", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error getting forms"})
		return
	}
	c.JSON(http.StatusOK, emptyIfNil(forms))
}
