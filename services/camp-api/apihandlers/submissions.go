package apihandlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/january-msemakweli/MoAfyaCamps/pkg/backend"
	"github.com/january-msemakweli/MoAfyaCamps/pkg/camp"
)

// getSubmissions lists only the submissions of the current principal.
func (h *HttpEndpoints) getSubmissions(c *gin.Context) {
	user := h.currentUser(c)

	submissions, err := h.tables.Select(c.Request.Context(), camp.TableSubmissions, backend.Eq("user_id", user.ID))
	if err != nil {
		slog.Error("getSubmissions: error retrieving submissions", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error getting submissions"})
		return
	}
	c.JSON(http.StatusOK, emptyIfNil(submissions))
}

// getSubmission fetches a single submission by id. Unlike the list route
// this lookup is not scoped to the current principal.
func (h *HttpEndpoints) getSubmission(c *gin.Context) {
	submissionID := c.Param("submissionID")

	submissions, err := h.tables.Select(c.Request.Context(), camp.TableSubmissions, backend.Eq("id", submissionID))
	if err != nil {
		slog.Error("getSubmission: error retrieving submission", slog.String("submissionID", submissionID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error getting submission"})
		return
	}
	if len(submissions) == 0 {
		slog.Error("getSubmission: submission not found", slog.String("submissionID", submissionID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error getting submission"})
		return
	}
	c.JSON(http.StatusOK, submissions[0])
}

func (h *HttpEndpoints) createSubmission(c *gin.Context) {
	user := h.currentUser(c)

	var req camp.SubmissionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("createSubmission: error parsing payload", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "error parsing payload"})
		return
	}
	if err := req.Validate(); err != nil {
		respondValidationError(c, err)
		return
	}

	submission, err := camp.CreateSubmission(c.Request.Context(), h.tables, user.ID, req, time.Now())
	if err != nil {
		slog.Error("createSubmission: error creating submission", slog.String("userID", user.ID),
			slog.String("formID", req.FormID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error creating submission"})
		return
	}
	c.JSON(http.StatusOK, submission)
}
