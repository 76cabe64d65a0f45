package apihandlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	mw "github.com/january-msemakweli/MoAfyaCamps/pkg/apihelpers/middlewares"
	"github.com/january-msemakweli/MoAfyaCamps/pkg/backend"
	smtpclient "github.com/january-msemakweli/MoAfyaCamps/pkg/smtp-client"
)

func HealthCheckHandle(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

type HttpEndpoints struct {
	identity               backend.Identity
	tables                 backend.Tables
	tokenSignKey           string
	tokenExpiresIn         time.Duration
	bootstrapAdminEmail    string
	bootstrapAdminPassword string
	loginURL               string
	emailClients           *smtpclient.SmtpClients
}

func NewHTTPHandler(
	identity backend.Identity,
	tables backend.Tables,
	tokenSignKey string,
	tokenExpiresIn time.Duration,
	bootstrapAdminEmail string,
	bootstrapAdminPassword string,
	loginURL string,
	emailClients *smtpclient.SmtpClients,
) *HttpEndpoints {
	return &HttpEndpoints{
		identity:               identity,
		tables:                 tables,
		tokenSignKey:           tokenSignKey,
		tokenExpiresIn:         tokenExpiresIn,
		bootstrapAdminEmail:    bootstrapAdminEmail,
		bootstrapAdminPassword: bootstrapAdminPassword,
		loginURL:               loginURL,
		emailClients:           emailClients,
	}
}

func (h *HttpEndpoints) AddCampAPI(router *gin.Engine) {
	api := router.Group("/api")
	api.Use(mw.GetAndValidateSessionToken(h.tokenSignKey))
	api.Use(mw.ResolveCurrentUser(h.identity, h.tables))
	{
		api.GET("/projects", h.getProjects)
		api.GET("/projects/:projectID/forms", h.getProjectForms)
		api.GET("/forms", h.getForms)
		api.GET("/forms/:formID", h.getForm)
		api.GET("/submissions", h.getSubmissions)
		api.GET("/submissions/:submissionID", h.getSubmission)
		api.POST("/submissions", mw.RequirePayload(), h.createSubmission)
	}

	adminGroup := api.Group("/")
	adminGroup.Use(mw.IsAdminUser())
	{
		adminGroup.POST("/projects", mw.RequirePayload(), h.createProject)
		adminGroup.DELETE("/projects/:projectID", h.deleteProject)
		adminGroup.GET("/users", h.getUsers)
		adminGroup.POST("/users", mw.RequirePayload(), h.createUser)
		adminGroup.DELETE("/users/:userID", h.deleteUser)
		adminGroup.POST("/forms", mw.RequirePayload(), h.createForm)
		adminGroup.DELETE("/forms/:formID", h.deleteForm)
	}
}
