package apihandlers

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	mw "github.com/january-msemakweli/MoAfyaCamps/pkg/apihelpers/middlewares"
	jwthandling "github.com/january-msemakweli/MoAfyaCamps/pkg/jwt-handling"
	"github.com/january-msemakweli/MoAfyaCamps/pkg/camp"
	usermanagement "github.com/january-msemakweli/MoAfyaCamps/pkg/user-management"
)

var loginPage = template.Must(template.New("login").Parse(`<!DOCTYPE html>
<html>
<head><title>MoAfya Camps - Login</title></head>
<body>
<h1>MoAfya Camps</h1>
{{if .Error}}<p style="color:red">{{.Error}}</p>{{end}}
<form method="POST" action="/login">
<label>Email <input type="email" name="email" required></label>
<label>Password <input type="password" name="password" required></label>
<button type="submit">Sign in</button>
</form>
</body>
</html>`))

var dashboardPage = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html>
<head><title>MoAfya Camps - Dashboard</title></head>
<body>
<h1>{{if .IsAdmin}}Admin Dashboard{{else}}Dashboard{{end}}</h1>
<p>Signed in as {{.Email}}</p>
{{if .IsAdmin}}
<ul>
<li><a href="/api/projects">Projects</a></li>
<li><a href="/api/forms">Forms</a></li>
<li><a href="/api/users">Users</a></li>
</ul>
{{else}}
<ul>
<li><a href="/api/projects">Projects</a></li>
<li><a href="/api/submissions">My submissions</a></li>
</ul>
{{end}}
<p><a href="/logout">Sign out</a></p>
</body>
</html>`))

// AddWebRoutes registers the browser-facing pages and the health endpoint.
func (h *HttpEndpoints) AddWebRoutes(router *gin.Engine) {
	router.GET("/health", HealthCheckHandle)
	router.GET("/", h.indexPage)
	router.GET("/login", h.loginPageHandle)
	router.POST("/login", h.loginSubmitHandle)
	router.GET("/logout", h.logoutHandle)
	router.GET("/dashboard", h.dashboardHandle)
}

// sessionUserFromCookie resolves the current user for page handlers. Pages
// redirect to /login on failure instead of responding 401.
func (h *HttpEndpoints) sessionUserFromCookie(c *gin.Context) *camp.User {
	token, err := c.Cookie(mw.SessionCookieName)
	if err != nil || token == "" {
		return nil
	}
	claims, valid, err := jwthandling.ValidateSessionToken(token, h.tokenSignKey)
	if err != nil || !valid {
		return nil
	}
	user, err := usermanagement.ResolveUser(c.Request.Context(), h.identity, h.tables, claims.Subject)
	if err != nil {
		return nil
	}
	return user
}

func (h *HttpEndpoints) indexPage(c *gin.Context) {
	if h.sessionUserFromCookie(c) != nil {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	c.Redirect(http.StatusFound, "/login")
}

func (h *HttpEndpoints) loginPageHandle(c *gin.Context) {
	renderLoginPage(c, http.StatusOK, "")
}

func renderLoginPage(c *gin.Context, status int, errMsg string) {
	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := loginPage.Execute(c.Writer, struct{ Error string }{Error: errMsg}); err != nil {
		slog.Error("renderLoginPage: error rendering template", slog.String("error", err.Error()))
	}
}

func (h *HttpEndpoints) loginSubmitHandle(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	user, err := usermanagement.SignInUser(c.Request.Context(), h.identity, h.tables, email, password)
	if err != nil && email == h.bootstrapAdminEmail && password == h.bootstrapAdminPassword {
		// First use of the reserved admin credentials provisions the
		// account and its admin profile on the fly.
		slog.Info("loginSubmitHandle: provisioning bootstrap admin account")
		user, err = usermanagement.ProvisionAccount(c.Request.Context(), h.identity, h.tables, usermanagement.ProvisionInput{
			Email:    email,
			Password: password,
			IsAdmin:  true,
		})
	}
	if err != nil {
		slog.Warn("loginSubmitHandle: sign-in failed", slog.String("error", err.Error()))
		renderLoginPage(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := jwthandling.GenerateNewSessionToken(h.tokenExpiresIn, user.ID, user.Email, user.IsAdmin, h.tokenSignKey)
	if err != nil {
		slog.Error("loginSubmitHandle: error generating session token", slog.String("error", err.Error()))
		renderLoginPage(c, http.StatusInternalServerError, "Invalid email or password")
		return
	}

	c.SetCookie(mw.SessionCookieName, token, int(h.tokenExpiresIn.Seconds()), "/", "", false, true)
	c.Redirect(http.StatusFound, "/dashboard")
}

func (h *HttpEndpoints) logoutHandle(c *gin.Context) {
	c.SetCookie(mw.SessionCookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/login")
}

func (h *HttpEndpoints) dashboardHandle(c *gin.Context) {
	user := h.sessionUserFromCookie(c)
	if user == nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := dashboardPage.Execute(c.Writer, user); err != nil {
		slog.Error("dashboardPage: error rendering template", slog.String("error", err.Error()))
	}
}
