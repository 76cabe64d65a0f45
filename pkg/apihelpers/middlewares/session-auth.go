package middlewares

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/january-msemakweli/MoAfyaCamps/pkg/backend"
	jwthandling "github.com/january-msemakweli/MoAfyaCamps/pkg/jwt-handling"
	usermanagement "github.com/january-msemakweli/MoAfyaCamps/pkg/user-management"
)

const (
	HeaderAuthorization = "Authorization"

	// SessionCookieName carries the session token for browser clients; API
	// clients use the Authorization header instead.
	SessionCookieName = "moafya_session"
)

// ExtractSessionToken reads the session token from the Authorization header,
// falling back to the session cookie.
func ExtractSessionToken(c *gin.Context) (string, error) {
	tokens, ok := c.Request.Header[HeaderAuthorization]
	if ok && len(tokens) > 0 {
		token := strings.TrimPrefix(tokens[0], "Bearer ")
		if len(token) == 0 {
			return "", errors.New("no token found in Authorization header")
		}
		return token, nil
	}

	cookie, err := c.Cookie(SessionCookieName)
	if err != nil || cookie == "" {
		return "", errors.New("no session token found")
	}
	return cookie, nil
}

// GetAndValidateSessionToken extracts the session JWT from the request and
// validates it.
func GetAndValidateSessionToken(tokenSignKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := ExtractSessionToken(c)
		if err != nil {
			slog.Warn("no session token found")
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		parsedToken, ok, err := jwthandling.ValidateSessionToken(token, tokenSignKey)
		if err != nil || !ok {
			slog.Warn("session token validation failed")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "error during token validation"})
			c.Abort()
			return
		}
		c.Set("validatedToken", parsedToken)
	}
}

// ResolveCurrentUser maps the validated token subject to a resolved user via
// the backend, rejecting principals whose account or profile disappeared
// after the token was issued.
func ResolveCurrentUser(identity backend.Identity, tables backend.Tables) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenValue, ok := c.Get("validatedToken")
		if !ok {
			slog.Warn("ResolveCurrentUser: validatedToken not found in context")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		claims := tokenValue.(*jwthandling.SessionClaims)

		user, err := usermanagement.ResolveUser(c.Request.Context(), identity, tables, claims.Subject)
		if err != nil {
			slog.Warn("ResolveCurrentUser: could not resolve principal", slog.String("userID", claims.Subject))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		c.Set("currentUser", user)
	}
}
