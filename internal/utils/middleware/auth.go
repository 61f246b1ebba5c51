package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// AuthorizationHeader is the header key for authorization.
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens.
	BearerPrefix = "Bearer "
)

// BearerToken extracts the bearer credential from the Authorization header.
// Verification is left to the caller; an empty string means no credential
// was presented.
func BearerToken(c *gin.Context) string {
	authHeader := c.GetHeader(AuthorizationHeader)
	if len(authHeader) < len(BearerPrefix) || !strings.EqualFold(authHeader[:len(BearerPrefix)], BearerPrefix) {
		return ""
	}
	return strings.TrimSpace(authHeader[len(BearerPrefix):])
}
