package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-users-api/pkg/helpers"
	"github.com/oksasatya/go-users-api/pkg/response"
)

const CtxUserEmailKey = "userEmail"

// Auth validates the Authorization: Bearer token and injects the subject
// email into the Gin context. Missing, malformed, expired and tampered
// tokens all produce the same 401 so the reason is not disclosed.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.AbortErr(c, http.StatusUnauthorized, "not authenticated")
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.AbortErr(c, http.StatusUnauthorized, "could not validate credentials")
			return
		}
		c.Set(CtxUserEmailKey, claims.Subject)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
