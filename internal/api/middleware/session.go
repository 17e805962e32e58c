package middleware

import (
	"net/http"

	"github.com/assistidads/assist-lead-hub-sub000/internal/auth"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Session builds the caller session from the gateway headers and stores it
// in the request context. Requests without a valid identity get a 401.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := auth.FromHeaders(
			c.GetHeader(auth.HeaderUserID),
			c.GetHeader(auth.HeaderRole),
			c.GetHeader(auth.HeaderAgentID),
		)
		if err != nil {
			log.Debug().Str("request_id", c.GetString(RequestIDKey)).Str("path", c.Request.URL.Path).Msg("rejected request without session")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}

		c.Request = c.Request.WithContext(auth.WithSession(c.Request.Context(), s))
		c.Next()
	}
}
