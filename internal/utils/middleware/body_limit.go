package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smartplatform/gateway/internal/model"
)

// BodyLimit rejects requests whose body exceeds limit bytes. Declared
// lengths are checked up front; chunked bodies are cut off by
// http.MaxBytesReader when the handler reads past the limit.
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 || c.Request.Body == nil {
			c.Next()
			return
		}
		if c.Request.ContentLength > limit {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, model.ErrorResponse{
				Code:    "PAYLOAD_TOO_LARGE",
				Message: "request body too large",
			})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
