package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/mediagrab-go/pkg/logger"
)

// Recovery returns a gin middleware that turns panics into a 500 JSON body.
// The panic value is only exposed outside production.
func Recovery(ml *logger.MultiLogger, production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				ml.LogAppError("Panic recovered",
					zap.Any("error", err),
					zap.String("path", c.Request.URL.Path),
					zap.String("method", c.Request.Method),
					zap.String("client_ip", c.ClientIP()),
				)

				message := "An error occurred processing your request"
				if !production {
					if e, ok := err.(error); ok {
						message = e.Error()
					} else if s, ok := err.(string); ok {
						message = s
					}
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": message})
			}
		}()
		c.Next()
	}
}
