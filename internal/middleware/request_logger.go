package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/teamtrack/workforce-api/internal/logger"
	"go.uber.org/zap"
)

// RequestLogger logs one structured entry per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.Log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
