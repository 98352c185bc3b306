package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Logger пишет строку access-лога через logrus вместо стандартного логгера gin
func Logger() gin.HandlerFunc {
	return func(gCtx *gin.Context) {
		start := time.Now()
		gCtx.Next()

		entry := logrus.WithFields(logrus.Fields{
			"request_id": GetRequestID(gCtx),
			"method":     gCtx.Request.Method,
			"path":       gCtx.FullPath(),
			"status":     gCtx.Writer.Status(),
			"latency":    time.Since(start).String(),
		})

		switch status := gCtx.Writer.Status(); {
		case status >= 500:
			entry.Error("request failed")
		case status >= 400:
			entry.Warn("request rejected")
		default:
			entry.Info("request served")
		}
	}
}
