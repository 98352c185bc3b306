package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"staffdesk/internal/app/workflow"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "requestID"
)

// RequestID берет идентификатор запроса из заголовка или создает новый
// и кладет его в контекст запроса, чтобы он попал в логи и историю статусов.
func RequestID() gin.HandlerFunc {
	return func(gCtx *gin.Context) {
		id := gCtx.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}

		gCtx.Request = gCtx.Request.WithContext(workflow.WithRequestID(gCtx.Request.Context(), id))
		gCtx.Set(requestIDKey, id)
		gCtx.Header(RequestIDHeader, id)

		gCtx.Next()
	}
}

// GetRequestID возвращает идентификатор текущего запроса
func GetRequestID(gCtx *gin.Context) string {
	return gCtx.GetString(requestIDKey)
}
