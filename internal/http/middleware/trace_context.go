package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/provaloop/studyloop-backend/internal/platform/ctxutil"
)

const (
	headerTraceID   = "X-Trace-Id"
	headerRequestID = "X-Request-Id"
)

// headerOrNew honors an inbound correlation header so callers can stitch
// their own traces through this service; otherwise mints a fresh id.
func headerOrNew(c *gin.Context, header string) string {
	if v := strings.TrimSpace(c.GetHeader(header)); v != "" {
		return v
	}
	return uuid.NewString()
}

func AttachTraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		td := ctxutil.TraceData{
			TraceID:   headerOrNew(c, headerTraceID),
			RequestID: headerOrNew(c, headerRequestID),
		}

		c.Request = c.Request.WithContext(ctxutil.WithTraceData(c.Request.Context(), &td))
		c.Writer.Header().Set(headerTraceID, td.TraceID)
		c.Writer.Header().Set(headerRequestID, td.RequestID)
		c.Next()
	}
}
