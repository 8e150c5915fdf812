package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	TraceIDKey    = "trace_id"
	TraceIDHeader = "X-Trace-ID"
)

// TraceID tags every request with an id that is echoed in the response
// header and attached to every log line for the request.
func TraceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := traceIDFrom(c.GetHeader(TraceIDHeader))
		c.Set(TraceIDKey, id)
		c.Header(TraceIDHeader, id)
		c.Next()
	}
}

// traceIDFrom keeps an id set by a fronting proxy when it is a canonical
// UUID and mints a new one otherwise, so headers cannot inject text into
// the logs.
func traceIDFrom(header string) string {
	if len(header) == 36 {
		if id, err := uuid.Parse(header); err == nil {
			return id.String()
		}
	}
	return uuid.NewString()
}

// GetTraceID returns the request's trace id, or "" outside TraceID.
func GetTraceID(c *gin.Context) string {
	return c.GetString(TraceIDKey)
}
