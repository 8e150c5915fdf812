package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Recovery turns a panic in a handler into a 500. The trace id is shown to
// the user so the log line can be found.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			traceID := GetTraceID(c)
			fields := []zap.Field{
				zap.Any("panic", r),
				zap.String("trace_id", traceID),
				zap.String("route", c.FullPath()),
				zap.Stack("stack"),
			}
			if s := GetSession(c); s != nil {
				fields = append(fields, zap.String("user", s.Username))
			}
			log.Error("handler panicked", fields...)

			if c.Writer.Written() {
				c.Abort()
				return
			}
			abortWith(c, http.StatusInternalServerError, fmt.Sprintf("internal error (trace %s)", traceID))
		}()
		c.Next()
	}
}
