package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger writes one line per request. The item grid fetches one icon per
// row, so icon hits go to debug.
func Logger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("trace_id", GetTraceID(c)),
			zap.String("client_ip", c.ClientIP()),
		}
		if s := GetSession(c); s != nil {
			fields = append(fields, zap.String("user", s.Username))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.Strings("errors", c.Errors.Errors()))
		}
		if ce := log.Check(levelFor(c.FullPath(), status), "http"); ce != nil {
			ce.Write(fields...)
		}
	}
}

func levelFor(route string, status int) zapcore.Level {
	switch {
	case status >= 500:
		return zapcore.ErrorLevel
	case route == "/image/:filename":
		return zapcore.DebugLevel
	case status == 401 || status == 403 || status == 429:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}
