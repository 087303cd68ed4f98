package middleware

import (
	"net/http"
	"strings"
	"time"

	ctxutil "Shutter/pkg/context"
	"Shutter/pkg/log"
	"Shutter/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GinZap logs one line per request.
func GinZap() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		fields := []zap.Field{
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
			zap.Int64("user_id", ctxutil.OptionalUserID(c)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.ByType(gin.ErrorTypePrivate).String()))
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			log.L.Error("request", fields...)
			return
		}
		log.L.Info("request", fields...)
	}
}

// AllowedHosts rejects requests whose Host is not listed. An empty list or
// "*" allows everything.
func AllowedHosts(hosts []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(hosts))
	for _, h := range hosts {
		if h == "*" {
			return func(c *gin.Context) { c.Next() }
		}
		allowed[strings.ToLower(h)] = struct{}{}
	}
	return func(c *gin.Context) {
		if len(allowed) == 0 {
			c.Next()
			return
		}
		host := strings.ToLower(c.Request.Host)
		if i := strings.LastIndex(host, ":"); i > 0 && !strings.HasSuffix(host, "]") {
			host = host[:i]
		}
		if _, ok := allowed[host]; !ok {
			response.Abort(c, http.StatusBadRequest, "invalid host header")
			return
		}
		c.Next()
	}
}

// CORSMiddleware answers preflight requests and allows any origin.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Content-Length, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
