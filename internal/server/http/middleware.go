package http

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var (
	corsMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
	corsHeaders = []string{common.AuthorizationHeaderName, "Content-Type", common.RequestIDHeaderName}
)

// requestID takes X-Request-ID from the client or generates one, echoes it
// back and stores it in the request context.
func (s *HTTPServer) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(common.RequestIDHeaderName)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(common.RequestIDHeaderName, id)
		c.Request = c.Request.WithContext(auth.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

func (s *HTTPServer) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ctx := c.Request.Context()
		s.logger.Info(ctx, "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"request_id", auth.RequestIDFromContext(ctx),
		)
	}
}

// cors allows the configured origins; "*" allows any. Preflight requests
// are answered with 204 and never reach the handlers.
func (s *HTTPServer) cors() gin.HandlerFunc {
	anyOrigin := slices.Contains(s.corsOrigins, "*")
	methods := strings.Join(corsMethods, ", ")
	headers := strings.Join(corsHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		switch {
		case anyOrigin:
			c.Header("Access-Control-Allow-Origin", "*")
		case origin != "" && slices.Contains(s.corsOrigins, origin):
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Methods", methods)
		c.Header("Access-Control-Allow-Headers", headers)
		c.Header("Access-Control-Expose-Headers", common.RequestIDHeaderName)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// authRequired runs the guard and stores the claims in the request context.
func (s *HTTPServer) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		claims, err := s.guard.Authenticate(ctx, c.GetHeader(common.AuthorizationHeaderName))
		if err != nil {
			s.abortWithError(c, err)
			return
		}
		c.Request = c.Request.WithContext(auth.WithClaims(ctx, claims))
		c.Next()
	}
}
