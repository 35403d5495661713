package http

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Error string `json:"error"`
}

const (
	msgUnauthorized   = "unauthorized"
	msgInvalidRequest = "invalid request"
	msgInternal       = "internal error"
)

// statusFor maps an error onto a status code and the client-visible message.
// Every unauthorized reason shares one message.
func statusFor(err error) (int, string) {
	var authErr *auth.Error
	if errors.As(err, &authErr) {
		switch {
		case authErr.Unauthorized():
			return http.StatusUnauthorized, msgUnauthorized
		case authErr.Code == auth.CodeConflict:
			return http.StatusConflict, auth.ErrConflict.Message
		}
	}
	return http.StatusInternalServerError, msgInternal
}

func (s *HTTPServer) abortWithError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	if status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", auth.BearerScheme)
	}
	if status == http.StatusInternalServerError {
		s.logger.Error(c.Request.Context(), "request failed", "path", c.Request.URL.Path, "error", err)
	}
	c.AbortWithStatusJSON(status, errorResponse{Error: msg})
}
