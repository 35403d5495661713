package http

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/gin-gonic/gin"
)

// maxPasswordBytes is the bcrypt input limit. It counts bytes, not runes.
const maxPasswordBytes = 72

type registerRequest struct {
	UserName string `json:"username" binding:"required,max=255"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token        string `json:"token"`
	UserID       int64  `json:"user_id"`
	UserEmail    string `json:"user_email"`
	UserUserName string `json:"user_username"`
}

type meResponse struct {
	UserID    int64     `json:"user_id"`
	Email     string    `json:"email"`
	UserName  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *HTTPServer) hello(c *gin.Context) {
	c.String(http.StatusOK, "Hello people!")
}

func (s *HTTPServer) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Password) > maxPasswordBytes {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: msgInvalidRequest})
		return
	}

	user, err := s.users.Register(c.Request.Context(), req.UserName, req.Email, req.Password)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (s *HTTPServer) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: msgInvalidRequest})
		return
	}

	res, err := s.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		Token:        res.Token,
		UserID:       res.User.ID,
		UserEmail:    res.User.Email,
		UserUserName: res.User.UserName,
	})
}

func (s *HTTPServer) me(c *gin.Context) {
	claims, ok := auth.ClaimsFromContext(c.Request.Context())
	if !ok {
		s.abortWithError(c, auth.ErrMissingCredentials)
		return
	}
	id, err := claims.UserID()
	if err != nil {
		s.abortWithError(c, auth.NewError(auth.CodeMalformedToken, "subject is not a user id", err))
		return
	}

	c.JSON(http.StatusOK, meResponse{
		UserID:    id,
		Email:     claims.Email,
		UserName:  claims.Username,
		ExpiresAt: claims.Expiry(),
	})
}

func (s *HTTPServer) listUsers(c *gin.Context) {
	list, err := s.users.ListUsers(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	if list == nil {
		list = []models.PublicUser{}
	}
	c.JSON(http.StatusOK, list)
}
