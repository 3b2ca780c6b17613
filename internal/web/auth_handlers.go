package web

import (
	"errors"
	"net/http"

	"github.com/example/tablebook/internal/auth"
	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required,min=3,max=16"`
	Email    string `json:"email" binding:"required,email,min=6,max=64"`
	Password string `json:"password" binding:"required,min=6,max=16"`
	Phone    string `json:"phone" binding:"required,min=10,max=16"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func toUserResponse(u auth.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone}
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	u, err := s.Auth.Register(c.Request.Context(), req.Name, req.Email, req.Password, req.Phone)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		writeErr(c, err)
		return
	}

	token, err := s.Auth.IssueToken(u)
	if err != nil {
		writeErr(c, err)
		return
	}
	_ = s.Auth.SetSession(c.Writer, c.Request, u.ID)
	c.JSON(http.StatusCreated, gin.H{
		"message": "user registered",
		"user":    toUserResponse(u),
		"token":   token,
	})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	u, err := s.Auth.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		writeErr(c, err)
		return
	}

	token, err := s.Auth.IssueToken(u)
	if err != nil {
		writeErr(c, err)
		return
	}
	_ = s.Auth.SetSession(c.Writer, c.Request, u.ID)
	c.JSON(http.StatusOK, gin.H{
		"message": "logged in",
		"user":    toUserResponse(u),
		"token":   token,
	})
}

func (s *Server) handleLogout(c *gin.Context) {
	s.Auth.ClearSession(c.Writer)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (s *Server) handleMe(c *gin.Context) {
	u, err := s.Auth.ByID(c.Request.Context(), userID(c))
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
			return
		}
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(u))
}
