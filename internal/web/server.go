// Package web is the JSON HTTP surface over the booking engine.
package web

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/example/tablebook/internal/auth"
	"github.com/example/tablebook/internal/booking"
	"github.com/example/tablebook/internal/metrics"
	"github.com/example/tablebook/internal/tracing"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	Auth   *auth.Store
	Engine *booking.Engine
}

const userIDKey = "userID"

func (s *Server) Routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), tracing.Middleware(), metrics.Middleware)

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok\n")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.POST("/auth/register", s.handleRegister)
	api.POST("/auth/login", s.handleLogin)
	api.POST("/auth/logout", s.handleLogout)

	authed := api.Group("", s.requireAuth)
	authed.GET("/auth/me", s.handleMe)
	authed.GET("/bookings/tables", s.handleAvailableTables)
	authed.POST("/bookings", s.handleCreateBooking)
	authed.GET("/bookings", s.handleListBookings)
	authed.DELETE("/bookings/:id", s.handleCancelBooking)
	authed.PUT("/bookings/:id", s.handleUpdateBooking)

	return r
}

// requireAuth accepts either a bearer token or a session cookie.
func (s *Server) requireAuth(c *gin.Context) {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		uid, err := s.Auth.ParseToken(strings.TrimPrefix(h, "Bearer "))
		if err == nil {
			c.Set(userIDKey, uid)
			c.Next()
			return
		}
	}
	if uid, ok := s.Auth.SessionUserID(c.Request); ok {
		c.Set(userIDKey, uid)
		c.Next()
		return
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
}

func userID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// writeErr maps engine failures to status codes: each failure kind in
// the taxonomy gets its own category.
func writeErr(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, booking.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, booking.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, booking.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, booking.ErrConstraint), errors.Is(err, booking.ErrValidation):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		log.Printf("web: %v", err)
		c.JSON(status, gin.H{"message": "server error"})
		return
	}
	c.JSON(status, gin.H{"message": err.Error()})
}

func Start(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	log.Printf("listening on %s", addr)
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
