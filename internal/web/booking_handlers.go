package web

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/example/tablebook/internal/booking"
	"github.com/example/tablebook/internal/metrics"
	"github.com/gin-gonic/gin"
)

type createBookingRequest struct {
	TableNumber int    `json:"tableNumber" binding:"required,gt=0"`
	Date        string `json:"date" binding:"required"`
	Time        string `json:"time" binding:"required"`
}

type updateBookingRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`
}

type tableResponse struct {
	Table      int `json:"table"`
	SeatsCount int `json:"seats_count"`
}

type bookingResponse struct {
	ID    string `json:"id"`
	Table int    `json:"table"`
	Date  string `json:"date"`
	Time  string `json:"time"`
}

// parseSlot combines a 2006-01-02 date and 15:04 time into an instant.
func parseSlot(date, tm string) (time.Time, error) {
	t, err := time.Parse("2006-01-02T15:04", date+"T"+tm)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad date/time %q %q: %w", date, tm, booking.ErrValidation)
	}
	return t, nil
}

func (s *Server) handleAvailableTables(c *gin.Context) {
	date := c.Query("date")
	tm := c.Query("time")
	if date == "" || tm == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "date and time are required"})
		return
	}
	at, err := parseSlot(date, tm)
	if err != nil {
		writeErr(c, err)
		return
	}

	tables, err := s.Engine.AvailableTables(c.Request.Context(), at)
	if err != nil {
		writeErr(c, err)
		return
	}

	out := make([]tableResponse, 0, len(tables))
	for _, t := range tables {
		out = append(out, tableResponse{Table: t.Number, SeatsCount: t.Capacity})
	}
	c.JSON(http.StatusOK, gin.H{"booking": out})
}

func (s *Server) handleCreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	start, err := parseSlot(req.Date, req.Time)
	if err != nil {
		writeErr(c, err)
		return
	}

	id, err := s.Engine.Create(c.Request.Context(), userID(c), req.TableNumber, start)
	if err != nil {
		if errors.Is(err, booking.ErrConflict) {
			metrics.BookingConflicts.Inc()
		}
		writeErr(c, err)
		return
	}
	metrics.BookingsCreated.Inc()
	c.JSON(http.StatusCreated, gin.H{
		"message":   "booking created",
		"bookingId": id,
	})
}

func (s *Server) handleListBookings(c *gin.Context) {
	list, err := s.Engine.ListByUser(c.Request.Context(), userID(c))
	if err != nil {
		writeErr(c, err)
		return
	}
	out := make([]bookingResponse, 0, len(list))
	for _, b := range list {
		out = append(out, bookingResponse{
			ID:    b.ID,
			Table: b.TableNumber,
			Date:  b.Date,
			Time:  b.TimeRange,
		})
	}
	c.JSON(http.StatusOK, gin.H{"booking": out})
}

func (s *Server) handleCancelBooking(c *gin.Context) {
	if err := s.Engine.Cancel(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		writeErr(c, err)
		return
	}
	metrics.BookingsCancelled.Inc()
	c.JSON(http.StatusOK, gin.H{"message": "booking cancelled"})
}

func (s *Server) handleUpdateBooking(c *gin.Context) {
	var req updateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	newStart, err := parseSlot(req.Date, req.Time)
	if err != nil {
		writeErr(c, err)
		return
	}

	if err := s.Engine.Reschedule(c.Request.Context(), userID(c), c.Param("id"), newStart); err != nil {
		if errors.Is(err, booking.ErrConflict) {
			metrics.BookingConflicts.Inc()
		}
		writeErr(c, err)
		return
	}
	metrics.BookingsRescheduled.Inc()
	c.JSON(http.StatusOK, gin.H{"message": "booking updated"})
}
