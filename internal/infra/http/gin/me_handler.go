package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	"petlodge/internal/app/commands"
	"petlodge/internal/app/dto"
	meapp "petlodge/internal/app/handlers/me"
	"petlodge/internal/app/queries"
	domainbooking "petlodge/internal/domain/booking"
)

type MeHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

func (h MeHandler) ListBookings(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	query := meapp.ListCustomerBookingsQuery{CustomerID: user.ID}
	result, err := queries.Ask[meapp.ListCustomerBookingsQuery, dto.CustomerBookingCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Error("me bookings query failed", "error", err, "user_id", user.ID)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load bookings"})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h MeHandler) CancelBooking(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}

	var req cancelBookingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	cmd := meapp.CancelBookingCommand{
		CustomerID: user.ID,
		BookingID:  strings.TrimSpace(c.Param("id")),
		Reason:     strings.TrimSpace(req.Reason),
	}
	result, err := commands.Dispatch[meapp.CancelBookingCommand, *meapp.CancelBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.handleCancelError(c, err, user.ID)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h MeHandler) handleCancelError(c *gin.Context, err error, userID string) {
	var status int
	switch {
	case errors.Is(err, domainbooking.ErrBookingNotFound):
		status = http.StatusNotFound
	case errors.Is(err, meapp.ErrBookingNotOwnedByCustomer):
		status = http.StatusForbidden
	case errors.Is(err, domainbooking.ErrInvalidState):
		status = http.StatusConflict
	default:
		status = http.StatusInternalServerError
	}
	if h.Logger != nil {
		h.Logger.Warn("booking cancel failed", "status", status, "error", err, "user_id", userID)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

var _ MeHTTP = (*MeHandler)(nil)
