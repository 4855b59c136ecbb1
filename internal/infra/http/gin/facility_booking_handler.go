package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"petlodge/internal/app/commands"
	"petlodge/internal/app/dto"
	bookingapp "petlodge/internal/app/handlers/booking"
	"petlodge/internal/app/queries"
	domainbooking "petlodge/internal/domain/booking"
)

type FacilityBookingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type declineBookingRequest struct {
	Reason string `json:"reason"`
}

func (h FacilityBookingHandler) List(c *gin.Context) {
	staff, ok := requireFacilityStaff(c)
	if !ok {
		return
	}
	if h.Queries == nil {
		h.respondWithError(c, http.StatusServiceUnavailable, errors.New("queries bus unavailable"))
		return
	}

	query := bookingapp.ListFacilityBookingsQuery{
		FacilityID: staff.FacilityID,
		Status:     c.Query("status"),
	}
	result, err := queries.Ask[bookingapp.ListFacilityBookingsQuery, dto.FacilityBookingCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h FacilityBookingHandler) Confirm(c *gin.Context) {
	staff, ok := requireFacilityStaff(c)
	if !ok {
		return
	}
	if h.Commands == nil {
		h.respondWithError(c, http.StatusServiceUnavailable, errors.New("commands bus unavailable"))
		return
	}

	cmd := bookingapp.ConfirmFacilityBookingCommand{
		FacilityID: staff.FacilityID,
		BookingID:  strings.TrimSpace(c.Param("id")),
	}
	result, err := commands.Dispatch[bookingapp.ConfirmFacilityBookingCommand, *bookingapp.FacilityBookingActionResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h FacilityBookingHandler) Decline(c *gin.Context) {
	staff, ok := requireFacilityStaff(c)
	if !ok {
		return
	}
	if h.Commands == nil {
		h.respondWithError(c, http.StatusServiceUnavailable, errors.New("commands bus unavailable"))
		return
	}

	var req declineBookingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.respondWithError(c, http.StatusBadRequest, err)
			return
		}
	}

	cmd := bookingapp.DeclineFacilityBookingCommand{
		FacilityID: staff.FacilityID,
		BookingID:  strings.TrimSpace(c.Param("id")),
		Reason:     strings.TrimSpace(req.Reason),
	}
	result, err := commands.Dispatch[bookingapp.DeclineFacilityBookingCommand, *bookingapp.FacilityBookingActionResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h FacilityBookingHandler) CheckIn(c *gin.Context) {
	staff, ok := requireFacilityStaff(c)
	if !ok {
		return
	}
	if h.Commands == nil {
		h.respondWithError(c, http.StatusServiceUnavailable, errors.New("commands bus unavailable"))
		return
	}

	cmd := bookingapp.CheckInBookingCommand{
		FacilityID: staff.FacilityID,
		BookingID:  strings.TrimSpace(c.Param("id")),
	}
	result, err := commands.Dispatch[bookingapp.CheckInBookingCommand, *bookingapp.FacilityBookingActionResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h FacilityBookingHandler) CheckOut(c *gin.Context) {
	staff, ok := requireFacilityStaff(c)
	if !ok {
		return
	}
	if h.Commands == nil {
		h.respondWithError(c, http.StatusServiceUnavailable, errors.New("commands bus unavailable"))
		return
	}

	cmd := bookingapp.CheckOutBookingCommand{
		FacilityID: staff.FacilityID,
		BookingID:  strings.TrimSpace(c.Param("id")),
	}
	result, err := commands.Dispatch[bookingapp.CheckOutBookingCommand, *bookingapp.FacilityBookingActionResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h FacilityBookingHandler) NoShow(c *gin.Context) {
	staff, ok := requireFacilityStaff(c)
	if !ok {
		return
	}
	if h.Commands == nil {
		h.respondWithError(c, http.StatusServiceUnavailable, errors.New("commands bus unavailable"))
		return
	}

	cmd := bookingapp.MarkNoShowCommand{
		FacilityID: staff.FacilityID,
		BookingID:  strings.TrimSpace(c.Param("id")),
	}
	result, err := commands.Dispatch[bookingapp.MarkNoShowCommand, *bookingapp.FacilityBookingActionResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h FacilityBookingHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, bookingapp.ErrBookingNotOwned),
		errors.Is(err, domainbooking.ErrBookingNotFound),
		errors.Is(err, mongo.ErrNoDocuments):
		h.respondWithError(c, http.StatusNotFound, err)
	case errors.Is(err, domainbooking.ErrInvalidState):
		h.respondWithError(c, http.StatusConflict, err)
	default:
		h.respondWithError(c, http.StatusInternalServerError, err)
	}
}

func (h FacilityBookingHandler) respondWithError(c *gin.Context, status int, err error) {
	if h.Logger != nil {
		fields := []any{"status", status, "error", err, "path", c.FullPath()}
		if staff, ok := currentPrincipal(c); ok {
			fields = append(fields, "facility_id", staff.FacilityID)
		}
		h.Logger.Error("facility booking request failed", fields...)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

var _ FacilityBookingHTTP = FacilityBookingHandler{}
