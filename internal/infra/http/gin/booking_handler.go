package ginserver

import (
	"errors"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"petlodge/internal/app/commands"
	bookingapp "petlodge/internal/app/handlers/booking"
	"petlodge/internal/app/queries"
	domainavailability "petlodge/internal/domain/availability"
	domainbooking "petlodge/internal/domain/booking"
	domainpets "petlodge/internal/domain/pets"
	domainrange "petlodge/internal/domain/shared/daterange"
	domainsuites "petlodge/internal/domain/suites"
)

type BookingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type bookingAddOn struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
}

type createBookingRequest struct {
	FacilityID      string         `json:"facility_id"`
	PetIDs          []string       `json:"pet_ids"`
	SuiteType       string         `json:"suite_type"`
	CheckIn         time.Time      `json:"check_in"`
	CheckOut        time.Time      `json:"check_out"`
	Daycare         bool           `json:"daycare"`
	AddOns          []bookingAddOn `json:"add_ons"`
	TaxRate         float64        `json:"tax_rate"`
	PreferSameSuite bool           `json:"prefer_same_suite"`
	PreferNearby    bool           `json:"prefer_nearby"`
}

type quoteRequest struct {
	SuiteID  string         `json:"suite_id"`
	CheckIn  time.Time      `json:"check_in"`
	CheckOut time.Time      `json:"check_out"`
	PetCount int            `json:"pet_count"`
	AddOns   []bookingAddOn `json:"add_ons"`
	TaxRate  float64        `json:"tax_rate"`
	Daycare  bool           `json:"daycare"`
}

func (h BookingHandler) Create(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := bookingapp.RequestBookingCommand{
		CommandID:       generateCommandID(),
		FacilityID:      req.FacilityID,
		CustomerID:      user.ID,
		PetIDs:          req.PetIDs,
		SuiteType:       req.SuiteType,
		CheckIn:         req.CheckIn,
		CheckOut:        req.CheckOut,
		Daycare:         req.Daycare,
		AddOns:          mapAddOns(req.AddOns),
		TaxRate:         req.TaxRate,
		PreferSameSuite: req.PreferSameSuite,
		PreferNearby:    req.PreferNearby,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[bookingapp.RequestBookingCommand, *bookingapp.RequestBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.respondCreateError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, result)
}

func (h BookingHandler) Quote(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	query := bookingapp.GetQuoteQuery{
		SuiteID:  req.SuiteID,
		CheckIn:  req.CheckIn,
		CheckOut: req.CheckOut,
		PetCount: req.PetCount,
		AddOns:   mapAddOns(req.AddOns),
		TaxRate:  req.TaxRate,
		Daycare:  req.Daycare,
	}
	result, err := queries.Ask[bookingapp.GetQuoteQuery, *bookingapp.QuoteResult](c.Request.Context(), h.Queries, query)
	if err != nil {
		switch {
		case errors.Is(err, domainsuites.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, domainrange.ErrInvalidRange):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) respondCreateError(c *gin.Context, err error) {
	var rejected domainbooking.StayRejectedError
	if errors.As(err, &rejected) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  rejected.Error(),
			"reason": string(rejected.Result.Reason),
		})
		return
	}
	switch {
	case errors.Is(err, bookingapp.ErrNoSuitesAvailable),
		errors.Is(err, domainavailability.ErrOverlappingRange),
		errors.Is(err, domainavailability.ErrConcurrentUpdate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domainpets.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domainpets.ErrNotFound),
		errors.Is(err, domainsuites.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domainrange.ErrInvalidRange),
		errors.Is(err, domainpets.ErrVaccinationsDue),
		errors.Is(err, domainbooking.ErrNoPets):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func mapAddOns(addOns []bookingAddOn) []bookingapp.AddOnInput {
	if len(addOns) == 0 {
		return nil
	}
	out := make([]bookingapp.AddOnInput, 0, len(addOns))
	for _, a := range addOns {
		out = append(out, bookingapp.AddOnInput{
			Code:       a.Code,
			Name:       a.Name,
			PriceCents: a.PriceCents,
		})
	}
	return out
}

func generateCommandID() string {
	return uuid.NewString()
}

var _ BookingHTTP = BookingHandler{}
