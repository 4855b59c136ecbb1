package ginserver

import (
	"errors"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"petlodge/internal/app/dto"
	availabilityapp "petlodge/internal/app/handlers/availability"
	"petlodge/internal/app/queries"
	domainrange "petlodge/internal/domain/shared/daterange"
)

type AvailabilityHandler struct {
	Queries queries.Bus
}

func (h AvailabilityHandler) Calendar(c *gin.Context) {
	suiteID := c.Param("id")
	from, _ := time.Parse(time.RFC3339, c.Query("from"))
	to, _ := time.Parse(time.RFC3339, c.Query("to"))
	query := availabilityapp.GetCalendarQuery{SuiteID: suiteID, From: from, To: to}
	result, err := queries.Ask[availabilityapp.GetCalendarQuery, dto.Calendar](c.Request.Context(), h.Queries, query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

type checkAvailabilityRequest struct {
	SuiteIDs []string  `json:"suite_ids"`
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
}

func (h AvailabilityHandler) Check(c *gin.Context) {
	var req checkAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.SuiteIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "suite_ids is required"})
		return
	}
	query := availabilityapp.CheckAvailabilityQuery{
		SuiteIDs: req.SuiteIDs,
		CheckIn:  req.CheckIn,
		CheckOut: req.CheckOut,
	}
	result, err := queries.Ask[availabilityapp.CheckAvailabilityQuery, dto.AvailabilityReport](c.Request.Context(), h.Queries, query)
	if err != nil {
		if errors.Is(err, domainrange.ErrInvalidRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ AvailabilityHTTP = AvailabilityHandler{}
