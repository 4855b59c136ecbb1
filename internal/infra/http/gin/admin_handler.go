package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"petlodge/internal/app/dto"
	domainuser "petlodge/internal/domain/user"
	"petlodge/internal/infra/rates"
)

type AdminHTTP interface {
	ListUsers(c *gin.Context)
	RateModelMetrics(c *gin.Context)
}

type AdminHandler struct {
	Users   domainuser.Repository
	Metrics *rates.MetricsClient
	Logger  *slog.Logger
}

func (h AdminHandler) ListUsers(c *gin.Context) {
	principal, ok := requireRole(c, "admin")
	if !ok || principal.ID == "" {
		return
	}
	if h.Users == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "user repository unavailable"})
		return
	}

	limit := parseIntWithDefault(c.Query("limit"), 50)
	offset := parseIntWithDefault(c.Query("offset"), 0)
	users, total, err := h.Users.List(c.Request.Context(), domainuser.ListParams{
		Query:  c.Query("query"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		if h.Logger != nil {
			h.Logger.Error("list users failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot list users"})
		return
	}

	resp := dto.UserList{
		Items: make([]dto.UserProfile, 0, len(users)),
		Total: total,
	}
	for _, user := range users {
		resp.Items = append(resp.Items, dto.MapUserProfile(user))
	}
	c.JSON(http.StatusOK, resp)
}

func (h AdminHandler) RateModelMetrics(c *gin.Context) {
	if _, ok := requireRole(c, "admin"); !ok {
		return
	}
	if h.Metrics == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "rate model metrics unavailable"})
		return
	}
	result, err := h.Metrics.Fetch(c.Request.Context())
	if err != nil {
		if h.Logger != nil {
			h.Logger.Error("rate model metrics fetch failed", "error", err)
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "rate model metrics unavailable"})
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ AdminHTTP = (*AdminHandler)(nil)
