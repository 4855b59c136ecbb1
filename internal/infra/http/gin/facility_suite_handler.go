package ginserver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"petlodge/internal/app/commands"
	"petlodge/internal/app/dto"
	suitesapp "petlodge/internal/app/handlers/suites"
	"petlodge/internal/app/queries"
	domainsuites "petlodge/internal/domain/suites"
)

const maxSuitePhotoSizeBytes int64 = 10 * 1024 * 1024

type FacilitySuiteHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

func (h FacilitySuiteHandler) List(c *gin.Context) {
	principal, ok := requireFacilityStaff(c)
	if !ok {
		return
	}
	if h.Queries == nil {
		h.respondWithError(c, http.StatusServiceUnavailable, errors.New("queries bus unavailable"))
		return
	}

	limit := parseIntWithDefault(c.Query("limit"), 20)
	page := parseIntWithDefault(c.Query("page"), 1)
	offset := parseInt(c.Query("offset"))
	if offset == 0 && page > 1 {
		offset = (page - 1) * limit
	}

	query := suitesapp.ListFacilitySuitesQuery{
		FacilityID: principal.FacilityID,
		Status:     strings.TrimSpace(c.Query("status")),
		Limit:      limit,
		Offset:     offset,
	}
	result, err := queries.Ask[suitesapp.ListFacilitySuitesQuery, dto.FacilitySuiteCatalog](c.Request.Context(), h.Queries, query)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h FacilitySuiteHandler) Create(c *gin.Context) {
	principal, ok := requireFacilityStaff(c)
	if !ok {
		return
	}
	if h.Commands == nil {
		h.respondWithError(c, http.StatusServiceUnavailable, errors.New("commands bus unavailable"))
		return
	}

	var req facilitySuiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondWithError(c, http.StatusBadRequest, err)
		return
	}

	payload, err := buildSuitePayload(req)
	if err != nil {
		h.respondWithError(c, http.StatusBadRequest, err)
		return
	}

	cmd := suitesapp.CreateSuiteCommand{FacilityID: principal.FacilityID, Payload: payload}
	result, err := commands.Dispatch[suitesapp.CreateSuiteCommand, *dto.FacilitySuiteDetail](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/api/v1/facility/suites/%s", result.ID))
	c.JSON(http.StatusCreated, result)
}

func (h FacilitySuiteHandler) Get(c *gin.Context) {
	principal, ok := requireFacilityStaff(c)
	if !ok {
		return
	}
	if h.Queries == nil {
		h.respondWithError(c, http.StatusServiceUnavailable, errors.New("queries bus unavailable"))
		return
	}

	query := suitesapp.GetFacilitySuiteQuery{
		FacilityID: principal.FacilityID,
		SuiteID:    c.Param("id"),
	}
	result, err := queries.Ask[suitesapp.GetFacilitySuiteQuery, dto.FacilitySuiteDetail](c.Request.Context(), h.Queries, query)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h FacilitySuiteHandler) Update(c *gin.Context) {
	principal, ok := requireFacilityStaff(c)
	if !ok {
		return
	}
	if h.Commands == nil {
		h.respondWithError(c, http.StatusServiceUnavailable, errors.New("commands bus unavailable"))
		return
	}

	var req facilitySuiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondWithError(c, http.StatusBadRequest, err)
		return
	}

	payload, err := buildSuitePayload(req)
	if err != nil {
		h.respondWithError(c, http.StatusBadRequest, err)
		return
	}

	cmd := suitesapp.UpdateSuiteCommand{
		FacilityID: principal.FacilityID,
		SuiteID:    c.Param("id"),
		Payload:    payload,
	}
	result, err := commands.Dispatch[suitesapp.UpdateSuiteCommand, *dto.FacilitySuiteDetail](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h FacilitySuiteHandler) Activate(c *gin.Context) {
	principal, ok := requireFacilityStaff(c)
	if !ok {
		return
	}
	if h.Commands == nil {
		h.respondWithError(c, http.StatusServiceUnavailable, errors.New("commands bus unavailable"))
		return
	}

	cmd := suitesapp.ActivateSuiteCommand{
		FacilityID: principal.FacilityID,
		SuiteID:    c.Param("id"),
	}
	result, err := commands.Dispatch[suitesapp.ActivateSuiteCommand, *dto.FacilitySuiteDetail](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h FacilitySuiteHandler) Suspend(c *gin.Context) {
	principal, ok := requireFacilityStaff(c)
	if !ok {
		return
	}
	if h.Commands == nil {
		h.respondWithError(c, http.StatusServiceUnavailable, errors.New("commands bus unavailable"))
		return
	}

	var req suspendSuiteRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.respondWithError(c, http.StatusBadRequest, err)
			return
		}
	}

	cmd := suitesapp.SuspendSuiteCommand{
		FacilityID: principal.FacilityID,
		SuiteID:    c.Param("id"),
		Reason:     strings.TrimSpace(req.Reason),
	}
	result, err := commands.Dispatch[suitesapp.SuspendSuiteCommand, *dto.FacilitySuiteDetail](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h FacilitySuiteHandler) RateSuggestion(c *gin.Context) {
	principal, ok := requireFacilityStaff(c)
	if !ok {
		return
	}
	if h.Queries == nil {
		h.respondWithError(c, http.StatusServiceUnavailable, errors.New("queries bus unavailable"))
		return
	}

	var payload rateSuggestionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&payload); err != nil {
			h.respondWithError(c, http.StatusBadRequest, err)
			return
		}
	}

	checkIn, checkOut, err := parseRange(payload.CheckIn, payload.CheckOut)
	if err != nil {
		h.respondWithError(c, http.StatusBadRequest, err)
		return
	}

	query := suitesapp.SuiteRateSuggestionQuery{
		FacilityID: principal.FacilityID,
		SuiteID:    c.Param("id"),
		CheckIn:    checkIn,
		CheckOut:   checkOut,
	}
	result, err := queries.Ask[suitesapp.SuiteRateSuggestionQuery, dto.SuiteRateSuggestion](c.Request.Context(), h.Queries, query)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h FacilitySuiteHandler) UploadPhoto(c *gin.Context) {
	principal, ok := requireFacilityStaff(c)
	if !ok {
		return
	}
	if h.Commands == nil {
		h.respondWithError(c, http.StatusServiceUnavailable, errors.New("commands bus unavailable"))
		return
	}

	suiteID := strings.TrimSpace(c.Param("id"))
	if suiteID == "" {
		h.respondWithError(c, http.StatusBadRequest, errors.New("suite id is required"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.respondWithError(c, http.StatusBadRequest, fmt.Errorf("file is required: %w", err))
		return
	}
	if fileHeader.Size <= 0 {
		h.respondWithError(c, http.StatusBadRequest, errors.New("file is empty"))
		return
	}
	if fileHeader.Size > maxSuitePhotoSizeBytes {
		h.respondWithError(c, http.StatusBadRequest, fmt.Errorf("file too large (max %d MB)", maxSuitePhotoSizeBytes/1024/1024))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.respondWithError(c, http.StatusBadRequest, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxSuitePhotoSizeBytes+1024))
	if err != nil {
		h.respondWithError(c, http.StatusInternalServerError, fmt.Errorf("cannot read file: %w", err))
		return
	}
	if len(data) == 0 {
		h.respondWithError(c, http.StatusBadRequest, errors.New("file is empty"))
		return
	}
	if int64(len(data)) > maxSuitePhotoSizeBytes {
		h.respondWithError(c, http.StatusBadRequest, fmt.Errorf("file too large (max %d MB)", maxSuitePhotoSizeBytes/1024/1024))
		return
	}

	contentType := http.DetectContentType(data)
	if !isAllowedImageType(contentType) {
		h.respondWithError(c, http.StatusBadRequest, fmt.Errorf("unsupported content type: %s", contentType))
		return
	}

	objectKey := buildPhotoObjectKey(suiteID, fileHeader.Filename, contentType)
	cmd := suitesapp.UploadSuitePhotoCommand{
		FacilityID:  principal.FacilityID,
		SuiteID:     suiteID,
		ObjectKey:   objectKey,
		ContentType: contentType,
		Reader:      bytes.NewReader(data),
	}
	result, err := commands.Dispatch[suitesapp.UploadSuitePhotoCommand, *dto.SuitePhotoUploadResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h FacilitySuiteHandler) handleError(c *gin.Context, err error) {
	if errors.Is(err, suitesapp.ErrSuiteNotOwned) || errors.Is(err, domainsuites.ErrNotFound) {
		h.respondWithError(c, http.StatusNotFound, err)
		return
	}
	if isSuiteValidationError(err) {
		h.respondWithError(c, http.StatusBadRequest, err)
		return
	}
	h.respondWithError(c, http.StatusInternalServerError, err)
}

func (h FacilitySuiteHandler) respondWithError(c *gin.Context, status int, err error) {
	if h.Logger != nil {
		fields := []any{"status", status, "error", err, "path", c.FullPath()}
		if staff, ok := currentPrincipal(c); ok {
			fields = append(fields, "facility_id", staff.FacilityID)
		}
		h.Logger.Error("facility suite request failed", fields...)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func parseRange(checkInRaw, checkOutRaw string) (time.Time, time.Time, error) {
	if checkInRaw == "" && checkOutRaw == "" {
		return time.Time{}, time.Time{}, nil
	}
	checkIn, ok := parseFlexibleTime(checkInRaw)
	if checkInRaw != "" && !ok {
		return time.Time{}, time.Time{}, errors.New("check_in must be a valid date")
	}
	checkOut, ok := parseFlexibleTime(checkOutRaw)
	if checkOutRaw != "" && !ok {
		return time.Time{}, time.Time{}, errors.New("check_out must be a valid date")
	}
	return checkIn, checkOut, nil
}

func isAllowedImageType(contentType string) bool {
	switch strings.ToLower(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/webp":
		return true
	default:
		return false
	}
}

func extensionForContentType(contentType string) string {
	switch strings.ToLower(contentType) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}

func buildPhotoObjectKey(suiteID, filename, contentType string) string {
	ext := extensionForContentType(contentType)
	if ext == "" {
		ext = strings.ToLower(path.Ext(filename))
	}
	if ext == "" {
		ext = ".img"
	}
	safeSuite := sanitizePathToken(suiteID)
	return fmt.Sprintf("suites/%s/%s%s", safeSuite, uuid.NewString(), ext)
}

func sanitizePathToken(value string) string {
	if strings.TrimSpace(value) == "" {
		return "suite"
	}
	var b strings.Builder
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	result := strings.Trim(b.String(), "-")
	if result == "" {
		return "suite"
	}
	return result
}

func buildSuitePayload(req facilitySuiteRequest) (suitesapp.SuitePayload, error) {
	availableFrom := time.Time{}
	if req.AvailableFrom != "" {
		if parsed, ok := parseFlexibleTime(req.AvailableFrom); ok {
			availableFrom = parsed
		} else {
			return suitesapp.SuitePayload{}, errors.New("available_from must be a valid date")
		}
	}

	payload := suitesapp.SuitePayload{
		Name:             req.Name,
		Description:      req.Description,
		Type:             strings.TrimSpace(req.Type),
		Capacity:         req.Capacity,
		LocationCode:     strings.TrimSpace(req.LocationCode),
		Features:         cleanStrings(req.Features),
		MinNights:        req.MinNights,
		MaxNights:        req.MaxNights,
		MaxAdvanceDays:   req.MaxAdvanceDays,
		NightlyRateCents: req.NightlyRateCents,
		ThumbnailURL:     strings.TrimSpace(req.ThumbnailURL),
		AvailableFrom:    availableFrom,
		Photos:           cleanStrings(req.Photos),
	}
	return payload, nil
}

func cleanStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func isSuiteValidationError(err error) bool {
	switch {
	case errors.Is(err, domainsuites.ErrNameRequired),
		errors.Is(err, domainsuites.ErrCapacity),
		errors.Is(err, domainsuites.ErrNightsRange),
		errors.Is(err, domainsuites.ErrNightlyRate),
		errors.Is(err, domainsuites.ErrAdvanceWindow),
		errors.Is(err, domainsuites.ErrInvalidType),
		errors.Is(err, domainsuites.ErrInvalidState),
		errors.Is(err, domainsuites.ErrLocationRequired):
		return true
	}
	return false
}

type facilitySuiteRequest struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Type             string   `json:"type"`
	Capacity         int      `json:"capacity"`
	LocationCode     string   `json:"location_code"`
	Features         []string `json:"features"`
	MinNights        int      `json:"min_nights"`
	MaxNights        int      `json:"max_nights"`
	MaxAdvanceDays   int      `json:"max_advance_days"`
	NightlyRateCents int64    `json:"nightly_rate_cents"`
	ThumbnailURL     string   `json:"thumbnail_url"`
	AvailableFrom    string   `json:"available_from"`
	Photos           []string `json:"photos"`
}

type suspendSuiteRequest struct {
	Reason string `json:"reason"`
}

type rateSuggestionRequest struct {
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
}

var _ FacilitySuiteHTTP = FacilitySuiteHandler{}
