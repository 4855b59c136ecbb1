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

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"petlodge/internal/app/commands"
	"petlodge/internal/app/dto"
	petsapp "petlodge/internal/app/handlers/pets"
	"petlodge/internal/app/queries"
	domainpets "petlodge/internal/domain/pets"
)

const maxVaccinationDocSizeBytes int64 = 10 * 1024 * 1024

type PetsHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type petRequest struct {
	Name     string  `json:"name"`
	Species  string  `json:"species"`
	Breed    string  `json:"breed"`
	WeightKg float64 `json:"weight_kg"`
	Notes    string  `json:"notes"`
}

func (h PetsHandler) List(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	query := petsapp.ListPetsQuery{OwnerID: user.ID}
	result, err := queries.Ask[petsapp.ListPetsQuery, dto.PetCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Error("pets query failed", "error", err, "user_id", user.ID)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load pets"})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h PetsHandler) Register(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req petRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := petsapp.RegisterPetCommand{
		OwnerID:  user.ID,
		Name:     req.Name,
		Species:  req.Species,
		Breed:    req.Breed,
		WeightKg: req.WeightKg,
		Notes:    req.Notes,
	}
	result, err := commands.Dispatch[petsapp.RegisterPetCommand, *dto.PetDetail](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/api/v1/me/pets/%s", result.ID))
	c.JSON(http.StatusCreated, result)
}

func (h PetsHandler) Update(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req petRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := petsapp.UpdatePetCommand{
		OwnerID:  user.ID,
		PetID:    strings.TrimSpace(c.Param("id")),
		Name:     req.Name,
		Breed:    req.Breed,
		WeightKg: req.WeightKg,
		Notes:    req.Notes,
	}
	result, err := commands.Dispatch[petsapp.UpdatePetCommand, *dto.PetDetail](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h PetsHandler) UploadVaccination(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}

	petID := strings.TrimSpace(c.Param("id"))
	if petID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pet id is required"})
		return
	}
	kind := strings.TrimSpace(c.PostForm("kind"))
	if kind == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind is required"})
		return
	}
	expiresAt, ok := parseFlexibleTime(c.PostForm("expires_at"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expires_at must be a valid date"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("file is required: %v", err)})
		return
	}
	if fileHeader.Size <= 0 || fileHeader.Size > maxVaccinationDocSizeBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("file must be between 1 byte and %d MB", maxVaccinationDocSizeBytes/1024/1024)})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxVaccinationDocSizeBytes+1024))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot read file"})
		return
	}
	if len(data) == 0 || int64(len(data)) > maxVaccinationDocSizeBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is empty or too large"})
		return
	}

	contentType := http.DetectContentType(data)
	if !isAllowedDocumentType(contentType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unsupported content type: %s", contentType)})
		return
	}

	cmd := petsapp.UploadVaccinationCommand{
		OwnerID:     user.ID,
		PetID:       petID,
		Kind:        kind,
		ExpiresAt:   expiresAt,
		ObjectKey:   buildVaccinationObjectKey(petID, fileHeader.Filename, contentType),
		ContentType: contentType,
		Reader:      bytes.NewReader(data),
	}
	result, err := commands.Dispatch[petsapp.UploadVaccinationCommand, *dto.PetDetail](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h PetsHandler) handleError(c *gin.Context, err error) {
	var status int
	switch {
	case errors.Is(err, domainpets.ErrNotFound),
		errors.Is(err, domainpets.ErrNotOwner):
		status = http.StatusNotFound
	case errors.Is(err, domainpets.ErrNameRequired),
		errors.Is(err, domainpets.ErrInvalidSpecies),
		errors.Is(err, domainpets.ErrInvalidWeight):
		status = http.StatusBadRequest
	default:
		status = http.StatusInternalServerError
	}
	if h.Logger != nil && status == http.StatusInternalServerError {
		h.Logger.Error("pet request failed", "error", err, "path", c.FullPath())
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func isAllowedDocumentType(contentType string) bool {
	if isAllowedImageType(contentType) {
		return true
	}
	return strings.ToLower(contentType) == "application/pdf"
}

func buildVaccinationObjectKey(petID, filename, contentType string) string {
	ext := extensionForContentType(contentType)
	if ext == "" {
		if strings.ToLower(contentType) == "application/pdf" {
			ext = ".pdf"
		} else {
			ext = strings.ToLower(path.Ext(filename))
		}
	}
	if ext == "" {
		ext = ".doc"
	}
	return fmt.Sprintf("pets/%s/vaccinations/%s%s", sanitizePathToken(petID), uuid.NewString(), ext)
}

var _ PetsHTTP = PetsHandler{}
